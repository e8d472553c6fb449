package model

// Logistic is L2-regularized logistic regression fitted by batch gradient
// descent.
type Logistic struct {
	Iterations   int       `json:"iterations"`
	LearningRate float64   `json:"learning_rate"`
	L2           float64   `json:"l2"`
	Weights      []float64 `json:"weights"`
	Bias         float64   `json:"bias"`
	// Constant is set when the training labels had a single class; the
	// model then predicts that class's rate.
	Constant *float64 `json:"constant,omitempty"`
}

// NewLogistic returns a logistic regression with 1000 iterations.
func NewLogistic() *Logistic {
	return &Logistic{Iterations: 1000, LearningRate: 0.1, L2: 1}
}

func (l *Logistic) Kind() Kind { return LogisticRegression }

func (l *Logistic) Fit(x [][]float64, y []int) error {
	if err := checkTrainingSet(x, y); err != nil {
		return err
	}
	l.Constant = nil
	if rate := positiveRate(y); rate == 0 || rate == 1 {
		l.Constant = &rate
		l.Weights = make([]float64, len(x[0]))
		l.Bias = 0
		return nil
	}

	n := float64(len(x))
	w := make([]float64, len(x[0]))
	b := 0.0
	grad := make([]float64, len(w))
	for it := 0; it < l.Iterations; it++ {
		for j := range grad {
			grad[j] = 0
		}
		gb := 0.0
		for i, row := range x {
			err := sigmoid(dot(w, row)+b) - float64(y[i])
			for j, v := range row {
				grad[j] += err * v
			}
			gb += err
		}
		for j := range w {
			w[j] -= l.LearningRate * (grad[j]/n + l.L2*w[j]/n)
		}
		b -= l.LearningRate * gb / n
	}
	l.Weights, l.Bias = w, b
	return nil
}

func (l *Logistic) PredictProba(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		if l.Constant != nil {
			out[i] = *l.Constant
			continue
		}
		out[i] = sigmoid(dot(l.Weights, row) + l.Bias)
	}
	return out
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
