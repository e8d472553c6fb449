package model

import (
	"math"
	"math/rand"
)

// Boosting is gradient-boosted regression trees on the log-loss. Each
// stage fits a shallow tree to the residuals and takes a Newton step in
// every leaf.
type Boosting struct {
	Stages       int      `json:"stages"`
	MaxDepth     int      `json:"max_depth"`
	LearningRate float64  `json:"learning_rate"`
	Seed         int64    `json:"seed"`
	Init         float64  `json:"init"`
	Trees        []*Tree  `json:"trees"`
	Constant     *float64 `json:"constant,omitempty"`
}

// NewBoosting returns 100 depth-3 stages at learning rate 0.1.
func NewBoosting(seed int64) *Boosting {
	return &Boosting{Stages: 100, MaxDepth: 3, LearningRate: 0.1, Seed: seed}
}

func (b *Boosting) Kind() Kind { return GradientBoosting }

func (b *Boosting) Fit(x [][]float64, y []int) error {
	if err := checkTrainingSet(x, y); err != nil {
		return err
	}
	b.Trees, b.Constant = nil, nil
	rate := positiveRate(y)
	if rate == 0 || rate == 1 {
		b.Constant = &rate
		return nil
	}

	b.Init = math.Log(rate / (1 - rate))
	raw := make([]float64, len(x))
	for i := range raw {
		raw[i] = b.Init
	}
	residual := make([]float64, len(x))
	hess := make([]float64, len(x))
	all := make([]int, len(x))
	for i := range all {
		all[i] = i
	}

	rng := rand.New(rand.NewSource(b.Seed))
	for s := 0; s < b.Stages; s++ {
		for i := range raw {
			p := sigmoid(raw[i])
			residual[i] = float64(y[i]) - p
			hess[i] = p * (1 - p)
		}
		g := &treeGrower{
			x:        x,
			target:   residual,
			maxDepth: b.MaxDepth,
			minLeaf:  1,
			rng:      rng,
			leaf:     newtonStep(residual, hess),
		}
		tree := g.build(all)
		b.Trees = append(b.Trees, tree)
		for i, row := range x {
			raw[i] += b.LearningRate * tree.Predict(row)
		}
	}
	return nil
}

func newtonStep(residual, hess []float64) func(idx []int) float64 {
	return func(idx []int) float64 {
		var num, den float64
		for _, i := range idx {
			num += residual[i]
			den += hess[i]
		}
		if den < 1e-12 {
			return 0
		}
		return num / den
	}
}

func (b *Boosting) PredictProba(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		if b.Constant != nil {
			out[i] = *b.Constant
			continue
		}
		raw := b.Init
		for _, t := range b.Trees {
			raw += b.LearningRate * t.Predict(row)
		}
		out[i] = sigmoid(raw)
	}
	return out
}
