// Package preprocess turns a feature frame into the dense matrix a
// classifier consumes.
//
// Fitting and applying are separate steps: Fit learns imputation values,
// scales and vocabularies from training rows and returns a Fitted value
// that is never changed afterwards. Transform applies it to any frame with
// the same columns, so training and scoring see identical encodings.
package preprocess

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/montanaflynn/stats"

	"creditrisk/internal/dataset"
	"creditrisk/internal/domain"
)

// Spec lists the columns fed to the model by kind.
type Spec struct {
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
}

// Columns returns every column of the spec, numeric first.
func (s Spec) Columns() []string {
	out := make([]string, 0, len(s.Numeric)+len(s.Categorical))
	out = append(out, s.Numeric...)
	return append(out, s.Categorical...)
}

func (s Spec) validate() error {
	if len(s.Numeric)+len(s.Categorical) == 0 {
		return errors.New("preprocess spec has no columns")
	}
	seen := map[string]bool{}
	for _, name := range s.Columns() {
		if seen[name] {
			return errors.Newf("column %q listed twice in preprocess spec", name)
		}
		seen[name] = true
	}
	return nil
}

// NumericStats are the learned parameters of one numeric column.
type NumericStats struct {
	Name  string  `json:"name"`
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

// CategoricalStats are the learned parameters of one categorical column.
type CategoricalStats struct {
	Name       string   `json:"name"`
	Mode       string   `json:"mode"`
	Vocabulary []string `json:"vocabulary"`
}

// Fitted is a learned preprocessing transform. Treat it as read-only; it
// is shared by concurrent scorers.
type Fitted struct {
	Spec        Spec               `json:"spec"`
	Numeric     []NumericStats     `json:"numeric"`
	Categorical []CategoricalStats `json:"categorical"`
}

// Fit learns the transform from frame. Numeric columns are mean-imputed
// and standardized with the population deviation; a constant column keeps
// scale 1. Categorical columns are imputed with their most frequent value
// (lexicographically smallest on ties) and one-hot encoded over the sorted
// vocabulary seen here.
func Fit(spec Spec, frame *dataset.Frame) (*Fitted, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	if missing := frame.Missing(spec.Columns()...); len(missing) > 0 {
		return nil, domain.MissingColumnError("preprocess fit", missing)
	}

	fitted := &Fitted{Spec: spec}
	for _, name := range spec.Numeric {
		col, _ := frame.Column(name)
		if col.Kind != dataset.Numeric {
			return nil, errors.Newf("column %q is %s, want numeric", name, col.Kind)
		}
		st, err := fitNumeric(col)
		if err != nil {
			return nil, errors.Wrapf(err, "fit %s", name)
		}
		fitted.Numeric = append(fitted.Numeric, st)
	}
	for _, name := range spec.Categorical {
		col, _ := frame.Column(name)
		if col.Kind != dataset.Categorical {
			return nil, errors.Newf("column %q is %s, want categorical", name, col.Kind)
		}
		fitted.Categorical = append(fitted.Categorical, fitCategorical(col))
	}
	return fitted, nil
}

// isMissing reports whether a numeric value is imputed. Infinities count as
// missing so they never reach the fitted statistics.
func isMissing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

func fitNumeric(col *dataset.Column) (NumericStats, error) {
	observed := make([]float64, 0, col.Len())
	for _, v := range col.Num {
		if !isMissing(v) {
			observed = append(observed, v)
		}
	}
	st := NumericStats{Name: col.Name, Scale: 1}
	if len(observed) == 0 {
		return st, nil
	}
	mean, err := stats.Mean(observed)
	if err != nil {
		return st, err
	}
	std, err := stats.StandardDeviationPopulation(observed)
	if err != nil {
		return st, err
	}
	st.Mean = mean
	if std > 0 {
		st.Scale = std
	}
	return st, nil
}

func fitCategorical(col *dataset.Column) CategoricalStats {
	counts := map[string]int{}
	for _, v := range col.Str {
		if v != "" {
			counts[v]++
		}
	}
	vocab := make([]string, 0, len(counts))
	for v := range counts {
		vocab = append(vocab, v)
	}
	sort.Strings(vocab)

	mode := ""
	for _, v := range vocab {
		if mode == "" || counts[v] > counts[mode] {
			mode = v
		}
	}
	return CategoricalStats{Name: col.Name, Mode: mode, Vocabulary: vocab}
}

// Width is the number of output features per row.
func (f *Fitted) Width() int {
	w := len(f.Numeric)
	for _, c := range f.Categorical {
		w += len(c.Vocabulary)
	}
	return w
}

// FeatureNames names the output columns, e.g. "Amount" or
// "CountryCode=256".
func (f *Fitted) FeatureNames() []string {
	names := make([]string, 0, f.Width())
	for _, n := range f.Numeric {
		names = append(names, n.Name)
	}
	for _, c := range f.Categorical {
		for _, v := range c.Vocabulary {
			names = append(names, c.Name+"="+v)
		}
	}
	return names
}

// Transform encodes every row of frame. Values never seen during Fit
// encode as all zeros in their one-hot block.
func (f *Fitted) Transform(frame *dataset.Frame) ([][]float64, error) {
	if missing := frame.Missing(f.Spec.Columns()...); len(missing) > 0 {
		return nil, domain.MissingColumnError("preprocess transform", missing)
	}

	width := f.Width()
	rows := make([][]float64, frame.Len())
	for i := range rows {
		rows[i] = make([]float64, width)
	}

	offset := 0
	for _, st := range f.Numeric {
		col, _ := frame.Column(st.Name)
		if col.Kind != dataset.Numeric {
			return nil, errors.Newf("column %q is %s, want numeric", st.Name, col.Kind)
		}
		for i, v := range col.Num {
			if isMissing(v) {
				v = st.Mean
			}
			rows[i][offset] = (v - st.Mean) / st.Scale
		}
		offset++
	}
	for _, st := range f.Categorical {
		col, _ := frame.Column(st.Name)
		if col.Kind != dataset.Categorical {
			return nil, errors.Newf("column %q is %s, want categorical", st.Name, col.Kind)
		}
		for i, v := range col.Str {
			if v == "" {
				v = st.Mode
			}
			if j := sort.SearchStrings(st.Vocabulary, v); j < len(st.Vocabulary) && st.Vocabulary[j] == v {
				rows[i][offset+j] = 1
			}
		}
		offset += len(st.Vocabulary)
	}
	return rows, nil
}

// InferSpec builds a spec from the column kinds of frame: numeric columns
// become numeric features and categorical columns categorical ones. Time
// columns, identifier columns and the names in exclude are skipped.
func InferSpec(frame *dataset.Frame, exclude ...string) Spec {
	skip := map[string]bool{}
	for _, n := range domain.IdentifierColumns {
		skip[n] = true
	}
	for _, n := range exclude {
		skip[n] = true
	}

	var spec Spec
	for _, col := range frame.Columns() {
		if skip[col.Name] {
			continue
		}
		switch col.Kind {
		case dataset.Numeric:
			spec.Numeric = append(spec.Numeric, col.Name)
		case dataset.Categorical:
			spec.Categorical = append(spec.Categorical, col.Name)
		}
	}
	return spec
}
