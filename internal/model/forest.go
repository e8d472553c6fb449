package model

import (
	"math"
	"math/rand"
)

// Forest is a random forest of CART trees grown on bootstrap samples, each
// split considering a random subset of sqrt(features) columns.
type Forest struct {
	Trees    int     `json:"n_trees"`
	MinLeaf  int     `json:"min_leaf"`
	MaxDepth int     `json:"max_depth"`
	Seed     int64   `json:"seed"`
	Members  []*Tree `json:"trees"`
}

// NewForest returns a 100-tree forest.
func NewForest(seed int64) *Forest {
	return &Forest{Trees: 100, MinLeaf: 1, Seed: seed}
}

func (f *Forest) Kind() Kind { return RandomForest }

func (f *Forest) Fit(x [][]float64, y []int) error {
	if err := checkTrainingSet(x, y); err != nil {
		return err
	}
	target := make([]float64, len(y))
	for i, v := range y {
		target[i] = float64(v)
	}
	maxFeatures := int(math.Sqrt(float64(len(x[0]))))
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	f.Members = make([]*Tree, 0, f.Trees)
	for t := 0; t < f.Trees; t++ {
		rng := rand.New(rand.NewSource(f.Seed + int64(t)))
		sample := make([]int, len(x))
		for i := range sample {
			sample[i] = rng.Intn(len(x))
		}
		g := &treeGrower{
			x:           x,
			target:      target,
			maxDepth:    f.MaxDepth,
			minLeaf:     f.MinLeaf,
			maxFeatures: maxFeatures,
			rng:         rng,
			leaf:        meanOf(target),
		}
		f.Members = append(f.Members, g.build(sample))
	}
	return nil
}

func (f *Forest) PredictProba(x [][]float64) []float64 {
	out := make([]float64, len(x))
	if len(f.Members) == 0 {
		return out
	}
	for i, row := range x {
		s := 0.0
		for _, t := range f.Members {
			s += t.Predict(row)
		}
		out[i] = s / float64(len(f.Members))
	}
	return out
}
