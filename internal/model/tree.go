package model

import (
	"math/rand"
	"sort"
)

// Node is one node of a binary decision tree. Leaves have Left == -1.
type Node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Value     float64 `json:"v"`
}

// Tree is a flattened decision tree rooted at node 0. Rows go left when
// x[Feature] <= Threshold.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Predict returns the leaf value reached by x.
func (t *Tree) Predict(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Left < 0 {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// treeGrower builds a tree that minimizes the squared error of target.
// For 0/1 targets this is the same split choice as Gini impurity.
type treeGrower struct {
	x           [][]float64
	target      []float64
	maxDepth    int // 0 means unlimited
	minLeaf     int
	maxFeatures int // 0 means all
	rng         *rand.Rand
	leaf        func(idx []int) float64
	nodes       []Node
}

func (g *treeGrower) build(idx []int) *Tree {
	g.nodes = nil
	if g.minLeaf < 1 {
		g.minLeaf = 1
	}
	g.grow(idx, 0)
	return &Tree{Nodes: g.nodes}
}

func (g *treeGrower) grow(idx []int, depth int) int {
	id := len(g.nodes)
	g.nodes = append(g.nodes, Node{Left: -1, Right: -1, Value: g.leaf(idx)})

	if len(idx) < 2*g.minLeaf || (g.maxDepth > 0 && depth >= g.maxDepth) || g.pure(idx) {
		return id
	}
	feature, threshold, ok := g.bestSplit(idx)
	if !ok {
		return id
	}

	var left, right []int
	for _, i := range idx {
		if g.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	l := g.grow(left, depth+1)
	r := g.grow(right, depth+1)
	g.nodes[id].Feature = feature
	g.nodes[id].Threshold = threshold
	g.nodes[id].Left = l
	g.nodes[id].Right = r
	return id
}

func (g *treeGrower) pure(idx []int) bool {
	first := g.target[idx[0]]
	for _, i := range idx[1:] {
		if g.target[i] != first {
			return false
		}
	}
	return true
}

func (g *treeGrower) candidateFeatures() []int {
	width := len(g.x[0])
	if g.maxFeatures <= 0 || g.maxFeatures >= width {
		all := make([]int, width)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return g.rng.Perm(width)[:g.maxFeatures]
}

func (g *treeGrower) bestSplit(idx []int) (int, float64, bool) {
	n := float64(len(idx))
	var sum, sq float64
	for _, i := range idx {
		sum += g.target[i]
		sq += g.target[i] * g.target[i]
	}
	parent := sq - sum*sum/n

	bestFeature, bestThreshold, best := -1, 0.0, parent-1e-12
	sorted := make([]int, len(idx))
	for _, f := range g.candidateFeatures() {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool { return g.x[sorted[a]][f] < g.x[sorted[b]][f] })

		var ls, lsq float64
		for k := 0; k < len(sorted)-1; k++ {
			v := g.target[sorted[k]]
			ls += v
			lsq += v * v
			lo, hi := g.x[sorted[k]][f], g.x[sorted[k+1]][f]
			if lo == hi {
				continue
			}
			ln := float64(k + 1)
			rn := n - ln
			if int(ln) < g.minLeaf || int(rn) < g.minLeaf {
				continue
			}
			rs, rsq := sum-ls, sq-lsq
			sse := (lsq - ls*ls/ln) + (rsq - rs*rs/rn)
			if sse < best {
				bestFeature, bestThreshold, best = f, lo+(hi-lo)/2, sse
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func meanOf(target []float64) func(idx []int) float64 {
	return func(idx []int) float64 {
		s := 0.0
		for _, i := range idx {
			s += target[i]
		}
		return s / float64(len(idx))
	}
}
