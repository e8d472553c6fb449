package labeling

import (
	"math"
	"math/rand"

	"github.com/cockroachdb/errors"
)

// KMeans partitions points with Lloyd's algorithm from k-means++ seeds.
// The best of Restarts runs (lowest inertia) is kept. A fixed Seed makes
// the partition reproducible.
type KMeans struct {
	K        int
	Restarts int
	MaxIter  int
	Seed     int64
}

// Clustering is the outcome of a k-means fit.
type Clustering struct {
	Assign  []int
	Centers [][]float64
	Inertia float64
}

// Fit clusters points. K must lie in [1, len(points)].
func (km KMeans) Fit(points [][]float64) (*Clustering, error) {
	if km.K < 1 || km.K > len(points) {
		return nil, errors.Newf("k-means: k=%d with %d points", km.K, len(points))
	}
	restarts, maxIter := km.Restarts, km.MaxIter
	if restarts < 1 {
		restarts = 1
	}
	if maxIter < 1 {
		maxIter = 300
	}

	rng := rand.New(rand.NewSource(km.Seed))
	var best *Clustering
	for r := 0; r < restarts; r++ {
		c := km.lloyd(points, seedCenters(points, km.K, rng), maxIter)
		if best == nil || c.Inertia < best.Inertia {
			best = c
		}
	}
	return best, nil
}

func (km KMeans) lloyd(points, centers [][]float64, maxIter int) *Clustering {
	assign := make([]int, len(points))
	for i := range assign {
		assign[i] = -1
	}
	dim := len(points[0])

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			j, _ := nearest(p, centers)
			if assign[i] != j {
				assign[i] = j
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([][]float64, km.K)
		counts := make([]int, km.K)
		for j := range sums {
			sums[j] = make([]float64, dim)
		}
		for i, p := range points {
			counts[assign[i]]++
			for d, v := range p {
				sums[assign[i]][d] += v
			}
		}
		for j := range centers {
			// An empty cluster keeps its previous center.
			if counts[j] == 0 {
				continue
			}
			for d := range sums[j] {
				centers[j][d] = sums[j][d] / float64(counts[j])
			}
		}
	}

	inertia := 0.0
	for i, p := range points {
		inertia += sqDist(p, centers[assign[i]])
	}
	return &Clustering{Assign: assign, Centers: centers, Inertia: inertia}
}

// seedCenters picks k initial centers with the k-means++ rule.
func seedCenters(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	centers = append(centers, clone(points[rng.Intn(len(points))]))

	dist := make([]float64, len(points))
	for len(centers) < k {
		total := 0.0
		for i, p := range points {
			_, d := nearest(p, centers)
			dist[i] = d
			total += d
		}

		next := rng.Intn(len(points))
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, d := range dist {
				acc += d
				if acc >= target && d > 0 {
					next = i
					break
				}
			}
		}
		centers = append(centers, clone(points[next]))
	}
	return centers
}

// nearest returns the index of the closest center (lowest index on ties)
// and the squared distance to it.
func nearest(p []float64, centers [][]float64) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for j, c := range centers {
		if d := sqDist(p, c); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best, bestDist
}

func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func clone(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}
