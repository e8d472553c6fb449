// Package labeling derives a proxy credit-risk label when the input has no
// observed default flag.
//
// Customers are clustered on standardized recency, frequency and monetary
// value; the least frequent cluster is called high risk. The label is an
// artifact of the clustering: it moves with the seed, the cluster count and
// any drift in the input, and it has not been validated against real
// defaults. Consumers must treat it as such.
package labeling

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/montanaflynn/stats"

	"creditrisk/internal/dataset"
	"creditrisk/internal/domain"
)

// DefaultClusters is the number of RFM segments.
const DefaultClusters = 3

// LabelHighRisk clusters the RFM table and flags the cluster with the lowest
// mean frequency. Every customer of rfm appears exactly once in the output,
// in the same order. With fewer customers than clusters each customer gets
// its own cluster.
func LabelHighRisk(rfm []domain.RFM, seed int64) ([]domain.RiskLabel, error) {
	if len(rfm) == 0 {
		return nil, errors.Wrap(domain.ErrEmptyBatch, "label high risk")
	}

	points, err := standardize(rfm)
	if err != nil {
		return nil, err
	}

	k := DefaultClusters
	if len(rfm) < k {
		k = len(rfm)
	}
	clustering, err := KMeans{K: k, Restarts: 10, MaxIter: 300, Seed: seed}.Fit(points)
	if err != nil {
		return nil, err
	}

	sums := make([]float64, k)
	counts := make([]int, k)
	for i, r := range rfm {
		c := clustering.Assign[i]
		sums[c] += float64(r.Frequency)
		counts[c]++
	}
	highRisk, lowest := -1, math.Inf(1)
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			continue
		}
		if mean := sums[c] / float64(counts[c]); mean < lowest {
			highRisk, lowest = c, mean
		}
	}

	labels := make([]domain.RiskLabel, len(rfm))
	for i, r := range rfm {
		c := clustering.Assign[i]
		labels[i] = domain.RiskLabel{CustomerID: r.CustomerID, Cluster: c}
		if c == highRisk {
			labels[i].HighRisk = 1
		}
	}
	return labels, nil
}

// standardize scales each RFM dimension to zero mean and unit population
// variance. Constant dimensions are only centered.
func standardize(rfm []domain.RFM) ([][]float64, error) {
	dims := [3][]float64{}
	for _, r := range rfm {
		dims[0] = append(dims[0], float64(r.Recency))
		dims[1] = append(dims[1], float64(r.Frequency))
		dims[2] = append(dims[2], r.Monetary)
	}

	var means, scales [3]float64
	for d, values := range dims {
		mean, err := stats.Mean(values)
		if err != nil {
			return nil, errors.Wrap(err, "rfm mean")
		}
		std, err := stats.StandardDeviationPopulation(values)
		if err != nil {
			return nil, errors.Wrap(err, "rfm standard deviation")
		}
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		means[d], scales[d] = mean, std
	}

	points := make([][]float64, len(rfm))
	for i := range rfm {
		points[i] = []float64{
			(dims[0][i] - means[0]) / scales[0],
			(dims[1][i] - means[1]) / scales[1],
			(dims[2][i] - means[2]) / scales[2],
		}
	}
	return points, nil
}

// Summary describes one cluster for reporting.
type Summary struct {
	Cluster         int
	Customers       int
	HighRisk        bool
	MedianRecency   float64
	MedianFrequency float64
	MedianMonetary  float64
}

// Summarize reports per-cluster medians so operators can see what the
// proxy label is actually separating.
func Summarize(rfm []domain.RFM, labels []domain.RiskLabel) []Summary {
	byCluster := map[int]*[3][]float64{}
	risk := map[int]bool{}
	maxCluster := -1
	for i, l := range labels {
		d, ok := byCluster[l.Cluster]
		if !ok {
			d = &[3][]float64{}
			byCluster[l.Cluster] = d
		}
		d[0] = append(d[0], float64(rfm[i].Recency))
		d[1] = append(d[1], float64(rfm[i].Frequency))
		d[2] = append(d[2], rfm[i].Monetary)
		risk[l.Cluster] = l.HighRisk == 1
		if l.Cluster > maxCluster {
			maxCluster = l.Cluster
		}
	}

	var out []Summary
	for c := 0; c <= maxCluster; c++ {
		d, ok := byCluster[c]
		if !ok {
			continue
		}
		s := Summary{Cluster: c, Customers: len(d[0]), HighRisk: risk[c]}
		s.MedianRecency, _ = stats.Median(d[0])
		s.MedianFrequency, _ = stats.Median(d[1])
		s.MedianMonetary, _ = stats.Median(d[2])
		out = append(out, s)
	}
	return out
}

// JoinLabels attaches the is_high_risk flag to every transaction row by
// customer id. Rows of unlabelled customers get a missing flag.
func JoinLabels(batch *dataset.Frame, labels []domain.RiskLabel) (*dataset.Frame, error) {
	customers, ok := batch.Column(domain.ColCustomerID)
	if !ok {
		return nil, domain.MissingColumnError("join labels", []string{domain.ColCustomerID})
	}
	byID := make(map[string]int, len(labels))
	for _, l := range labels {
		byID[l.CustomerID] = l.HighRisk
	}

	flags := make([]float64, batch.Len())
	for i := range flags {
		if v, ok := byID[customers.StringAt(i)]; ok {
			flags[i] = float64(v)
		} else {
			flags[i] = math.NaN()
		}
	}
	return batch.With(dataset.NumericColumn(domain.ColHighRisk, flags))
}
