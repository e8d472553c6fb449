package labeling

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditrisk/internal/dataset"
	"creditrisk/internal/domain"
)

func txnFrame(customers, amounts, times []string) *dataset.Frame {
	ids := make([]string, len(customers))
	for i := range ids {
		ids[i] = fmt.Sprintf("T%d", i)
	}
	return dataset.MustNew(
		dataset.CategoricalColumn(domain.ColTransactionID, ids),
		dataset.CategoricalColumn(domain.ColCustomerID, customers),
		dataset.CategoricalColumn(domain.ColAmount, amounts),
		dataset.CategoricalColumn(domain.ColTimestamp, times),
	)
}

func TestBuildRFM(t *testing.T) {
	batch := txnFrame(
		[]string{"A", "A", "B"},
		[]string{"100", "50", "10"},
		[]string{"2024-01-01T00:00:00Z", "2024-01-05T00:00:00Z", "2024-01-10T00:00:00Z"},
	)

	rfm, snap, err := BuildRFM(batch, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), snap)
	assert.Equal(t, []domain.RFM{
		{CustomerID: "A", Recency: 6, Frequency: 2, Monetary: 150},
		{CustomerID: "B", Recency: 1, Frequency: 1, Monetary: 10},
	}, rfm)

	explicit := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	rfm, snap, err = BuildRFM(batch, &explicit)
	require.NoError(t, err)
	assert.Equal(t, explicit, snap)
	assert.Equal(t, 27, rfm[0].Recency)
}

func TestBuildRFM_DefaultSnapshotKeepsRecencyNonNegative(t *testing.T) {
	batch := txnFrame(
		[]string{"A", "B", "C"},
		[]string{"1", "2", "3"},
		[]string{"2024-03-01T23:59:59Z", "2024-03-01T00:00:00Z", "2023-12-31T12:00:00Z"},
	)
	rfm, _, err := BuildRFM(batch, nil)
	require.NoError(t, err)
	for _, r := range rfm {
		assert.GreaterOrEqual(t, r.Recency, 0, r.CustomerID)
	}
}

func TestBuildRFM_NonFiniteAmountsAreSkipped(t *testing.T) {
	batch := txnFrame(
		[]string{"A", "A", "A"},
		[]string{"100", "inf", "-Infinity"},
		[]string{"2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z", "2024-01-03T00:00:00Z"},
	)

	var rfm []domain.RFM
	var err error
	require.NotPanics(t, func() { rfm, _, err = BuildRFM(batch, nil) })
	require.NoError(t, err)
	require.Len(t, rfm, 1)
	// Frequency still counts the transactions; only their amounts are missing.
	assert.Equal(t, 3, rfm[0].Frequency)
	assert.Equal(t, 100.0, rfm[0].Monetary)
}

func TestBuildRFM_Errors(t *testing.T) {
	_, _, err := BuildRFM(txnFrame(nil, nil, nil).Drop(domain.ColTimestamp), nil)
	assert.True(t, errors.Is(err, domain.ErrMissingColumn))

	_, _, err = BuildRFM(txnFrame([]string{"A"}, []string{"1"}, []string{"never"}), nil)
	assert.True(t, errors.Is(err, domain.ErrEmptyBatch))
}

// segmentedRFM has three obvious groups: loyal, occasional and dormant.
func segmentedRFM() []domain.RFM {
	var rfm []domain.RFM
	for i := 0; i < 4; i++ {
		rfm = append(rfm,
			domain.RFM{CustomerID: fmt.Sprintf("loyal-%d", i), Recency: 1 + i%2, Frequency: 40 + i, Monetary: 5000 + float64(100*i)},
			domain.RFM{CustomerID: fmt.Sprintf("occasional-%d", i), Recency: 15 + i, Frequency: 12 + i, Monetary: 1200 + float64(50*i)},
			domain.RFM{CustomerID: fmt.Sprintf("dormant-%d", i), Recency: 80 + i, Frequency: 1 + i%2, Monetary: 20 + float64(i)},
		)
	}
	return rfm
}

func TestLabelHighRisk_FlagsLeastFrequentCluster(t *testing.T) {
	rfm := segmentedRFM()

	labels, err := LabelHighRisk(rfm, 42)
	require.NoError(t, err)
	require.Len(t, labels, len(rfm))

	for i, l := range labels {
		assert.Equal(t, rfm[i].CustomerID, l.CustomerID)
		want := 0
		if rfm[i].Frequency <= 2 {
			want = 1
		}
		assert.Equal(t, want, l.HighRisk, l.CustomerID)
	}
}

func TestLabelHighRisk_EveryCustomerOnceWithBinaryFlag(t *testing.T) {
	rfm := segmentedRFM()
	labels, err := LabelHighRisk(rfm, 7)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, l := range labels {
		seen[l.CustomerID]++
		assert.Contains(t, []int{0, 1}, l.HighRisk)
	}
	assert.Len(t, seen, len(rfm))
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}

func TestLabelHighRisk_Reproducible(t *testing.T) {
	rfm := segmentedRFM()
	first, err := LabelHighRisk(rfm, 42)
	require.NoError(t, err)
	second, err := LabelHighRisk(rfm, 42)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLabelHighRisk_FewCustomers(t *testing.T) {
	rfm := []domain.RFM{
		{CustomerID: "A", Recency: 1, Frequency: 10, Monetary: 100},
		{CustomerID: "B", Recency: 30, Frequency: 1, Monetary: 5},
	}
	labels, err := LabelHighRisk(rfm, 42)
	require.NoError(t, err)
	assert.Equal(t, 0, labels[0].HighRisk)
	assert.Equal(t, 1, labels[1].HighRisk)

	_, err = LabelHighRisk(nil, 42)
	assert.True(t, errors.Is(err, domain.ErrEmptyBatch))
}

func TestLabelHighRisk_ConstantDimensions(t *testing.T) {
	rfm := []domain.RFM{
		{CustomerID: "A", Recency: 3, Frequency: 2, Monetary: 10},
		{CustomerID: "B", Recency: 3, Frequency: 2, Monetary: 10},
		{CustomerID: "C", Recency: 3, Frequency: 2, Monetary: 10},
		{CustomerID: "D", Recency: 3, Frequency: 2, Monetary: 10},
	}
	labels, err := LabelHighRisk(rfm, 42)
	require.NoError(t, err)
	assert.Len(t, labels, 4)
}

func TestSummarize(t *testing.T) {
	rfm := segmentedRFM()
	labels, err := LabelHighRisk(rfm, 42)
	require.NoError(t, err)

	summaries := Summarize(rfm, labels)
	require.Len(t, summaries, 3)
	total, risky := 0, 0
	for _, s := range summaries {
		total += s.Customers
		if s.HighRisk {
			risky++
			assert.LessOrEqual(t, s.MedianFrequency, 2.0)
		}
	}
	assert.Equal(t, len(rfm), total)
	assert.Equal(t, 1, risky)
}

func TestJoinLabels(t *testing.T) {
	batch := txnFrame([]string{"A", "B", "Z"}, []string{"1", "2", "3"}, []string{"", "", ""})
	out, err := JoinLabels(batch, []domain.RiskLabel{
		{CustomerID: "A", HighRisk: 1},
		{CustomerID: "B", HighRisk: 0},
	})
	require.NoError(t, err)

	flags, _ := out.Column(domain.ColHighRisk)
	assert.Equal(t, 1.0, flags.Num[0])
	assert.Equal(t, 0.0, flags.Num[1])
	assert.True(t, math.IsNaN(flags.Num[2]))
}

func TestKMeans_RejectsBadK(t *testing.T) {
	_, err := KMeans{K: 3}.Fit([][]float64{{1}, {2}})
	assert.Error(t, err)
}
