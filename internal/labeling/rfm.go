package labeling

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"creditrisk/internal/dataset"
	"creditrisk/internal/domain"
	"creditrisk/internal/features"
)

type rfmGroup struct {
	last     time.Time
	count    int
	monetary decimal.Decimal
}

// BuildRFM computes recency, frequency and monetary value per customer.
// When snapshot is nil it defaults to one day after the latest timestamp in
// the batch, so every recency is non-negative. The effective snapshot is
// returned alongside the table, which is sorted by customer id.
func BuildRFM(batch *dataset.Frame, snapshot *time.Time) ([]domain.RFM, time.Time, error) {
	if missing := batch.Missing(domain.ColCustomerID, domain.ColTimestamp, domain.ColAmount); len(missing) > 0 {
		return nil, time.Time{}, domain.MissingColumnError("build rfm", missing)
	}
	parsed, err := features.ParseTimestamps(batch)
	if err != nil {
		return nil, time.Time{}, err
	}
	customers, _ := parsed.Column(domain.ColCustomerID)
	times, _ := parsed.Column(domain.ColTimestamp)
	amountCol, _ := parsed.Column(domain.ColAmount)
	amounts := features.ToNumeric(amountCol)

	groups := make(map[string]*rfmGroup)
	var latest time.Time
	for i := 0; i < parsed.Len(); i++ {
		id := customers.StringAt(i)
		ts := times.Times[i]
		if id == "" || ts.IsZero() {
			continue
		}
		g, ok := groups[id]
		if !ok {
			g = &rfmGroup{}
			groups[id] = g
		}
		g.count++
		if ts.After(g.last) {
			g.last = ts
		}
		if v := amounts.Num[i]; !math.IsNaN(v) {
			g.monetary = g.monetary.Add(decimal.NewFromFloat(v))
		}
		if ts.After(latest) {
			latest = ts
		}
	}
	if len(groups) == 0 {
		return nil, time.Time{}, domain.ErrEmptyBatch
	}

	snap := latest.Add(24 * time.Hour)
	if snapshot != nil {
		snap = *snapshot
	}

	out := make([]domain.RFM, 0, len(groups))
	for id, g := range groups {
		out = append(out, domain.RFM{
			CustomerID: id,
			Recency:    int(math.Floor(snap.Sub(g.last).Hours() / 24)),
			Frequency:  g.count,
			Monetary:   g.monetary.InexactFloat64(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out, snap, nil
}
