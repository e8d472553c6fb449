package features

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"creditrisk/internal/dataset"
	"creditrisk/internal/domain"
)

type customerGroup struct {
	total   decimal.Decimal
	amounts []float64
}

// AggregateCustomer groups the batch by customer id and computes total,
// mean, count and sample standard deviation of the amounts. Rows without a
// customer id or amount are skipped. The result is sorted by customer id.
func AggregateCustomer(batch *dataset.Frame) ([]domain.CustomerAggregate, error) {
	if err := requireColumns(batch, "aggregate customer",
		domain.ColCustomerID, domain.ColAmount, domain.ColTransactionID); err != nil {
		return nil, err
	}
	customers, _ := batch.Column(domain.ColCustomerID)
	amountCol, _ := batch.Column(domain.ColAmount)
	amounts := ToNumeric(amountCol)

	groups := make(map[string]*customerGroup)
	for i := 0; i < batch.Len(); i++ {
		id := customers.StringAt(i)
		v := amounts.Num[i]
		if id == "" || math.IsNaN(v) {
			continue
		}
		g, ok := groups[id]
		if !ok {
			g = &customerGroup{}
			groups[id] = g
		}
		g.total = g.total.Add(decimal.NewFromFloat(v))
		g.amounts = append(g.amounts, v)
	}

	out := make([]domain.CustomerAggregate, 0, len(groups))
	for id, g := range groups {
		count := len(g.amounts)
		total := g.total.InexactFloat64()
		agg := domain.CustomerAggregate{
			CustomerID:  id,
			TotalAmount: total,
			AvgAmount:   g.total.Div(decimal.NewFromInt(int64(count))).InexactFloat64(),
			TxnCount:    count,
		}
		if count > 1 {
			std, err := stats.StandardDeviationSample(g.amounts)
			if err == nil && !math.IsNaN(std) {
				agg.AmountStd = std
			}
		}
		out = append(out, agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out, nil
}

// JoinAggregates left-joins the customer aggregates onto every row of the
// batch. Rows of unknown customers get missing aggregate values.
func JoinAggregates(batch *dataset.Frame, aggs []domain.CustomerAggregate) (*dataset.Frame, error) {
	if err := requireColumns(batch, "join aggregates", domain.ColCustomerID); err != nil {
		return nil, err
	}
	byID := make(map[string]domain.CustomerAggregate, len(aggs))
	for _, a := range aggs {
		byID[a.CustomerID] = a
	}
	customers, _ := batch.Column(domain.ColCustomerID)

	n := batch.Len()
	total, avg, count, std := make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		a, ok := byID[customers.StringAt(i)]
		if !ok {
			total[i], avg[i], count[i], std[i] = math.NaN(), math.NaN(), math.NaN(), math.NaN()
			continue
		}
		total[i], avg[i], count[i], std[i] = a.TotalAmount, a.AvgAmount, float64(a.TxnCount), a.AmountStd
	}

	out := batch
	var err error
	for _, col := range []*dataset.Column{
		dataset.NumericColumn(domain.ColTotalAmount, total),
		dataset.NumericColumn(domain.ColAvgAmount, avg),
		dataset.NumericColumn(domain.ColTxnCount, count),
		dataset.NumericColumn(domain.ColAmountStd, std),
	} {
		if out, err = out.With(col); err != nil {
			return nil, err
		}
	}
	return out, nil
}
