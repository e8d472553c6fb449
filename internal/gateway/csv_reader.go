package gateway

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"creditrisk/internal/dataset"
	"creditrisk/internal/domain"
)

// textColumns always load as categorical even when every value is a number.
var textColumns = map[string]bool{
	domain.ColCountryCode:  true,
	domain.ColCurrencyCode: true,
	"ProviderId":           true,
	"ProductId":            true,
	"ProductCategory":      true,
	"ChannelId":            true,
}

func init() {
	for _, c := range domain.IdentifierColumns {
		textColumns[c] = true
	}
}

// CSVTransactionRepository reads transaction batches from CSV files with a
// header row.
type CSVTransactionRepository struct{}

// NewCSVTransactionRepository creates a new repository instance.
func NewCSVTransactionRepository() *CSVTransactionRepository {
	return &CSVTransactionRepository{}
}

// LoadTransactions reads a raw transaction file. It fails when any column
// holds no value at all.
func (r *CSVTransactionRepository) LoadTransactions(ctx context.Context, path string) (*dataset.Frame, error) {
	frame, err := r.ReadFrame(ctx, path)
	if err != nil {
		return nil, err
	}
	if frame.Len() == 0 {
		return frame, nil
	}
	for _, col := range frame.Columns() {
		if col.MissingCount() == frame.Len() {
			return nil, errors.Newf("column %q in %s is entirely empty", col.Name, path)
		}
	}
	return frame, nil
}

// ReadFrame reads any CSV file into a frame keyed by header name. Columns
// whose non-empty values are mostly numbers load as numeric, except the
// known code and identifier columns, which stay text.
func (r *CSVTransactionRepository) ReadFrame(ctx context.Context, path string) (*dataset.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open transaction file %s", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read header from %s", path)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	values := make([][]string, len(header))
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "error reading record from %s", path)
		}
		for i, v := range record {
			values[i] = append(values[i], strings.TrimSpace(v))
		}
	}

	cols := make([]*dataset.Column, len(header))
	for i, name := range header {
		if values[i] == nil {
			values[i] = []string{}
		}
		cols[i] = typedColumn(name, values[i])
	}
	frame, err := dataset.New(cols...)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid header in %s", path)
	}
	return frame, nil
}

// typedColumn loads a column as numeric when most of its non-empty cells
// are numbers. The remaining cells, and NaN or infinite literals, become
// missing.
func typedColumn(name string, raw []string) *dataset.Column {
	if textColumns[name] {
		return dataset.CategoricalColumn(name, raw)
	}
	nums := make([]float64, len(raw))
	numeric, text := 0, 0
	for i, s := range raw {
		if s == "" {
			nums[i] = math.NaN()
			continue
		}
		v, ok := dataset.ParseNumber(s)
		if ok {
			numeric++
		} else {
			text++
		}
		nums[i] = v
	}
	if numeric == 0 || text >= numeric {
		return dataset.CategoricalColumn(name, raw)
	}
	return dataset.NumericColumn(name, nums)
}
