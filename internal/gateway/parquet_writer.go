package gateway

import (
	"context"
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/cockroachdb/errors"

	"creditrisk/internal/domain"
)

var aggregateSchema = arrow.NewSchema([]arrow.Field{
	{Name: "customer_id", Type: arrow.BinaryTypes.String},
	{Name: domain.ColTotalAmount, Type: arrow.PrimitiveTypes.Float64},
	{Name: domain.ColAvgAmount, Type: arrow.PrimitiveTypes.Float64},
	{Name: domain.ColTxnCount, Type: arrow.PrimitiveTypes.Int64},
	{Name: domain.ColAmountStd, Type: arrow.PrimitiveTypes.Float64},
}, nil)

// ParquetAggregateWriter exports per-customer aggregates as a parquet file.
type ParquetAggregateWriter struct {
	pool memory.Allocator
}

// NewParquetAggregateWriter creates a writer backed by the Go allocator.
func NewParquetAggregateWriter() *ParquetAggregateWriter {
	return &ParquetAggregateWriter{pool: memory.NewGoAllocator()}
}

// WriteAggregates writes aggs to path as a single snappy-compressed row
// group.
func (w *ParquetAggregateWriter) WriteAggregates(ctx context.Context, path string, aggs []domain.CustomerAggregate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	builder := array.NewRecordBuilder(w.pool, aggregateSchema)
	defer builder.Release()

	ids := builder.Field(0).(*array.StringBuilder)
	totals := builder.Field(1).(*array.Float64Builder)
	avgs := builder.Field(2).(*array.Float64Builder)
	counts := builder.Field(3).(*array.Int64Builder)
	stds := builder.Field(4).(*array.Float64Builder)
	for _, a := range aggs {
		ids.Append(a.CustomerID)
		totals.Append(a.TotalAmount)
		avgs.Append(a.AvgAmount)
		counts.Append(int64(a.TxnCount))
		stds.Append(a.AmountStd)
	}
	record := builder.NewRecord()
	defer record.Release()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer file.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	writer, err := pqarrow.NewFileWriter(aggregateSchema, file, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return errors.Wrap(err, "failed to create parquet writer")
	}
	if err := writer.Write(record); err != nil {
		writer.Close()
		return errors.Wrapf(err, "failed to write aggregates to %s", path)
	}
	// Close also closes the underlying file.
	if err := writer.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", path)
	}
	return nil
}
