package gateway

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"creditrisk/internal/dataset"
)

// CSVFrameWriter writes frames as CSV with a header row.
type CSVFrameWriter struct{}

// NewCSVFrameWriter creates a new writer.
func NewCSVFrameWriter() *CSVFrameWriter {
	return &CSVFrameWriter{}
}

// WriteFrame writes frame to path, creating parent directories. Missing
// values are written as empty fields.
func (w *CSVFrameWriter) WriteFrame(ctx context.Context, path string, frame *dataset.Frame) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(frame.Names()); err != nil {
		return errors.Wrapf(err, "failed to write header to %s", path)
	}
	cols := frame.Columns()
	record := make([]string, len(cols))
	for i := 0; i < frame.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for j, c := range cols {
			record[j] = c.StringAt(i)
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrapf(err, "failed to write row %d to %s", i, path)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrapf(err, "failed to flush %s", path)
	}
	return file.Close()
}
