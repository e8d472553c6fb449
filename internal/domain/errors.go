package domain

import (
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrSchema marks a batch that lacks required fields.
	ErrSchema = errors.New("schema error")
	// ErrMissingColumn marks an operation whose input column is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrEmptyBatch is returned when a batch holds no rows.
	ErrEmptyBatch = errors.New("empty batch")
	// ErrInvalidInput marks a rejected prediction request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a stored record does not exist.
	ErrNotFound = errors.New("not found")
)

// SchemaError names the required fields absent from a batch.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// InputError explains why a prediction request was rejected.
type InputError struct {
	Missing []string
	Invalid []string
}

func (e *InputError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	return "invalid prediction request: " + strings.Join(parts, "; ")
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// MissingColumnError reports the columns an operation needed but did not get.
func MissingColumnError(op string, columns []string) error {
	return errors.Wrapf(ErrMissingColumn, "%s: %s", op, strings.Join(columns, ", "))
}
