package features

import (
	"creditrisk/internal/dataset"
	"creditrisk/internal/domain"
)

// ValidateSchema fails with a *domain.SchemaError naming every required
// field the batch lacks. A valid batch is returned unchanged.
func ValidateSchema(batch *dataset.Frame) (*dataset.Frame, error) {
	if missing := batch.Missing(domain.RequiredColumns...); len(missing) > 0 {
		return nil, &domain.SchemaError{Missing: missing}
	}
	return batch, nil
}

func requireColumns(batch *dataset.Frame, op string, names ...string) error {
	if missing := batch.Missing(names...); len(missing) > 0 {
		return domain.MissingColumnError(op, missing)
	}
	return nil
}
