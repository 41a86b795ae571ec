package dataset

import (
	"errors"
	"fmt"
)

// Sentinel kinds for dataset errors.
var (
	ErrOpenSource   = errors.New("open dataset source failed")
	ErrEmptyDataset = errors.New("dataset contains no usable rows")
)

// SchemaError reports a malformed dataset: a missing required column or a
// file whose rows are all unusable. It is fatal at startup; the service
// must not serve predictions until the source is fixed.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset schema error: %s", e.Reason)
}

// IsSchemaError reports whether err is (or wraps) a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
