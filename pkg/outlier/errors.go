package outlier

import (
	"fmt"
	"strings"
)

// ColumnNotFoundError is returned when the requested column does not exist.
type ColumnNotFoundError struct {
	Column    string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("column %q not found", e.Column)
	}
	return fmt.Sprintf("column %q not found\nAvailable columns: %s", e.Column, strings.Join(e.Available, ", "))
}

// NonNumericColumnError is returned when the column values cannot be ordered
// and interpolated numerically.
type NonNumericColumnError struct {
	Column string
	Type   string
}

func (e *NonNumericColumnError) Error() string {
	return fmt.Sprintf("column %q is not numeric (type %s)", e.Column, e.Type)
}

// EmptyDatasetError is returned when there are no values to compute quartiles from:
// the dataset has zero rows or the column holds only missing values.
type EmptyDatasetError struct {
	Column string
}

func (e *EmptyDatasetError) Error() string {
	if e.Column == "" {
		return "empty dataset: quantiles are undefined"
	}
	return fmt.Sprintf("empty dataset: column %q has no values to compute quantiles from", e.Column)
}
