package apierrors

import "fmt"

// FormatError marks a value that could not be coerced for its declared
// field type during report formatting. Callers degrade the cell to an
// empty string rather than aborting the run.
type FormatError struct {
	Field string
	Value interface{}
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("value %v cannot be formatted for field '%s'", e.Value, e.Field)
}
