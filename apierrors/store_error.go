package apierrors

import "fmt"

// StoreError wraps a failure coming back from the backing collection store.
// The cause is preserved for logging; the engine never retries.
type StoreError struct {
	msg   string
	cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.cause.Error())
}

func (e *StoreError) Unwrap() error {
	return e.cause
}

func NewStoreError(text string, cause error) error {
	return &StoreError{text, cause}
}
