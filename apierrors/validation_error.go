package apierrors

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func NewValidationError(text string) error {
	return &ValidationError{text}
}
