package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUnknownAction      = errors.New("unknown action")
	ErrInvalidCode        = errors.New("invalid grant code")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

// ValidationError reports a missing or malformed request field. Its message
// is returned to the caller as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError returns a ValidationError carrying msg.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
