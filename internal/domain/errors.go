package domain

import "errors"

// ErrNotFound signals that a referenced article, comment, or source does not
// exist in storage.
var ErrNotFound = errors.New("not found")

// ValidationError rejects a comment submission with a user-displayable reason.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a comment validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
