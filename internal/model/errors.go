package model

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrGenerationFailed  = errors.New("generation failed")
	ErrUploadFailed      = errors.New("upload failed")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError identifies the malformed field of a request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// StoreError wraps a document database failure. It matches ErrStoreUnavailable.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStoreUnavailable, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
