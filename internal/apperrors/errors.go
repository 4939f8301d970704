package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrCyclicParent indicates that a group registration would introduce a cycle
// into the group hierarchy.
var ErrCyclicParent = fmt.Errorf("%w: cyclic parent chain", ErrValidation)

// ErrImmutableNature indicates an attempt to change a group's nature after
// vouchers already reference ledgers under it. Allowing the change would
// silently reclassify every historical posting.
var ErrImmutableNature = fmt.Errorf("%w: group nature is immutable once referenced by postings", ErrValidation)

// AppError carries an HTTP-ish status code alongside the wrapped cause.
// Used by the persistence layer where failures are infrastructure, not
// domain rejections.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
