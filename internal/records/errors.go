package records

import (
	"errors"
	"fmt"
)

var (
	// ErrBadResponse means the remote store answered with a non-success status.
	ErrBadResponse = errors.New("bad response")
	// ErrNotFound is returned by local stores when an id does not exist.
	ErrNotFound = errors.New("record not found")
)

// Error is the single error type every store returns. Callers only need to know
// that the operation failed; the cause is kept for logs.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("record store %s failed", e.Op)
	}
	return fmt.Sprintf("record store %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Fail wraps err as a store error for op. A nil err stays nil and an existing
// *Error is returned unchanged.
func Fail(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Err: err}
}

// BadStatus builds the cause for an unexpected HTTP status.
func BadStatus(code int) error {
	return fmt.Errorf("%w: status %d", ErrBadResponse, code)
}

// IsStoreError reports whether err came from a record store.
func IsStoreError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}
