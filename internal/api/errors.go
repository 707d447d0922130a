package api

import (
	"errors"
	"fmt"
)

// Op names the remote call that failed.
type Op string

const (
	OpFetch  Op = "fetch"
	OpCreate Op = "create"
	OpDelete Op = "delete"
	OpUpdate Op = "update"
)

// ErrStatus is wrapped when the server answered with a non-2xx status.
var ErrStatus = errors.New("unexpected status")

// Error is returned by every Client method. StatusCode is zero when the
// request never got a response.
type Error struct {
	Op         Op
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := e.Op.message()
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (op Op) message() string {
	switch op {
	case OpFetch:
		return "Failed to fetch todos"
	case OpCreate:
		return "Failed to add todo"
	case OpDelete:
		return "Failed to delete todo"
	case OpUpdate:
		return "Failed to update todo"
	default:
		return "Request failed"
	}
}

// IsOp reports whether err is an *Error raised by op.
func IsOp(err error, op Op) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Op == op
}

func statusError(op Op, code int) error {
	return &Error{Op: op, StatusCode: code, Err: fmt.Errorf("%w: %d", ErrStatus, code)}
}

func wrapError(op Op, err error) error {
	return &Error{Op: op, Err: err}
}
