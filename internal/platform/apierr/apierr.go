package apierr

import (
	"errors"
	"fmt"
)

// CodeTransport marks a failed call to the quiz API: a non-2xx status, a
// network error, or an undecodable body.
const CodeTransport = "transport_failure"

type Error struct {
	Status int
	Code   string
	Op     string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	prefix := e.Op
	if prefix == "" {
		prefix = "api"
	}
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("%s: http %d: %v", prefix, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: http %d", prefix, e.Status)
	case e.Code != "":
		return fmt.Sprintf("%s: %s", prefix, e.Code)
	default:
		return prefix + ": api error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

func Transport(op string, status int, err error) *Error {
	return &Error{Status: status, Code: CodeTransport, Op: op, Err: err}
}

func IsTransport(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeTransport
}
