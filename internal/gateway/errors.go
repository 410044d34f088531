package gateway

import (
	"errors"
	"fmt"
)

var ErrRequestFailed = errors.New("request failed")

// RequestFailedError is returned for transport errors, non success statuses and
// response bodies that do not match the operation's schema.
type RequestFailedError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestFailedError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: server returned %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, ErrRequestFailed)
	}
}

func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

func (e *RequestFailedError) Is(target error) bool {
	return target == ErrRequestFailed
}
