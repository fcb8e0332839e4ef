package client

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse means a 2xx reply did not carry the expected JSON.
var ErrMalformedResponse = errors.New("malformed response body")

// TransportError wraps a failure to reach the backend at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx reply. Detail holds the body's "detail"
// field when present, otherwise the status text.
type StatusError struct {
	Op     string
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP error! status: %d, detail: %s", e.Op, e.Code, e.Detail)
}
