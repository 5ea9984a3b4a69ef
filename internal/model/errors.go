package model

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when an operation is triggered while another is in flight.
var ErrBusy = errors.New("another request is already in progress")

// TransportError is a network failure or a non-success HTTP status.
// Message is the diagnostic decoded from the body, or one synthesized from the status.
type TransportError struct {
	StatusCode int // zero for network failures
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ExtractionError means the backend reported it could not interpret the query.
type ExtractionError struct {
	Message string
}

func (e *ExtractionError) Error() string {
	return e.Message
}

// InvalidInputError means the preferences response was well-formed JSON but
// lacked required fields and carried no diagnostic.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

// UnexpectedError wraps anything else that went wrong during a call, such as
// a body that is not JSON.
type UnexpectedError struct {
	Op  string
	Err error
}

func (e *UnexpectedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// UserMessage reduces err to the single string shown to the user.
// fallback is used for unexpected errors, whose details stay in the logs.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Message
	}
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee.Message
	}
	var ie *InvalidInputError
	if errors.As(err, &ie) {
		return ie.Message
	}
	if errors.Is(err, ErrBusy) {
		return ErrBusy.Error()
	}
	return fallback
}
