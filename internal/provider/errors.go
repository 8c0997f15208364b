package provider

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrTransport           = errors.New("gamma: transport failure")
	ErrRequestFailed       = errors.New("gamma: request failed")
	ErrDecode              = errors.New("gamma: malformed response")
	ErrMissingGenerationID = errors.New("response has no generationId")
)

// maxErrorBody bounds how much of a response body is echoed in Error().
const maxErrorBody = 512

// TransportError reports a failure to complete the HTTP exchange at all:
// connection errors, timeouts, cancellation or a body that could not be read.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gamma: %s: transport failure: %v", e.Operation, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause so callers can
// test for context.Canceled as well as ErrTransport.
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// RequestError reports a non-2xx response.  Body holds the full response text.
type RequestError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("gamma: %s: API returned status %d", e.Operation, e.StatusCode)
	if e.Body != "" {
		body := e.Body
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody] + "..."
		}
		msg = fmt.Sprintf("%s: %s", msg, body)
	}
	return msg
}

func (e *RequestError) Unwrap() error {
	return ErrRequestFailed
}

// DecodeError reports a 2xx response whose body could not be understood.
type DecodeError struct {
	Operation string
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("gamma: %s: malformed response: %v", e.Operation, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}
