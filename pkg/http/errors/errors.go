package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Kind classifies an error by where it was raised.
type Kind int

const (
	// KindInputValidation is raised locally before any request is made.
	KindInputValidation Kind = iota + 1
	// KindNetwork wraps a transport failure (request never got an answer).
	KindNetwork
	// KindApplication is a backend answer with a non-2xx status or success=false.
	KindApplication
)

func (k Kind) String() string {
	switch k {
	case KindInputValidation:
		return "input_validation"
	case KindNetwork:
		return "network"
	case KindApplication:
		return "application"
	default:
		return "unknown"
	}
}

// ErrorResponse is the error payload returned by the backend.
// Older endpoints only fill Error with a human readable message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

// Text returns the most descriptive message in the payload.
func (r ErrorResponse) Text() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Error
}

// Error is the single error type surfaced to users.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Field   string
	Status  int   // HTTP status, application errors only
	Err     error // wrapped cause (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation creates an input validation error.
func Validation(code, field, message string) *Error {
	return &Error{
		Kind:    KindInputValidation,
		Code:    code,
		Field:   field,
		Message: message,
	}
}

// Network wraps a transport failure.
func Network(op string, err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Code:    ErrCodeRequestFailed,
		Message: op + " failed",
		Err:     err,
	}
}

// InvalidPayload reports a response body that could not be decoded.
func InvalidPayload(op string, err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Code:    ErrCodeInvalidPayload,
		Message: "decode " + op + " response",
		Err:     err,
	}
}

// Application creates a backend-reported error.
func Application(status int, code, message string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{
		Kind:    KindApplication,
		Code:    code,
		Status:  status,
		Message: message,
	}
}

// FromResponse turns a non-2xx response into an application error. The body is
// read but not closed.
func FromResponse(resp *http.Response) *Error {
	code := ErrCodeUpstreamError
	if resp.StatusCode == http.StatusNotFound {
		code = ErrCodeNotFound
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload ErrorResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Application(resp.StatusCode, code, strings.TrimSpace(string(body)))
	}

	e := Application(resp.StatusCode, code, payload.Text())
	e.Field = payload.Field
	return e
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// HasCode reports whether err carries an *Error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// UserMessage renders err the way it is shown to users.
func UserMessage(err error) string {
	var e *Error
	if !stderrors.As(err, &e) {
		return "Error: " + err.Error()
	}
	switch e.Kind {
	case KindNetwork:
		if e.Err != nil {
			return fmt.Sprintf("Error: %s: %v", e.Message, e.Err)
		}
		return "Error: " + e.Message
	default:
		return "Error: " + e.Message
	}
}
