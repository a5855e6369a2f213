package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind classifies failures of the tool integration.
type ErrorKind string

const (
	KindInvalidArgument             ErrorKind = "InvalidArgument"
	KindUnknownTool                 ErrorKind = "UnknownTool"
	KindToolExecutionFailed         ErrorKind = "ToolExecutionFailed"
	KindReasoningServiceUnavailable ErrorKind = "ReasoningServiceUnavailable"
)

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrInvalidArgument             = &Error{Kind: KindInvalidArgument}
	ErrUnknownTool                 = &Error{Kind: KindUnknownTool}
	ErrToolExecutionFailed         = &Error{Kind: KindToolExecutionFailed}
	ErrReasoningServiceUnavailable = &Error{Kind: KindReasoningServiceUnavailable}
)

// Error is the typed failure carried through dispatch and orchestration.
type Error struct {
	Kind      ErrorKind
	Tool      string
	Message   string
	Status    int  // HTTP status from the tool endpoint, when there was one
	Retryable bool // transport timeouts and 5xx from the reasoning service
	Err       error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Tool != "" {
		msg += " " + e.Tool
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// MarshalJSON renders the error in the {"error": ...} shape used on the wire,
// extended with the kind so the reasoning service can tell failures apart.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Error     string    `json:"error"`
		Kind      ErrorKind `json:"kind"`
		Tool      string    `json:"tool,omitempty"`
		Retryable bool      `json:"retryable,omitempty"`
	}{
		Error:     e.Error(),
		Kind:      e.Kind,
		Tool:      e.Tool,
		Retryable: e.Retryable,
	})
}

// InvalidArgument builds an InvalidArgument error for tool.
func InvalidArgument(tool, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Tool: tool, Message: fmt.Sprintf(format, args...)}
}

// UnknownTool builds an UnknownTool error for name.
func UnknownTool(name string) *Error {
	return &Error{Kind: KindUnknownTool, Tool: name, Message: "tool is not registered"}
}

// AsError extracts the typed error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsRetryable reports whether err is a typed error flagged retryable.
func IsRetryable(err error) bool {
	e, ok := AsError(err)
	return ok && e.Retryable
}
