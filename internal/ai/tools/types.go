package tools

import (
	"context"
	"encoding/json"
	"strings"
)

// Handler executes one tool invocation and returns the textual result fed
// back to the model.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Definition describes a callable tool: its model-facing contract plus the
// handler that implements it.
type Definition struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}

// ErrorCode is a stable, machine-readable tool error code.
type ErrorCode string

const (
	ErrorCodeNotFound    ErrorCode = "NOT_FOUND"
	ErrorCodeInvalidArgs ErrorCode = "INVALID_ARGS"
	ErrorCodeUnavailable ErrorCode = "UNAVAILABLE"
	ErrorCodeUnknown     ErrorCode = "UNKNOWN"
)

// ToolError carries structured tool failure metadata.
type ToolError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *ToolError) Error() string {
	if e == nil {
		return ""
	}
	return string(e.Code) + ": " + e.Message
}

func (e *ToolError) Normalize() {
	if e == nil {
		return
	}
	e.Message = strings.TrimSpace(e.Message)
	if e.Message == "" {
		e.Message = "Tool failed"
	}
	if e.Code == "" {
		e.Code = ErrorCodeUnknown
	}
}

func newToolError(code ErrorCode, message string) *ToolError {
	err := &ToolError{Code: code, Message: message}
	err.Normalize()
	return err
}
