package ai

import (
	"context"
	"encoding/json"
)

// StreamEventType enumerates events surfaced while a completion streams.
type StreamEventType string

const (
	StreamEventTextDelta StreamEventType = "text_delta"
	StreamEventToolCall  StreamEventType = "tool_call"
)

// StreamEvent is one incremental completion event.
type StreamEvent struct {
	Type     StreamEventType
	Text     string
	ToolCall *ToolCall
}

// ToolDef describes a tool offered to the model.
type ToolDef struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// CompletionRequest is a single model turn. System carries the instruction
// outside the message list; JSONObject asks the provider for a bare JSON
// object response where supported.
type CompletionRequest struct {
	Model      string
	System     string
	Messages   []ChatMessage
	Tools      []ToolDef
	MaxTokens  int
	JSONObject bool
}

// CompletionResult is the terminal output of one model turn. When ToolCalls is
// non-empty the caller is expected to execute them and re-invoke.
type CompletionResult struct {
	Text      string
	ToolCalls []ToolCall
}

// Completer streams one model completion, invoking onEvent (which may be nil)
// for each incremental event before returning the accumulated result.
type Completer interface {
	StreamCompletion(ctx context.Context, req CompletionRequest, onEvent func(StreamEvent)) (CompletionResult, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req CompletionRequest, onEvent func(StreamEvent)) (CompletionResult, error)

func (f CompleterFunc) StreamCompletion(ctx context.Context, req CompletionRequest, onEvent func(StreamEvent)) (CompletionResult, error) {
	return f(ctx, req, onEvent)
}

func emitCompletionEvent(onEvent func(StreamEvent), event StreamEvent) {
	if onEvent != nil {
		onEvent(event)
	}
}
