package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/mabhisheksingh/AgenticAI/internal/ai/tools"
)

func mathRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	r := tools.NewRegistry()
	if err := tools.RegisterMathTools(r); err != nil {
		t.Fatalf("RegisterMathTools: %v", err)
	}
	return r
}

func TestWorkerPlainAnswer(t *testing.T) {
	t.Parallel()

	completer := CompleterFunc(func(ctx context.Context, req CompletionRequest, onEvent func(StreamEvent)) (CompletionResult, error) {
		if req.System == "" {
			t.Errorf("worker request without a system instruction")
		}
		emitCompletionEvent(onEvent, StreamEvent{Type: StreamEventTextDelta, Text: "Paris"})
		return CompletionResult{Text: "Paris"}, nil
	})
	w := NewWorker(WorkerOptions{Capability: CapabilityResearch, Completer: completer, Model: "test-model"})

	var streamed strings.Builder
	out, err := w.Run(context.Background(), "capital of France?", "", func(d string) { streamed.WriteString(d) }, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "Paris" || streamed.String() != "Paris" {
		t.Fatalf("out=%q streamed=%q", out, streamed.String())
	}
}

func TestWorkerToolLoop(t *testing.T) {
	t.Parallel()

	round := 0
	completer := CompleterFunc(func(ctx context.Context, req CompletionRequest, onEvent func(StreamEvent)) (CompletionResult, error) {
		round++
		switch round {
		case 1:
			if len(req.Tools) == 0 {
				t.Errorf("no tool definitions passed to the model")
			}
			call := ToolCall{ID: "c1", Name: "multiply", Args: map[string]any{"a": 3.0, "b": 99.8}}
			emitCompletionEvent(onEvent, StreamEvent{Type: StreamEventToolCall, ToolCall: &call})
			return CompletionResult{ToolCalls: []ToolCall{call}}, nil
		default:
			// The tool result was spliced back into the transcript.
			last := req.Messages[len(req.Messages)-1]
			if last.Role != RoleUser || !strings.Contains(last.Content.PlainText(), "Result of multiply: 299.4") {
				t.Errorf("tool result not spliced: %+v", last)
			}
			return CompletionResult{Text: "3 * 99.8 = 299.4"}, nil
		}
	})
	w := NewWorker(WorkerOptions{
		Capability: CapabilityMath,
		Completer:  completer,
		Model:      "test-model",
		Registry:   mathRegistry(t),
		ToolNames:  []string{"add", "multiply", "divide"},
	})

	var toolNames []string
	out, err := w.Run(context.Background(), "what is 3 * 99.8?", "", nil, func(name string) { toolNames = append(toolNames, name) })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "3 * 99.8 = 299.4" {
		t.Fatalf("out=%q", out)
	}
	if len(toolNames) != 1 || toolNames[0] != "multiply" {
		t.Fatalf("tool announcements=%v", toolNames)
	}
	if round != 2 {
		t.Fatalf("completer rounds=%d, want 2", round)
	}
}

func TestWorkerToolErrorSplicedAsText(t *testing.T) {
	t.Parallel()

	round := 0
	completer := CompleterFunc(func(ctx context.Context, req CompletionRequest, onEvent func(StreamEvent)) (CompletionResult, error) {
		round++
		if round == 1 {
			return CompletionResult{ToolCalls: []ToolCall{{ID: "c1", Name: "divide", Args: map[string]any{"a": 1.0, "b": 0.0}}}}, nil
		}
		last := req.Messages[len(req.Messages)-1].Content.PlainText()
		if !strings.Contains(last, "error:") || !strings.Contains(last, "division by zero") {
			t.Errorf("tool error not surfaced to the model: %q", last)
		}
		return CompletionResult{Text: "Division by zero is undefined."}, nil
	})
	w := NewWorker(WorkerOptions{
		Capability: CapabilityMath,
		Completer:  completer,
		Model:      "test-model",
		Registry:   mathRegistry(t),
		ToolNames:  []string{"divide"},
	})

	out, err := w.Run(context.Background(), "1/0?", "", nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "Division by zero is undefined." {
		t.Fatalf("out=%q", out)
	}
}

func TestWorkerRoundLimit(t *testing.T) {
	t.Parallel()

	completer := CompleterFunc(func(ctx context.Context, req CompletionRequest, onEvent func(StreamEvent)) (CompletionResult, error) {
		return CompletionResult{ToolCalls: []ToolCall{{ID: "c", Name: "add", Args: map[string]any{"a": 1.0, "b": 1.0}}}}, nil
	})
	w := NewWorker(WorkerOptions{
		Capability: CapabilityMath,
		Completer:  completer,
		Model:      "test-model",
		Registry:   mathRegistry(t),
		ToolNames:  []string{"add"},
	})

	if _, err := w.Run(context.Background(), "loop forever", "", nil, nil); err == nil {
		t.Fatalf("Run accepted an endless tool loop")
	}
}

func TestWorkerHistorySummaryPrefixed(t *testing.T) {
	t.Parallel()

	completer := CompleterFunc(func(ctx context.Context, req CompletionRequest, onEvent func(StreamEvent)) (CompletionResult, error) {
		input := req.Messages[0].Content.PlainText()
		if !strings.HasPrefix(input, "Conversation summary so far:\nUser likes short answers.") {
			t.Errorf("summary not prefixed:\n%s", input)
		}
		if !strings.Contains(input, "Task: follow-up question") {
			t.Errorf("task missing:\n%s", input)
		}
		return CompletionResult{Text: "ok"}, nil
	})
	w := NewWorker(WorkerOptions{Capability: CapabilityResearch, Completer: completer, Model: "test-model"})

	if _, err := w.Run(context.Background(), "follow-up question", "User likes short answers.", nil, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestWorkerEmptyCompletionIsError(t *testing.T) {
	t.Parallel()

	completer := CompleterFunc(func(ctx context.Context, req CompletionRequest, onEvent func(StreamEvent)) (CompletionResult, error) {
		return CompletionResult{Text: "   "}, nil
	})
	w := NewWorker(WorkerOptions{Capability: CapabilityCode, Completer: completer, Model: "test-model"})

	if _, err := w.Run(context.Background(), "q", "", nil, nil); err == nil {
		t.Fatalf("Run accepted an empty completion")
	}
}
