package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSynthesizeSingleResultPassesThrough(t *testing.T) {
	t.Parallel()

	completer := CompleterFunc(func(ctx context.Context, req CompletionRequest, onEvent func(StreamEvent)) (CompletionResult, error) {
		t.Error("completer invoked for a single result")
		return CompletionResult{}, nil
	})
	s := NewSynthesizer(completer, "test-model", nil)

	var emitted strings.Builder
	answer := s.Synthesize(context.Background(), "q", []SubqueryResult{
		{SubQuery: "q", Capability: CapabilityMath, Result: "  42  "},
	}, func(d string) { emitted.WriteString(d) })
	if answer != "42" {
		t.Fatalf("answer=%q, want trimmed pass-through", answer)
	}
	if emitted.String() != "42" {
		t.Fatalf("emitted=%q, want the answer", emitted.String())
	}
}

func TestSynthesizeMultiStreams(t *testing.T) {
	t.Parallel()

	completer := CompleterFunc(func(ctx context.Context, req CompletionRequest, onEvent func(StreamEvent)) (CompletionResult, error) {
		input := req.Messages[0].Content.PlainText()
		if !strings.Contains(input, "Original query: combined question") {
			t.Errorf("synthesis input missing the original query:\n%s", input)
		}
		if !strings.Contains(input, "Step 1 (research)") || !strings.Contains(input, "Step 2 (math)") {
			t.Errorf("synthesis input missing ordered steps:\n%s", input)
		}
		for _, part := range []string{"The ", "final ", "answer."} {
			emitCompletionEvent(onEvent, StreamEvent{Type: StreamEventTextDelta, Text: part})
		}
		return CompletionResult{Text: "The final answer."}, nil
	})
	s := NewSynthesizer(completer, "test-model", nil)

	var emitted strings.Builder
	answer := s.Synthesize(context.Background(), "combined question", []SubqueryResult{
		{SubQuery: "a", Capability: CapabilityResearch, Result: "fact"},
		{SubQuery: "b", Capability: CapabilityMath, Result: "84"},
	}, func(d string) { emitted.WriteString(d) })
	if answer != "The final answer." {
		t.Fatalf("answer=%q", answer)
	}
	if emitted.String() != "The final answer." {
		t.Fatalf("emitted=%q", emitted.String())
	}
}

func TestSynthesizeFailureJoinsResults(t *testing.T) {
	t.Parallel()

	completer := CompleterFunc(func(ctx context.Context, req CompletionRequest, onEvent func(StreamEvent)) (CompletionResult, error) {
		return CompletionResult{}, errors.New("model down")
	})
	s := NewSynthesizer(completer, "test-model", nil)

	var emitted strings.Builder
	answer := s.Synthesize(context.Background(), "q", []SubqueryResult{
		{SubQuery: "a", Capability: CapabilityResearch, Result: "fact"},
		{SubQuery: "b", Capability: CapabilityMath, Result: "84"},
	}, func(d string) { emitted.WriteString(d) })
	if answer != "fact\n\n84" {
		t.Fatalf("answer=%q, want joined results", answer)
	}
	if emitted.String() != "fact\n\n84" {
		t.Fatalf("emitted=%q, want the fallback emitted once", emitted.String())
	}
}

func TestSynthesizeNoResults(t *testing.T) {
	t.Parallel()

	s := NewSynthesizer(nil, "test-model", nil)
	if answer := s.Synthesize(context.Background(), "q", nil, nil); answer != "" {
		t.Fatalf("answer=%q for no results, want empty", answer)
	}
}
