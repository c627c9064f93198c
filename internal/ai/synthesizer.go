package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Synthesizer folds the ordered sub-query results into one user-facing answer.
type Synthesizer struct {
	completer Completer
	model     string
	log       *slog.Logger
}

func NewSynthesizer(completer Completer, model string, log *slog.Logger) *Synthesizer {
	if log == nil {
		log = slog.Default()
	}
	return &Synthesizer{completer: completer, model: model, log: log}
}

// Synthesize streams the final answer through onDelta (which may be nil) and
// returns it. A single result passes through untouched. Completion failure
// falls back to joining the raw results, so the turn still produces an answer.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, results []SubqueryResult, onDelta func(string)) string {
	if len(results) == 0 {
		return ""
	}
	emit := func(text string) {
		if onDelta != nil && text != "" {
			onDelta(text)
		}
	}
	if len(results) == 1 {
		answer := strings.TrimSpace(results[0].Result)
		emit(answer)
		return answer
	}

	joined := joinResults(results)
	if s == nil || s.completer == nil {
		emit(joined)
		return joined
	}

	var streamed strings.Builder
	result, err := s.completer.StreamCompletion(ctx, CompletionRequest{
		Model:    s.model,
		System:   synthesisInstruction,
		Messages: []ChatMessage{UserMessage(synthesisInput(query, results))},
	}, func(ev StreamEvent) {
		if ev.Type == StreamEventTextDelta {
			streamed.WriteString(ev.Text)
			emit(ev.Text)
		}
	})
	if err != nil || strings.TrimSpace(result.Text) == "" {
		s.log.Warn("final response synthesis failed, joining raw results", "error", err)
		if streamed.Len() == 0 {
			emit(joined)
		}
		return joined
	}
	return strings.TrimSpace(result.Text)
}

func synthesisInput(query string, results []SubqueryResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Original query: %s\n\n", query)
	for i, res := range results {
		fmt.Fprintf(&b, "Step %d (%s): %s\nResult: %s\n\n", i+1, res.Capability, res.SubQuery, res.Result)
	}
	return strings.TrimSpace(b.String())
}

func joinResults(results []SubqueryResult) string {
	parts := make([]string, 0, len(results))
	for _, res := range results {
		if txt := strings.TrimSpace(res.Result); txt != "" {
			parts = append(parts, txt)
		}
	}
	return strings.Join(parts, "\n\n")
}
