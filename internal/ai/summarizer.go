package ai

import (
	"context"
	"log/slog"
	"strings"
)

const (
	summarizeThreshold  = 6
	summarizeKeepRecent = 3
)

// Summarizer compacts long conversation histories: once a thread exceeds the
// threshold, everything but the most recent messages is folded into a prose
// summary kept alongside the message list.
type Summarizer struct {
	completer Completer
	model     string
	log       *slog.Logger
}

func NewSummarizer(completer Completer, model string, log *slog.Logger) *Summarizer {
	if log == nil {
		log = slog.Default()
	}
	return &Summarizer{completer: completer, model: model, log: log}
}

// MaybeSummarize returns the trimmed message list and the summary of what was
// dropped. Below the threshold it returns the input untouched. Summarization
// failure is not fatal: the older messages are dropped and the summary is
// empty.
func (s *Summarizer) MaybeSummarize(ctx context.Context, messages []ChatMessage) ([]ChatMessage, string) {
	if len(messages) <= summarizeThreshold {
		return messages, ""
	}
	recent := messages[len(messages)-summarizeKeepRecent:]
	transcript := renderTranscript(messages[:len(messages)-summarizeKeepRecent])

	if s == nil || s.completer == nil {
		return recent, ""
	}
	result, err := s.completer.StreamCompletion(ctx, CompletionRequest{
		Model:    s.model,
		System:   summaryInstruction,
		Messages: []ChatMessage{UserMessage(transcript + "\n\nSummary:")},
	}, nil)
	if err != nil {
		s.log.Warn("history summarization failed, keeping recent messages only", "error", err)
		return recent, ""
	}
	summary := strings.TrimSpace(result.Text)
	if summary == "" {
		return recent, ""
	}
	return recent, summary
}

func renderTranscript(messages []ChatMessage) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		role := strings.TrimSpace(msg.Role)
		if role == "" {
			role = RoleUser
		}
		lines = append(lines, role+": "+msg.Content.PlainText())
	}
	return strings.Join(lines, "\n")
}
