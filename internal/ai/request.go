package ai

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const maxThreadLabelWords = 10

// ChatRequest is the inbound chat payload. A nil ThreadID starts a new thread.
type ChatRequest struct {
	ThreadID    *uuid.UUID `json:"threadId,omitempty"`
	ThreadLabel string     `json:"threadLabel"`
	Message     string     `json:"message"`
}

// Normalize trims fields, enforces the mandatory message and label, and
// truncates over-long labels to ten words.
func (r *ChatRequest) Normalize() error {
	if r == nil {
		return fmt.Errorf("%w: nil request", ErrValidation)
	}
	r.Message = strings.TrimSpace(r.Message)
	if r.Message == "" {
		return fmt.Errorf("%w: empty message", ErrValidation)
	}
	r.ThreadLabel = truncateLabel(r.ThreadLabel)
	if r.ThreadLabel == "" {
		return fmt.Errorf("%w: empty thread label", ErrValidation)
	}
	return nil
}

func truncateLabel(label string) string {
	words := strings.Fields(label)
	if len(words) <= maxThreadLabelWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxThreadLabelWords], " ") + "..."
}
