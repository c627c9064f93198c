package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mabhisheksingh/AgenticAI/internal/ai/threadstore"
)

// ThreadView merges a thread's metadata with its conversation messages.
type ThreadView struct {
	Thread   threadstore.Thread `json:"thread"`
	Messages []ChatMessage      `json:"messages"`
}

func (s *Service) ListThreads(ctx context.Context, sessionID string) ([]threadstore.Thread, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrValidation)
	}
	return s.store.ListThreads(ctx, sessionID)
}

// GetThreadView returns the thread with its message history. The system
// persona message is omitted; callers get what the user saw.
func (s *Service) GetThreadView(ctx context.Context, sessionID, threadID string) (*ThreadView, error) {
	sessionID = strings.TrimSpace(sessionID)
	threadID = strings.TrimSpace(threadID)
	if sessionID == "" || threadID == "" {
		return nil, fmt.Errorf("%w: missing user or thread id", ErrValidation)
	}
	thread, err := s.store.GetThread(ctx, sessionID, threadID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, fmt.Errorf("%w: %s", ErrThreadNotFound, threadID)
	}

	view := &ThreadView{Thread: *thread, Messages: []ChatMessage{}}
	raw, err := s.store.GetState(ctx, sessionID, threadID)
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		var snap Snapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			s.log.Warn("corrupt conversation state, returning empty history", "thread", threadID, "error", err)
			return view, nil
		}
		for _, msg := range snap.Messages {
			if strings.EqualFold(strings.TrimSpace(msg.Role), RoleSystem) {
				continue
			}
			view.Messages = append(view.Messages, msg)
		}
	}
	return view, nil
}

// RenameThread relabels a thread, normalizing the label the same way chat
// requests do. Returns the affected row count; renaming another session's
// thread affects zero rows and is not an error.
func (s *Service) RenameThread(ctx context.Context, sessionID, threadID, label string) (int64, error) {
	sessionID = strings.TrimSpace(sessionID)
	threadID = strings.TrimSpace(threadID)
	if sessionID == "" || threadID == "" {
		return 0, fmt.Errorf("%w: missing user or thread id", ErrValidation)
	}
	label = truncateLabel(label)
	if label == "" {
		return 0, fmt.Errorf("%w: empty thread label", ErrValidation)
	}
	return s.store.RenameLabel(ctx, sessionID, threadID, label)
}

func (s *Service) DeleteThread(ctx context.Context, sessionID, threadID string) (int64, error) {
	sessionID = strings.TrimSpace(sessionID)
	threadID = strings.TrimSpace(threadID)
	if sessionID == "" || threadID == "" {
		return 0, fmt.Errorf("%w: missing user or thread id", ErrValidation)
	}
	return s.store.DeleteThread(ctx, sessionID, threadID)
}

func (s *Service) ListSessions(ctx context.Context) ([]string, error) {
	return s.store.ListSessions(ctx)
}

func (s *Service) DeleteSession(ctx context.Context, sessionID string) (int64, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return 0, fmt.Errorf("%w: missing user id", ErrValidation)
	}
	return s.store.DeleteSession(ctx, sessionID)
}
