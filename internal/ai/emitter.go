package ai

import (
	"context"
	"sync"
)

// StreamFrame is one SSE payload. The first frame of a turn carries only the
// thread/user identifiers; subsequent frames carry a type, content, and
// optional metadata.
type StreamFrame struct {
	ThreadID string         `json:"threadId,omitempty"`
	UserID   string         `json:"userId,omitempty"`
	Type     string         `json:"type,omitempty"`
	Content  string         `json:"content,omitempty"`
	Metadata *FrameMetadata `json:"metadata,omitempty"`
}

// FrameMetadata names the stage that produced a frame: a worker capability,
// the router, or the synthesizer.
type FrameMetadata struct {
	Node string `json:"node,omitempty"`
}

const (
	FrameTypeToken    = "token"
	FrameTypeToolCall = "tool_call"
	FrameTypeError    = "error"
)

func metadataFrame(threadID, userID string) StreamFrame {
	return StreamFrame{ThreadID: threadID, UserID: userID}
}

func tokenFrame(content, node string) StreamFrame {
	return StreamFrame{Type: FrameTypeToken, Content: content, Metadata: &FrameMetadata{Node: node}}
}

func toolCallFrame(content, node string) StreamFrame {
	return StreamFrame{Type: FrameTypeToolCall, Content: content, Metadata: &FrameMetadata{Node: node}}
}

func errorFrame(content string) StreamFrame {
	return StreamFrame{Type: FrameTypeError, Content: content}
}

// TurnStream couples the turn producer to a single SSE consumer through a
// bounded channel: at most one frame is buffered, so a slow reader
// backpressures token production instead of growing a queue.
//
// The producer calls Send then Close; the consumer ranges over Frames and
// calls Abandon when it stops early. After Abandon, Send returns
// ErrStreamClosed and the turn continues without emission.
type TurnStream struct {
	frames chan StreamFrame
	done   chan struct{}

	closeOnce   sync.Once
	abandonOnce sync.Once
}

func NewTurnStream() *TurnStream {
	return &TurnStream{
		frames: make(chan StreamFrame, 1),
		done:   make(chan struct{}),
	}
}

// Send delivers one frame, blocking until the consumer drains the buffer.
func (s *TurnStream) Send(ctx context.Context, frame StreamFrame) error {
	select {
	case <-s.done:
		return ErrStreamClosed
	default:
	}
	select {
	case s.frames <- frame:
		return nil
	case <-s.done:
		return ErrStreamClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close signals the consumer that no more frames follow. Producer side only.
func (s *TurnStream) Close() {
	s.closeOnce.Do(func() { close(s.frames) })
}

// Abandon tells the producer the consumer stopped reading.
func (s *TurnStream) Abandon() {
	s.abandonOnce.Do(func() { close(s.done) })
}

// Frames is the consumer side; it is closed after the final frame.
func (s *TurnStream) Frames() <-chan StreamFrame {
	return s.frames
}
