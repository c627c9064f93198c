package ai

import (
	"encoding/json"
	"strings"
)

// Content is a message payload that providers and stored snapshots produce in
// two shapes: a plain string, or a list of typed parts. PlainText is the single
// normalization point; everything downstream works on its output.
type Content struct {
	text  string
	parts []ContentPart
	multi bool
}

// ContentPart is one element of a multi-part payload. Non-text parts are
// preserved on round-trip but ignored by PlainText.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// TextContent wraps a plain string.
func TextContent(s string) Content {
	return Content{text: s}
}

// PartsContent wraps an explicit part list.
func PartsContent(parts []ContentPart) Content {
	return Content{parts: parts, multi: true}
}

// PlainText flattens the content to a single string. Text parts are joined
// with newlines; parts with an empty type are treated as text.
func (c Content) PlainText() string {
	if !c.multi {
		return c.text
	}
	out := make([]string, 0, len(c.parts))
	for _, part := range c.parts {
		typ := strings.ToLower(strings.TrimSpace(part.Type))
		if typ != "" && typ != "text" {
			continue
		}
		if txt := strings.TrimSpace(part.Text); txt != "" {
			out = append(out, txt)
		}
	}
	return strings.Join(out, "\n")
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.multi {
		return json.Marshal(c.parts)
	}
	return json.Marshal(c.text)
}

func (c *Content) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Content{text: s}
		return nil
	}
	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	*c = Content{parts: parts, multi: true}
	return nil
}

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

func SystemMessage(text string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: TextContent(text)}
}

func UserMessage(text string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: TextContent(text)}
}

func AssistantMessage(text string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: TextContent(text)}
}
