package ai

import (
	"errors"
	"testing"
)

func TestChatRequestNormalize(t *testing.T) {
	t.Parallel()

	req := ChatRequest{ThreadLabel: "  my   chat  ", Message: "  hello  "}
	if err := req.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if req.Message != "hello" {
		t.Fatalf("message=%q", req.Message)
	}
	if req.ThreadLabel != "my chat" {
		t.Fatalf("label=%q, want whitespace collapsed", req.ThreadLabel)
	}
}

func TestChatRequestNormalizeRejects(t *testing.T) {
	t.Parallel()

	for _, req := range []ChatRequest{
		{ThreadLabel: "label", Message: "   "},
		{ThreadLabel: "  ", Message: "hello"},
	} {
		req := req
		if err := req.Normalize(); !errors.Is(err, ErrValidation) {
			t.Fatalf("Normalize(%+v) err=%v, want ErrValidation", req, err)
		}
	}
}

func TestTruncateLabel(t *testing.T) {
	t.Parallel()

	long := "one two three four five six seven eight nine ten eleven twelve"
	if got := truncateLabel(long); got != "one two three four five six seven eight nine ten..." {
		t.Fatalf("truncateLabel=%q", got)
	}
	if got := truncateLabel("short label"); got != "short label" {
		t.Fatalf("truncateLabel(short)=%q", got)
	}
}
