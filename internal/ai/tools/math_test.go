package tools

import (
	"context"
	"errors"
	"testing"
)

func TestMathTools(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := RegisterMathTools(r); err != nil {
		t.Fatalf("RegisterMathTools: %v", err)
	}
	ctx := context.Background()

	cases := []struct {
		tool string
		args map[string]any
		want string
	}{
		{"add", map[string]any{"a": 17.0, "b": 25.0}, "42"},
		{"multiply", map[string]any{"a": 3.0, "b": 99.8}, "299.4"},
		{"divide", map[string]any{"a": 1.0, "b": 4.0}, "0.25"},
		// Models sometimes send operands as strings.
		{"multiply", map[string]any{"a": "6", "b": "7"}, "42"},
	}
	for _, tc := range cases {
		out, err := r.Invoke(ctx, tc.tool, tc.args)
		if err != nil {
			t.Fatalf("Invoke(%s, %v): %v", tc.tool, tc.args, err)
		}
		if out != tc.want {
			t.Fatalf("Invoke(%s, %v)=%q, want %q", tc.tool, tc.args, out, tc.want)
		}
	}
}

func TestDivideByZero(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := RegisterMathTools(r); err != nil {
		t.Fatalf("RegisterMathTools: %v", err)
	}

	_, err := r.Invoke(context.Background(), "divide", map[string]any{"a": 1.0, "b": 0.0})
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Code != ErrorCodeInvalidArgs {
		t.Fatalf("err=%v, want INVALID_ARGS ToolError", err)
	}
}

func TestArgFloatRejectsJunk(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := RegisterMathTools(r); err != nil {
		t.Fatalf("RegisterMathTools: %v", err)
	}
	ctx := context.Background()

	for _, args := range []map[string]any{
		{"a": 1.0},
		{"a": "one", "b": 2.0},
		{"a": []any{1}, "b": 2.0},
	} {
		if _, err := r.Invoke(ctx, "add", args); err == nil {
			t.Fatalf("Invoke(add, %v) accepted bad args", args)
		}
	}
}
