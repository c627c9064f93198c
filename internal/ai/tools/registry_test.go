package tools

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterRejectsDuplicates(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	def := Definition{Name: "echo", Handler: func(ctx context.Context, args map[string]any) (string, error) { return "ok", nil }}
	if err := r.Register(def); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(def); err == nil {
		t.Fatalf("duplicate registration accepted")
	}
	if err := r.Register(Definition{Name: " ", Handler: def.Handler}); err == nil {
		t.Fatalf("empty name accepted")
	}
	if err := r.Register(Definition{Name: "niltool"}); err == nil {
		t.Fatalf("nil handler accepted")
	}
}

func TestDefinitionsSelectsByName(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := RegisterMathTools(r); err != nil {
		t.Fatalf("RegisterMathTools: %v", err)
	}

	defs := r.Definitions("divide", "add", "unknown")
	if len(defs) != 2 {
		t.Fatalf("got %d defs, want 2", len(defs))
	}
	if defs[0].Name != "divide" || defs[1].Name != "add" {
		t.Fatalf("order=[%s %s], want requested order", defs[0].Name, defs[1].Name)
	}

	// Workers opt in to tools; no names means no tools.
	if defs := r.Definitions(); len(defs) != 0 {
		t.Fatalf("Definitions() returned %d defs, want 0", len(defs))
	}
}

func TestInvokeUnknownTool(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	_, err := r.Invoke(context.Background(), "missing", nil)
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Code != ErrorCodeNotFound {
		t.Fatalf("err=%v, want NOT_FOUND ToolError", err)
	}
}

func TestInvokeRecoversPanics(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := r.Register(Definition{
		Name:    "boom",
		Handler: func(ctx context.Context, args map[string]any) (string, error) { panic("kaboom") },
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := r.Invoke(context.Background(), "boom", nil)
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Code != ErrorCodeUnknown {
		t.Fatalf("err=%v, want UNKNOWN ToolError", err)
	}
}
