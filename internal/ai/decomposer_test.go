package ai

import (
	"context"
	"testing"
)

func TestParsePlanObjectPreservesOrder(t *testing.T) {
	t.Parallel()

	raw := `{"What is the GDP of Japan?": "research", "Compute 5 * 7": "math", "Write a sort in python": "code"}`
	entries, err := parsePlanObject(raw)
	if err != nil {
		t.Fatalf("parsePlanObject: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	want := []PlanEntry{
		{SubQuery: "What is the GDP of Japan?", Capability: CapabilityResearch},
		{SubQuery: "Compute 5 * 7", Capability: CapabilityMath},
		{SubQuery: "Write a sort in python", Capability: CapabilityCode},
	}
	for i, entry := range entries {
		if entry != want[i] {
			t.Fatalf("entry[%d]=%+v, want %+v", i, entry, want[i])
		}
	}
}

func TestParsePlanObjectDirtyOutput(t *testing.T) {
	t.Parallel()

	raw := "Here is the plan:\n```json\n{\"Find the height of Everest\": \"search\", \"Double it\": \"calculation\"}\n```\nDone."
	entries, err := parsePlanObject(raw)
	if err != nil {
		t.Fatalf("parsePlanObject: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// Aliases map onto canonical capabilities.
	if entries[0].Capability != CapabilityResearch || entries[1].Capability != CapabilityMath {
		t.Fatalf("capabilities=[%s %s], want [research math]", entries[0].Capability, entries[1].Capability)
	}
}

func TestParsePlanObjectUnknownCapability(t *testing.T) {
	t.Parallel()

	entries, err := parsePlanObject(`{"Do something": "quantum"}`)
	if err != nil {
		t.Fatalf("parsePlanObject: %v", err)
	}
	if entries[0].Capability != "" {
		t.Fatalf("unknown capability parsed as %q, want empty for caller fill", entries[0].Capability)
	}
}

func TestParsePlanObjectRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "no json here", "[1,2,3]", "{}"} {
		if _, err := parsePlanObject(raw); err == nil {
			t.Fatalf("parsePlanObject(%q) accepted invalid input", raw)
		}
	}
}

func TestDecomposeCaches(t *testing.T) {
	t.Parallel()

	calls := 0
	completer := CompleterFunc(func(ctx context.Context, req CompletionRequest, onEvent func(StreamEvent)) (CompletionResult, error) {
		calls++
		if !req.JSONObject {
			t.Errorf("decomposition request without JSONObject")
		}
		return CompletionResult{Text: `{"Q1": "math", "Q2": "research"}`}, nil
	})
	d := NewDecomposer(completer, "test-model", newTTLCache(), nil)

	first, err := d.Decompose(context.Background(), "composite question", "")
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	second, err := d.Decompose(context.Background(), "composite question", "")
	if err != nil {
		t.Fatalf("Decompose (repeat): %v", err)
	}
	if calls != 1 {
		t.Fatalf("completer called %d times, want 1", calls)
	}
	if len(second) != len(first) {
		t.Fatalf("cached plan length %d != %d", len(second), len(first))
	}
	// The cached copy must be independent of the caller's slice.
	second[0].SubQuery = "mutated"
	third, err := d.Decompose(context.Background(), "composite question", "")
	if err != nil {
		t.Fatalf("Decompose (third): %v", err)
	}
	if third[0].SubQuery != "Q1" {
		t.Fatalf("cache entry mutated through a returned slice")
	}
}
