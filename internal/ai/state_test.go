package ai

import "testing"

func TestSnapshotClone(t *testing.T) {
	t.Parallel()

	orig := NewSnapshot("persona")
	orig.Messages = append(orig.Messages, UserMessage("hello"))
	orig.Summary = "earlier talk"
	orig.PlanActive = true
	orig.RoutingPlan = []PlanEntry{
		{SubQuery: "find the fact", Capability: CapabilityResearch},
		{SubQuery: "17 + 25", Capability: CapabilityMath},
	}
	orig.DoneQueries = []string{"done one"}
	orig.SubqueryResults = []SubqueryResult{
		{SubQuery: "done one", Capability: CapabilityResearch, Result: "a fact"},
	}

	cp := orig.Clone()
	if cp == orig {
		t.Fatal("Clone returned the same pointer")
	}

	cp.Messages[0] = UserMessage("mutated")
	cp.RoutingPlan[0].SubQuery = "mutated"
	cp.DoneQueries[0] = "mutated"
	cp.SubqueryResults[0].Result = "mutated"
	cp.Summary = "mutated"
	cp.PlanActive = false

	if orig.Messages[0].Content.PlainText() != "persona" {
		t.Fatalf("clone mutation leaked into messages: %q", orig.Messages[0].Content.PlainText())
	}
	if orig.RoutingPlan[0].SubQuery != "find the fact" {
		t.Fatalf("clone mutation leaked into plan: %q", orig.RoutingPlan[0].SubQuery)
	}
	if orig.DoneQueries[0] != "done one" || orig.SubqueryResults[0].Result != "a fact" {
		t.Fatal("clone mutation leaked into completed work")
	}
	if orig.Summary != "earlier talk" || !orig.PlanActive {
		t.Fatal("clone mutation leaked into scalar fields")
	}

	var nilSnap *Snapshot
	if nilSnap.Clone() != nil {
		t.Fatal("nil snapshot should clone to nil")
	}
}

func TestSnapshotPendingCapabilities(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{RoutingPlan: []PlanEntry{
		{SubQuery: "a", Capability: CapabilityResearch},
		{SubQuery: "b", Capability: CapabilityMath},
		{SubQuery: "c", Capability: CapabilityCode},
	}}
	got := snap.PendingCapabilities()
	want := []Capability{CapabilityResearch, CapabilityMath, CapabilityCode}
	if len(got) != len(want) {
		t.Fatalf("got %d pending capabilities, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pending[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if (&Snapshot{}).PendingCapabilities() != nil {
		t.Fatal("empty plan should yield nil")
	}
	var nilSnap *Snapshot
	if nilSnap.PendingCapabilities() != nil {
		t.Fatal("nil snapshot should yield nil")
	}
}
