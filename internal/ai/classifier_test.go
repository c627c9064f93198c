package ai

import "testing"

func TestClassifySubQuery(t *testing.T) {
	t.Parallel()

	cases := []struct {
		query string
		want  Capability
	}{
		{"write a python function to reverse a string", CapabilityCode},
		{"Implement quicksort", CapabilityCode},
		{"what is 3 * 99.8", CapabilityMath},
		{"compute 17+25 for me", CapabilityMath},
		{"12 x 12", CapabilityMath},
		{"100 ÷ 4", CapabilityMath},
		{"what is the capital of France", CapabilityResearch},
		{"", CapabilityResearch},
		// Code keywords win over embedded arithmetic.
		{"solve using code: 2+2", CapabilityCode},
		// Numbers without an infix operator are not math.
		{"population of tokyo in 2024", CapabilityResearch},
	}
	for _, tc := range cases {
		if got := classifySubQuery(tc.query); got != tc.want {
			t.Fatalf("classifySubQuery(%q)=%s, want %s", tc.query, got, tc.want)
		}
	}
}

func TestClassifierCaches(t *testing.T) {
	t.Parallel()

	cache := newTTLCache()
	c := NewClassifier(cache)

	if got := c.Classify("write a golang snippet"); got != CapabilityCode {
		t.Fatalf("Classify=%s, want %s", got, CapabilityCode)
	}
	if cache.len() != 1 {
		t.Fatalf("cache len=%d after first classification, want 1", cache.len())
	}
	// Normalized repeat hits the same entry.
	if got := c.Classify("  WRITE A GOLANG SNIPPET "); got != CapabilityCode {
		t.Fatalf("Classify (normalized repeat)=%s, want %s", got, CapabilityCode)
	}
	if cache.len() != 1 {
		t.Fatalf("cache len=%d after normalized repeat, want 1", cache.len())
	}
}
