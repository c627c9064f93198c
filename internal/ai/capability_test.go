package ai

import "testing"

func TestParseCapability(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want Capability
		ok   bool
	}{
		{"math", CapabilityMath, true},
		{"  Calculation ", CapabilityMath, true},
		{"arithmetic", CapabilityMath, true},
		{"CODE", CapabilityCode, true},
		{"programming", CapabilityCode, true},
		{"research", CapabilityResearch, true},
		{"search", CapabilityResearch, true},
		{"general", CapabilityResearch, true},
		{"quantum", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseCapability(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseCapability(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNormalizeCapabilityCatchAll(t *testing.T) {
	t.Parallel()

	if got := NormalizeCapability("maths"); got != CapabilityMath {
		t.Fatalf("NormalizeCapability(maths) = %q", got)
	}
	if got := NormalizeCapability("something else entirely"); got != CapabilityResearch {
		t.Fatalf("NormalizeCapability fallback = %q, want research", got)
	}
	if !CapabilityCode.Valid() {
		t.Fatal("code should be a valid capability")
	}
	if Capability("poetry").Valid() {
		t.Fatal("poetry should not be a valid capability")
	}
}
