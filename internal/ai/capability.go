package ai

import "strings"

// Capability identifies the kind of worker a sub-query is dispatched to.
type Capability string

const (
	CapabilityMath     Capability = "math"
	CapabilityCode     Capability = "code"
	CapabilityResearch Capability = "research"
)

// Valid reports whether c is one of the known capabilities.
func (c Capability) Valid() bool {
	switch c {
	case CapabilityMath, CapabilityCode, CapabilityResearch:
		return true
	default:
		return false
	}
}

// ParseCapability maps a model-produced label onto a capability. The second
// return is false when the label is not recognized at all.
func ParseCapability(raw string) (Capability, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "math", "maths", "calculation", "calculator", "arithmetic":
		return CapabilityMath, true
	case "code", "coding", "programming", "programmer":
		return CapabilityCode, true
	case "research", "search", "web", "general":
		return CapabilityResearch, true
	default:
		return "", false
	}
}

// NormalizeCapability is ParseCapability with research as the catch-all.
func NormalizeCapability(raw string) Capability {
	if c, ok := ParseCapability(raw); ok {
		return c
	}
	return CapabilityResearch
}
