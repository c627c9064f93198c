package ai

import (
	"regexp"
	"strings"
)

// codeKeywords are substrings that mark a sub-query as a coding task. Checked
// before the arithmetic pattern so "solve using code" wins over embedded
// numbers.
var codeKeywords = []string{
	"code",
	"program",
	"function",
	"class",
	"algorithm",
	"java",
	"python",
	"c++",
	"golang",
	"snippet",
	"write code",
	"implement",
	"script",
	"source code",
	"solve using code",
}

// mathExprRe matches an infix arithmetic expression between two numbers. The
// operator class deliberately includes "x" and the division sign, which users
// type for multiplication and division.
var mathExprRe = regexp.MustCompile(`\d+\s*[*+\-/x÷^%]\s*\d+`)

// Classifier assigns a capability to a sub-query with pure string heuristics.
// Results are memoized in the shared cache keyed by the normalized query.
type Classifier struct {
	cache *ttlCache
}

func NewClassifier(cache *ttlCache) *Classifier {
	return &Classifier{cache: cache}
}

func (c *Classifier) Classify(subQuery string) Capability {
	key := cacheKey("classify", subQuery)
	if c != nil && c.cache != nil {
		if v, ok := c.cache.get(key, classifierCacheTTL); ok {
			if capability, ok := v.(Capability); ok {
				return capability
			}
		}
	}
	capability := classifySubQuery(subQuery)
	if c != nil && c.cache != nil {
		c.cache.put(key, capability)
	}
	return capability
}

func classifySubQuery(subQuery string) Capability {
	q := strings.ToLower(strings.TrimSpace(subQuery))
	if q == "" {
		return CapabilityResearch
	}
	for _, kw := range codeKeywords {
		if strings.Contains(q, kw) {
			return CapabilityCode
		}
	}
	if mathExprRe.MatchString(q) {
		return CapabilityMath
	}
	return CapabilityResearch
}
