package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Decomposer splits a composite query into an ordered routing plan by asking
// the model for a JSON object whose keys are sub-questions and whose values
// name a capability. Key order in the model output is the dispatch order.
type Decomposer struct {
	completer Completer
	model     string
	cache     *ttlCache
	log       *slog.Logger
}

func NewDecomposer(completer Completer, model string, cache *ttlCache, log *slog.Logger) *Decomposer {
	if log == nil {
		log = slog.Default()
	}
	return &Decomposer{completer: completer, model: model, cache: cache, log: log}
}

// Decompose returns the ordered plan for query. Entries whose capability the
// model left unrecognizable carry an empty Capability for the caller to fill.
func (d *Decomposer) Decompose(ctx context.Context, query, historySummary string) ([]PlanEntry, error) {
	if d == nil || d.completer == nil {
		return nil, errors.New("nil decomposer")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("empty query")
	}
	key := cacheKey("decompose", query)
	if v, ok := d.cache.get(key, decomposerCacheTTL); ok {
		if entries, ok := v.([]PlanEntry); ok {
			d.log.Info("using cached decomposition", "query", query)
			return append([]PlanEntry(nil), entries...), nil
		}
	}

	result, err := d.completer.StreamCompletion(ctx, CompletionRequest{
		Model:      d.model,
		Messages:   []ChatMessage{UserMessage(decompositionPrompt(query, historySummary))},
		JSONObject: true,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("decomposition completion: %w", err)
	}
	entries, err := parsePlanObject(result.Text)
	if err != nil {
		return nil, err
	}
	d.cache.put(key, append([]PlanEntry(nil), entries...))
	return entries, nil
}

// parsePlanObject parses the model's JSON mapping while preserving key order;
// decoding into a map would scramble the dispatch sequence.
func parsePlanObject(raw string) ([]PlanEntry, error) {
	obj := extractFirstJSONObject(stripCodeFences(raw))
	if obj == "" {
		return nil, errors.New("no JSON object in decomposition output")
	}
	dec := json.NewDecoder(strings.NewReader(obj))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse decomposition: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("decomposition output is not a JSON object")
	}
	var entries []PlanEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse decomposition: %w", err)
		}
		key, _ := keyTok.(string)
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("parse decomposition: %w", err)
		}
		subQuery := strings.TrimSpace(key)
		if subQuery == "" {
			continue
		}
		entry := PlanEntry{SubQuery: subQuery}
		if label, ok := value.(string); ok {
			if capability, ok := ParseCapability(label); ok {
				entry.Capability = capability
			}
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, errors.New("empty decomposition")
	}
	return entries, nil
}

// stripCodeFences drops a surrounding markdown code fence, if any.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// extractFirstJSONObject returns the first balanced {...} span in s, string
// literals accounted for. Empty when none exists.
func extractFirstJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
