package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mabhisheksingh/AgenticAI/internal/websearch"
)

const webSearchSchema = `{
	"type": "object",
	"properties": {
		"query": {"type": "string", "description": "The search query"},
		"count": {"type": "integer", "description": "Number of results, at most 10"}
	},
	"required": ["query"]
}`

// RegisterWebSearchTool adds the web_search tool backed by the configured
// provider. An empty provider falls back to the keyless default.
func RegisterWebSearchTool(r *Registry, provider, apiKey string) error {
	return r.Register(Definition{
		Name:        "web_search",
		Description: "Search the web and return titles, URLs, and snippets.",
		InputSchema: json.RawMessage(webSearchSchema),
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			query, _ := args["query"].(string)
			query = strings.TrimSpace(query)
			if query == "" {
				return "", newToolError(ErrorCodeInvalidArgs, "missing argument \"query\"")
			}
			count := 0
			if raw, ok := args["count"]; ok {
				if f, err := argFloat(map[string]any{"count": raw}, "count"); err == nil {
					count = int(f)
				}
			}
			result, err := websearch.Search(ctx, provider, apiKey, websearch.SearchRequest{Query: query, Count: count})
			if err != nil {
				return "", newToolError(ErrorCodeUnavailable, err.Error())
			}
			return renderSearchResult(result), nil
		},
	})
}

func renderSearchResult(result websearch.SearchResult) string {
	if len(result.Results) == 0 {
		return "No results found."
	}
	var b strings.Builder
	for i, item := range result.Results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Title)
		if item.URL != "" {
			fmt.Fprintf(&b, "   %s\n", item.URL)
		}
		if item.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", item.Snippet)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
