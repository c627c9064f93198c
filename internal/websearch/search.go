package websearch

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Search dispatches req to the named provider. DuckDuckGo is the keyless
// default; Brave requires an API key.
func Search(ctx context.Context, provider string, apiKey string, req SearchRequest) (SearchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	provider = strings.TrimSpace(strings.ToLower(provider))
	if provider == "" {
		provider = ProviderDuckDuckGo
	}

	req = req.Normalize()
	if req.Query == "" {
		return SearchResult{}, errors.New("missing query")
	}

	switch provider {
	case ProviderDuckDuckGo:
		return duckDuckGoSearch(ctx, req)
	case ProviderBrave:
		if strings.TrimSpace(apiKey) == "" {
			return SearchResult{}, errors.New("missing web search api key")
		}
		return braveWebSearch(ctx, apiKey, req)
	default:
		return SearchResult{}, fmt.Errorf("unsupported web search provider %q", provider)
	}
}
