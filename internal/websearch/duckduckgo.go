package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

const duckDuckGoEndpoint = "https://api.duckduckgo.com/"

type duckDuckGoResponse struct {
	Heading       string `json:"Heading"`
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	Answer        string `json:"Answer"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
		Topics   []struct {
			Text     string `json:"Text"`
			FirstURL string `json:"FirstURL"`
		} `json:"Topics"`
	} `json:"RelatedTopics"`
}

// duckDuckGoSearch queries the keyless instant-answer API. Results are the
// abstract (when present) followed by related topics, capped at req.Count.
func duckDuckGoSearch(ctx context.Context, req SearchRequest) (SearchResult, error) {
	req = req.Normalize()
	if req.Query == "" {
		return SearchResult{}, errors.New("missing query")
	}

	endpoint, err := url.Parse(duckDuckGoEndpoint)
	if err != nil || endpoint == nil {
		return SearchResult{}, errors.New("invalid duckduckgo endpoint")
	}
	q := endpoint.Query()
	q.Set("q", req.Query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("no_redirect", "1")
	endpoint.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return SearchResult{}, err
	}
	httpReq.Header.Set("Accept", "application/json")

	body, err := doSearchRequest(httpReq)
	if err != nil {
		return SearchResult{}, err
	}

	var decoded duckDuckGoResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return SearchResult{}, errors.New("invalid duckduckgo response")
	}

	results := make([]ResultItem, 0, req.Count)
	appendResult := func(title, u, snippet string) {
		if len(results) >= req.Count {
			return
		}
		u = strings.TrimSpace(u)
		snippet = strings.TrimSpace(snippet)
		if u == "" && snippet == "" {
			return
		}
		title = strings.TrimSpace(title)
		if title == "" {
			if snippet != "" {
				title = snippet
			} else {
				title = u
			}
		}
		results = append(results, ResultItem{Title: title, URL: u, Snippet: snippet})
	}

	if decoded.AbstractText != "" || decoded.Answer != "" {
		snippet := decoded.AbstractText
		if snippet == "" {
			snippet = decoded.Answer
		}
		appendResult(decoded.Heading, decoded.AbstractURL, snippet)
	}
	for _, topic := range decoded.RelatedTopics {
		appendResult("", topic.FirstURL, topic.Text)
		for _, sub := range topic.Topics {
			appendResult("", sub.FirstURL, sub.Text)
		}
	}

	return SearchResult{
		Provider: ProviderDuckDuckGo,
		Query:    req.Query,
		Results:  results,
	}, nil
}
