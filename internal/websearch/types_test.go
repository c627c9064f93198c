package websearch

import "testing"

func TestSearchRequestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in        SearchRequest
		wantQuery string
		wantCount int
	}{
		{SearchRequest{Query: "  go generics  "}, "go generics", 5},
		{SearchRequest{Query: "q", Count: -2}, "q", 5},
		{SearchRequest{Query: "q", Count: 3}, "q", 3},
		{SearchRequest{Query: "q", Count: 50}, "q", 10},
	}
	for _, tc := range cases {
		got := tc.in.Normalize()
		if got.Query != tc.wantQuery || got.Count != tc.wantCount {
			t.Fatalf("Normalize(%+v)=%+v, want query=%q count=%d", tc.in, got, tc.wantQuery, tc.wantCount)
		}
	}
}
