// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/trend-report/internal/httputil"
	"github.com/pdiddy/trend-report/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// Arxiv queries the arXiv Atom API.
type Arxiv struct {
	Client *http.Client
}

// Name returns the provider identifier.
func (p *Arxiv) Name() string { return "arxiv" }

// Fetch queries the arXiv API. The API has no server-side date filter, so
// results are requested newest-first and the window filter runs client-side.
func (p *Arxiv) Fetch(ctx context.Context, query Query, cfg types.AggregateConfig) ([]types.Record, error) {
	q := buildArxivQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	params := url.Values{
		"search_query": {q},
		"start":        {"0"},
		"max_results":  {fmt.Sprintf("%d", maxResults(cfg))},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.Do(p.Client, req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var records []types.Record
	for _, entry := range feed.Entries {
		title := collapseWhitespace(entry.Title)
		if title == "" {
			continue
		}

		r := types.Record{
			Title:   title,
			Summary: collapseWhitespace(entry.Summary),
			URL:     entry.ID,
			Source:  "arxiv",
		}

		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			r.PublishedAt = t
		}

		records = append(records, r)
	}
	return records, nil
}

// buildArxivQuery wraps each keyword in a title/abstract field scope and
// ORs the scoped terms together. Keywords with internal whitespace become
// quoted phrases.
func buildArxivQuery(q Query) string {
	var parts []string
	for _, kw := range q.Keywords {
		parts = append(parts, fmt.Sprintf(`(ti:%q OR abs:%q)`, kw, kw))
	}
	if len(parts) == 0 {
		return ""
	}

	expr := parts[0]
	for _, p := range parts[1:] {
		expr += " OR " + p
	}
	return expr
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
}
