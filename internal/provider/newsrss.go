// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/trend-report/internal/httputil"
	"github.com/pdiddy/trend-report/pkg/types"
)

// NewsRSS queries one RSS news search feed (e.g. a Google News search feed
// for a given locale). Construct one instance per configured feed.
type NewsRSS struct {
	Client *http.Client
	Feed   types.NewsFeedConfig
}

// Name returns the provider identifier, qualified by the feed label.
func (p *NewsRSS) Name() string {
	if p.Feed.Label == "" {
		return "news"
	}
	return "news:" + p.Feed.Label
}

// Fetch queries the feed. RSS search endpoints take a single free-text q
// parameter, so keywords become bare OR terms; there is no server-side
// date filter and usually no abstract, only a description.
func (p *NewsRSS) Fetch(ctx context.Context, query Query, cfg types.AggregateConfig) ([]types.Record, error) {
	q := buildNewsQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty news query")
	}

	params := url.Values{"q": {q}}
	for k, v := range p.Feed.Params {
		params.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.Feed.SearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.Do(p.Client, req)
	if err != nil {
		return nil, fmt.Errorf("news feed request: %w", err)
	}
	defer resp.Body.Close()

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing news feed: %w", err)
	}

	limit := maxResults(cfg)
	var records []types.Record
	for _, item := range feed.Items {
		if len(records) >= limit {
			break
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		r := types.Record{
			Title:   title,
			Summary: item.Description,
			URL:     item.Link,
			Source:  p.Name(),
		}
		if item.PublishedParsed != nil {
			r.PublishedAt = *item.PublishedParsed
		}

		records = append(records, r)
	}
	return records, nil
}

// buildNewsQuery joins keywords as bare OR terms.
func buildNewsQuery(q Query) string {
	return strings.Join(q.Keywords, " OR ")
}
