// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider implements search adapters for external literature and
// news APIs. Each provider turns keywords into its own query expression,
// issues one HTTP GET, and maps the native response into Records. Adding a
// source means adding a new adapter, never branching on provider name in
// shared logic.
package provider

import (
	"context"
	"strings"
	"time"

	"github.com/pdiddy/trend-report/pkg/types"
)

// Provider searches a single external source per the Strategy pattern.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, query Query, cfg types.AggregateConfig) ([]types.Record, error)
}

// Query holds the search parameters shared by all providers. From and To
// bound the recency window; providers with server-side date filtering use
// them, the rest rely on the client-side window filter.
type Query struct {
	Keywords []string
	From     time.Time
	To       time.Time
}

// NewQuery builds a Query from raw keyword strings, dropping empty and
// blank entries, with a window ending at now.
func NewQuery(raw []string, window time.Duration, now time.Time) Query {
	var keywords []string
	for _, kw := range raw {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		keywords = append(keywords, kw)
	}
	return Query{
		Keywords: keywords,
		From:     now.Add(-window),
		To:       now,
	}
}

// IsEmpty reports whether the query contains no searchable terms. An empty
// query is the "no query" sentinel: callers short-circuit with zero results
// and never invoke a provider.
func (q Query) IsEmpty() bool {
	return len(q.Keywords) == 0
}

// defaultMaxResults caps one provider fetch when the config leaves the
// ceiling unset.
const defaultMaxResults = 30

func maxResults(cfg types.AggregateConfig) int {
	if cfg.MaxResults > 0 {
		return cfg.MaxResults
	}
	return defaultMaxResults
}

// collapseWhitespace folds newlines and runs of spaces into single spaces.
// arXiv in particular wraps titles and abstracts with hard newlines.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
