// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate fans a keyword query out to search providers and merges
// the raw records into one date-windowed, deduplicated, recency-sorted list.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pdiddy/trend-report/internal/httputil"
	"github.com/pdiddy/trend-report/internal/provider"
	"github.com/pdiddy/trend-report/pkg/types"
)

// Output holds the normalized records and per-run statistics.
type Output struct {
	Records        []types.Record `json:"records" yaml:"records"`
	Stats          Stats          `json:"stats" yaml:"stats"`
	ProviderErrors []string       `json:"provider_errors,omitempty" yaml:"provider_errors,omitempty"`
}

// Aggregate fans the query out to all providers concurrently and normalizes
// the union of their records. A provider failure degrades to an empty
// contribution from that provider: it is collected as a warning, written to
// w, and never aborts the sibling fetches. Rate limiting is worded
// distinctly so it is not mistaken for "no results". The caller supplies
// now so the window filter is deterministic under test.
func Aggregate(ctx context.Context, query provider.Query, providers []provider.Provider, cfg types.AggregateConfig, now time.Time, w io.Writer) (Output, error) {
	if query.IsEmpty() {
		return Output{}, fmt.Errorf("query is empty: provide at least one keyword")
	}
	if len(providers) == 0 {
		return Output{}, fmt.Errorf("no search providers configured")
	}

	type fetchResult struct {
		records []types.Record
		err     error
		name    string
	}

	ch := make(chan fetchResult, len(providers))
	var wg sync.WaitGroup

	for _, p := range providers {
		wg.Add(1)
		go func(p provider.Provider) {
			defer wg.Done()
			records, err := p.Fetch(ctx, query, cfg)
			ch <- fetchResult{records: records, err: err, name: p.Name()}
		}(p)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []types.Record
	var providerErrors []string
	for fr := range ch {
		if fr.err != nil {
			if errors.Is(fr.err, httputil.ErrRateLimited) {
				providerErrors = append(providerErrors, fmt.Sprintf("%s: rate limited", fr.name))
				fmt.Fprintf(w, "warning: provider %s rate limited, skipping\n", fr.name)
			} else {
				providerErrors = append(providerErrors, fmt.Sprintf("%s: %v", fr.name, fr.err))
				fmt.Fprintf(w, "warning: provider %s failed: %v\n", fr.name, fr.err)
			}
			continue
		}
		all = append(all, fr.records...)
	}

	records, stats := Normalize(all, cfg.Window(), now)

	return Output{
		Records:        records,
		Stats:          stats,
		ProviderErrors: providerErrors,
	}, nil
}
