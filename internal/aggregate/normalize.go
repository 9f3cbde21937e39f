// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/trend-report/pkg/types"
)

// Stats counts records the normalizer removed.
type Stats struct {
	// Undated counts records dropped because their date failed to parse.
	Undated int `json:"undated" yaml:"undated"`

	// Stale counts records dropped because they fell outside the window.
	Stale int `json:"stale" yaml:"stale"`

	// DupsRemoved counts records collapsed by URL deduplication.
	DupsRemoved int `json:"dups_removed" yaml:"dups_removed"`
}

// Normalize turns the union of raw provider records into the final list:
// records without a parseable date are dropped, records older than
// now-window are dropped (a record dated exactly at the cutoff is kept),
// HTML markup is stripped from titles and summaries, records sharing a URL
// are collapsed with the last-seen record winning, and the result is sorted
// by publication date descending with ties keeping input order.
//
// Normalize is pure given its inputs: the wall clock is injected as now, so
// the same records, window, and now always produce the same output, and
// applying Normalize to its own output changes nothing.
func Normalize(records []types.Record, window time.Duration, now time.Time) ([]types.Record, Stats) {
	var stats Stats
	cutoff := now.Add(-window)

	var kept []types.Record
	for _, r := range records {
		if r.PublishedAt.IsZero() {
			stats.Undated++
			continue
		}
		if r.PublishedAt.Before(cutoff) {
			stats.Stale++
			continue
		}
		r.Title = stripHTML(r.Title)
		r.Summary = stripHTML(r.Summary)
		kept = append(kept, r)
	}

	deduped, removed := deduplicate(kept)
	stats.DupsRemoved = removed

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].PublishedAt.After(deduped[j].PublishedAt)
	})

	return deduped, stats
}

// deduplicate collapses records that share a URL. Later records overwrite
// earlier ones, so the freshest fetch wins. Records with an empty URL have
// no usable dedup key and are kept as-is.
func deduplicate(records []types.Record) ([]types.Record, int) {
	seen := make(map[string]int) // URL → index in deduped
	var deduped []types.Record
	removed := 0

	for _, r := range records {
		if r.URL == "" {
			deduped = append(deduped, r)
			continue
		}
		if idx, ok := seen[r.URL]; ok {
			deduped[idx] = r
			removed++
			continue
		}
		seen[r.URL] = len(deduped)
		deduped = append(deduped, r)
	}
	return deduped, removed
}

// stripHTML removes markup from free-text fields, decoding entities along
// the way. Plain text passes through untouched.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
