// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the trend-report pipeline.
package types

import "time"

// Record represents one normalized search result from a literature or news
// provider. Records are constructed fresh per fetch, merged across providers,
// and discarded after the report is rendered.
type Record struct {
	// Title is the paper or article title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// Summary is the abstract or article description. The normalizer strips
	// embedded HTML markup before the field is used downstream.
	Summary string `json:"summary" yaml:"summary"`

	// URL is the canonical identifying link and the deduplication key.
	// It may be empty for providers that supply no usable link.
	URL string `json:"url" yaml:"url"`

	// PublishedAt is the publication date at day granularity. A zero value
	// means the provider's date string could not be parsed; such records are
	// excluded by the normalizer.
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`

	// Source identifies which provider found this record
	// (e.g. "semantic_scholar", "europe_pmc", "arxiv", "news:overseas").
	Source string `json:"source" yaml:"source"`
}
