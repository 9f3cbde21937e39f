package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "trend-report/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AggregateConfig holds settings for the aggregation stage.
type AggregateConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the per-provider result-count ceiling (default 30).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// WindowDays is the recency window in days (default 14). Records older
	// than now minus the window are filtered out client-side.
	WindowDays int `json:"window_days" yaml:"window_days"`

	// EnableSemanticScholar controls whether the Semantic Scholar provider is used.
	EnableSemanticScholar bool `json:"enable_semantic_scholar" yaml:"enable_semantic_scholar"`

	// EnableEuropePMC controls whether the Europe PMC provider is used.
	EnableEuropePMC bool `json:"enable_europe_pmc" yaml:"enable_europe_pmc"`

	// EnableArxiv controls whether the arXiv provider is used.
	EnableArxiv bool `json:"enable_arxiv" yaml:"enable_arxiv"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// NewsFeeds lists RSS news feeds to query, one provider instance each.
	NewsFeeds []NewsFeedConfig `json:"news_feeds" yaml:"news_feeds"`
}

// Window returns the recency window as a duration.
func (c AggregateConfig) Window() time.Duration {
	days := c.WindowDays
	if days <= 0 {
		days = 14
	}
	return time.Duration(days) * 24 * time.Hour
}

// NewsFeedConfig describes one RSS news feed.
type NewsFeedConfig struct {
	// Label distinguishes feeds in record sources (e.g. "domestic", "overseas").
	Label string `json:"label" yaml:"label"`

	// SearchURL is the feed search endpoint; the OR-joined keyword query is
	// appended as the q parameter (e.g. "https://news.google.com/rss/search").
	SearchURL string `json:"search_url" yaml:"search_url"`

	// Params holds extra fixed query parameters (e.g. hl, gl, ceid).
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// CacheConfig holds settings for the aggregation result cache.
type CacheConfig struct {
	// Dir is the directory holding the cache database (default "cache").
	Dir string `json:"dir" yaml:"dir"`

	// TTL is how long a cached result list stays fresh (default 1h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// SummaryConfig holds settings for the trend summarization stage.
type SummaryConfig struct {
	// Models is the ordered model preference list. The summarizer tries each
	// model in order and falls back to the next on failure.
	Models []string `json:"models" yaml:"models"`

	// APIKey is the authentication key for the summarization API. Its
	// absence disables summarization; search still works.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens bounds the generated report length (default 2048).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// IncludeNoAbstract controls whether records without a usable summary
	// (typically news items) are passed to the summarizer with a placeholder
	// string instead of being excluded from the prompt.
	IncludeNoAbstract bool `json:"include_no_abstract" yaml:"include_no_abstract"`
}

// ReportConfig groups all stage configurations for the pipeline.
type ReportConfig struct {
	Aggregate AggregateConfig `json:"aggregate" yaml:"aggregate"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	Summary   SummaryConfig   `json:"summary" yaml:"summary"`
}
