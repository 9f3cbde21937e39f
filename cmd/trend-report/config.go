// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trend-report/internal/provider"
	"github.com/pdiddy/trend-report/pkg/types"
)

const defaultHTTPTimeout = 20 * time.Second

// aggregateConfig builds the aggregation config from command flags, with
// config-file values filling in whatever the flags leave at their defaults.
func aggregateConfig(cmd *cobra.Command) types.AggregateConfig {
	timeout := viper.GetDuration("aggregate.timeout")
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	userAgent := viper.GetString("aggregate.user_agent")
	if userAgent == "" {
		userAgent = "trend-report/" + version
	}

	return types.AggregateConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: userAgent,
		},
		MaxResults:            flagOrConfigInt(cmd, "max-results", "aggregate.max_results", 0),
		WindowDays:            flagOrConfigInt(cmd, "days", "aggregate.window_days", 0),
		EnableSemanticScholar: flagOrConfigBool(cmd, "semantic-scholar", "aggregate.enable_semantic_scholar", true),
		EnableEuropePMC:       flagOrConfigBool(cmd, "europe-pmc", "aggregate.enable_europe_pmc", true),
		EnableArxiv:           flagOrConfigBool(cmd, "arxiv", "aggregate.enable_arxiv", true),
		SemanticScholarAPIKey: secretDefault("semantic-scholar-api-key", viper.GetString("aggregate.semantic_scholar_api_key")),
		NewsFeeds:             newsFeedsFromConfig(),
	}
}

// newsFeedsFromConfig reads the aggregate.news_feeds list from the config
// file. Feeds have no flag equivalent; a run without a config file simply
// queries no news sources.
func newsFeedsFromConfig() []types.NewsFeedConfig {
	raw, ok := viper.Get("aggregate.news_feeds").([]interface{})
	if !ok {
		return nil
	}

	var feeds []types.NewsFeedConfig
	for _, entry := range raw {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}

		feed := types.NewsFeedConfig{
			Label:     stringValue(m["label"]),
			SearchURL: stringValue(m["search_url"]),
		}
		if feed.SearchURL == "" {
			continue
		}

		if params, ok := m["params"].(map[string]interface{}); ok {
			feed.Params = make(map[string]string, len(params))
			for k, v := range params {
				feed.Params[k] = stringValue(v)
			}
		}

		feeds = append(feeds, feed)
	}
	return feeds
}

// cacheConfig builds the cache config from flags and the config file.
func cacheConfig(cmd *cobra.Command) types.CacheConfig {
	dir, _ := cmd.Flags().GetString("cache-dir")
	if dir == "" {
		dir = viper.GetString("cache.dir")
	}
	return types.CacheConfig{
		Dir: dir,
		TTL: viper.GetDuration("cache.ttl"),
	}
}

// summaryConfig builds the summarization config. The API key comes from the
// config file or the openai-api-key secret.
func summaryConfig(cmd *cobra.Command) types.SummaryConfig {
	models, _ := cmd.Flags().GetStringSlice("model")
	if len(models) == 0 {
		models = viper.GetStringSlice("summary.models")
	}

	return types.SummaryConfig{
		Models:            models,
		APIKey:            secretDefault("openai-api-key", viper.GetString("summary.api_key")),
		MaxTokens:         flagOrConfigInt(cmd, "max-tokens", "summary.max_tokens", 0),
		IncludeNoAbstract: flagOrConfigBool(cmd, "include-no-abstract", "summary.include_no_abstract", true),
	}
}

// buildProviders constructs one provider per enabled source, all sharing one
// HTTP client.
func buildProviders(cfg types.AggregateConfig) []provider.Provider {
	client := &http.Client{Timeout: cfg.Timeout}

	var providers []provider.Provider
	if cfg.EnableSemanticScholar {
		providers = append(providers, &provider.SemanticScholar{Client: client, APIKey: cfg.SemanticScholarAPIKey})
	}
	if cfg.EnableEuropePMC {
		providers = append(providers, &provider.EuropePMC{Client: client})
	}
	if cfg.EnableArxiv {
		providers = append(providers, &provider.Arxiv{Client: client})
	}
	for _, feed := range cfg.NewsFeeds {
		providers = append(providers, &provider.NewsRSS{Client: client, Feed: feed})
	}
	return providers
}

// keywordList merges the --keywords flag (comma-separated) with positional
// arguments. Blank entries are dropped later by the query constructor.
func keywordList(cmd *cobra.Command, args []string) []string {
	raw, _ := cmd.Flags().GetString("keywords")
	var keywords []string
	if raw != "" {
		keywords = strings.Split(raw, ",")
	}
	return append(keywords, args...)
}

// addSearchFlags registers the flags shared by search and report.
func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().String("keywords", "", "search keywords (comma-separated; positional arguments also accepted)")
	cmd.Flags().Int("days", 0, "recency window in days (default 14)")
	cmd.Flags().Int("max-results", 0, "per-provider result ceiling (default 30)")
	cmd.Flags().Bool("semantic-scholar", true, "query Semantic Scholar")
	cmd.Flags().Bool("europe-pmc", true, "query Europe PMC")
	cmd.Flags().Bool("arxiv", true, "query arXiv")
	cmd.Flags().String("output", "", "write the report to a YAML file at this path")
}

// flagOrConfigInt resolves an int setting: explicit flag first, then the
// config file, then the fallback.
func flagOrConfigInt(cmd *cobra.Command, flag, key string, fallback int) int {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetInt(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return fallback
}

// flagOrConfigBool resolves a bool setting the same way.
func flagOrConfigBool(cmd *cobra.Command, flag, key string, fallback bool) bool {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetBool(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return fallback
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}
