// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trend-report/internal/aggregate"
	"github.com/pdiddy/trend-report/internal/cache"
	"github.com/pdiddy/trend-report/internal/provider"
	"github.com/pdiddy/trend-report/internal/reportfile"
	"github.com/pdiddy/trend-report/internal/summarize"
	"github.com/pdiddy/trend-report/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report [keywords...]",
	Short: "Generate a trend report: aggregate, cache, summarize",
	Long: `Report runs the full pipeline. It aggregates records from the enabled
providers (serving repeated identical queries from the local result cache),
prints the record table, and asks a hosted model for a narrative trend
summary, falling back through the configured model list on failure.

A missing openai-api-key secret disables summarization; aggregation still
runs. Summarization failures degrade to a plain explanation in the output.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := aggregateConfig(cmd)
	now := time.Now()
	query := provider.NewQuery(keywordList(cmd, args), cfg.Window(), now)
	providers := buildProviders(cfg)
	days := int(cfg.Window().Hours() / 24)

	ctx := context.Background()
	out, hit, err := aggregateCached(ctx, cmd, query, providers, cfg, now, days)
	if err != nil {
		return err
	}
	if hit {
		fmt.Fprintln(os.Stderr, "Using cached results")
	}

	aggregate.FormatTable(out, os.Stdout)
	if len(out.Records) == 0 {
		return nil
	}

	summary := runSummarize(ctx, cmd, query, out)
	if summary != "" {
		fmt.Fprintf(os.Stdout, "\n--- Trend summary ---\n%s\n", summary)
	}

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		if err := reportfile.Write(path, query, days, out, summary, hit); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Saved report to", path)
	}
	return nil
}

// aggregateCached wraps aggregation in the result cache unless --no-cache is
// set. Identical keyword sets and windows share one cache entry for the TTL.
func aggregateCached(ctx context.Context, cmd *cobra.Command, query provider.Query, providers []provider.Provider, cfg types.AggregateConfig, now time.Time, days int) (aggregate.Output, bool, error) {
	fill := func(ctx context.Context) (aggregate.Output, error) {
		return aggregate.Aggregate(ctx, query, providers, cfg, now, os.Stderr)
	}

	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		out, err := fill(ctx)
		return out, false, err
	}

	c, err := cache.New(cacheConfig(cmd))
	if err != nil {
		return aggregate.Output{}, false, err
	}
	defer c.Close()

	return c.GetOrFill(ctx, cache.Key(query.Keywords, days), now, fill)
}

// runSummarize produces the summary text, or a plain explanation when the
// summarization step cannot run or fails. It never aborts the report.
func runSummarize(ctx context.Context, cmd *cobra.Command, query provider.Query, out aggregate.Output) string {
	s, err := summarize.New(summaryConfig(cmd))
	if errors.Is(err, summarize.ErrNoAPIKey) {
		fmt.Fprintln(os.Stderr, "warning: openai-api-key not configured, skipping summarization")
		return ""
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: summarizer setup failed: %v\n", err)
		return ""
	}

	text, err := s.Summarize(ctx, query.Keywords, out.Records)
	if errors.Is(err, summarize.ErrNoRecords) {
		return ""
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: summarization failed: %v\n", err)
		return fmt.Sprintf("Summary unavailable: %v", err)
	}
	return text
}

func init() {
	addSearchFlags(reportCmd)
	reportCmd.Flags().Bool("no-cache", false, "bypass the result cache for this run")
	reportCmd.Flags().String("cache-dir", "", "cache directory (default: cache)")
	reportCmd.Flags().StringSlice("model", nil, "model preference order for summarization")
	reportCmd.Flags().Int("max-tokens", 0, "summary length ceiling in tokens (default 2048)")
	reportCmd.Flags().Bool("include-no-abstract", true, "include records without abstracts in the summarization prompt")

	rootCmd.AddCommand(reportCmd)
}
