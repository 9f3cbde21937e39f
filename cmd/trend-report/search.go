package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trend-report/internal/aggregate"
	"github.com/pdiddy/trend-report/internal/provider"
	"github.com/pdiddy/trend-report/internal/reportfile"
)

var searchCmd = &cobra.Command{
	Use:   "search [keywords...]",
	Short: "Search literature and news sources for recent records",
	Long: `Search fans keywords out to the enabled providers (Semantic Scholar,
Europe PMC, arXiv, configured news feeds), keeps records published inside
the recency window, deduplicates by URL, and prints the merged list sorted
newest first. A provider failure is reported as a warning and skipped.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := aggregateConfig(cmd)
	now := time.Now()
	query := provider.NewQuery(keywordList(cmd, args), cfg.Window(), now)
	providers := buildProviders(cfg)

	out, err := aggregate.Aggregate(context.Background(), query, providers, cfg, now, os.Stderr)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if err := aggregate.FormatJSON(out, os.Stdout); err != nil {
			return err
		}
	} else {
		aggregate.FormatTable(out, os.Stdout)
	}

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		days := int(cfg.Window().Hours() / 24)
		if err := reportfile.Write(path, query, days, out, "", false); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Saved report to", path)
	}
	return nil
}

func init() {
	addSearchFlags(searchCmd)
	searchCmd.Flags().Bool("json", false, "output records as JSON")

	rootCmd.AddCommand(searchCmd)
}
