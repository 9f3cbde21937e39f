// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reportfile saves a finished report to disk and loads it back.
// A saved report carries the query, the normalized records, the generated
// summary, and run statistics, so a report can be re-rendered without
// re-querying providers.
package reportfile

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/trend-report/internal/aggregate"
	"github.com/pdiddy/trend-report/internal/provider"
	"github.com/pdiddy/trend-report/pkg/types"
)

// ReportFile is the on-disk representation of one report run.
type ReportFile struct {
	Query   QueryParams    `yaml:"query"`
	Records []types.Record `yaml:"records"`
	Summary string         `yaml:"summary,omitempty"`
	Run     RunSummary     `yaml:"run"`
}

// QueryParams stores the query parameters in a serializable form.
type QueryParams struct {
	Keywords   []string `yaml:"keywords"`
	WindowDays int      `yaml:"window_days"`
	From       string   `yaml:"from,omitempty"`
	To         string   `yaml:"to,omitempty"`
}

// RunSummary stores run statistics and a timestamp.
type RunSummary struct {
	Total          int       `yaml:"total"`
	DupsRemoved    int       `yaml:"dups_removed"`
	Undated        int       `yaml:"undated"`
	Stale          int       `yaml:"stale"`
	ProviderErrors []string  `yaml:"provider_errors,omitempty"`
	CacheHit       bool      `yaml:"cache_hit"`
	Timestamp      time.Time `yaml:"timestamp"`
}

const dateFmt = "2006-01-02"

// Write saves the query, aggregation output, and summary text to a YAML file.
func Write(path string, query provider.Query, windowDays int, out aggregate.Output, summary string, cacheHit bool) error {
	rf := ReportFile{
		Query: QueryParams{
			Keywords:   query.Keywords,
			WindowDays: windowDays,
		},
		Records: out.Records,
		Summary: summary,
		Run: RunSummary{
			Total:          len(out.Records),
			DupsRemoved:    out.Stats.DupsRemoved,
			Undated:        out.Stats.Undated,
			Stale:          out.Stats.Stale,
			ProviderErrors: out.ProviderErrors,
			CacheHit:       cacheHit,
			Timestamp:      time.Now(),
		},
	}

	if !query.From.IsZero() {
		rf.Query.From = query.From.Format(dateFmt)
	}
	if !query.To.IsZero() {
		rf.Query.To = query.To.Format(dateFmt)
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling report file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Read loads a previously saved report file from disk.
func Read(path string) (*ReportFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report file: %w", err)
	}
	var rf ReportFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing report file: %w", err)
	}
	return &rf, nil
}
