package reportfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdiddy/trend-report/internal/aggregate"
	"github.com/pdiddy/trend-report/internal/provider"
	"github.com/pdiddy/trend-report/pkg/types"
)

func TestWriteReadRoundTrip(t *testing.T) {
	now := time.Date(2026, 6, 20, 12, 0, 0, 0, time.UTC)
	query := provider.NewQuery([]string{"biodiesel", "SAF"}, 14*24*time.Hour, now)
	out := aggregate.Output{
		Records: []types.Record{
			{
				Title:       "Biodiesel yield study",
				Summary:     "Yield improved 12%",
				URL:         "https://doi.org/10.1/a",
				PublishedAt: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
				Source:      "europe_pmc",
			},
		},
		Stats:          aggregate.Stats{DupsRemoved: 2, Undated: 1},
		ProviderErrors: []string{"arxiv: rate limited"},
	}

	path := filepath.Join(t.TempDir(), "report.yaml")
	if err := Write(path, query, 14, out, "Weekly trend summary.", true); err != nil {
		t.Fatalf("Write: %v", err)
	}

	rf, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if len(rf.Query.Keywords) != 2 || rf.Query.Keywords[0] != "biodiesel" {
		t.Errorf("Keywords = %v", rf.Query.Keywords)
	}
	if rf.Query.WindowDays != 14 {
		t.Errorf("WindowDays = %d", rf.Query.WindowDays)
	}
	if rf.Query.From != "2026-06-06" || rf.Query.To != "2026-06-20" {
		t.Errorf("From/To = %q/%q", rf.Query.From, rf.Query.To)
	}
	if len(rf.Records) != 1 || rf.Records[0].URL != "https://doi.org/10.1/a" {
		t.Errorf("Records = %+v", rf.Records)
	}
	if !rf.Records[0].PublishedAt.Equal(time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("PublishedAt = %v", rf.Records[0].PublishedAt)
	}
	if rf.Summary != "Weekly trend summary." {
		t.Errorf("Summary = %q", rf.Summary)
	}
	if rf.Run.Total != 1 || rf.Run.DupsRemoved != 2 || rf.Run.Undated != 1 {
		t.Errorf("Run = %+v", rf.Run)
	}
	if !rf.Run.CacheHit {
		t.Error("CacheHit should round-trip")
	}
	if len(rf.Run.ProviderErrors) != 1 {
		t.Errorf("ProviderErrors = %v", rf.Run.ProviderErrors)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Error("expected parse error")
	}
}
