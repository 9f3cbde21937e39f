package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const sampleEuropePMCJSON = `{
  "hitCount": 2,
  "resultList": {
    "result": [
      {
        "id": "38412345",
        "source": "MED",
        "title": "Enzymatic transesterification for biodiesel production.",
        "abstractText": "Lipase-catalyzed routes reduce energy demand.",
        "doi": "10.1186/s13068-026-1234-5",
        "firstPublicationDate": "2026-06-12"
      },
      {
        "id": "PPR812345",
        "source": "PPR",
        "title": "Waste cooking oil pretreatment",
        "abstractText": "",
        "firstPublicationDate": "2026-06-18"
      }
    ]
  }
}`

func TestEuropePMCFetch(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleEuropePMCJSON)
	}))
	defer ts.Close()

	old := europePMCAPIBase
	europePMCAPIBase = ts.URL
	defer func() { europePMCAPIBase = old }()

	p := &EuropePMC{Client: ts.Client()}
	query := NewQuery([]string{"biodiesel"}, 14*24*time.Hour, testNow())
	records, err := p.Fetch(context.Background(), query, testCfg())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	if !strings.Contains(gotQuery, `TITLE:"biodiesel"`) || !strings.Contains(gotQuery, `ABSTRACT:"biodiesel"`) {
		t.Errorf("query param missing field scope: %q", gotQuery)
	}
	if !strings.Contains(gotQuery, "FIRST_PDATE:[2026-06-06 TO 2026-06-20]") {
		t.Errorf("query param missing date range: %q", gotQuery)
	}

	r0 := records[0]
	if r0.Title != "Enzymatic transesterification for biodiesel production" {
		t.Errorf("Title = %q, trailing period should be trimmed", r0.Title)
	}
	if r0.URL != "https://doi.org/10.1186/s13068-026-1234-5" {
		t.Errorf("URL = %q, want DOI link", r0.URL)
	}
	if r0.Source != "europe_pmc" {
		t.Errorf("Source = %q", r0.Source)
	}

	// No DOI falls back to the Europe PMC abstract page.
	r1 := records[1]
	if r1.URL != "https://europepmc.org/abstract/PPR/PPR812345" {
		t.Errorf("URL = %q", r1.URL)
	}
	if !r1.PublishedAt.Equal(time.Date(2026, 6, 18, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("PublishedAt = %v", r1.PublishedAt)
	}
}

func TestBuildEuropePMCQuery(t *testing.T) {
	now := testNow()
	q := NewQuery([]string{"biodiesel", "SAF production"}, 14*24*time.Hour, now)
	got := buildEuropePMCQuery(q)

	want := `((TITLE:"biodiesel" OR ABSTRACT:"biodiesel") OR (TITLE:"SAF production" OR ABSTRACT:"SAF production")) AND FIRST_PDATE:[2026-06-06 TO 2026-06-20]`
	if got != want {
		t.Errorf("buildEuropePMCQuery:\n got  %q\n want %q", got, want)
	}
}

func TestBuildEuropePMCQueryEmpty(t *testing.T) {
	if got := buildEuropePMCQuery(Query{}); got != "" {
		t.Errorf("buildEuropePMCQuery(empty) = %q, want \"\"", got)
	}
}

func TestEuropePMCServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	old := europePMCAPIBase
	europePMCAPIBase = ts.URL
	defer func() { europePMCAPIBase = old }()

	p := &EuropePMC{Client: ts.Client()}
	query := NewQuery([]string{"biodiesel"}, 14*24*time.Hour, testNow())
	if _, err := p.Fetch(context.Background(), query, testCfg()); err == nil {
		t.Error("expected error for HTTP 502")
	}
}
