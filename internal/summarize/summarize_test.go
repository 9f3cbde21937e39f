package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/openai/openai-go/option"

	"github.com/pdiddy/trend-report/pkg/types"
)

func sampleRecords() []types.Record {
	return []types.Record{
		{
			Title:       "Biodiesel yield study",
			Summary:     "Yield improved 12% with a heterogeneous catalyst.",
			URL:         "https://doi.org/10.1/a",
			PublishedAt: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
			Source:      "europe_pmc",
		},
		{
			Title:       "Airline signs SAF offtake agreement",
			Summary:     "",
			URL:         "https://news.example.com/saf",
			PublishedAt: time.Date(2026, 6, 18, 0, 0, 0, 0, time.UTC),
			Source:      "news:overseas",
		},
	}
}

// completionServer fakes the chat completions endpoint. failModels lists
// models that respond with HTTP 500.
func completionServer(t *testing.T, failModels ...string) (*httptest.Server, *[]string) {
	t.Helper()
	var calledModels []string

	failing := make(map[string]bool)
	for _, m := range failModels {
		failing[m] = true
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		calledModels = append(calledModels, req.Model)

		if failing[req.Model] {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error": {"message": "model overloaded"}}`)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1750000000,
			"model": %q,
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "Trend report from %s."},
				"finish_reason": "stop"
			}]
		}`, req.Model, req.Model)
	}))
	return ts, &calledModels
}

func testSummarizer(t *testing.T, ts *httptest.Server, models []string) *Summarizer {
	t.Helper()
	s, err := New(types.SummaryConfig{
		Models: models,
		APIKey: "test-key",
	}, option.WithBaseURL(ts.URL), option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewMissingAPIKey(t *testing.T) {
	_, err := New(types.SummaryConfig{})
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("err = %v, want ErrNoAPIKey", err)
	}
}

func TestSummarizeFirstModelWins(t *testing.T) {
	ts, called := completionServer(t)
	defer ts.Close()

	s := testSummarizer(t, ts, []string{"gpt-4o", "gpt-4o-mini"})
	text, err := s.Summarize(context.Background(), []string{"biodiesel"}, sampleRecords())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if text != "Trend report from gpt-4o." {
		t.Errorf("text = %q", text)
	}
	if len(*called) != 1 || (*called)[0] != "gpt-4o" {
		t.Errorf("called models = %v, want just gpt-4o", *called)
	}
}

func TestSummarizeFallsBackToNextModel(t *testing.T) {
	ts, called := completionServer(t, "gpt-4o")
	defer ts.Close()

	s := testSummarizer(t, ts, []string{"gpt-4o", "gpt-4o-mini"})
	text, err := s.Summarize(context.Background(), []string{"biodiesel"}, sampleRecords())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if text != "Trend report from gpt-4o-mini." {
		t.Errorf("text = %q", text)
	}
	if len(*called) != 2 {
		t.Errorf("called models = %v, want fallback sequence", *called)
	}
}

func TestSummarizeTotalFailure(t *testing.T) {
	ts, _ := completionServer(t, "gpt-4o", "gpt-4o-mini")
	defer ts.Close()

	s := testSummarizer(t, ts, []string{"gpt-4o", "gpt-4o-mini"})
	_, err := s.Summarize(context.Background(), []string{"biodiesel"}, sampleRecords())
	if err == nil {
		t.Fatal("expected error when all models fail")
	}
	if !strings.Contains(err.Error(), "gpt-4o") || !strings.Contains(err.Error(), "gpt-4o-mini") {
		t.Errorf("error should name every attempted model: %v", err)
	}
}

func TestSummarizeNoRecords(t *testing.T) {
	ts, called := completionServer(t)
	defer ts.Close()

	s := testSummarizer(t, ts, []string{"gpt-4o"})
	_, err := s.Summarize(context.Background(), []string{"biodiesel"}, nil)
	if !errors.Is(err, ErrNoRecords) {
		t.Errorf("err = %v, want ErrNoRecords", err)
	}
	if len(*called) != 0 {
		t.Error("no API call should be made without records")
	}
}

func TestModelsDefault(t *testing.T) {
	s, err := New(types.SummaryConfig{APIKey: "k"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	models := s.Models()
	if len(models) == 0 {
		t.Fatal("default model list is empty")
	}
}

// --- prompt ---

func TestBuildPromptNumbersRecords(t *testing.T) {
	prompt, err := BuildPrompt([]string{"biodiesel", "SAF"}, sampleRecords(), true)
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	if !strings.Contains(prompt, "biodiesel, SAF") {
		t.Error("prompt should name the keywords")
	}
	if !strings.Contains(prompt, "[1] Biodiesel yield study: Yield improved 12%") {
		t.Errorf("prompt missing first record:\n%s", prompt)
	}
	if !strings.Contains(prompt, "[2] Airline signs SAF offtake agreement: "+noAbstractPlaceholder) {
		t.Errorf("prompt should carry the placeholder for missing abstracts:\n%s", prompt)
	}
}

func TestBuildPromptExcludesNoAbstract(t *testing.T) {
	prompt, err := BuildPrompt([]string{"biodiesel"}, sampleRecords(), false)
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	if strings.Contains(prompt, "SAF offtake") {
		t.Error("record without abstract should be excluded under the exclusion policy")
	}
	if !strings.Contains(prompt, "[1] Biodiesel yield study") {
		t.Error("record with abstract should remain")
	}
}

func TestBuildPromptAllEmpty(t *testing.T) {
	records := []types.Record{{Title: "No abstract", URL: "u"}}
	prompt, err := BuildPrompt([]string{"biodiesel"}, records, false)
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	if prompt != "" {
		t.Errorf("prompt = %q, want empty when nothing contributes material", prompt)
	}
}
