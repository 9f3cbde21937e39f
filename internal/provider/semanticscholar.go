// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/trend-report/internal/httputil"
	"github.com/pdiddy/trend-report/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,url,externalIds,publicationDate,venue"

// SemanticScholar queries the Semantic Scholar Graph API.
type SemanticScholar struct {
	Client *http.Client
	APIKey string
}

// Name returns the provider identifier.
func (p *SemanticScholar) Name() string { return "semantic_scholar" }

// Fetch queries the Semantic Scholar API. Exact day filtering is not
// available server-side, so the year parameter narrows the fetch and the
// window filter finishes the job client-side.
func (p *SemanticScholar) Fetch(ctx context.Context, query Query, cfg types.AggregateConfig) ([]types.Record, error) {
	q := buildSemanticQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}

	params := url.Values{
		"query":  {q},
		"limit":  {fmt.Sprintf("%d", maxResults(cfg))},
		"fields": {semanticFields},
	}
	if yearRange := buildYearRange(query.From, query.To); yearRange != "" {
		params.Set("year", yearRange)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	if p.APIKey != "" {
		req.Header.Set("x-api-key", p.APIKey)
	}

	resp, err := httputil.Do(p.Client, req)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	var records []types.Record
	for _, paper := range sr.Data {
		if paper.Title == "" {
			continue
		}

		r := types.Record{
			Title:   paper.Title,
			Summary: paper.Abstract,
			Source:  "semantic_scholar",
		}

		// Prefer the DOI link as the canonical URL, then the S2 page.
		if paper.ExternalIDs.DOI != "" {
			r.URL = "https://doi.org/" + paper.ExternalIDs.DOI
		} else {
			r.URL = paper.URL
		}

		if paper.PublicationDate != "" {
			if t, parseErr := time.Parse("2006-01-02", paper.PublicationDate); parseErr == nil {
				r.PublishedAt = t
			}
		}

		records = append(records, r)
	}
	return records, nil
}

// buildSemanticQuery joins keywords into a single OR query. The API treats
// the query as free text, so bare OR terms are the field scope.
func buildSemanticQuery(q Query) string {
	return strings.Join(q.Keywords, " | ")
}

// buildYearRange returns a Semantic Scholar year filter string
// (e.g. "2025-2026") covering the query window.
func buildYearRange(from, to time.Time) string {
	switch {
	case !from.IsZero() && !to.IsZero():
		if from.Year() == to.Year() {
			return fmt.Sprintf("%d", to.Year())
		}
		return fmt.Sprintf("%d-%d", from.Year(), to.Year())
	case !from.IsZero():
		return fmt.Sprintf("%d-", from.Year())
	case !to.IsZero():
		return fmt.Sprintf("-%d", to.Year())
	default:
		return ""
	}
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID         string              `json:"paperId"`
	Title           string              `json:"title"`
	Abstract        string              `json:"abstract"`
	URL             string              `json:"url"`
	Venue           string              `json:"venue"`
	PublicationDate string              `json:"publicationDate"`
	ExternalIDs     semanticExternalIDs `json:"externalIds"`
}

type semanticExternalIDs struct {
	DOI      string `json:"DOI"`
	ArXiv    string `json:"ArXiv"`
	CorpusID int    `json:"CorpusId"`
}
