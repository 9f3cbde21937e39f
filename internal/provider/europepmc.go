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

// europePMCAPIBase is the Europe PMC REST search endpoint. Declared as a
// var so tests can substitute an httptest server.
var europePMCAPIBase = "https://www.ebi.ac.uk/europepmc/webservices/rest/search"

// EuropePMC queries the Europe PMC REST API.
type EuropePMC struct {
	Client *http.Client
}

// Name returns the provider identifier.
func (p *EuropePMC) Name() string { return "europe_pmc" }

// Fetch queries Europe PMC. The query language supports field scoping and
// a server-side publication-date range, so both are pushed to the server;
// the client-side window filter then only trims same-day edges.
func (p *EuropePMC) Fetch(ctx context.Context, query Query, cfg types.AggregateConfig) ([]types.Record, error) {
	q := buildEuropePMCQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty Europe PMC query")
	}

	params := url.Values{
		"query":    {q},
		"format":   {"json"},
		"pageSize": {fmt.Sprintf("%d", maxResults(cfg))},
		"sort":     {"P_PDATE_D desc"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, europePMCAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.Do(p.Client, req)
	if err != nil {
		return nil, fmt.Errorf("Europe PMC API request: %w", err)
	}
	defer resp.Body.Close()

	var er europePMCResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("parsing Europe PMC response: %w", err)
	}

	var records []types.Record
	for _, res := range er.ResultList.Result {
		if res.Title == "" {
			continue
		}

		r := types.Record{
			Title:   strings.TrimSuffix(res.Title, "."),
			Summary: res.AbstractText,
			Source:  "europe_pmc",
		}

		if res.DOI != "" {
			r.URL = "https://doi.org/" + res.DOI
		} else if res.Source != "" && res.ID != "" {
			r.URL = fmt.Sprintf("https://europepmc.org/abstract/%s/%s", res.Source, res.ID)
		}

		if res.FirstPublicationDate != "" {
			if t, parseErr := time.Parse("2006-01-02", res.FirstPublicationDate); parseErr == nil {
				r.PublishedAt = t
			}
		}

		records = append(records, r)
	}
	return records, nil
}

// buildEuropePMCQuery wraps each keyword in a title/abstract field scope,
// ORs them together, and appends the publication-date range clause.
func buildEuropePMCQuery(q Query) string {
	var terms []string
	for _, kw := range q.Keywords {
		terms = append(terms, fmt.Sprintf(`(TITLE:%q OR ABSTRACT:%q)`, kw, kw))
	}
	if len(terms) == 0 {
		return ""
	}

	expr := strings.Join(terms, " OR ")
	if !q.From.IsZero() && !q.To.IsZero() {
		expr = fmt.Sprintf("(%s) AND FIRST_PDATE:[%s TO %s]",
			expr, q.From.Format("2006-01-02"), q.To.Format("2006-01-02"))
	}
	return expr
}

// Europe PMC API JSON structures.
type europePMCResponse struct {
	HitCount   int                 `json:"hitCount"`
	ResultList europePMCResultList `json:"resultList"`
}

type europePMCResultList struct {
	Result []europePMCResult `json:"result"`
}

type europePMCResult struct {
	ID                   string `json:"id"`
	Source               string `json:"source"`
	Title                string `json:"title"`
	AbstractText         string `json:"abstractText"`
	DOI                  string `json:"doi"`
	FirstPublicationDate string `json:"firstPublicationDate"`
}
