// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize turns an aggregated record list into a narrative trend
// report by calling a hosted model API. Models come from a static, ordered
// preference list; the summarizer falls back to the next model on failure
// and never discovers models at request time.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pdiddy/trend-report/pkg/types"
)

// ErrNoAPIKey reports a missing summarization API key. Callers disable
// summarization and keep the rest of the pipeline running.
var ErrNoAPIKey = errors.New("summarization API key not configured")

// ErrNoRecords reports that there was nothing to summarize.
var ErrNoRecords = errors.New("no records to summarize")

// defaultModels is the fallback preference order when the config lists none.
var defaultModels = []string{"gpt-4o", "gpt-4o-mini"}

const defaultMaxTokens = 2048

// Summarizer calls the model API with an ordered preference list.
type Summarizer struct {
	client openai.Client
	cfg    types.SummaryConfig
}

// New builds a Summarizer from config. Extra request options (e.g. a test
// server base URL) are appended after the API key.
func New(cfg types.SummaryConfig, opts ...option.RequestOption) (*Summarizer, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	clientOpts := append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	return &Summarizer{
		client: openai.NewClient(clientOpts...),
		cfg:    cfg,
	}, nil
}

// Models returns the effective model preference order.
func (s *Summarizer) Models() []string {
	if len(s.cfg.Models) > 0 {
		return s.cfg.Models
	}
	return defaultModels
}

// Summarize builds the trend-report prompt from the records and tries each
// model in preference order, returning the first successful report text.
// Per-model failures are tolerated; only total failure returns an error,
// which wraps every attempt so the caller can render a plain explanation.
func (s *Summarizer) Summarize(ctx context.Context, keywords []string, records []types.Record) (string, error) {
	if len(records) == 0 {
		return "", ErrNoRecords
	}

	prompt, err := BuildPrompt(keywords, records, s.cfg.IncludeNoAbstract)
	if err != nil {
		return "", fmt.Errorf("building prompt: %w", err)
	}
	if prompt == "" {
		return "", ErrNoRecords
	}

	maxTokens := s.cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	var attempts []string
	for _, model := range s.Models() {
		text, err := s.complete(ctx, model, prompt, maxTokens)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		attempts = append(attempts, fmt.Sprintf("%s: %v", model, err))
	}

	return "", fmt.Errorf("all models failed: %s", strings.Join(attempts, "; "))
}

// complete issues one chat completion call for a single model.
func (s *Summarizer) complete(ctx context.Context, model, prompt string, maxTokens int) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(model),
		MaxTokens: openai.Int(int64(maxTokens)),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("model returned empty content")
	}
	return text, nil
}
