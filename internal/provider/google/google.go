// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package google

import (
	"context"

	"google.golang.org/genai"

	"github.com/jackeddaniel/neobot/internal/provider"
	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

func init() {
	provider.Register("google", func(cfg provider.Config) (provider.Generator, error) {
		return New(cfg)
	})
}

// Generator implements provider.Generator using the Google Gemini API.
type Generator struct {
	client *genai.Client
	model  string
}

// New creates a Google generator. Returns an error if the API key is missing.
func New(cfg provider.Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, neoerr.New(neoerr.CodeProviderRequestInvalid,
			"google: missing api_key in config", neoerr.FieldProvider("google"))
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(context.Background(), clientCfg)
	if err != nil {
		return nil, neoerr.Wrapf(err, neoerr.CodeProviderUpstreamFailure, "google: creating client")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Generator{client: client, model: model}, nil
}

func (g *Generator) Name() string { return "google" }

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", neoerr.Wrapf(err, neoerr.CodeProviderUpstreamFailure,
			"google: generating content with %s", g.model)
	}

	text := resp.Text()
	if text == "" {
		return "", neoerr.New(neoerr.CodeProviderResponseInvalid,
			"google: empty response", neoerr.FieldProvider("google"))
	}
	return text, nil
}
