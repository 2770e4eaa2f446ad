// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package openai

import (
	"context"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/jackeddaniel/neobot/internal/provider"
	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

func init() {
	provider.Register("openai", func(cfg provider.Config) (provider.Generator, error) {
		return New(cfg)
	})
}

// Generator implements provider.Generator using the OpenAI Chat Completions API.
type Generator struct {
	client openaisdk.Client
	model  string
}

// New creates an OpenAI generator. Returns an error if the API key is missing.
func New(cfg provider.Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, neoerr.New(neoerr.CodeProviderRequestInvalid,
			"openai: missing api_key in config", neoerr.FieldProvider("openai"))
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Generator{
		client: openaisdk.NewClient(opts...),
		model:  model,
	}, nil
}

func (g *Generator) Name() string { return "openai" }

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: shared.ChatModel(g.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", neoerr.Wrapf(err, neoerr.CodeProviderUpstreamFailure,
			"openai: creating chat completion with %s", g.model)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", neoerr.New(neoerr.CodeProviderResponseInvalid,
			"openai: reply contained no choices", neoerr.FieldProvider("openai"))
	}
	return resp.Choices[0].Message.Content, nil
}
