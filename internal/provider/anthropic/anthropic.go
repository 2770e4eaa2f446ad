// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package anthropic

import (
	"context"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jackeddaniel/neobot/internal/provider"
	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-5"

// maxTokens caps each reply. Explanations and fixed snippets fit comfortably.
const maxTokens = 8192

func init() {
	provider.Register("anthropic", func(cfg provider.Config) (provider.Generator, error) {
		return New(cfg)
	})
}

// Generator implements provider.Generator using the Anthropic Messages API.
type Generator struct {
	client anthropicsdk.Client
	model  string
}

// New creates an Anthropic generator. Returns an error if the API key is missing.
func New(cfg provider.Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, neoerr.New(neoerr.CodeProviderRequestInvalid,
			"anthropic: missing api_key in config", neoerr.FieldProvider("anthropic"))
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
		client: anthropicsdk.NewClient(opts...),
		model:  model,
	}, nil
}

func (g *Generator) Name() string { return "anthropic" }

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := g.client.Messages.New(ctx, anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(g.model),
		MaxTokens: maxTokens,
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", neoerr.Wrapf(err, neoerr.CodeProviderUpstreamFailure,
			"anthropic: creating message with %s", g.model)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", neoerr.New(neoerr.CodeProviderResponseInvalid,
			"anthropic: reply contained no text blocks", neoerr.FieldProvider("anthropic"))
	}
	return text, nil
}
