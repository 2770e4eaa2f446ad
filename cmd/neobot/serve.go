// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jackeddaniel/neobot/internal/provider"
	"github.com/jackeddaniel/neobot/internal/relay"
	"github.com/jackeddaniel/neobot/internal/secrets"
	"github.com/jackeddaniel/neobot/internal/store"

	_ "github.com/jackeddaniel/neobot/internal/provider/anthropic"
	_ "github.com/jackeddaniel/neobot/internal/provider/google"
	_ "github.com/jackeddaniel/neobot/internal/provider/openai"
	_ "github.com/jackeddaniel/neobot/internal/store/sqlite"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the assistant relay",
		Long:  "Start the HTTP relay that holds sessions and talks to the configured assistant backend.",
		RunE:  runServe,
	}

	cmd.Flags().String("listen", "", "override listen address (host:port)")
	_ = viper.BindPFlag("server.listen", cmd.Flags().Lookup("listen"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Serving is a foreground activity; always log at info.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// A keyring://service/key reference in server.api_key resolves to the
	// stored secret; plain values pass through.
	apiKey, err := secrets.ResolveKeyringURI(secrets.NewKeyringStore(), cfg.Server.APIKey)
	if err != nil {
		return err
	}

	generator, err := provider.New(cfg.Server.Provider, provider.Config{
		APIKey: apiKey,
		Model:  cfg.Server.Model,
	})
	if err != nil {
		return err
	}

	sessions, err := store.Open(cfg.Server.Storage.Backend, cfg.Server.Storage.Path)
	if err != nil {
		return err
	}
	defer func() { _ = sessions.Close() }()

	srv, err := relay.New(relay.Config{
		ListenAddr:  cfg.Server.Listen,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, sessions, generator)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("relay listening",
		"addr", cfg.Server.Listen,
		"provider", generator.Name(),
		"storage", cfg.Server.Storage.Backend,
	)

	return srv.Start(ctx)
}
