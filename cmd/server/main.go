// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

// Package main is the entry point for the Weeklypedia server.
//
// Weeklypedia builds a weekly digest of Wikipedia edit activity per language
// edition: it fetches recent-activity data from an upstream source, renders
// it as an html/text/data issue, publishes the formats to a date-partitioned
// static archive, and dispatches the issue as a mailing-list campaign while
// keeping a per-language send history.
//
// # Startup order
//
//  1. Configuration: Koanf v2 layered sources (env > config.yaml > defaults)
//  2. Logging: zerolog, configured from the loaded settings
//  3. Language catalog: JSON code-to-name table, loaded once
//  4. Pipeline: fetcher, renderer, archive writer, history store,
//     mailing-list client, dispatcher
//  5. HTTP server: chi router under a suture supervision tree
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the server stops accepting
// connections and in-flight requests get the configured shutdown timeout to
// complete.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rudiend/weeklypedia/internal/api"
	"github.com/Rudiend/weeklypedia/internal/archive"
	"github.com/Rudiend/weeklypedia/internal/config"
	"github.com/Rudiend/weeklypedia/internal/dispatch"
	"github.com/Rudiend/weeklypedia/internal/history"
	"github.com/Rudiend/weeklypedia/internal/issue"
	"github.com/Rudiend/weeklypedia/internal/language"
	"github.com/Rudiend/weeklypedia/internal/logging"
	"github.com/Rudiend/weeklypedia/internal/mailinglist"
	"github.com/Rudiend/weeklypedia/internal/supervisor"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Str("version", version).
		Str("listen_addr", cfg.Server.ListenAddr).
		Str("fetch_base_url", cfg.Fetch.BaseURL).
		Msg("Starting Weeklypedia")

	catalog, err := language.Load(cfg.Catalog.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load language catalog")
	}
	logging.Info().Int("languages", catalog.Len()).Msg("Language catalog loaded")

	renderer, err := issue.NewRenderer()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to parse issue templates")
	}

	fetcher := issue.NewFetcher(catalog, cfg.Fetch)
	writer := archive.NewWriter(cfg.Archive.Root, renderer)
	store := history.NewFileStore(cfg.History.Path)
	sender := mailinglist.NewClient(cfg.Mailing.BaseURL)

	dispatcher := dispatch.New(dispatch.Params{
		Catalog:       catalog,
		Fetcher:       fetcher,
		Renderer:      renderer,
		Sender:        sender,
		History:       store,
		IssueNumber:   cfg.Issue.Number,
		APIKeySuffix:  cfg.Mailing.APIKeySuffix,
		DefaultListID: cfg.Mailing.DefaultListID,
	})

	handler := api.NewHandler(catalog, fetcher, renderer, dispatcher, writer, cfg.Archive.Dev, version)
	router := api.NewRouter(handler, api.RouterConfig{
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   cfg.Server.RateLimit,
	})

	server := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.Config{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.Add(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	logging.Info().Msg("Weeklypedia stopped gracefully")
}
