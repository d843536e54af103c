// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

// Package config provides layered configuration loading for Weeklypedia.
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (WEEKLYPEDIA_ prefix)
//   - Config file (config.yaml)
//   - Built-in defaults
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the Weeklypedia server.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Fetch   FetchConfig   `koanf:"fetch"`
	Archive ArchiveConfig `koanf:"archive"`
	History HistoryConfig `koanf:"history"`
	Catalog CatalogConfig `koanf:"catalog"`
	Issue   IssueConfig   `koanf:"issue"`
	Mailing MailingConfig `koanf:"mailing"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `koanf:"listen_addr" validate:"required"`

	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimit is the per-IP request limit per minute for API routes.
	RateLimit int `koanf:"rate_limit" validate:"gte=0"`

	// CORSOrigins lists allowed CORS origins. Empty means same-origin only.
	CORSOrigins []string `koanf:"cors_origins"`
}

// FetchConfig holds settings for the upstream recent-activity source.
type FetchConfig struct {
	// BaseURL is the upstream fetch endpoint; the language code is appended
	// as a path segment.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// Timeout is the HTTP client timeout for one fetch.
	Timeout time.Duration `koanf:"timeout"`
}

// ArchiveConfig holds settings for the static issue archive.
type ArchiveConfig struct {
	// Root is the directory under which dated issue archives are written.
	Root string `koanf:"root" validate:"required"`

	// Dev marks archive writes with the _dev path suffix by default.
	// Individual publish requests may override it.
	Dev bool `koanf:"dev"`
}

// HistoryConfig holds settings for the send-history log.
type HistoryConfig struct {
	// Path is the JSON history document location.
	Path string `koanf:"path" validate:"required"`
}

// CatalogConfig holds settings for the language catalog.
type CatalogConfig struct {
	// Path is the JSON code-to-name table location, loaded once at startup.
	Path string `koanf:"path" validate:"required"`
}

// IssueConfig holds issue numbering settings.
type IssueConfig struct {
	// Number is the issue number stamped into generated digests.
	Number int `koanf:"number" validate:"gte=1"`
}

// MailingConfig holds mailing-list provider settings.
type MailingConfig struct {
	// BaseURL is the campaign endpoint of the mailing-list provider.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// APIKeySuffix is the server-held secret appended to the per-request
	// send key to form the provider API key.
	APIKeySuffix string `koanf:"api_key_suffix"`

	// DefaultListID is used when a send request does not name a list.
	DefaultListID string `koanf:"default_list_id"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:      ":5000",
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       120,
			CORSOrigins:     nil,
		},
		Fetch: FetchConfig{
			BaseURL: "http://tools.wmflabs.org/weeklypedia/fetch",
			Timeout: 30 * time.Second,
		},
		Archive: ArchiveConfig{
			Root: "static/archive",
			Dev:  false,
		},
		History: HistoryConfig{
			Path: "history.json",
		},
		Catalog: CatalogConfig{
			Path: "language_codes.json",
		},
		Issue: IssueConfig{
			Number: 2,
		},
		Mailing: MailingConfig{
			BaseURL:       "https://api.createsend.com/api/v3/campaigns",
			APIKeySuffix:  "",
			DefaultListID: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for consistency. It is called by Load
// after all layers are merged.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout)
	}
	return nil
}
