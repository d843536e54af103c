// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ListenAddr != ":5000" {
		t.Errorf("Server.ListenAddr = %q, want %q", cfg.Server.ListenAddr, ":5000")
	}
	if cfg.Issue.Number != 2 {
		t.Errorf("Issue.Number = %d, want 2", cfg.Issue.Number)
	}
	if cfg.Archive.Dev {
		t.Error("Archive.Dev = true, want false by default")
	}
	if cfg.Fetch.Timeout != 30*time.Second {
		t.Errorf("Fetch.Timeout = %s, want 30s", cfg.Fetch.Timeout)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("WEEKLYPEDIA_SERVER_LISTEN_ADDR", ":8080")
	t.Setenv("WEEKLYPEDIA_ISSUE_NUMBER", "7")
	t.Setenv("WEEKLYPEDIA_ARCHIVE_DEV", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("Server.ListenAddr = %q, want %q", cfg.Server.ListenAddr, ":8080")
	}
	if cfg.Issue.Number != 7 {
		t.Errorf("Issue.Number = %d, want 7", cfg.Issue.Number)
	}
	if !cfg.Archive.Dev {
		t.Error("Archive.Dev = false, want true from env")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  listen_addr: \":9999\"\nissue:\n  number: 11\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ListenAddr != ":9999" {
		t.Errorf("Server.ListenAddr = %q, want %q", cfg.Server.ListenAddr, ":9999")
	}
	if cfg.Issue.Number != 11 {
		t.Errorf("Issue.Number = %d, want 11", cfg.Issue.Number)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("issue:\n  number: 11\n"), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("WEEKLYPEDIA_ISSUE_NUMBER", "13")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Issue.Number != 13 {
		t.Errorf("Issue.Number = %d, want env value 13 over file value 11", cfg.Issue.Number)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing listen addr",
			mutate:  func(c *Config) { c.Server.ListenAddr = "" },
			wantErr: true,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "non-url fetch base",
			mutate:  func(c *Config) { c.Fetch.BaseURL = "not a url" },
			wantErr: true,
		},
		{
			name:    "zero fetch timeout",
			mutate:  func(c *Config) { c.Fetch.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "zero issue number",
			mutate:  func(c *Config) { c.Issue.Number = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"WEEKLYPEDIA_SERVER_LISTEN_ADDR", "server.listen_addr"},
		{"WEEKLYPEDIA_FETCH_BASE_URL", "fetch.base_url"},
		{"WEEKLYPEDIA_ARCHIVE_DEV", "archive.dev"},
		{"WEEKLYPEDIA_MAILING_DEFAULT_LIST_ID", "mailing.default_list_id"},
		{"WEEKLYPEDIA_LOGGING_LEVEL", "logging.level"},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
