// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

package language

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "language_codes.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing catalog file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			name:    "valid catalog",
			content: `{"en": "English", "et": "Estonian", "de": "German"}`,
			wantErr: false,
		},
		{
			name:    "malformed json",
			content: `{"en": "English"`,
			wantErr: true,
		},
		{
			name:    "wrong shape",
			content: `["en", "et"]`,
			wantErr: true,
		},
		{
			name:    "empty object",
			content: `{}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCatalogFile(t, tt.content)
			catalog, err := Load(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && catalog.Len() == 0 {
				t.Error("Load() returned empty catalog for valid input")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Load() of missing file succeeded, want error")
	}
}

func TestCatalogResolve(t *testing.T) {
	catalog := NewCatalog(map[string]string{"en": "English", "et": "Estonian"})

	entry, err := catalog.Resolve("et")
	if err != nil {
		t.Fatalf("Resolve(et) error = %v", err)
	}
	if entry.Code != "et" || entry.DisplayName != "Estonian" {
		t.Errorf("Resolve(et) = %+v, want {et Estonian}", entry)
	}

	// Display names are stable across calls.
	again, err := catalog.Resolve("et")
	if err != nil {
		t.Fatalf("second Resolve(et) error = %v", err)
	}
	if again != entry {
		t.Errorf("Resolve(et) unstable: %+v then %+v", entry, again)
	}
}

func TestCatalogResolveUnknown(t *testing.T) {
	catalog := NewCatalog(map[string]string{"en": "English"})

	_, err := catalog.Resolve("xx")
	if !errors.Is(err, ErrUnknownLanguage) {
		t.Errorf("Resolve(xx) error = %v, want ErrUnknownLanguage", err)
	}
}

func TestCatalogCodesSorted(t *testing.T) {
	catalog := NewCatalog(map[string]string{"et": "Estonian", "de": "German", "en": "English"})

	got := catalog.Codes()
	want := []string{"de", "en", "et"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Codes() = %v, want %v", got, want)
	}
}

func TestCatalogCodesCopy(t *testing.T) {
	catalog := NewCatalog(map[string]string{"en": "English", "et": "Estonian"})

	codes := catalog.Codes()
	codes[0] = "zz"
	if got := catalog.Codes()[0]; got != "en" {
		t.Errorf("mutating Codes() result leaked into catalog: got %q", got)
	}
}

func TestNewCatalogCopiesInput(t *testing.T) {
	names := map[string]string{"en": "English"}
	catalog := NewCatalog(names)
	names["en"] = "Mutated"

	entry, err := catalog.Resolve("en")
	if err != nil {
		t.Fatalf("Resolve(en) error = %v", err)
	}
	if entry.DisplayName != "English" {
		t.Errorf("catalog shares storage with caller map: got %q", entry.DisplayName)
	}
}
