// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

// Package language provides the static language-code catalog.
//
// The catalog maps short Wikipedia language codes (en, de, et, ...) to
// display names. It is loaded once at startup and immutable thereafter;
// every component that accepts a language code resolves it here before use.
package language

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-json"
)

// DefaultCode is the language used when a request does not name one.
const DefaultCode = "en"

// ErrUnknownLanguage is returned when a code is not present in the catalog.
var ErrUnknownLanguage = errors.New("unknown language code")

// Entry is one catalog row.
type Entry struct {
	// Code is the short language identifier, e.g. "en".
	Code string `json:"code"`

	// DisplayName is the human-readable edition name, e.g. "English".
	DisplayName string `json:"display_name"`
}

// Catalog is an immutable code-to-name table. The zero value is empty;
// construct with Load or NewCatalog.
type Catalog struct {
	names map[string]string
	codes []string
}

// Load reads a JSON object of code to display name from path.
// Called once at process start; a malformed or unreadable file is fatal.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading language catalog %s: %w", path, err)
	}

	var names map[string]string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("parsing language catalog %s: %w", path, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("language catalog %s contains no entries", path)
	}

	return NewCatalog(names), nil
}

// NewCatalog builds a catalog from an in-memory table. The map is copied;
// later mutation of the argument does not affect the catalog.
func NewCatalog(names map[string]string) *Catalog {
	c := &Catalog{
		names: make(map[string]string, len(names)),
		codes: make([]string, 0, len(names)),
	}
	for code, name := range names {
		c.names[code] = name
		c.codes = append(c.codes, code)
	}
	sort.Strings(c.codes)
	return c
}

// Resolve looks up a language code. Unknown codes fail with ErrUnknownLanguage.
func (c *Catalog) Resolve(code string) (Entry, error) {
	name, ok := c.names[code]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	return Entry{Code: code, DisplayName: name}, nil
}

// Codes returns all known codes in lexicographic order.
// The returned slice is a copy; callers may not mutate catalog state.
func (c *Catalog) Codes() []string {
	out := make([]string, len(c.codes))
	copy(out, c.codes)
	return out
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.codes)
}
