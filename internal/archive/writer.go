// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

// Package archive writes rendered issues to the date-partitioned static
// archive.
//
// Layout: <root>/<langCode>/<YYYYMMDD>[_dev]/weeklypedia_<YYYYMMDD>[_dev].<ext>
// for ext in {html, json, txt}. Paths are a pure function of their inputs,
// so every write's destination is predictable; writes themselves are
// last-writer-wins by design.
package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Rudiend/weeklypedia/internal/issue"
	"github.com/Rudiend/weeklypedia/internal/logging"
	"github.com/Rudiend/weeklypedia/internal/metrics"
)

// ErrArchiveWrite indicates a storage failure while writing one archive
// file. It is fatal for that format only; other formats proceed.
var ErrArchiveWrite = errors.New("archive write failed")

// devSuffix marks development/test archive writes in the path.
const devSuffix = "_dev"

// Entry records one completed archive write.
type Entry struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// Renderer is the slice of the issue renderer the archive needs.
type Renderer interface {
	Render(ctx issue.RenderContext, format issue.Format) (string, error)
}

// Writer publishes rendered issues under a fixed archive root.
type Writer struct {
	root     string
	renderer Renderer
}

// NewWriter creates a Writer rooted at root.
func NewWriter(root string, renderer Renderer) *Writer {
	return &Writer{root: root, renderer: renderer}
}

// ComputePath returns the archive destination for one (language, date,
// dev-flag, format) tuple. Pure: identical inputs always yield identical
// paths. The date is taken in UTC.
func (w *Writer) ComputePath(langCode string, date time.Time, dev bool, format issue.Format) string {
	dateStr := date.UTC().Format("20060102")
	if dev {
		dateStr += devSuffix
	}
	name := fmt.Sprintf("weeklypedia_%s.%s", dateStr, format.Extension())
	return filepath.Join(w.root, langCode, dateStr, name)
}

// Write stores content at path, creating missing parent directories.
// Directory creation is idempotent; a pre-existing directory is not an
// error, and concurrent creation races are tolerated. Existing file
// content is silently overwritten.
func (w *Writer) Write(path string, content []byte) (Entry, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Entry{}, fmt.Errorf("%w: creating parent directories for %s: %w", ErrArchiveWrite, path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: opening %s: %w", ErrArchiveWrite, path, err)
	}

	n, err := f.Write(content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return Entry{}, fmt.Errorf("%w: writing %s: %w", ErrArchiveWrite, path, err)
	}

	return Entry{Path: path, Bytes: n}, nil
}

// PublishAll renders the context into every format and writes each to its
// archive destination. Failures are isolated per format: remaining formats
// still publish, and the joined error is returned alongside the entries
// that succeeded.
func (w *Writer) PublishAll(renderCtx issue.RenderContext, langCode string, dev bool, now time.Time) ([]Entry, error) {
	var entries []Entry
	var errs []error

	for _, format := range issue.Formats {
		ext := format.Extension()

		rendered, err := w.renderer.Render(renderCtx, format)
		if err != nil {
			metrics.ArchiveWriteErrors.WithLabelValues(langCode, ext).Inc()
			errs = append(errs, fmt.Errorf("rendering %s for %q: %w", ext, langCode, err))
			continue
		}

		path := w.ComputePath(langCode, now, dev, format)
		entry, err := w.Write(path, []byte(rendered))
		if err != nil {
			metrics.ArchiveWriteErrors.WithLabelValues(langCode, ext).Inc()
			errs = append(errs, err)
			continue
		}

		metrics.ArchiveWritesTotal.WithLabelValues(langCode, ext).Inc()
		metrics.ArchiveWriteBytes.WithLabelValues(langCode, ext).Add(float64(entry.Bytes))
		logging.Debug().
			Str("lang", langCode).
			Str("path", entry.Path).
			Int("bytes", entry.Bytes).
			Msg("Archived issue format")
		entries = append(entries, entry)
	}

	return entries, errors.Join(errs...)
}
