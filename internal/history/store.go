// Weeklypedia - Wikipedia Edit Activity Digest Service
// Copyright 2026 Rudiend
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Rudiend/weeklypedia

// Package history records which issues were dispatched, per language.
//
// The log is an append-only sequence of render-context snapshots keyed by
// language code, persisted as one JSON document. Every append reloads the
// document from durable storage, mutates it in memory, and rewrites it
// whole; nothing is cached across calls, so a failed write can never leave
// stale in-memory state visible to later calls.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/Rudiend/weeklypedia/internal/issue"
)

var (
	// ErrHistoryLoad indicates unreadable or corrupt history storage.
	// There is no partial-recovery strategy; a corrupt log blocks all
	// subsequent sends until fixed.
	ErrHistoryLoad = errors.New("history load failed")

	// ErrHistoryWrite indicates a storage failure while persisting an
	// append. The in-memory mutation is discarded with it.
	ErrHistoryWrite = errors.New("history write failed")
)

// Log maps language code to the ordered issue contexts dispatched for it.
type Log map[string][]issue.RenderContext

// Store is the durable send-history contract. Implementations must keep
// appends for one language in call order.
type Store interface {
	// Load returns the full history log.
	Load() (Log, error)

	// Append records one dispatched issue context for langCode.
	Append(langCode string, ctx issue.RenderContext) error
}

// FileStore persists the log as a single JSON file.
//
// All appends are serialized by one mutex. The log is stored as a single
// document, so cross-language appends share the same read-modify-rewrite
// window and need the same serialization as same-language appends.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the JSON document at path.
// A missing file is treated as an empty log; it appears on first append.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and parses the whole history document.
func (s *FileStore) Load() (Log, error) {
	return s.load()
}

// load is the lock-free read used by both Load and Append.
func (s *FileStore) load() (Log, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Log{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrHistoryLoad, s.path, err)
	}

	var log Log
	if err := json.Unmarshal(raw, &log); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrHistoryLoad, s.path, err)
	}
	if log == nil {
		log = Log{}
	}
	return log, nil
}

// Append loads the current log, pushes ctx onto langCode's sequence, and
// rewrites the whole document. The write goes through a temp file and
// rename so a crash mid-write cannot corrupt the existing log.
func (s *FileStore) Append(langCode string, ctx issue.RenderContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.load()
	if err != nil {
		return err
	}

	log[langCode] = append(log[langCode], ctx)

	raw, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("%w: serializing log: %w", ErrHistoryWrite, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("%w: creating temp file in %s: %w", ErrHistoryWrite, dir, err)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(raw)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %w", ErrHistoryWrite, tmpName, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replacing %s: %w", ErrHistoryWrite, s.path, err)
	}

	return nil
}

// MemoryStore is an in-memory Store for tests and development.
type MemoryStore struct {
	mu  sync.Mutex
	log Log

	// LoadErr and AppendErr, when set, are returned by the corresponding
	// operation to simulate storage failures.
	LoadErr   error
	AppendErr error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{log: Log{}}
}

// Load returns a copy of the in-memory log.
func (s *MemoryStore) Load() (Log, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.LoadErr != nil {
		return nil, s.LoadErr
	}

	out := make(Log, len(s.log))
	for lang, contexts := range s.log {
		out[lang] = append([]issue.RenderContext(nil), contexts...)
	}
	return out, nil
}

// Append records ctx for langCode in memory.
func (s *MemoryStore) Append(langCode string, ctx issue.RenderContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.AppendErr != nil {
		return s.AppendErr
	}

	s.log[langCode] = append(s.log[langCode], ctx)
	return nil
}
