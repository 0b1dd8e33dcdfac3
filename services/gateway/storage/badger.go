// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package storage provides the Badger-backed diagram store.
//
// BadgerDB gives the gateway embedded persistence with no external service:
// diagrams survive restarts when ARCHITECT_DATA_DIR is set, and the default
// in-memory store keeps working when it is not.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
// This package follows Apache 2.0 guidelines for attribution and usage.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/ArchitectLocal/pkg/extensions"
)

// diagramPrefix namespaces diagram keys so future record kinds can share
// the database.
const diagramPrefix = "diagram:"

// Config holds configuration for the Badger-backed store.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Required for persistent databases. Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	// Default: true for production, false for testing.
	SyncWrites bool

	// Logger is the logger for BadgerDB operations.
	// If nil, BadgerDB's internal logging is disabled.
	Logger *slog.Logger

	// GCInterval is how often to run value log garbage collection.
	// Default: 5 minutes. Set to 0 to disable.
	GCInterval time.Duration

	// GCDiscardRatio is the minimum ratio of discardable data before GC.
	// Default: 0.5 (GC when 50% of value log is garbage).
	GCDiscardRatio float64
}

// DefaultConfig returns sensible defaults for production use: synchronous
// writes, 5-minute GC interval, 50% discard ratio.
func DefaultConfig() Config {
	return Config{
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryConfig returns configuration optimized for testing: in-memory
// mode, asynchronous writes, GC disabled.
func InMemoryConfig() Config {
	return Config{
		InMemory:   true,
		SyncWrites: false,
	}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// BadgerSpecStore implements extensions.SpecStore on an embedded BadgerDB.
//
// Diagrams are stored as JSON values under "diagram:<id>" keys. The store
// owns the database handle; Close releases it and stops the GC loop.
//
// Thread Safety: safe for concurrent use; Badger serializes transactions
// internally.
type BadgerSpecStore struct {
	db     *badger.DB
	stopGC chan struct{}
	gcDone chan struct{}
}

// Open creates and opens a Badger-backed store with the given
// configuration, creating the directory if it doesn't exist.
func Open(cfg Config) (*BadgerSpecStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts = opts.WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil) // Disable BadgerDB's internal logging
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	s := &BadgerSpecStore{db: db}
	if !cfg.InMemory && cfg.GCInterval > 0 {
		s.stopGC = make(chan struct{})
		s.gcDone = make(chan struct{})
		go s.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}
	return s, nil
}

// OpenWithPath opens a persistent store with production defaults at the
// given path.
func OpenWithPath(path string) (*BadgerSpecStore, error) {
	cfg := DefaultConfig()
	cfg.Path = path
	return Open(cfg)
}

// OpenInMemory opens an in-memory store for testing. Data is lost when
// closed.
func OpenInMemory() (*BadgerSpecStore, error) {
	return Open(InMemoryConfig())
}

// runGC periodically triggers value log garbage collection until Close.
// ErrNoRewrite just means there was nothing worth collecting.
func (s *BadgerSpecStore) runGC(interval time.Duration, ratio float64) {
	defer close(s.gcDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.db.RunValueLogGC(ratio); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				slog.Warn("badger value log GC failed", "error", err)
			}
		case <-s.stopGC:
			return
		}
	}
}

// Close stops the GC loop and releases the database.
func (s *BadgerSpecStore) Close() error {
	if s.stopGC != nil {
		close(s.stopGC)
		<-s.gcDone
	}
	return s.db.Close()
}

// =============================================================================
// SpecStore Implementation
// =============================================================================

// Get returns the diagram with the given ID, or ErrDiagramNotFound.
func (s *BadgerSpecStore) Get(_ context.Context, id string) (*extensions.StoredDiagram, error) {
	var out extensions.StoredDiagram
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(diagramKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &out)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, extensions.ErrDiagramNotFound
		}
		return nil, fmt.Errorf("get diagram %s: %w", id, err)
	}
	return &out, nil
}

// Put creates or replaces the diagram keyed by d.ID, stamping UpdatedAt
// and preserving CreatedAt across overwrites.
func (s *BadgerSpecStore) Put(_ context.Context, d extensions.StoredDiagram) error {
	now := time.Now().UTC()
	err := s.db.Update(func(txn *badger.Txn) error {
		key := diagramKey(d.ID)

		d.CreatedAt = now
		if item, err := txn.Get(key); err == nil {
			var prev extensions.StoredDiagram
			if verr := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &prev)
			}); verr == nil {
				d.CreatedAt = prev.CreatedAt
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		d.UpdatedAt = now

		payload, err := json.Marshal(d)
		if err != nil {
			return err
		}
		return txn.Set(key, payload)
	})
	if err != nil {
		return fmt.Errorf("put diagram %s: %w", d.ID, err)
	}
	return nil
}

// Delete removes the diagram, or returns ErrDiagramNotFound.
func (s *BadgerSpecStore) Delete(_ context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		key := diagramKey(id)
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return extensions.ErrDiagramNotFound
		}
		return fmt.Errorf("delete diagram %s: %w", id, err)
	}
	return nil
}

// List returns all diagrams, most recently updated first, ties broken by
// ID.
func (s *BadgerSpecStore) List(_ context.Context) ([]extensions.StoredDiagram, error) {
	var out []extensions.StoredDiagram
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(diagramPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var d extensions.StoredDiagram
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &d)
			}); err != nil {
				return err
			}
			out = append(out, d)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list diagrams: %w", err)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func diagramKey(id string) []byte {
	return []byte(diagramPrefix + id)
}

// Compile-time interface compliance check.
var _ extensions.SpecStore = (*BadgerSpecStore)(nil)
