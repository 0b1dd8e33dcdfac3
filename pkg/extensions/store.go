// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrDiagramNotFound is returned by SpecStore implementations when the
// requested diagram ID does not exist.
var ErrDiagramNotFound = errors.New("diagram not found")

// StoredDiagram is a persisted diagram: the typed spec plus the positional
// JSON a visual editor attaches to it.
//
// Spec is the authoritative structure. NodesJSON and EdgesJSON carry canvas
// state (coordinates, styling) that the core never interprets; the store
// round-trips them byte-for-byte so an editor gets back exactly what it
// saved.
//
// All payload fields are raw JSON rather than typed structs, keeping this
// package free of domain imports: the store moves bytes, the services give
// them meaning.
type StoredDiagram struct {
	// ID uniquely identifies the diagram. Callers assign it (the gateway
	// uses UUIDs); implementations treat it as an opaque key.
	ID string `json:"id"`

	// Name is the user-facing title. May be empty.
	Name string `json:"name,omitempty"`

	// Spec is the diagram's InfraSpec as JSON.
	Spec json.RawMessage `json:"spec"`

	// NodesJSON is opaque editor node state (positions, styling).
	NodesJSON json.RawMessage `json:"nodesJson,omitempty"`

	// EdgesJSON is opaque editor edge state.
	EdgesJSON json.RawMessage `json:"edgesJson,omitempty"`

	// CreatedAt is when the diagram was first stored (UTC).
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the diagram was last written (UTC).
	UpdatedAt time.Time `json:"updatedAt"`
}

// SpecStore persists diagrams between requests.
//
// Implementations must be safe for concurrent use by multiple goroutines.
//
// # Open Source Behavior
//
// The default MemorySpecStore keeps diagrams in process memory; the gateway
// substitutes the Badger-backed store when a data directory is configured.
//
// # Hosted Implementation
//
// Hosted versions back this with a shared database so diagrams survive
// restarts and are visible across replicas.
type SpecStore interface {
	// Get returns the diagram with the given ID.
	//
	// Returns:
	//   - *StoredDiagram: The diagram if found
	//   - error: ErrDiagramNotFound (or wrapped) if missing, other errors for failures
	Get(ctx context.Context, id string) (*StoredDiagram, error)

	// Put creates or replaces the diagram keyed by d.ID.
	//
	// Implementations stamp UpdatedAt with the current UTC time, and
	// CreatedAt too when the ID is new. Payload fields are stored verbatim.
	Put(ctx context.Context, d StoredDiagram) error

	// Delete removes the diagram with the given ID.
	//
	// Returns ErrDiagramNotFound (or wrapped) when the ID does not exist.
	Delete(ctx context.Context, id string) error

	// List returns all stored diagrams, most recently updated first.
	// Ties break by ID for a stable order.
	List(ctx context.Context) ([]StoredDiagram, error)
}

// MemorySpecStore is the default diagram store for open source: an
// in-process map guarded by a read-write mutex. Contents are lost on
// restart, which is the expected behavior for a local scratch session.
//
// # Thread Safety
//
// Safe for concurrent use. Stored payloads are copied on the way in and
// out, so callers can mutate their buffers freely.
type MemorySpecStore struct {
	mu       sync.RWMutex
	diagrams map[string]StoredDiagram
}

// NewMemorySpecStore returns an empty in-memory store.
func NewMemorySpecStore() *MemorySpecStore {
	return &MemorySpecStore{diagrams: make(map[string]StoredDiagram)}
}

// Get returns a copy of the stored diagram, or ErrDiagramNotFound.
func (s *MemorySpecStore) Get(_ context.Context, id string) (*StoredDiagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.diagrams[id]
	if !ok {
		return nil, ErrDiagramNotFound
	}
	out := copyDiagram(d)
	return &out, nil
}

// Put stores a copy of d, stamping UpdatedAt (and CreatedAt for new IDs).
func (s *MemorySpecStore) Put(_ context.Context, d StoredDiagram) error {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.diagrams[d.ID]; ok {
		d.CreatedAt = prev.CreatedAt
	} else {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	s.diagrams[d.ID] = copyDiagram(d)
	return nil
}

// Delete removes the diagram, or returns ErrDiagramNotFound.
func (s *MemorySpecStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.diagrams[id]; !ok {
		return ErrDiagramNotFound
	}
	delete(s.diagrams, id)
	return nil
}

// List returns copies of all diagrams, most recently updated first.
func (s *MemorySpecStore) List(_ context.Context) ([]StoredDiagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StoredDiagram, 0, len(s.diagrams))
	for _, d := range s.diagrams {
		out = append(out, copyDiagram(d))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// copyDiagram deep-copies the raw JSON payloads so stored bytes never alias
// caller buffers.
func copyDiagram(d StoredDiagram) StoredDiagram {
	d.Spec = append(json.RawMessage(nil), d.Spec...)
	if d.NodesJSON != nil {
		d.NodesJSON = append(json.RawMessage(nil), d.NodesJSON...)
	}
	if d.EdgesJSON != nil {
		d.EdgesJSON = append(json.RawMessage(nil), d.EdgesJSON...)
	}
	return d
}

// Compile-time interface compliance check.
var _ SpecStore = (*MemorySpecStore)(nil)
