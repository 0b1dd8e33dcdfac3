// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/ArchitectLocal/pkg/extensions"
)

func testDiagram(id, name string) extensions.StoredDiagram {
	return extensions.StoredDiagram{
		ID:   id,
		Name: name,
		Spec: json.RawMessage(`{"nodes":[],"connections":[]}`),
	}
}

// TestOpenInMemory verifies in-memory store creation and a basic roundtrip.
func TestOpenInMemory(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, testDiagram("d-1", "three tier")))

	got, err := store.Get(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, "d-1", got.ID)
	assert.Equal(t, "three tier", got.Name)
	assert.JSONEq(t, `{"nodes":[],"connections":[]}`, string(got.Spec))
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

// TestOpenWithPath verifies diagrams persist across close and reopen.
func TestOpenWithPath(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenWithPath(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, testDiagram("persist-1", "keeper")))
	require.NoError(t, store.Close())

	store2, err := OpenWithPath(dir)
	require.NoError(t, err)
	defer store2.Close()

	got, err := store2.Get(ctx, "persist-1")
	require.NoError(t, err)
	assert.Equal(t, "keeper", got.Name)
}

// TestOpenRequiresPath verifies that persistent mode requires a path.
func TestOpenRequiresPath(t *testing.T) {
	cfg := Config{
		InMemory: false,
		Path:     "", // Missing path
	}
	_, err := Open(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

// TestConfigFunctions verifies default configurations.
func TestConfigFunctions(t *testing.T) {
	t.Run("DefaultConfig has SyncWrites", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.True(t, cfg.SyncWrites)
		assert.False(t, cfg.InMemory)
		assert.Equal(t, 5*time.Minute, cfg.GCInterval)
		assert.Equal(t, 0.5, cfg.GCDiscardRatio)
	})

	t.Run("InMemoryConfig has InMemory", func(t *testing.T) {
		cfg := InMemoryConfig()
		assert.True(t, cfg.InMemory)
		assert.False(t, cfg.SyncWrites)
		assert.Equal(t, time.Duration(0), cfg.GCInterval) // GC disabled
	})
}

// TestBadgerStore_GetMissing verifies the not-found sentinel surfaces.
func TestBadgerStore_GetMissing(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(context.Background(), "no-such-diagram")
	assert.ErrorIs(t, err, extensions.ErrDiagramNotFound)
}

// TestBadgerStore_PutPreservesCreatedAt verifies overwrites keep the
// original creation time while bumping UpdatedAt.
func TestBadgerStore_PutPreservesCreatedAt(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, testDiagram("d-1", "first")))

	first, err := store.Get(ctx, "d-1")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.Put(ctx, testDiagram("d-1", "renamed")))

	second, err := store.Get(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", second.Name)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt), "CreatedAt must survive overwrite")
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt), "UpdatedAt must advance")
}

// TestBadgerStore_Delete verifies deletion and the not-found case.
func TestBadgerStore_Delete(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, testDiagram("d-1", "short lived")))
	require.NoError(t, store.Delete(ctx, "d-1"))

	_, err = store.Get(ctx, "d-1")
	assert.ErrorIs(t, err, extensions.ErrDiagramNotFound)

	err = store.Delete(ctx, "d-1")
	assert.ErrorIs(t, err, extensions.ErrDiagramNotFound)
}

// TestBadgerStore_ListOrdering verifies most-recently-updated-first order.
func TestBadgerStore_ListOrdering(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, testDiagram("d-old", "older")))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.Put(ctx, testDiagram("d-new", "newer")))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "d-new", list[0].ID)
	assert.Equal(t, "d-old", list[1].ID)
}

// TestBadgerStore_ListEmpty verifies an empty store lists cleanly.
func TestBadgerStore_ListEmpty(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

// TestBadgerStore_PayloadRoundTrip verifies editor JSON survives verbatim.
func TestBadgerStore_PayloadRoundTrip(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	d := testDiagram("d-1", "with canvas state")
	d.NodesJSON = json.RawMessage(`[{"id":"web-1","x":120,"y":60}]`)
	d.EdgesJSON = json.RawMessage(`[{"source":"fw-1","target":"web-1"}]`)
	require.NoError(t, store.Put(ctx, d))

	got, err := store.Get(ctx, "d-1")
	require.NoError(t, err)
	assert.JSONEq(t, string(d.NodesJSON), string(got.NodesJSON))
	assert.JSONEq(t, string(d.EdgesJSON), string(got.EdgesJSON))
}
