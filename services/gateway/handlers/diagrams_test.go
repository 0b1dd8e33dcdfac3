// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the diagram persistence handlers

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/ArchitectLocal/pkg/extensions"
	"github.com/AleutianAI/ArchitectLocal/services/gateway/datatypes"
)

func newDiagramRouter(store extensions.SpecStore, usage extensions.UsageLogger) *gin.Engine {
	router := gin.New()
	router.POST("/v1/diagrams", SaveDiagram(store, usage))
	router.GET("/v1/diagrams", ListDiagrams(store))
	router.GET("/v1/diagrams/:diagramId", GetDiagram(store))
	router.DELETE("/v1/diagrams/:diagramId", DeleteDiagram(store, usage))
	return router
}

func TestDiagrams_SaveGetDeleteRoundTrip(t *testing.T) {
	store := extensions.NewMemorySpecStore()
	usage := &capturingUsageLogger{}
	router := newDiagramRouter(store, usage)

	// Save
	w := postJSON(t, router, "/v1/diagrams", datatypes.DiagramSaveRequest{
		Name:      "guarded web",
		Spec:      guardedWebSpec(),
		NodesJSON: json.RawMessage(`[{"id":"fw-1","x":10,"y":20}]`),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var saved extensions.StoredDiagram
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "guarded web", saved.Name)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.JSONEq(t, `[{"id":"fw-1","x":10,"y":20}]`, string(saved.NodesJSON))

	// Get
	w = httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/diagrams/"+saved.ID, nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched extensions.StoredDiagram
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, saved.ID, fetched.ID)

	// List
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/v1/diagrams", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	// Delete
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/v1/diagrams/"+saved.ID, nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "deleted")

	// Gone
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/v1/diagrams/"+saved.ID, nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Len(t, usage.events, 2)
	assert.Equal(t, "diagram.saved", usage.events[0].EventType)
	assert.Equal(t, "diagram.deleted", usage.events[1].EventType)
}

func TestDiagrams_SaveRejectsMissingSpec(t *testing.T) {
	router := newDiagramRouter(extensions.NewMemorySpecStore(), &extensions.NopUsageLogger{})

	w := postJSON(t, router, "/v1/diagrams", datatypes.DiagramSaveRequest{Name: "empty"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDiagrams_SaveRejectsDanglingSpec(t *testing.T) {
	router := newDiagramRouter(extensions.NewMemorySpecStore(), &extensions.NopUsageLogger{})

	broken := guardedWebSpec()
	broken.Connections[0].Target = "ghost-1"
	w := postJSON(t, router, "/v1/diagrams", datatypes.DiagramSaveRequest{Spec: broken})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "spec")
}

func TestDiagrams_GetUnknownReturns404(t *testing.T) {
	router := newDiagramRouter(extensions.NewMemorySpecStore(), &extensions.NopUsageLogger{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/diagrams/no-such-id", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "diagram not found")
}

func TestDiagrams_DeleteUnknownReturns404(t *testing.T) {
	router := newDiagramRouter(extensions.NewMemorySpecStore(), &extensions.NopUsageLogger{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/v1/diagrams/no-such-id", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDiagrams_SaveUpsertsByID(t *testing.T) {
	store := extensions.NewMemorySpecStore()
	router := newDiagramRouter(store, &extensions.NopUsageLogger{})

	const id = "8f8dd9a2-64a4-4be5-9a34-5f6f2c63c9d2"
	w := postJSON(t, router, "/v1/diagrams", datatypes.DiagramSaveRequest{
		ID:   id,
		Name: "first",
		Spec: guardedWebSpec(),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/v1/diagrams", datatypes.DiagramSaveRequest{
		ID:   id,
		Name: "renamed",
		Spec: guardedWebSpec(),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var saved extensions.StoredDiagram
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, "renamed", saved.Name)

	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
