// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the authentication middleware

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/ArchitectLocal/pkg/extensions"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// capturingAuthProvider records the token it was asked to validate.
type capturingAuthProvider struct {
	token  string
	caller *extensions.CallerInfo
	err    error
}

func (p *capturingAuthProvider) Validate(_ context.Context, token string) (*extensions.CallerInfo, error) {
	p.token = token
	if p.err != nil {
		return nil, p.err
	}
	return p.caller, nil
}

// =============================================================================
// AuthMiddleware Tests
// =============================================================================

func TestAuthMiddleware_NopProviderAuthenticatesLocalUser(t *testing.T) {
	router := gin.New()
	router.Use(AuthMiddleware(&extensions.NopAuthProvider{}))
	router.GET("/probe", func(c *gin.Context) {
		caller := GetCallerInfo(c)
		require.NotNil(t, caller)
		assert.Equal(t, "local-user", caller.CallerID)
		assert.True(t, caller.HasRole("admin"))
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_UnauthorizedToken(t *testing.T) {
	provider := &capturingAuthProvider{err: extensions.ErrUnauthorized}
	router := gin.New()
	router.Use(AuthMiddleware(provider))
	router.GET("/probe", func(c *gin.Context) {
		t.Fatal("handler must not run for unauthorized requests")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
	assert.Equal(t, "bad-token", provider.token)
}

func TestAuthMiddleware_ProviderFailure(t *testing.T) {
	provider := &capturingAuthProvider{err: errors.New("identity service unreachable")}
	router := gin.New()
	router.Use(AuthMiddleware(provider))
	router.GET("/probe", func(c *gin.Context) {
		t.Fatal("handler must not run when the provider fails")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication failed")
}

// =============================================================================
// Bearer Token Extraction Tests
// =============================================================================

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"standard bearer", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer xyz", "xyz"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", ""},
		{"scheme only", "Bearer", ""},
		{"padded token", "Bearer   spaced  ", "spaced"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &capturingAuthProvider{caller: &extensions.CallerInfo{CallerID: "u"}}
			router := gin.New()
			router.Use(AuthMiddleware(provider))
			router.GET("/probe", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/probe", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, provider.token)
		})
	}
}

// =============================================================================
// Context Helper Tests
// =============================================================================

func TestGetCallerInfo_MissingReturnsNil(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetCallerInfo(c))
}

func TestSetGetCallerInfo_RoundTrip(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	info := &extensions.CallerInfo{CallerID: "caller-9", Roles: []string{"viewer"}}
	SetCallerInfo(c, info)

	got := GetCallerInfo(c)
	require.NotNil(t, got)
	assert.Equal(t, "caller-9", got.CallerID)
}
