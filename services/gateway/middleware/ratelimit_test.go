// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the rate limiting middleware

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/ArchitectLocal/pkg/extensions"
)

// recordingLimiter captures caller IDs and answers from a script.
type recordingLimiter struct {
	callers []string
	allow   bool
}

func (l *recordingLimiter) Allow(callerID string) bool {
	l.callers = append(l.callers, callerID)
	return l.allow
}

// =============================================================================
// TokenBucketLimiter Tests
// =============================================================================

func TestTokenBucketLimiter_BurstThenReject(t *testing.T) {
	limiter := NewTokenBucketLimiter(1, 2)

	assert.True(t, limiter.Allow("caller-a"))
	assert.True(t, limiter.Allow("caller-a"))
	assert.False(t, limiter.Allow("caller-a"), "third immediate request should exceed the burst")
}

func TestTokenBucketLimiter_CallersIndependent(t *testing.T) {
	limiter := NewTokenBucketLimiter(1, 1)

	assert.True(t, limiter.Allow("caller-a"))
	assert.False(t, limiter.Allow("caller-a"))
	assert.True(t, limiter.Allow("caller-b"), "a second caller has its own bucket")
}

func TestNewTokenBucketLimiter_RaisesZeroBurst(t *testing.T) {
	limiter := NewTokenBucketLimiter(5, 0)
	assert.True(t, limiter.Allow("caller-a"), "burst of zero would reject every request")
}

// =============================================================================
// RateLimitMiddleware Tests
// =============================================================================

func TestRateLimitMiddleware_Allows(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(&extensions.NopRateLimiter{}))
	router.GET("/probe", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware_RejectsWith429(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(&recordingLimiter{allow: false}))
	router.GET("/probe", func(c *gin.Context) {
		t.Fatal("handler must not run for rate-limited requests")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

func TestRateLimitMiddleware_UsesAuthenticatedCallerID(t *testing.T) {
	limiter := &recordingLimiter{allow: true}
	router := gin.New()
	router.Use(AuthMiddleware(&extensions.NopAuthProvider{}))
	router.Use(RateLimitMiddleware(limiter))
	router.GET("/probe", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, []string{"local-user"}, limiter.callers)
}

func TestRateLimitMiddleware_AnonymousWithoutAuth(t *testing.T) {
	limiter := &recordingLimiter{allow: true}
	router := gin.New()
	router.Use(RateLimitMiddleware(limiter))
	router.GET("/probe", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, []string{"anonymous"}, limiter.callers)
}
