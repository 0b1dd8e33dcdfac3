// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/ArchitectLocal/pkg/extensions"
	"github.com/AleutianAI/ArchitectLocal/services/gateway/observability"
)

// =============================================================================
// Token Bucket Limiter
// =============================================================================

// TokenBucketLimiter implements extensions.RateLimiter with one token
// bucket per caller ID.
//
// # Description
//
// Each caller gets an independent bucket refilling at rps tokens per second
// with the given burst capacity, so one noisy caller cannot starve the
// others. Buckets are created lazily on first use and never evicted; the
// map grows with the number of distinct caller IDs.
//
// # Thread Safety
//
// Safe for concurrent use.
type TokenBucketLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	rps     rate.Limit
	burst   int
}

// NewTokenBucketLimiter builds a limiter refilling at rps tokens per second
// per caller. A burst below 1 is raised to 1 so a fresh bucket always
// admits its first request.
func NewTokenBucketLimiter(rps float64, burst int) *TokenBucketLimiter {
	if burst < 1 {
		burst = 1
	}
	return &TokenBucketLimiter{
		buckets: make(map[string]*rate.Limiter),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

// Allow reports whether the caller may proceed, consuming one token when it
// may. Never blocks.
func (l *TokenBucketLimiter) Allow(callerID string) bool {
	l.mu.Lock()
	bucket, ok := l.buckets[callerID]
	if !ok {
		bucket = rate.NewLimiter(l.rps, l.burst)
		l.buckets[callerID] = bucket
	}
	l.mu.Unlock()
	return bucket.Allow()
}

// Compile-time interface compliance check.
var _ extensions.RateLimiter = (*TokenBucketLimiter)(nil)

// =============================================================================
// Rate Limit Middleware
// =============================================================================

// RateLimitMiddleware creates a Gin middleware that rejects requests over
// the caller's rate limit with 429.
//
// # Description
//
// Reads the caller ID stored by AuthMiddleware (falling back to "anonymous"
// when the request carries none) and asks the limiter for a token. Rejected
// requests are counted in metrics and never queued: clients retry, the
// gateway does not buffer.
//
// # Inputs
//
//   - limiter: RateLimiter to consult. Must not be nil. The default
//     NopRateLimiter admits everything.
//
// # Outputs
//
//   - gin.HandlerFunc: Middleware function ready for use with Gin.
func RateLimitMiddleware(limiter extensions.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := "anonymous"
		if caller := GetCallerInfo(c); caller != nil {
			id = caller.CallerID
		}

		if !limiter.Allow(id) {
			observability.DefaultMetrics.RecordRateLimited()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}
