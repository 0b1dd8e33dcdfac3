// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

// RateLimiter throttles requests per caller.
//
// Implementations must be safe for concurrent use by multiple goroutines.
//
// # Open Source Behavior
//
// The default NopRateLimiter always allows. Single-user local deployments
// have nothing to throttle; the gateway substitutes a token-bucket limiter
// when a rate is configured.
//
// # Hosted Implementation
//
// Hosted versions back this with shared state so limits hold across
// replicas.
//
// Example hosted implementation:
//
//	type RedisLimiter struct {
//	    client *redis.Client
//	    limit  int
//	}
//
//	func (l *RedisLimiter) Allow(callerID string) bool {
//	    n, _ := l.client.Incr(ctx, "rl:"+callerID).Result()
//	    return n <= int64(l.limit)
//	}
type RateLimiter interface {
	// Allow reports whether the caller may proceed with one more request.
	//
	// Parameters:
	//   - callerID: The caller key, normally CallerInfo.CallerID
	//
	// Returns:
	//   - bool: true to proceed, false to reject with 429
	//
	// Allow must not block; a limiter that needs to wait should reject
	// instead and let the client retry.
	Allow(callerID string) bool
}

// NopRateLimiter is the default rate limiter for open source.
//
// It always allows. Thread-safe: no mutable state.
type NopRateLimiter struct{}

// Allow always returns true.
func (l *NopRateLimiter) Allow(_ string) bool {
	return true
}

// Compile-time interface compliance check.
var _ RateLimiter = (*NopRateLimiter)(nil)
