// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the designer gateway.
//
// This package contains middleware for authentication and rate limiting.
// It integrates with the extensions package to support hosted features.
//
// # Authentication Flow
//
// The auth middleware extracts a bearer token from the Authorization header,
// validates it using the configured AuthProvider, and stores the resulting
// CallerInfo in the Gin context for downstream handlers.
//
//	Request
//	   │
//	   ▼
//	AuthMiddleware
//	   │
//	   ├─► Extract token from "Authorization: Bearer <token>"
//	   │
//	   ├─► provider.Validate(ctx, token)
//	   │
//	   └─► Store CallerInfo in context
//	           │
//	           ▼
//	       Handler (retrieves via GetCallerInfo)
//
// # Open Source Behavior
//
// When using NopAuthProvider (default), all requests are authenticated as
// "local-user" with admin privileges. This keeps a local deployment working
// without any authentication infrastructure.
//
// # Hosted Behavior
//
// Hosted implementations validate tokens against identity providers and
// return real caller identity information.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/ArchitectLocal/pkg/extensions"
)

// =============================================================================
// Context Keys
// =============================================================================

// callerInfoKey is the context key for storing CallerInfo.
// Using a distinct key prevents collisions with other context values.
const callerInfoKey = "architect_caller_info"

// =============================================================================
// Context Helpers
// =============================================================================

// SetCallerInfo stores the authenticated caller info in the Gin context.
//
// Called by AuthMiddleware after successful authentication; the stored info
// can be retrieved by handlers via GetCallerInfo. Request-scoped, so
// concurrent requests never observe each other's caller.
func SetCallerInfo(c *gin.Context, info *extensions.CallerInfo) {
	c.Set(callerInfoKey, info)
}

// GetCallerInfo retrieves the authenticated caller info from the Gin
// context. Returns nil if the request was not authenticated or the stored
// value has the wrong type.
func GetCallerInfo(c *gin.Context) *extensions.CallerInfo {
	if info, exists := c.Get(callerInfoKey); exists {
		if caller, ok := info.(*extensions.CallerInfo); ok {
			return caller
		}
	}
	return nil
}

// =============================================================================
// Auth Middleware
// =============================================================================

// AuthMiddleware creates a Gin middleware that authenticates requests.
//
// # Description
//
// Extracts the bearer token from the Authorization header, validates it
// using the provided AuthProvider, and stores the resulting CallerInfo in
// the context for downstream handlers.
//
// # Token Extraction
//
// The middleware expects tokens in the Authorization header:
//
//	Authorization: Bearer <token>
//
// If the header is missing or malformed, the token passed to Validate is
// the empty string. NopAuthProvider accepts this and returns local-user.
//
// # Inputs
//
//   - provider: AuthProvider to validate tokens. Must not be nil.
//
// # Outputs
//
//   - gin.HandlerFunc: Middleware function ready for use with Gin.
//
// # Examples
//
//	v1 := router.Group("/v1")
//	v1.Use(middleware.AuthMiddleware(opts.AuthProvider))
//
// # Limitations
//
//   - Only supports Bearer token authentication.
//   - Does not cache validation results (validates every request).
func AuthMiddleware(provider extensions.AuthProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)

		caller, err := provider.Validate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, extensions.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "unauthorized",
				})
				return
			}
			// Other errors (provider failures, network issues, etc.)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication failed",
			})
			return
		}

		SetCallerInfo(c, caller)
		c.Next()
	}
}

// =============================================================================
// Helper Functions
// =============================================================================

// extractBearerToken extracts the token from the Authorization header.
// Returns the empty string if the header is missing or malformed. The
// "Bearer" prefix is case-insensitive per RFC 7235.
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
