// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned when authentication fails.
// Hosted implementations should wrap this error with additional context.
//
// Example:
//
//	if !validToken {
//	    return nil, fmt.Errorf("invalid token format: %w", extensions.ErrUnauthorized)
//	}
var ErrUnauthorized = errors.New("unauthorized")

// CallerInfo contains identity information returned after successful
// authentication.
//
// The struct is extensible via the Metadata field, so hosted
// implementations can attach additional claims without modifying the
// core type.
//
// Required fields (always populated):
//   - CallerID: Unique identifier for the caller
//
// Optional fields (may be empty):
//   - Name: Display name of the caller
//   - Roles: List of roles/groups the caller belongs to
//   - Metadata: Arbitrary key-value pairs for hosted extensions
//
// Example:
//
//	info := &CallerInfo{
//	    CallerID: "user-123",
//	    Name:     "Architecture Team",
//	    Roles:    []string{"designer", "viewer"},
//	    Metadata: NewMetadata().
//	        Set("org", "platform").
//	        Set("plan", "team"),
//	}
type CallerInfo struct {
	// CallerID is the unique identifier for the authenticated caller.
	// This is the only required field and must never be empty. It is the
	// key used for rate limiting and usage attribution.
	CallerID string

	// Name is the caller's display name.
	// May be empty if not provided by the auth provider.
	Name string

	// Roles contains the caller's role memberships.
	// Common roles: "admin", "designer", "viewer"
	Roles []string

	// Metadata holds additional claims from the identity provider.
	// Hosted implementations can store provider-specific data here
	// without requiring changes to the core struct.
	Metadata Metadata
}

// HasRole checks if the caller has a specific role.
//
// This is a convenience method for authorization checks:
//
//	if !caller.HasRole("designer") {
//	    return ErrUnauthorized
//	}
func (c *CallerInfo) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AuthProvider validates authentication tokens and returns caller identity.
//
// Implementations must be safe for concurrent use by multiple goroutines.
//
// # Open Source Behavior
//
// The default NopAuthProvider always returns a valid "local-user" with admin
// privileges. This allows the local gateway and CLI to function without any
// authentication infrastructure.
//
// # Hosted Implementation
//
// Hosted versions implement this interface to validate tokens against
// identity providers.
//
// Example hosted implementation:
//
//	type JWTAuthProvider struct {
//	    keys *jwk.Set
//	}
//
//	func (p *JWTAuthProvider) Validate(ctx context.Context, token string) (*CallerInfo, error) {
//	    claims, err := p.verify(ctx, token)
//	    if err != nil {
//	        return nil, fmt.Errorf("token verification failed: %w", ErrUnauthorized)
//	    }
//	    return &CallerInfo{
//	        CallerID: claims.Subject,
//	        Name:     claims.Name,
//	        Roles:    claims.Groups,
//	    }, nil
//	}
type AuthProvider interface {
	// Validate checks if the token is valid and returns the caller's identity.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - token: The authentication token (JWT, session ID, API key, etc.)
	//
	// Returns:
	//   - *CallerInfo: Caller identity information if valid
	//   - error: ErrUnauthorized (or wrapped) if invalid, other errors for failures
	Validate(ctx context.Context, token string) (*CallerInfo, error)
}

// NopAuthProvider is the default authentication provider for open source.
//
// It always returns a valid local caller with admin privileges, enabling
// the gateway and CLI to function without any authentication
// infrastructure.
//
// Thread-safe: This implementation has no mutable state.
//
// Example:
//
//	provider := &NopAuthProvider{}
//	info, err := provider.Validate(ctx, "any-token")
//	// info.CallerID == "local-user"
//	// info.Roles == []string{"admin"}
//	// err == nil
type NopAuthProvider struct{}

// Validate always returns a valid local caller with admin privileges.
//
// The token parameter is ignored - any value (including empty string)
// results in successful authentication. This is intentional for local
// single-user deployments.
func (p *NopAuthProvider) Validate(_ context.Context, _ string) (*CallerInfo, error) {
	return &CallerInfo{
		CallerID: "local-user",
		Name:     "Local User",
		Roles:    []string{"admin"},
	}, nil
}

// Compile-time interface compliance check.
var _ AuthProvider = (*NopAuthProvider)(nil)
