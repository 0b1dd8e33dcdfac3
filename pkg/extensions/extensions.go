// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package extensions defines interfaces for collaborator functionality.
//
// This package provides extension points that allow hosted deployments to
// add capabilities without modifying the core ArchitectLocal codebase.
// The open source version uses functional local defaults for all interfaces.
//
// # Design Philosophy
//
// ArchitectLocal is designed as a fully functional local utility that works
// offline without any external dependencies. Multi-user features such as
// real authentication, per-caller rate limiting, usage analytics, and shared
// diagram storage are implemented by providing concrete implementations of
// these interfaces and injecting them via ServiceOptions.
//
// # Extension Categories
//
// The package is organized by domain:
//
//   - auth.go: Caller authentication (AuthProvider)
//   - ratelimit.go: Per-caller request throttling (RateLimiter)
//   - usage.go: Append-only usage and feedback logging (UsageLogger)
//   - store.go: Diagram persistence (SpecStore)
//
// # Usage in ArchitectLocal (Open Source)
//
// The open source version uses local defaults:
//
//	opts := extensions.DefaultOptions()
//	server := gateway.New(cfg, opts)
//
// # Usage in Hosted Deployments
//
// Deployments provide concrete implementations:
//
//	opts := extensions.ServiceOptions{
//	    AuthProvider: hosted.NewJWTProvider(cfg),
//	    RateLimiter:  hosted.NewRedisLimiter(cfg),
//	    UsageLogger:  hosted.NewWarehouseLogger(cfg),
//	    Store:        hosted.NewPostgresStore(cfg),
//	}
//	server := gateway.New(cfg, opts)
//
// # Thread Safety
//
// All interface implementations must be safe for concurrent use.
// Multiple goroutines may call methods simultaneously.
package extensions

// ServiceOptions groups all extension points for service configuration.
//
// Pass this to service constructors to enable hosted features. All fields
// are optional; nil values are replaced with local defaults when
// DefaultOptions() is called or when services check for nil.
//
// Example:
//
//	// Open source: use defaults
//	opts := extensions.DefaultOptions()
//
//	// Hosted: inject implementations
//	opts := extensions.ServiceOptions{
//	    AuthProvider: jwtProvider,
//	    Store:        postgresStore,
//	}
type ServiceOptions struct {
	// AuthProvider validates authentication tokens.
	// Default: NopAuthProvider (always returns the local caller)
	AuthProvider AuthProvider

	// RateLimiter throttles requests per caller.
	// Default: NopRateLimiter (always allows)
	RateLimiter RateLimiter

	// UsageLogger records design operations and user feedback.
	// Default: NopUsageLogger (discards all events)
	UsageLogger UsageLogger

	// Store persists diagrams between requests.
	// Default: MemorySpecStore (in-process, lost on restart)
	Store SpecStore
}

// DefaultOptions returns ServiceOptions with functional local defaults.
//
// This is the configuration used by the open source version: every caller
// is the local user, nothing is throttled, usage events are discarded, and
// diagrams live in process memory.
//
// Returns:
//   - ServiceOptions with all fields set to local implementations
func DefaultOptions() ServiceOptions {
	return ServiceOptions{
		AuthProvider: &NopAuthProvider{},
		RateLimiter:  &NopRateLimiter{},
		UsageLogger:  &NopUsageLogger{},
		Store:        NewMemorySpecStore(),
	}
}

// WithAuth returns a copy of opts with the given AuthProvider.
// Useful for fluent configuration.
func (opts ServiceOptions) WithAuth(provider AuthProvider) ServiceOptions {
	opts.AuthProvider = provider
	return opts
}

// WithRateLimiter returns a copy of opts with the given RateLimiter.
func (opts ServiceOptions) WithRateLimiter(limiter RateLimiter) ServiceOptions {
	opts.RateLimiter = limiter
	return opts
}

// WithUsageLogger returns a copy of opts with the given UsageLogger.
func (opts ServiceOptions) WithUsageLogger(logger UsageLogger) ServiceOptions {
	opts.UsageLogger = logger
	return opts
}

// WithStore returns a copy of opts with the given SpecStore.
func (opts ServiceOptions) WithStore(store SpecStore) ServiceOptions {
	opts.Store = store
	return opts
}
