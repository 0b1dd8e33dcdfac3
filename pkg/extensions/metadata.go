// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import "time"

// Metadata stores arbitrary key-value pairs for context and logging.
//
// Using a defined type rather than map[string]any provides:
//   - Clearer intent in function signatures
//   - Type-safe accessors
//   - Compile-time distinction from arbitrary maps
//
// # Common Keys
//
// While Metadata is flexible, these keys are commonly used:
//   - "request_id": Request correlation ID
//   - "pattern": Matched architecture pattern ID
//   - "node_count": Node count of the produced diagram
//   - "model": Language model used for intent parsing
//   - "error": Error message if applicable
//   - "duration_ms": Operation duration
//
// # Thread Safety
//
// Metadata is NOT thread-safe. Do not share a single Metadata instance
// across goroutines without external synchronization.
//
// Example:
//
//	meta := extensions.NewMetadata().
//	    Set("pattern", "three-tier").
//	    Set("node_count", 5).
//	    Set("duration_ms", int64(150))
//
//	if pattern, ok := meta.GetString("pattern"); ok {
//	    log.Info("matched", "pattern", pattern)
//	}
type Metadata map[string]any

// NewMetadata creates an empty Metadata instance.
func NewMetadata() Metadata {
	return make(Metadata)
}

// Set adds or updates a key-value pair and returns the Metadata for
// chaining:
//
//	meta := NewMetadata().
//	    Set("pattern", "vdi").
//	    Set("node_count", 7)
func (m Metadata) Set(key string, value any) Metadata {
	m[key] = value
	return m
}

// Get retrieves a value by key, reporting whether the key exists.
func (m Metadata) Get(key string) (any, bool) {
	value, ok := m[key]
	return value, ok
}

// GetString retrieves a string value by key. Returns "" and false when the
// key is missing or holds a non-string.
func (m Metadata) GetString(key string) (string, bool) {
	value, ok := m[key]
	if !ok {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// GetInt retrieves an int value by key. JSON round-trips store numbers as
// float64, so whole float64 values are accepted too.
func (m Metadata) GetInt(key string) (int, bool) {
	value, ok := m[key]
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

// GetInt64 retrieves an int64 value by key.
func (m Metadata) GetInt64(key string) (int64, bool) {
	value, ok := m[key]
	if !ok {
		return 0, false
	}
	i, ok := value.(int64)
	return i, ok
}

// GetFloat64 retrieves a float64 value by key.
func (m Metadata) GetFloat64(key string) (float64, bool) {
	value, ok := m[key]
	if !ok {
		return 0, false
	}
	f, ok := value.(float64)
	return f, ok
}

// GetBool retrieves a bool value by key.
func (m Metadata) GetBool(key string) (bool, bool) {
	value, ok := m[key]
	if !ok {
		return false, false
	}
	b, ok := value.(bool)
	return b, ok
}

// GetTime retrieves a time.Time value by key.
func (m Metadata) GetTime(key string) (time.Time, bool) {
	value, ok := m[key]
	if !ok {
		return time.Time{}, false
	}
	t, ok := value.(time.Time)
	return t, ok
}

// Has reports whether the key exists.
func (m Metadata) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Delete removes a key and returns the Metadata for chaining.
func (m Metadata) Delete(key string) Metadata {
	delete(m, key)
	return m
}

// Clone returns a shallow copy of the Metadata.
//
// The copy has its own map, so Set and Delete on the clone do not affect
// the original. Values are shared; deep structures should not be mutated
// after cloning.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Merge copies all entries from other into m, overwriting existing keys,
// and returns m for chaining.
func (m Metadata) Merge(other Metadata) Metadata {
	for k, v := range other {
		m[k] = v
	}
	return m
}

// Len returns the number of entries.
func (m Metadata) Len() int {
	return len(m)
}
