// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package extensions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileUsageLogger appends usage events to a local JSONL file, one event per
// line. This is the concrete UsageLogger the gateway and CLI wire when a
// usage log path is configured; the corpus-improvement workflow reads the
// file offline.
//
// # File Format
//
// Each line is one UsageEvent in JSON. The file is append-only; rotation
// is left to the operator (logrotate handles JSONL fine).
//
// # Thread Safety
//
// FileUsageLogger is safe for concurrent use. A mutex serializes appends so
// lines never interleave.
type FileUsageLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileUsageLogger opens (creating if needed) the JSONL usage log at path.
// Parent directories are created with 0700; the log itself is 0600 since
// feedback events may contain user-submitted prompt text.
func NewFileUsageLogger(path string) (*FileUsageLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create usage log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open usage log: %w", err)
	}
	return &FileUsageLogger{file: f}, nil
}

// Record appends one event as a JSON line. A zero Timestamp is stamped with
// the current UTC time.
func (l *FileUsageLogger) Record(_ context.Context, event UsageEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal usage event: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.file.Write(line); err != nil {
		return fmt.Errorf("append usage event: %w", err)
	}
	return nil
}

// Flush fsyncs the log file.
func (l *FileUsageLogger) Flush(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Sync()
}

// Close flushes and closes the underlying file. The logger must not be used
// after Close.
func (l *FileUsageLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.file.Sync(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}

// Compile-time interface compliance check.
var _ UsageLogger = (*FileUsageLogger)(nil)
