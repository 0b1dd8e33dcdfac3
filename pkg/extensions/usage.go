// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import (
	"context"
	"time"
)

// UsageEvent is one append-only record of a design operation or a piece of
// user feedback.
//
// The usage log is how the prompt corpus and the fallback keyword tables get
// better over time: analytics reads the log offline, finds prompts the
// parser missed, and feeds them back into the knowledge corpus. Nothing in
// the serving path ever reads it back.
//
// # Event Types
//
// Events are categorized by type for offline filtering:
//   - Design: "design.create", "design.add", "design.modify", plus
//     "design.apply" for apply prompts whose action never resolved
//   - Risk: "risk.assess"
//   - Feedback: "feedback.submitted"
//   - Diagrams: "diagram.saved", "diagram.deleted"
//
// Example:
//
//	event := UsageEvent{
//	    EventType:    "design.create",
//	    Timestamp:    time.Now().UTC(),
//	    CallerID:     caller.CallerID,
//	    PromptLength: len(prompt),
//	    CommandType:  "create",
//	    Outcome:      "success",
//	    IntentSource: "model",
//	    Metadata: NewMetadata().
//	        Set("node_count", len(spec.Nodes)).
//	        Set("pattern", "three-tier"),
//	}
type UsageEvent struct {
	// EventID uniquely identifies the event. Callers normally assign a
	// UUID; implementations must not assume any particular format.
	EventID string `json:"eventId"`

	// EventType categorizes the event for offline filtering.
	// Format: "category.action" (e.g., "design.create", "feedback.submitted")
	EventType string `json:"eventType"`

	// Timestamp is when the event occurred (always use UTC).
	// If zero, implementations should set it to time.Now().UTC().
	Timestamp time.Time `json:"timestamp"`

	// CallerID identifies who performed the action.
	// Use "local-user" for unauthenticated local deployments.
	CallerID string `json:"callerId"`

	// PromptLength is the rune length of the user prompt, when the event
	// wraps a design operation. Never store the prompt text itself here;
	// prompts go in Metadata only when the caller opted in via feedback.
	PromptLength int `json:"promptLength,omitempty"`

	// CommandType is the resolved designer command ("create", "add",
	// "modify"), when applicable.
	CommandType string `json:"commandType,omitempty"`

	// IntentSource records which path produced the intent: "model" when
	// the language model parse succeeded, "fallback" when keyword
	// detection served, "none" for operations with no parse step.
	IntentSource string `json:"intentSource,omitempty"`

	// Outcome indicates the result of the action.
	// Values: "success", "unrecognized", "error"
	Outcome string `json:"outcome"`

	// RiskLevel carries the assessed change risk for risk events.
	RiskLevel string `json:"riskLevel,omitempty"`

	// Metadata holds additional event-specific data, such as node counts,
	// matched pattern IDs, or the feedback text a user chose to submit.
	Metadata Metadata `json:"metadata,omitempty"`
}

// UsageLogger records design operations and feedback for offline analysis.
//
// Implementations must be safe for concurrent use by multiple goroutines.
// Record should be fast; it sits on the serving path of every design
// request.
//
// # Open Source Behavior
//
// The default NopUsageLogger discards all events. The gateway substitutes
// FileUsageLogger when a usage log path is configured.
//
// # Hosted Implementation
//
// Hosted versions ship events to a warehouse or queue:
//
//	type WarehouseLogger struct {
//	    producer *kafka.Writer
//	}
//
//	func (l *WarehouseLogger) Record(ctx context.Context, event UsageEvent) error {
//	    if event.Timestamp.IsZero() {
//	        event.Timestamp = time.Now().UTC()
//	    }
//	    payload, err := json.Marshal(event)
//	    if err != nil {
//	        return err
//	    }
//	    return l.producer.WriteMessages(ctx, kafka.Message{Value: payload})
//	}
//
// # Append-Only Contract
//
// The log is append-only: implementations never expose mutation or
// querying to the serving path. Analysis happens out of process.
type UsageLogger interface {
	// Record appends one event to the usage log.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - event: The usage event to record
	//
	// Returns:
	//   - error: nil on success, error if recording failed
	//
	// Implementations should set Timestamp if zero and return quickly.
	// Callers treat a Record failure as log-and-continue; usage logging
	// never fails a design request.
	Record(ctx context.Context, event UsageEvent) error

	// Flush ensures all buffered events are persisted.
	//
	// Call this before shutdown to prevent event loss. For unbuffered
	// implementations this may be a no-op.
	Flush(ctx context.Context) error
}

// NopUsageLogger is the default usage logger for open source.
//
// It discards all events without recording them.
//
// Thread-safe: This implementation has no mutable state.
type NopUsageLogger struct{}

// Record discards the event without recording it.
//
// Always returns nil regardless of event content.
func (l *NopUsageLogger) Record(_ context.Context, _ UsageEvent) error {
	return nil
}

// Flush is a no-op since nothing is buffered.
func (l *NopUsageLogger) Flush(_ context.Context) error {
	return nil
}

// Compile-time interface compliance check.
var _ UsageLogger = (*NopUsageLogger)(nil)
