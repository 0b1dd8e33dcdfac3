// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// This file contains the request type for the feedback endpoint
// (POST /v1/feedback).
package datatypes

import "github.com/google/uuid"

// FeedbackRequest reports a misread prompt or a corpus gap. Submissions
// land in the append-only usage log and are reviewed offline; nothing in
// the serving path reads them back.
//
// # Fields
//
//   - RequestID: Optional UUID v4, ideally the requestId of the design
//     response being reported so the two can be joined offline.
//   - Comment: Required free-text description of what went wrong.
//   - Prompt: Optional. The prompt that was misread. Submitting it is the
//     one way prompt text ever enters the log; design operations record
//     only lengths.
//   - Component: Optional component type the feedback concerns. Must be in
//     the closed vocabulary when present.
//   - Rating: Optional 1-5 satisfaction score; 0 means not rated.
type FeedbackRequest struct {
	RequestID string `json:"requestId" validate:"omitempty,uuid4"`
	Comment   string `json:"comment" validate:"required,max=2000"`
	Prompt    string `json:"prompt" validate:"omitempty,maxbytes"`
	Component string `json:"component" validate:"omitempty,componenttype"`
	Rating    int    `json:"rating" validate:"gte=0,lte=5"`
}

// Validate validates the request fields.
func (r *FeedbackRequest) Validate() error {
	return gatewayValidate.Struct(r)
}

// EnsureDefaults generates a RequestID when the client sent none.
func (r *FeedbackRequest) EnsureDefaults() {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
}
