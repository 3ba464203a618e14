// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package eventprocessor

import (
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Metadata keys set on regeneration messages.
const (
	MetadataViewerID      = "viewer_id"
	MetadataReason        = "reason"
	MetadataCorrelationID = "correlation_id"
)

// Common regeneration reasons. Producers may send any string.
const (
	ReasonNewPost       = "new_post"
	ReasonFollowChanged = "follow_changed"
	ReasonProfileEdited = "profile_edited"
	ReasonManual        = "manual"
)

// RegenerationRequest asks for one viewer's feed to be regenerated.
type RegenerationRequest struct {
	ViewerID    string    `json:"viewer_id"`
	Reason      string    `json:"reason,omitempty"`
	RequestedAt time.Time `json:"requested_at,omitempty"`
}

// Validate checks required fields.
func (r *RegenerationRequest) Validate() error {
	if strings.TrimSpace(r.ViewerID) == "" {
		return fmt.Errorf("%w: viewer_id is required", ErrInvalidRequest)
	}
	return nil
}

// NewRegenerationMessage builds a Watermill message for req. The message
// UUID doubles as the JetStream Nats-Msg-Id, so republishing the same
// message within the duplicate window is deduplicated by the server.
func NewRegenerationMessage(req RegenerationRequest) (*message.Message, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now().UTC()
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal regeneration request: %w", err)
	}
	msg := message.NewMessage(uuid.NewString(), data)
	msg.Metadata.Set(MetadataViewerID, req.ViewerID)
	if req.Reason != "" {
		msg.Metadata.Set(MetadataReason, req.Reason)
	}
	return msg, nil
}

// ParseRegenerationRequest decodes and validates a message payload.
func ParseRegenerationRequest(payload []byte) (RegenerationRequest, error) {
	var req RegenerationRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return RegenerationRequest{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if err := req.Validate(); err != nil {
		return RegenerationRequest{}, err
	}
	return req, nil
}
