// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package eventprocessor

import (
	"errors"
	"testing"
)

func TestNewRegenerationMessage(t *testing.T) {
	t.Parallel()

	msg, err := NewRegenerationMessage(RegenerationRequest{ViewerID: "u1", Reason: ReasonNewPost})
	if err != nil {
		t.Fatalf("NewRegenerationMessage: %v", err)
	}
	if msg.UUID == "" {
		t.Error("message UUID is empty")
	}
	if got := msg.Metadata.Get(MetadataViewerID); got != "u1" {
		t.Errorf("viewer metadata = %q, want u1", got)
	}
	if got := msg.Metadata.Get(MetadataReason); got != ReasonNewPost {
		t.Errorf("reason metadata = %q, want %q", got, ReasonNewPost)
	}

	req, err := ParseRegenerationRequest(msg.Payload)
	if err != nil {
		t.Fatalf("ParseRegenerationRequest: %v", err)
	}
	if req.ViewerID != "u1" || req.Reason != ReasonNewPost || req.RequestedAt.IsZero() {
		t.Errorf("decoded request = %+v", req)
	}
}

func TestNewRegenerationMessage_RequiresViewer(t *testing.T) {
	t.Parallel()

	if _, err := NewRegenerationMessage(RegenerationRequest{ViewerID: "  "}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestParseRegenerationRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    string
		wantErr bool
	}{
		{"minimal", `{"viewer_id":"u1"}`, "u1", false},
		{"with reason", `{"viewer_id":"u2","reason":"follow_changed"}`, "u2", false},
		{"empty viewer", `{"viewer_id":""}`, "", true},
		{"missing viewer", `{"reason":"manual"}`, "", true},
		{"not json", `viewer u1`, "", true},
		{"wrong type", `{"viewer_id":42}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req, err := ParseRegenerationRequest([]byte(tt.payload))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRequest) {
					t.Errorf("err = %v, want ErrInvalidRequest", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.ViewerID != tt.want {
				t.Errorf("ViewerID = %q, want %q", req.ViewerID, tt.want)
			}
		})
	}
}
