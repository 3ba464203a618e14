// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/playmaker/internal/logging"
)

// ReasonManual tags regenerations requested through the ops endpoint.
const ReasonManual = "manual"

// ErrUnknownViewer is returned by a Regenerator that checks the viewer
// synchronously and cannot find it.
var ErrUnknownViewer = errors.New("unknown viewer")

// Regenerator queues or runs a feed regeneration for one viewer.
type Regenerator interface {
	RequestRegeneration(ctx context.Context, viewerID, reason string) error
}

// WithRegenerator enables POST /ops/feeds/{viewerID}/regenerate.
func (h *Handler) WithRegenerator(r Regenerator) *Handler {
	h.regenerator = r
	return h
}

// Regenerate asks for a viewer's feed to be rebuilt and answers 202.
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	viewerID := strings.TrimSpace(chi.URLParam(r, "viewerID"))
	if viewerID == "" {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "viewer id is required")
		return
	}

	err := h.regenerator.RequestRegeneration(r.Context(), viewerID, ReasonManual)
	switch {
	case err == nil:
		respondJSON(w, r, http.StatusAccepted, &Response{
			Status: "accepted",
			Data:   map[string]string{"viewer_id": viewerID},
		})
	case errors.Is(err, ErrUnknownViewer):
		respondError(w, r, http.StatusNotFound, "VIEWER_NOT_FOUND", "viewer not found")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("viewer_id", viewerID).Msg("Regeneration request failed")
		respondError(w, r, http.StatusServiceUnavailable, "REGENERATION_UNAVAILABLE", "regeneration request failed")
	}
}
