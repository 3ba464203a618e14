// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/playmaker/internal/logging"
)

// CorrelationIDHeader carries the correlation ID in both directions.
const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationID reuses an inbound X-Correlation-ID, falling back to chi's
// request ID and then to a fresh ID, and echoes it on the response.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check if request already has an ID (from upstream caller)
		id := r.Header.Get(CorrelationIDHeader)
		if id == "" {
			id = chimiddleware.GetReqID(r.Context())
		}

		ctx := r.Context()
		if id != "" {
			ctx = logging.ContextWithCorrelationID(ctx, id)
		}
		ctx = logging.EnsureCorrelationID(ctx)

		w.Header().Set(CorrelationIDHeader, logging.CorrelationIDFromContext(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
