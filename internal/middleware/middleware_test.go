// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/playmaker/internal/logging"
	"github.com/tomtom215/playmaker/internal/metrics"
)

func TestCorrelationID(t *testing.T) {
	tests := []struct {
		name      string
		inbound   string
		requestID bool
		want      string
	}{
		{"inbound header wins", "caller-id", true, "caller-id"},
		{"falls back to request id", "", true, ""},
		{"generates when nothing is set", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen, reqID string
			var h http.Handler = CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = logging.CorrelationIDFromContext(r.Context())
				reqID = chimiddleware.GetReqID(r.Context())
			}))
			if tt.requestID {
				h = chimiddleware.RequestID(h)
			}

			req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
			if tt.inbound != "" {
				req.Header.Set(CorrelationIDHeader, tt.inbound)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if seen == "" {
				t.Fatal("no correlation id in context")
			}
			if got := rec.Header().Get(CorrelationIDHeader); got != seen {
				t.Errorf("header = %q, context = %q", got, seen)
			}
			switch {
			case tt.want != "" && seen != tt.want:
				t.Errorf("correlation id = %q, want %q", seen, tt.want)
			case tt.want == "" && tt.requestID && seen != reqID:
				t.Errorf("correlation id = %q, want request id %q", seen, reqID)
			}
		})
	}
}

func TestAccessLog(t *testing.T) {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	RequestLogger(logger)(h).ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"path":"/health/ready"`, `"status":418`, `"bytes":5`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s: %s", want, out)
		}
	}
}

func TestRequestLogger_ScopesHandlerLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Str("component", "http").Logger()

	h := CorrelationID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.Ctx(r.Context()).Warn().Msg("handler log")
	})))
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	req.Header.Set(CorrelationIDHeader, "corr-7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"component":"http"`, `"correlation_id":"corr-7"`, `"message":"handler log"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s: %s", want, out)
		}
	}
}

func TestPrometheusMetrics_RoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Post("/ops/feeds/{viewerID}/regenerate", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	// Create the series up front so the count below only grows if raw
	// paths leak into the route label.
	metrics.HTTPRequestDuration.WithLabelValues(http.MethodPost, "/ops/feeds/{viewerID}/regenerate", "202")
	before := testutil.CollectAndCount(metrics.HTTPRequestDuration)

	for _, id := range []string{"u1", "u2"} {
		req := httptest.NewRequest(http.MethodPost, "/ops/feeds/"+id+"/regenerate", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	if got := testutil.CollectAndCount(metrics.HTTPRequestDuration); got != before {
		t.Errorf("series count = %d, want %d", got, before)
	}
}

func TestPrometheusMetrics_Unmatched(t *testing.T) {
	h := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got := routePattern(req); got != unmatchedRoute {
		t.Errorf("routePattern = %q, want %q", got, unmatchedRoute)
	}
}
