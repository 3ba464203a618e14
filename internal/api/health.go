// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/tomtom215/playmaker/internal/store"
)

// defaultCheckTimeout bounds each readiness check.
const defaultCheckTimeout = 2 * time.Second

// ReadinessCheck is one dependency the service needs before it can
// regenerate feeds.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// DocumentStoreCheck probes docs with a one-row query on the users
// collection, the first read of every generation pass.
func DocumentStoreCheck(docs store.DocumentStore) ReadinessCheck {
	return ReadinessCheck{
		Name: "document_store",
		Check: func(ctx context.Context) error {
			_, err := docs.QueryByField(ctx, store.Query{Collection: store.CollectionUsers, Limit: 1})
			return err
		},
	}
}

// PingCheck wraps anything with a Ping method (badger, redis).
func PingCheck(name string, p interface{ Ping(context.Context) error }) ReadinessCheck {
	return ReadinessCheck{Name: name, Check: p.Ping}
}

// CheckResult is the outcome of one readiness check.
type CheckResult struct {
	Name    string  `json:"name"`
	OK      bool    `json:"ok"`
	Error   string  `json:"error,omitempty"`
	Latency float64 `json:"latency_ms"`
}

// Handler serves the ops endpoints.
type Handler struct {
	checks       []ReadinessCheck
	checkTimeout time.Duration
	startTime    time.Time
	regenerator  Regenerator
}

// NewHandler creates a handler running checks on every readiness probe.
func NewHandler(checks ...ReadinessCheck) *Handler {
	return &Handler{
		checks:       checks,
		checkTimeout: defaultCheckTimeout,
		startTime:    time.Now(),
	}
}

// HealthLive reports that the process is up, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &Response{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
	})
}

// HealthReady runs every readiness check concurrently. It answers 200 when
// all pass and 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	results := h.runChecks(r.Context())

	ready := true
	for _, res := range results {
		if !res.OK {
			ready = false
			break
		}
	}

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, r, statusCode, &Response{
		Status: status,
		Data: map[string]interface{}{
			"ready_to_serve": ready,
			"checks":         results,
			"uptime":         time.Since(h.startTime).Seconds(),
		},
	})
}

func (h *Handler) runChecks(ctx context.Context) []CheckResult {
	results := make([]CheckResult, len(h.checks))
	var wg sync.WaitGroup
	for i, c := range h.checks {
		wg.Add(1)
		go func(i int, c ReadinessCheck) {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, h.checkTimeout)
			defer cancel()

			start := time.Now()
			err := c.Check(checkCtx)
			results[i] = CheckResult{
				Name:    c.Name,
				OK:      err == nil,
				Latency: float64(time.Since(start).Microseconds()) / 1000,
			}
			if err != nil {
				results[i].Error = err.Error()
			}
		}(i, c)
	}
	wg.Wait()
	return results
}
