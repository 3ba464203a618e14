// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package store

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/playmaker/internal/metrics"
)

// BreakerConfig configures the circuit breaker around a DocumentStore.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultBreakerConfig returns production defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "documents",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerStore guards a DocumentStore with a circuit breaker. ErrNotFound
// and context cancellation are answers, not failures, and never trip it.
type BreakerStore struct {
	next DocumentStore
	cb   *gobreaker.CircuitBreaker[interface{}]
}

var _ DocumentStore = (*BreakerStore)(nil)

// NewBreakerStore wraps next.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBreakerStore(next DocumentStore, cfg BreakerConfig, logger zerolog.Logger) *BreakerStore {
	if cfg.Name == "" {
		cfg.Name = "documents"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	log := logger.With().Str("component", "store-breaker").Str("breaker", cfg.Name).Logger()

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Caller-side cancellation and deadlines say nothing about the backend.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetBreakerState(name, int(to))
			log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("document store breaker state changed")
		},
	}
	metrics.SetBreakerState(cfg.Name, int(gobreaker.StateClosed))

	return &BreakerStore{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[interface{}](settings),
	}
}

// State returns the breaker state name for health reporting.
func (b *BreakerStore) State() string {
	return b.cb.State().String()
}

// QueryByField implements DocumentStore.
func (b *BreakerStore) QueryByField(ctx context.Context, q Query) ([]Document, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("query", q.Collection, time.Since(start)) }()

	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.QueryByField(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	docs, _ := out.([]Document)
	return docs, nil
}

// GetByID implements DocumentStore.
func (b *BreakerStore) GetByID(ctx context.Context, collection, id string) (Document, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("get", collection, time.Since(start)) }()

	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.GetByID(ctx, collection, id)
	})
	if err != nil {
		return Document{}, err
	}
	doc, _ := out.(Document)
	return doc, nil
}
