// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/tomtom215/playmaker/internal/api"
	"github.com/tomtom215/playmaker/internal/config"
	"github.com/tomtom215/playmaker/internal/logging"
	"github.com/tomtom215/playmaker/internal/store"
	"github.com/tomtom215/playmaker/internal/store/badgerstore"
	"github.com/tomtom215/playmaker/internal/store/natskv"
	"github.com/tomtom215/playmaker/internal/store/redisstore"
)

// Stores bundles the opened backends and their readiness checks.
type Stores struct {
	Badger *badgerstore.Store
	Docs   store.DocumentStore
	Feeds  store.FeedStore
	Checks []api.ReadinessCheck

	closers []func() error
}

// Close releases every backend in reverse order of opening.
func (s *Stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// InitStores opens the badger document store, loads fixtures, wraps reads
// in the circuit breaker and selects the feed store backend. nats may be
// nil unless the nats backend is selected.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func InitStores(ctx context.Context, cfg *config.Config, nats *NATSComponents, logger zerolog.Logger) (*Stores, error) {
	db, err := badgerstore.Open(badgerstore.Config{
		Path:       cfg.Store.Path,
		InMemory:   cfg.Store.InMemory,
		SyncWrites: cfg.Store.SyncWrites,
	}, logger)
	if err != nil {
		return nil, err
	}
	s := &Stores{Badger: db, closers: []func() error{db.Close}}

	if cfg.Store.FixturesPath != "" {
		if err := loadFixtures(ctx, db, cfg.Store.FixturesPath); err != nil {
			_ = s.Close()
			return nil, err
		}
	}

	s.Docs = db
	if cfg.Breaker.Enabled {
		s.Docs = store.NewBreakerStore(db, store.BreakerConfig{
			Name:             "documents",
			MaxRequests:      cfg.Breaker.MaxRequests,
			Interval:         cfg.Breaker.Interval,
			Timeout:          cfg.Breaker.Timeout,
			FailureThreshold: cfg.Breaker.FailureThreshold,
		}, logger)
	}
	s.Checks = append(s.Checks, api.DocumentStoreCheck(s.Docs))

	switch cfg.FeedStore.Backend {
	case config.FeedStoreNATS:
		js := nats.JetStream()
		if js == nil {
			_ = s.Close()
			return nil, errors.New("nats feed store requires an initialized NATS connection")
		}
		kv, err := natskv.New(ctx, js, natskv.Config{
			Bucket:   cfg.NATS.KVBucket,
			History:  uint8(cfg.NATS.KVHistory), //nolint:gosec // validated to 0..64
			TTL:      cfg.NATS.KVTTL,
			Replicas: cfg.NATS.KVReplicas,
		})
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.Feeds = kv
		s.Checks = append(s.Checks, api.ReadinessCheck{Name: "nats", Check: nats.Healthy})

	case config.FeedStoreRedis:
		rs := redisstore.New(redisstore.Config{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
			TTL:       cfg.Redis.TTL,
		})
		s.closers = append(s.closers, rs.Close)
		s.Feeds = rs
		s.Checks = append(s.Checks, api.PingCheck("redis", rs))

	default:
		s.Feeds = db
		s.Checks = append(s.Checks, api.PingCheck("feed_store", db))
	}

	logging.Info().
		Str("feed_store", cfg.FeedStore.Backend).
		Bool("in_memory", cfg.Store.InMemory).
		Bool("breaker", cfg.Breaker.Enabled).
		Msg("Stores initialized")
	return s, nil
}

func loadFixtures(ctx context.Context, db *badgerstore.Store, path string) error {
	f, err := os.Open(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return fmt.Errorf("open fixtures: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := db.LoadFixtures(ctx, f); err != nil {
		return fmt.Errorf("load fixtures %s: %w", path, err)
	}
	return nil
}
