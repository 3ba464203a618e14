// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

// Package natskv implements store.FeedStore on a JetStream key-value
// bucket, so feeds are readable by any instance attached to the NATS
// cluster. A KV Put replaces the whole value atomically.
package natskv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tomtom215/playmaker/internal/store"
)

// Config configures the bucket.
type Config struct {
	Bucket   string
	History  uint8
	TTL      time.Duration
	Replicas int
}

// DefaultConfig returns defaults for a single-node deployment.
func DefaultConfig() Config {
	return Config{Bucket: "feeds", History: 1, Replicas: 1}
}

// Store writes feeds into a KV bucket.
type Store struct {
	kv jetstream.KeyValue
}

var _ store.FeedStore = (*Store)(nil)

// New creates or updates the bucket and returns a Store bound to it.
func New(ctx context.Context, js jetstream.JetStream, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("natskv: bucket is required")
	}
	if cfg.History == 0 {
		cfg.History = 1
	}
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:   cfg.Bucket,
		History:  cfg.History,
		TTL:      cfg.TTL,
		Replicas: cfg.Replicas,
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("create kv bucket %s: %w", cfg.Bucket, err)
	}
	return &Store{kv: kv}, nil
}

// key maps a feed path to a KV key. KV keys use "." as the token
// separator, so "feed/u1" becomes "feed.u1".
func key(path string) string {
	return strings.ReplaceAll(path, "/", ".")
}

// Overwrite implements store.FeedStore.
func (s *Store) Overwrite(ctx context.Context, path string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if _, err := s.kv.Put(ctx, key(path), data); err != nil {
		return fmt.Errorf("kv put %s: %w", path, err)
	}
	return nil
}

// Get reads the value at path into v.
func (s *Store) Get(ctx context.Context, path string, v interface{}) error {
	entry, err := s.kv.Get(ctx, key(path))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("%s: %w", path, store.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("kv get %s: %w", path, err)
	}
	return json.Unmarshal(entry.Value(), v)
}
