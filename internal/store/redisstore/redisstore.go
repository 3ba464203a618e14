// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

// Package redisstore implements store.FeedStore on Redis. Each feed is one
// string key holding the JSON result; SET replaces it atomically.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/playmaker/internal/store"
)

// Config configures the Redis feed store.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	// TTL expires stored feeds; zero keeps them until overwritten.
	TTL time.Duration
}

// Store writes feeds to Redis.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ store.FeedStore = (*Store)(nil)

// New returns a Store backed by a new client for cfg.Addr.
func New(cfg Config) *Store {
	return NewWithClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), cfg)
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, cfg Config) *Store {
	return &Store{client: client, prefix: cfg.KeyPrefix, ttl: cfg.TTL}
}

func (s *Store) key(path string) string {
	return s.prefix + path
}

// Overwrite implements store.FeedStore.
func (s *Store) Overwrite(ctx context.Context, path string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := s.client.Set(ctx, s.key(path), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", path, err)
	}
	return nil
}

// Get reads the value at path into v.
func (s *Store) Get(ctx context.Context, path string, v interface{}) error {
	raw, err := s.client.Get(ctx, s.key(path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%s: %w", path, store.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", path, err)
	}
	return json.Unmarshal(raw, v)
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
