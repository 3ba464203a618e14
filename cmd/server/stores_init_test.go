// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/playmaker/internal/config"
	"github.com/tomtom215/playmaker/internal/store"
	"github.com/tomtom215/playmaker/internal/store/redisstore"
)

func inMemoryConfig(backend string) *config.Config {
	return &config.Config{
		Store:     config.StoreConfig{InMemory: true},
		FeedStore: config.FeedStoreConfig{Backend: backend},
		Breaker:   config.BreakerConfig{Enabled: true, FailureThreshold: 5},
	}
}

func checkNames(s *Stores) []string {
	names := make([]string, len(s.Checks))
	for i, c := range s.Checks {
		names[i] = c.Name
	}
	return names
}

func TestInitStores_Badger(t *testing.T) {
	dir := t.TempDir()
	fixtures := filepath.Join(dir, "fixtures.json")
	if err := os.WriteFile(fixtures, []byte(`{"users":{"u1":{"following":["u2"]}}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := inMemoryConfig(config.FeedStoreBadger)
	cfg.Store.FixturesPath = fixtures

	s, err := InitStores(context.Background(), cfg, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("InitStores() error = %v", err)
	}
	defer func() { _ = s.Close() }()

	if _, ok := s.Docs.(*store.BreakerStore); !ok {
		t.Errorf("Docs = %T, want *store.BreakerStore", s.Docs)
	}
	if s.Feeds != store.FeedStore(s.Badger) {
		t.Errorf("Feeds = %T, want the badger store", s.Feeds)
	}
	if _, err := s.Docs.GetByID(context.Background(), store.CollectionUsers, "u1"); err != nil {
		t.Errorf("fixture not loaded: %v", err)
	}
	for _, c := range s.Checks {
		if err := c.Check(context.Background()); err != nil {
			t.Errorf("check %s failed: %v", c.Name, err)
		}
	}
	if got := checkNames(s); len(got) != 2 || got[0] != "document_store" || got[1] != "feed_store" {
		t.Errorf("checks = %v", got)
	}
}

func TestInitStores_BreakerDisabled(t *testing.T) {
	cfg := inMemoryConfig(config.FeedStoreBadger)
	cfg.Breaker.Enabled = false

	s, err := InitStores(context.Background(), cfg, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("InitStores() error = %v", err)
	}
	defer func() { _ = s.Close() }()

	if s.Docs != store.DocumentStore(s.Badger) {
		t.Errorf("Docs = %T, want the bare badger store", s.Docs)
	}
}

func TestInitStores_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := inMemoryConfig(config.FeedStoreRedis)
	cfg.Redis = config.RedisConfig{Addr: mr.Addr(), KeyPrefix: "pm:"}

	s, err := InitStores(context.Background(), cfg, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("InitStores() error = %v", err)
	}
	defer func() { _ = s.Close() }()

	if _, ok := s.Feeds.(*redisstore.Store); !ok {
		t.Fatalf("Feeds = %T, want *redisstore.Store", s.Feeds)
	}
	if err := s.Feeds.Overwrite(context.Background(), store.FeedPath("u1"), map[string]int{"n": 1}); err != nil {
		t.Fatalf("Overwrite() error = %v", err)
	}
	if !mr.Exists("pm:" + store.FeedPath("u1")) {
		t.Error("feed not written to redis")
	}
}

func TestInitStores_NATSWithoutConnection(t *testing.T) {
	_, err := InitStores(context.Background(), inMemoryConfig(config.FeedStoreNATS), nil, zerolog.Nop())
	if err == nil {
		t.Fatal("expected error for nats backend without a connection")
	}
}

func TestInitStores_MissingFixtures(t *testing.T) {
	cfg := inMemoryConfig(config.FeedStoreBadger)
	cfg.Store.FixturesPath = filepath.Join(t.TempDir(), "missing.json")
	if _, err := InitStores(context.Background(), cfg, nil, zerolog.Nop()); err == nil {
		t.Fatal("expected error for missing fixtures file")
	}
}
