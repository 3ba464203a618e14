// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/playmaker/internal/store"
)

func newTestStore(t *testing.T, cfg Config) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg.Addr = mr.Addr()
	s := New(cfg)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestOverwriteAndGet(t *testing.T) {
	s, mr := newTestStore(t, Config{KeyPrefix: "pm:"})
	ctx := context.Background()
	path := store.FeedPath("u1")

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Overwrite(ctx, path, map[string]interface{}{"games": []string{"g1"}, "old": 1}))
	require.NoError(t, s.Overwrite(ctx, path, map[string]interface{}{"games": []string{"g9"}}))

	assert.True(t, mr.Exists("pm:feed/u1"))

	var got map[string]interface{}
	require.NoError(t, s.Get(ctx, path, &got))
	assert.Equal(t, []interface{}{"g9"}, got["games"])
	assert.NotContains(t, got, "old")
}

func TestGet_NotFound(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	var got map[string]interface{}
	err := s.Get(context.Background(), store.FeedPath("ghost"), &got)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestOverwrite_TTL(t *testing.T) {
	s, mr := newTestStore(t, Config{TTL: time.Hour})
	require.NoError(t, s.Overwrite(context.Background(), store.FeedPath("u1"), []string{}))
	assert.Equal(t, time.Hour, mr.TTL("feed/u1"))
}

func TestOverwrite_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	s := New(Config{Addr: mr.Addr()})
	defer func() { _ = s.Close() }()
	mr.Close()

	err = s.Overwrite(context.Background(), store.FeedPath("u1"), []string{})
	require.Error(t, err)
}
