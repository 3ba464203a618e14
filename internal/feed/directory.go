// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/playmaker/internal/metrics"
	"github.com/tomtom215/playmaker/internal/store"
)

// Author lookup results, reported in LookupStats and metrics.
const (
	lookupHit     = "hit"
	lookupMiss    = "miss"
	lookupFetched = "fetched"
	lookupError   = "error"
)

// Directory is a memoized author lookup owned by one generation pass.
//
// Found authors and confirmed misses are cached for the rest of the pass.
// Transient store errors are not cached, so a later lookup retries.
// Concurrent lookups of the same id share one store call.
type Directory struct {
	docs   store.DocumentStore
	logger zerolog.Logger

	mu      sync.RWMutex
	authors map[string]*Author // nil value records a confirmed miss
	group   singleflight.Group

	hits    atomic.Int64
	misses  atomic.Int64
	fetched atomic.Int64
	failed  atomic.Int64
}

// LookupStats counts Directory outcomes for one pass.
type LookupStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Fetched int64 `json:"fetched"`
	Errors  int64 `json:"errors"`
}

// NewDirectory creates an empty pass-scoped directory.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewDirectory(docs store.DocumentStore, logger zerolog.Logger) *Directory {
	return &Directory{
		docs:    docs,
		logger:  logger,
		authors: make(map[string]*Author),
	}
}

// Lookup returns the author with the given id. It returns (nil, nil) when
// the author does not exist; a non-nil error means the store failed.
func (d *Directory) Lookup(ctx context.Context, id string) (*Author, error) {
	d.mu.RLock()
	a, ok := d.authors[id]
	d.mu.RUnlock()
	if ok {
		d.hits.Add(1)
		metrics.RecordAuthorLookup(lookupHit)
		return a, nil
	}

	v, err, _ := d.group.Do(id, func() (res interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				d.failed.Add(1)
				metrics.RecordAuthorLookup(lookupError)
				res, err = nil, fmt.Errorf("lookup author %s: %w: %v", id, errPanicked, r)
			}
		}()

		// A caller that lost the race may find the entry filled in.
		d.mu.RLock()
		cached, ok := d.authors[id]
		d.mu.RUnlock()
		if ok {
			return cached, nil
		}

		doc, err := d.docs.GetByID(ctx, store.CollectionUsers, id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			d.store(id, nil)
			d.misses.Add(1)
			metrics.RecordAuthorLookup(lookupMiss)
			return (*Author)(nil), nil
		case err != nil:
			d.failed.Add(1)
			metrics.RecordAuthorLookup(lookupError)
			return nil, fmt.Errorf("lookup author %s: %w", id, err)
		}
		author := AuthorFromDocument(doc)
		d.store(id, author)
		d.fetched.Add(1)
		metrics.RecordAuthorLookup(lookupFetched)
		return author, nil
	})
	if err != nil {
		return nil, err
	}
	author, _ := v.(*Author)
	return author, nil
}

func (d *Directory) store(id string, a *Author) {
	d.mu.Lock()
	d.authors[id] = a
	d.mu.Unlock()
}

// Hydrate resolves ids concurrently so later Lookups are cache hits.
// Failures are logged and left for Lookup to report.
func (d *Directory) Hydrate(ctx context.Context, ids []string, concurrency int) {
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for _, id := range ids {
		g.Go(func() error {
			if _, err := d.Lookup(gctx, id); err != nil {
				d.logger.Debug().Err(err).Str("author_id", id).Msg("Author hydration failed")
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Len returns the number of cached entries, misses included.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.authors)
}

// Stats returns lookup counters.
func (d *Directory) Stats() LookupStats {
	return LookupStats{
		Hits:    d.hits.Load(),
		Misses:  d.misses.Load(),
		Fetched: d.fetched.Load(),
		Errors:  d.failed.Load(),
	}
}
