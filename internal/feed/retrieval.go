// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package feed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/playmaker/internal/metrics"
	"github.com/tomtom215/playmaker/internal/store"
)

// Retrieval strategy names, used in PassStats and metrics.
const (
	StrategyFollowing = "following"
	StrategySports    = "sports"
	StrategyRecent    = "recent"
	StrategyGames     = "games"
)

const gameType = "game"

// Retriever assembles candidate sets for one viewer.
// Every method recovers its own failures: a failed strategy contributes
// nothing and is reported through the returned failure list.
type Retriever struct {
	docs   store.DocumentStore
	cfg    RetrievalConfig
	logger zerolog.Logger
}

// NewRetriever creates a retriever.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRetriever(docs store.DocumentStore, cfg RetrievalConfig, logger zerolog.Logger) *Retriever {
	return &Retriever{docs: docs, cfg: cfg, logger: logger}
}

// candidateSet is an id-unique collection that keeps first-seen order.
// A later write of the same id replaces the data but not the position.
type candidateSet struct {
	order []string
	items map[string]Item
}

func newCandidateSet() *candidateSet {
	return &candidateSet{items: make(map[string]Item)}
}

func (s *candidateSet) add(items ...Item) {
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		if _, ok := s.items[it.ID]; !ok {
			s.order = append(s.order, it.ID)
		}
		s.items[it.ID] = it
	}
}

func (s *candidateSet) len() int {
	return len(s.order)
}

func (s *candidateSet) list() []Item {
	out := make([]Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// Posts returns the merged post candidates and the strategies that failed.
func (r *Retriever) Posts(ctx context.Context, v *Viewer) ([]Item, []string) {
	var following, sports []Item
	var followingErr, sportsErr error

	// The two relevance strategies are independent; run them together and
	// merge in a fixed order.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer recoverAsError(&followingErr)
		following, followingErr = r.batched(gctx, fieldUserID, v.Following.Values())
		return nil
	})
	g.Go(func() error {
		defer recoverAsError(&sportsErr)
		sports, sportsErr = r.batched(gctx, r.cfg.SportField, v.SportInterests().Values())
		return nil
	})
	_ = g.Wait()

	var failed []string
	set := newCandidateSet()
	if r.noteFailure(ctx, StrategyFollowing, followingErr) {
		failed = append(failed, StrategyFollowing)
	} else {
		set.add(following...)
	}
	if r.noteFailure(ctx, StrategySports, sportsErr) {
		failed = append(failed, StrategySports)
	} else {
		set.add(sports...)
	}

	if set.len() < r.cfg.BackfillFloor {
		recent, err := r.query(ctx, store.Query{
			Collection: store.CollectionPosts,
			OrderBy:    fieldCreatedAt,
			Direction:  store.Desc,
			Limit:      r.cfg.BackfillLimit,
		}, KindPost)
		if r.noteFailure(ctx, StrategyRecent, err) {
			failed = append(failed, StrategyRecent)
		} else {
			set.add(recent...)
		}
	}

	return set.list(), failed
}

// Games returns recent games that pass the relevance predicate.
func (r *Retriever) Games(ctx context.Context, v *Viewer) ([]Item, []string) {
	games, err := r.query(ctx, store.Query{
		Collection: store.CollectionEvents,
		Field:      fieldType,
		Op:         store.OpEqual,
		Value:      gameType,
		OrderBy:    fieldCreatedAt,
		Direction:  store.Desc,
		Limit:      r.cfg.GameLimit,
	}, KindGame)
	if r.noteFailure(ctx, StrategyGames, err) {
		return nil, []string{StrategyGames}
	}

	set := newCandidateSet()
	for _, game := range games {
		if IncludeGame(v, game) {
			set.add(game)
		}
	}
	return set.list(), nil
}

// IncludeGame reports whether a game is relevant to the viewer.
// Games authored by the viewer are always excluded. A viewer with no
// sport or tag preferences sees every other game.
func IncludeGame(v *Viewer, game Item) bool {
	authorID, ok := ResolveAuthorID(game)
	if ok && authorID == v.ID {
		return false
	}
	if ok && v.Following.Has(authorID) {
		return true
	}
	if game.Sport != "" && (v.InterestedSports.Has(game.Sport) || v.FavoriteSports.Has(game.Sport)) {
		return true
	}
	for _, tag := range game.Tags {
		if v.Tags.Has(tag) {
			return true
		}
	}
	return !v.HasPreferences()
}

// batched issues one "in" query per chunk of values and concatenates the
// results in chunk order. Any failing chunk fails the whole strategy.
func (r *Retriever) batched(ctx context.Context, field string, values []string) ([]Item, error) {
	chunks := chunk(values, r.cfg.BatchSize)
	if len(chunks) == 0 {
		return nil, nil
	}

	results := make([][]Item, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	if r.cfg.Concurrency > 0 {
		g.SetLimit(r.cfg.Concurrency)
	}
	for i, c := range chunks {
		g.Go(func() error {
			items, err := r.query(gctx, store.Query{
				Collection: store.CollectionPosts,
				Field:      field,
				Op:         store.OpIn,
				Value:      c,
				OrderBy:    fieldCreatedAt,
				Direction:  store.Desc,
				Limit:      r.cfg.BatchLimit,
			}, KindPost)
			if err != nil {
				return fmt.Errorf("batch %d of %d: %w", i+1, len(chunks), err)
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Item
	for _, items := range results {
		out = append(out, items...)
	}
	return out, nil
}

func (r *Retriever) query(ctx context.Context, q store.Query, kind Kind) (_ []Item, err error) {
	defer recoverAsError(&err)

	docs, err := r.docs.QueryByField(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Collection, err)
	}
	items := make([]Item, 0, len(docs))
	for _, doc := range docs {
		items = append(items, ItemFromDocument(doc, kind))
	}
	return items, nil
}

// noteFailure logs a strategy failure and reports whether one occurred.
func (r *Retriever) noteFailure(ctx context.Context, strategy string, err error) bool {
	if err == nil {
		return false
	}
	metrics.RecordRetrievalFailure(strategy)
	logger := r.logger.With().Str("strategy", strategy).Logger()
	if ctx.Err() != nil {
		logger.Debug().Err(err).Msg("Retrieval strategy cancelled")
		return true
	}
	logger.Warn().Err(err).Msg("Retrieval strategy failed, continuing without it")
	return true
}

func chunk(values []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	var out [][]string
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		out = append(out, values[start:end])
	}
	return out
}
