// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package feed

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/playmaker/internal/logging"
	"github.com/tomtom215/playmaker/internal/metrics"
	"github.com/tomtom215/playmaker/internal/store"
)

// Generator runs feed generation passes. It is safe for concurrent use;
// every pass gets its own author Directory.
type Generator struct {
	docs   store.DocumentStore
	feeds  store.FeedStore
	cfg    *Config
	logger zerolog.Logger
	now    func() time.Time

	retriever *Retriever
	scorer    *Scorer
	quality   QualityFilter
	reranker  Reranker
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the time source used for decay and account ages.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithReranker replaces the diversity reranker.
func WithReranker(r Reranker) Option {
	return func(g *Generator) {
		if r != nil {
			g.reranker = r
		}
	}
}

// PassStats describes one generation pass.
type PassStats struct {
	CorrelationID     string         `json:"correlation_id"`
	Candidates        map[Kind]int   `json:"candidates"`
	Ranked            map[Kind]int   `json:"ranked"`
	Dropped           map[string]int `json:"dropped"`
	RetrievalFailures map[string]int `json:"retrieval_failures"`
	Authors           LookupStats    `json:"authors"`
	Duration          time.Duration  `json:"duration"`
}

func newPassStats(correlationID string) PassStats {
	return PassStats{
		CorrelationID:     correlationID,
		Candidates:        make(map[Kind]int),
		Ranked:            make(map[Kind]int),
		Dropped:           make(map[string]int),
		RetrievalFailures: make(map[string]int),
	}
}

func (s *PassStats) drop(reason string, n int) {
	if n > 0 {
		s.Dropped[reason] += n
	}
}

// Outcome is the full result of Generate.
type Outcome struct {
	ViewerID  string
	Result    *Result
	Stats     PassStats
	Persisted bool
}

// NewGenerator creates a generator. A nil cfg selects DefaultConfig.
// The config is validated and cloned.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewGenerator(docs store.DocumentStore, feeds store.FeedStore, cfg *Config, logger zerolog.Logger, opts ...Option) (*Generator, error) {
	if docs == nil {
		return nil, errors.New("feed: document store is required")
	}
	if feeds == nil {
		return nil, errors.New("feed: feed store is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid feed config: %w", err)
	}
	cfg = cfg.Clone()
	logger = logger.With().Str("component", "feed").Logger()

	g := &Generator{
		docs:      docs,
		feeds:     feeds,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		retriever: NewRetriever(docs, cfg.Retrieval, logger),
		scorer:    NewScorer(cfg.Scoring),
		quality:   NewQualityFilter(cfg.Quality),
		reranker:  NewDiversity(cfg.Diversity),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Config returns a copy of the generator's configuration.
func (g *Generator) Config() *Config {
	return g.cfg.Clone()
}

// GenerateFeed builds and persists the viewer's feed.
//
// The returned Result is never nil. Errors are ErrViewerNotFound, a
// *PersistError whose Result is the computed feed, or a wrapped store
// error when the viewer record could not be read.
func (g *Generator) GenerateFeed(ctx context.Context, viewerID string) (*Result, error) {
	out, err := g.Generate(ctx, viewerID)
	return out.Result, err
}

// Generate is GenerateFeed with pass statistics. The returned Outcome is
// never nil.
func (g *Generator) Generate(ctx context.Context, viewerID string) (*Outcome, error) {
	ctx = logging.EnsureCorrelationID(ctx)
	correlationID := logging.CorrelationIDFromContext(ctx)
	logger := logging.WithCorrelation(ctx, g.logger).With().Str("viewer_id", viewerID).Logger()

	started := time.Now()
	out := &Outcome{
		ViewerID: viewerID,
		Result:   EmptyResult(),
		Stats:    newPassStats(correlationID),
	}
	outcome := metrics.OutcomeOK
	defer func() {
		out.Stats.Duration = time.Since(started)
		metrics.RecordGeneration(outcome, out.Stats.Duration)
	}()

	viewer, err := g.loadViewer(ctx, viewerID)
	if err != nil {
		if errors.Is(err, ErrViewerNotFound) {
			outcome = metrics.OutcomeViewerNotFound
			logger.Debug().Msg("Viewer not found")
		} else {
			outcome = metrics.OutcomeError
			logger.Error().Err(err).Msg("Failed to load viewer")
		}
		return out, err
	}

	now := g.now()
	result, ok := g.rank(ctx, logger, viewer, now, &out.Stats)
	if !ok {
		outcome = metrics.OutcomeError
		return out, nil
	}
	out.Result = result

	path := store.FeedPath(viewerID)
	if err := g.feeds.Overwrite(ctx, path, Persisted{Data: result, GeneratedAt: now}); err != nil {
		outcome = metrics.OutcomePersistFailed
		logger.Error().Err(err).Str("path", path).Msg("Failed to persist feed")
		return out, &PersistError{ViewerID: viewerID, Path: path, Result: result, Err: err}
	}
	out.Persisted = true

	logger.Info().
		Int("highlights", len(result.Posts.Highlights)).
		Int("images", len(result.Posts.Images)).
		Int("thoughts", len(result.Posts.Thoughts)).
		Int("games", len(result.Games)).
		Dur("duration", time.Since(started)).
		Msg("Feed generated")
	return out, nil
}

func (g *Generator) loadViewer(ctx context.Context, viewerID string) (_ *Viewer, err error) {
	defer recoverAsError(&err)

	if viewerID == "" {
		return nil, fmt.Errorf("%w: empty viewer id", ErrViewerNotFound)
	}
	doc, err := g.docs.GetByID(ctx, store.CollectionUsers, viewerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s: %w", ErrViewerNotFound, viewerID, err)
	}
	if err != nil {
		return nil, fmt.Errorf("load viewer %s: %w", viewerID, err)
	}
	return ViewerFromDocument(doc), nil
}

// rank runs every stage between retrieval and categorization. It returns
// false if the pass panicked; the caller then falls back to an empty feed.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (g *Generator) rank(ctx context.Context, logger zerolog.Logger, v *Viewer, now time.Time, stats *PassStats) (result *Result, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("Feed pass panicked, returning empty feed")
			result, ok = nil, false
		}
	}()

	var posts, games []Item
	var postFailures, gameFailures []string
	var postsErr, gamesErr error
	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer recoverAsError(&postsErr)
		posts, postFailures = g.retriever.Posts(egctx, v)
		return nil
	})
	eg.Go(func() error {
		defer recoverAsError(&gamesErr)
		games, gameFailures = g.retriever.Games(egctx, v)
		return nil
	})
	_ = eg.Wait()

	// A panic outside a single query loses that whole kind.
	if postsErr != nil {
		posts, postFailures = nil, nil
		for _, s := range []string{StrategyFollowing, StrategySports, StrategyRecent} {
			g.retriever.noteFailure(ctx, s, postsErr)
			postFailures = append(postFailures, s)
		}
	}
	if gamesErr != nil {
		games = nil
		g.retriever.noteFailure(ctx, StrategyGames, gamesErr)
		gameFailures = []string{StrategyGames}
	}

	for _, s := range append(postFailures, gameFailures...) {
		stats.RetrievalFailures[s]++
	}
	stats.Candidates[KindPost] = len(posts)
	stats.Candidates[KindGame] = len(games)
	metrics.RecordCandidates(string(KindPost), len(posts))
	metrics.RecordCandidates(string(KindGame), len(games))

	dir := NewDirectory(g.docs, logger)
	dir.Hydrate(ctx, authorIDs(v, posts, games), g.cfg.Retrieval.Concurrency)

	scoredPosts := g.scoreAll(ctx, logger, dir, v, posts, now, stats)
	scoredGames := g.scoreAll(ctx, logger, dir, v, games, now, stats)
	stats.Authors = dir.Stats()

	rankedPosts := g.filterAndRerank(scoredPosts, stats)
	rankedGames := g.filterAndRerank(scoredGames, stats)
	stats.Ranked[KindPost] = len(rankedPosts)
	stats.Ranked[KindGame] = len(rankedGames)

	limit := g.cfg.Output.MaxBucketSize
	result = &Result{
		Posts: Categorize(rankedPosts, limit),
		Games: RankedIDs(rankedGames, limit),
	}

	for reason, n := range stats.Dropped {
		metrics.RecordDropped(reason, n)
	}
	metrics.RecordBucketSize(BucketHighlights, len(result.Posts.Highlights))
	metrics.RecordBucketSize(BucketImages, len(result.Posts.Images))
	metrics.RecordBucketSize(BucketThoughts, len(result.Posts.Thoughts))
	metrics.RecordBucketSize(BucketGames, len(result.Games))

	logger.Debug().
		Int("post_candidates", len(posts)).
		Int("game_candidates", len(games)).
		Interface("dropped", stats.Dropped).
		Interface("retrieval_failures", stats.RetrievalFailures).
		Msg("Feed pass ranked")
	return result, true
}

// scoreAll scores items in input order, dropping self-authored items,
// items whose author cannot be resolved and items that fail to score.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (g *Generator) scoreAll(ctx context.Context, logger zerolog.Logger, dir *Directory, v *Viewer, items []Item, now time.Time, stats *PassStats) []ScoredItem {
	out := make([]ScoredItem, 0, len(items))
	for _, it := range items {
		authorID, ok := ResolveAuthorID(it)
		if !ok {
			stats.drop(DropAuthorUnresolved, 1)
			logger.Debug().Str("item_id", it.ID).Msg("Item has no resolvable author")
			continue
		}
		if authorID == v.ID {
			stats.drop(DropSelfAuthored, 1)
			continue
		}

		author, err := dir.Lookup(ctx, authorID)
		if err != nil || author == nil {
			stats.drop(DropAuthorUnresolved, 1)
			logger.Debug().Err(err).Str("item_id", it.ID).Str("author_id", authorID).Msg("Author not resolved, dropping item")
			continue
		}

		si, err := g.scorer.Score(v, it, authorID, author, now)
		if err != nil {
			stats.drop(DropScoringError, 1)
			logger.Warn().Err(err).Str("item_id", it.ID).Msg("Failed to score item, dropping it")
			continue
		}
		out = append(out, si)
	}
	return out
}

func (g *Generator) filterAndRerank(items []ScoredItem, stats *PassStats) []ScoredItem {
	kept, dropped := g.quality.Filter(items)
	stats.drop(DropQuality, dropped)

	ranked := g.reranker.Rerank(kept)
	stats.drop(DropDiversity, len(kept)-len(ranked))
	return ranked
}

// authorIDs returns the distinct resolvable authors of the candidates,
// excluding the viewer.
func authorIDs(v *Viewer, lists ...[]Item) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, items := range lists {
		for _, it := range items {
			id, ok := ResolveAuthorID(it)
			if !ok || id == v.ID {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
