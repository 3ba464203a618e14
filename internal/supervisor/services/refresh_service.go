// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/playmaker/internal/feed"
	"github.com/tomtom215/playmaker/internal/logging"
	"github.com/tomtom215/playmaker/internal/metrics"
	"github.com/tomtom215/playmaker/internal/store"
	"github.com/tomtom215/playmaker/internal/validation"
)

// TriggerSchedule labels refresh metrics for scheduled regeneration.
const TriggerSchedule = "schedule"

// lastActiveField orders the viewer scan, most recently active first.
const lastActiveField = "lastActiveAt"

// FeedGenerator regenerates and persists one viewer's feed.
type FeedGenerator interface {
	GenerateFeed(ctx context.Context, viewerID string) (*feed.Result, error)
}

// RefreshServiceConfig holds configuration for the scheduled refresh.
type RefreshServiceConfig struct {
	// Schedule is a five-field cron spec or a descriptor such as "@every 15m".
	Schedule string

	// MaxViewers caps how many viewers one run regenerates.
	MaxViewers int

	// RatePerSecond limits regenerations per second (burst 1).
	RatePerSecond float64

	// ViewerTimeout bounds a single viewer's generation pass.
	ViewerTimeout time.Duration

	// OnStartup runs once immediately when the service starts.
	OnStartup bool

	// Location is the schedule time zone. Defaults to UTC.
	Location *time.Location
}

// RunStats summarizes one refresh run.
type RunStats struct {
	Started   time.Time
	Duration  time.Duration
	Scanned   int
	Generated int
	NotFound  int
	Failed    int
}

// RefreshService regenerates feeds for the most recently active viewers on
// a cron schedule. Runs never overlap; a tick that arrives while a run is
// still going is skipped.
type RefreshService struct {
	generator FeedGenerator
	docs      store.DocumentStore
	config    RefreshServiceConfig
	schedule  cron.Schedule
	logger    zerolog.Logger
	name      string

	mu   sync.Mutex
	last RunStats
	runs int
}

// NewRefreshService creates a refresh service. The schedule is parsed up
// front so a bad spec fails at startup rather than on the first tick.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRefreshService(generator FeedGenerator, docs store.DocumentStore, cfg RefreshServiceConfig, logger zerolog.Logger) (*RefreshService, error) {
	if generator == nil || docs == nil {
		return nil, errors.New("refresh service requires a generator and a document store")
	}
	schedule, err := validation.CronParser().Parse(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("parse refresh schedule %q: %w", cfg.Schedule, err)
	}
	if cfg.MaxViewers <= 0 {
		cfg.MaxViewers = 500
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 10
	}
	if cfg.ViewerTimeout <= 0 {
		cfg.ViewerTimeout = 30 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &RefreshService{
		generator: generator,
		docs:      docs,
		config:    cfg,
		schedule:  schedule,
		logger:    logger.With().Str("service", "refresh").Logger(),
		name:      "refresh-service",
	}, nil
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Str("schedule", s.config.Schedule).
		Int("max_viewers", s.config.MaxViewers).
		Float64("rate_per_second", s.config.RatePerSecond).
		Bool("on_startup", s.config.OnStartup).
		Msg("refresh service starting")

	if s.config.OnStartup {
		s.RunOnce(ctx)
	}

	cl := cronLogger{logger: s.logger}
	c := cron.New(
		cron.WithLocation(s.config.Location),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() { s.RunOnce(ctx) }))
	c.Start()

	<-ctx.Done()
	s.logger.Info().Msg("refresh service shutting down")

	// Stop returns a context that is done once a running job has returned;
	// that job sees ctx canceled and winds down on its own.
	<-c.Stop().Done()
	return ctx.Err()
}

// RunOnce scans the users collection and regenerates each viewer's feed.
// Per-viewer failures are logged and counted, and the run continues.
func (s *RefreshService) RunOnce(ctx context.Context) (stats RunStats) {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	logger := logging.WithCorrelation(ctx, s.logger)

	stats = RunStats{Started: time.Now()}
	defer func() {
		stats.Duration = time.Since(stats.Started)
		s.mu.Lock()
		s.last = stats
		s.runs++
		s.mu.Unlock()
	}()

	viewers, err := s.docs.QueryByField(ctx, store.Query{
		Collection: store.CollectionUsers,
		OrderBy:    lastActiveField,
		Direction:  store.Desc,
		Limit:      s.config.MaxViewers,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("refresh scan failed")
		metrics.RecordRefresh(TriggerSchedule, metrics.OutcomeError)
		return stats
	}
	stats.Scanned = len(viewers)

	limiter := rate.NewLimiter(rate.Limit(s.config.RatePerSecond), 1)
	for i, v := range viewers {
		if err := limiter.Wait(ctx); err != nil {
			logger.Info().Int("processed", i).Int("scanned", stats.Scanned).Msg("refresh run interrupted")
			return stats
		}
		s.refreshViewer(ctx, logger, v.ID, &stats)
	}

	logger.Info().
		Int("scanned", stats.Scanned).
		Int("generated", stats.Generated).
		Int("not_found", stats.NotFound).
		Int("failed", stats.Failed).
		Dur("elapsed", time.Since(stats.Started)).
		Msg("refresh run complete")
	return stats
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (s *RefreshService) refreshViewer(ctx context.Context, logger zerolog.Logger, viewerID string, stats *RunStats) {
	viewerCtx, cancel := context.WithTimeout(ctx, s.config.ViewerTimeout)
	defer cancel()

	_, err := s.generator.GenerateFeed(viewerCtx, viewerID)
	switch {
	case err == nil:
		stats.Generated++
		metrics.RecordRefresh(TriggerSchedule, metrics.OutcomeOK)
	case errors.Is(err, feed.ErrViewerNotFound):
		// Deleted between the scan and the pass.
		stats.NotFound++
		metrics.RecordRefresh(TriggerSchedule, metrics.OutcomeViewerNotFound)
	default:
		stats.Failed++
		outcome := metrics.OutcomeError
		var persistErr *feed.PersistError
		if errors.As(err, &persistErr) {
			outcome = metrics.OutcomePersistFailed
		}
		metrics.RecordRefresh(TriggerSchedule, outcome)
		logger.Warn().Err(err).Str("viewer_id", viewerID).Msg("scheduled regeneration failed")
	}
}

// LastRun returns the most recent run's stats and the total run count.
func (s *RefreshService) LastRun() (RunStats, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.runs
}

// String returns the service name for logging.
func (s *RefreshService) String() string {
	return s.name
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
