// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// errRouterStopped is returned when the router exits without being asked
// to, which makes suture restart it.
var errRouterStopped = errors.New("event router stopped unexpectedly")

// RouterRunner matches the lifecycle of eventprocessor.Router plus whatever
// subscriber it owns.
type RouterRunner interface {
	Run(ctx context.Context) error
	Close() error
}

// RouterFactory builds a fresh router. A Watermill router cannot be run
// again once closed, so every restart starts from a new one.
type RouterFactory func() (RouterRunner, error)

// EventRouterService supervises the regeneration event router.
//
// Each Serve call:
//  1. Builds a router (subscriber, middleware, feed handler) via the factory
//  2. Runs it until ctx is canceled or it stops on its own
//  3. Closes it, draining in-flight messages
type EventRouterService struct {
	factory RouterFactory
	logger  zerolog.Logger
	name    string
	starts  int
}

// NewEventRouterService creates the service around factory.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEventRouterService(factory RouterFactory, logger zerolog.Logger) *EventRouterService {
	return &EventRouterService{
		factory: factory,
		logger:  logger.With().Str("service", "event-router").Logger(),
		name:    "event-router",
	}
}

// Serve implements suture.Service.
func (s *EventRouterService) Serve(ctx context.Context) error {
	router, err := s.factory()
	if err != nil {
		return fmt.Errorf("build event router: %w", err)
	}
	s.starts++
	s.logger.Info().Int("start", s.starts).Msg("event router starting")

	runErr := router.Run(ctx)
	if closeErr := router.Close(); closeErr != nil {
		s.logger.Warn().Err(closeErr).Msg("event router close failed")
	}

	if ctx.Err() != nil {
		s.logger.Info().Msg("event router shut down")
		return ctx.Err()
	}
	if runErr != nil {
		return fmt.Errorf("event router failed: %w", runErr)
	}
	return errRouterStopped
}

// String implements fmt.Stringer for logging.
func (s *EventRouterService) String() string {
	return s.name
}
