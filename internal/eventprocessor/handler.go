// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/playmaker/internal/feed"
	"github.com/tomtom215/playmaker/internal/logging"
	"github.com/tomtom215/playmaker/internal/metrics"
)

// TriggerEvent labels refresh metrics for event-driven regeneration.
const TriggerEvent = "event"

// FeedGenerator is the part of feed.Generator the handler uses.
type FeedGenerator interface {
	GenerateFeed(ctx context.Context, viewerID string) (*feed.Result, error)
}

// HandlerStats counts handled messages.
type HandlerStats struct {
	Received  int64
	Generated int64
	Dropped   int64
	Failed    int64
}

// FeedHandler consumes regeneration requests and runs a generation pass
// for each one.
type FeedHandler struct {
	generator FeedGenerator
	logger    zerolog.Logger

	received  atomic.Int64
	generated atomic.Int64
	dropped   atomic.Int64
	failed    atomic.Int64
}

// NewFeedHandler creates a handler around generator.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewFeedHandler(generator FeedGenerator, logger zerolog.Logger) (*FeedHandler, error) {
	if generator == nil {
		return nil, fmt.Errorf("feed generator required")
	}
	return &FeedHandler{
		generator: generator,
		logger:    logger.With().Str("component", "feed-handler").Logger(),
	}, nil
}

// Handle processes one message. Its signature matches
// message.NoPublishHandlerFunc.
//
// Error handling:
//   - Malformed payloads return an error (retried, then poisoned)
//   - Unknown viewers return nil (ack, nothing to regenerate)
//   - Persist and viewer load failures return an error (retried, then poisoned)
func (h *FeedHandler) Handle(msg *message.Message) error {
	h.received.Add(1)

	req, err := ParseRegenerationRequest(msg.Payload)
	if err != nil {
		h.failed.Add(1)
		h.logger.Error().Err(err).Str("message_uuid", msg.UUID).Msg("Malformed regeneration request")
		metrics.RecordRefresh(TriggerEvent, metrics.OutcomeError)
		return err
	}

	ctx := msg.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if id := msg.Metadata.Get(MetadataCorrelationID); id != "" {
		ctx = logging.ContextWithCorrelationID(ctx, id)
	}
	ctx = logging.EnsureCorrelationID(ctx)

	logger := logging.WithCorrelation(ctx, h.logger).With().
		Str("viewer_id", req.ViewerID).
		Str("reason", req.Reason).
		Logger()

	_, err = h.generator.GenerateFeed(ctx, req.ViewerID)
	switch {
	case err == nil:
		h.generated.Add(1)
		metrics.RecordRefresh(TriggerEvent, metrics.OutcomeOK)
		logger.Debug().Msg("Feed regenerated")
		return nil

	case errors.Is(err, feed.ErrViewerNotFound):
		h.dropped.Add(1)
		metrics.RecordRefresh(TriggerEvent, metrics.OutcomeViewerNotFound)
		logger.Info().Msg("Dropping regeneration request for unknown viewer")
		return nil

	default:
		h.failed.Add(1)
		outcome := metrics.OutcomeError
		var persistErr *feed.PersistError
		if errors.As(err, &persistErr) {
			outcome = metrics.OutcomePersistFailed
		}
		metrics.RecordRefresh(TriggerEvent, outcome)
		logger.Warn().Err(err).Msg("Feed regeneration failed")
		return fmt.Errorf("regenerate feed for %s: %w", req.ViewerID, err)
	}
}

// Stats returns a snapshot of the handler counters.
func (h *FeedHandler) Stats() HandlerStats {
	return HandlerStats{
		Received:  h.received.Load(),
		Generated: h.generated.Load(),
		Dropped:   h.dropped.Load(),
		Failed:    h.failed.Load(),
	}
}
