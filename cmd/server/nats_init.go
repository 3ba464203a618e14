// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/playmaker/internal/config"
	"github.com/tomtom215/playmaker/internal/eventprocessor"
	"github.com/tomtom215/playmaker/internal/logging"
	"github.com/tomtom215/playmaker/internal/supervisor/services"
)

// NATSComponents holds the NATS pieces shared by the event router and the
// JetStream feed store.
type NATSComponents struct {
	server            *eventprocessor.EmbeddedServer
	natsConn          *natsgo.Conn
	js                jetstream.JetStream
	streamInitializer *eventprocessor.StreamInitializer
	publisher         *eventprocessor.Publisher

	url       string
	streamCfg eventprocessor.StreamConfig

	mu      sync.Mutex
	running bool
}

// InitNATS starts (or connects to) NATS, ensures the request stream and
// creates the publisher used for the poison queue. It returns nil when
// NATS is disabled.
func InitNATS(ctx context.Context, cfg *config.Config) (*NATSComponents, error) {
	if !cfg.NATS.Enabled {
		logging.Info().Msg("NATS event processing disabled (NATS_ENABLED=false)")
		return nil, nil
	}

	logging.Info().Msg("Initializing NATS event processing...")
	components := &NATSComponents{}

	if cfg.NATS.EmbeddedServer {
		serverCfg := eventprocessor.DefaultServerConfig()
		serverCfg.StoreDir = cfg.NATS.StoreDir
		serverCfg.JetStreamMaxMem = cfg.NATS.MaxMemory
		serverCfg.JetStreamMaxStore = cfg.NATS.MaxStore

		server, err := eventprocessor.NewEmbeddedServer(&serverCfg)
		if err != nil {
			return nil, err
		}
		components.server = server
		components.url = server.ClientURL()
		logging.Info().Str("url", components.url).Msg("Embedded NATS server started")
	} else {
		components.url = cfg.NATS.URL
		logging.Info().Str("url", components.url).Msg("Using external NATS server")
	}

	nc, err := natsgo.Connect(components.url,
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2*time.Second),
	)
	if err != nil {
		components.Shutdown(ctx)
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	components.natsConn = nc

	js, err := jetstream.New(nc)
	if err != nil {
		components.Shutdown(ctx)
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}
	components.js = js

	components.streamCfg = streamConfigFor(&cfg.NATS)
	streamInitializer, err := eventprocessor.NewStreamInitializer(js, &components.streamCfg)
	if err != nil {
		components.Shutdown(ctx)
		return nil, fmt.Errorf("create stream initializer: %w", err)
	}
	components.streamInitializer = streamInitializer

	stream, err := streamInitializer.EnsureStream(ctx)
	if err != nil {
		components.Shutdown(ctx)
		return nil, fmt.Errorf("ensure stream exists: %w", err)
	}
	info := stream.CachedInfo()
	logging.Info().
		Str("name", info.Config.Name).
		Strs("subjects", info.Config.Subjects).
		Msg("JetStream stream ready")

	publisher, err := eventprocessor.NewPublisher(
		eventprocessor.DefaultPublisherConfig(components.url),
		logging.NewWatermillLogger("publisher"),
	)
	if err != nil {
		components.Shutdown(ctx)
		return nil, err
	}
	if cfg.Breaker.Enabled {
		publisher.SetCircuitBreaker(publishBreaker(&cfg.Breaker))
	}
	components.publisher = publisher

	components.running = true
	return components, nil
}

// publishBreaker stops publishing into a broker that keeps failing.
func publishBreaker(cfg *config.BreakerConfig) *gobreaker.CircuitBreaker[interface{}] {
	threshold := cfg.FailureThreshold
	return gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        "nats-publisher",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})
}

// Requester returns a producer for regeneration requests on topic.
func (c *NATSComponents) Requester(topic string) (*eventprocessor.Requester, error) {
	return eventprocessor.NewRequester(c.publisher, topic)
}

// streamConfigFor derives the stream subjects from the configured topics.
func streamConfigFor(cfg *config.NATSConfig) eventprocessor.StreamConfig {
	streamCfg := eventprocessor.DefaultStreamConfig()
	subjects := []string{cfg.GenerateTopic}
	if cfg.RouterPoisonQueueEnabled && cfg.RouterPoisonQueueTopic != "" {
		subjects = append(subjects, cfg.RouterPoisonQueueTopic)
	}
	streamCfg.Subjects = subjects
	return streamCfg
}

// routerConfigFor maps NATS settings onto the Watermill router config.
func routerConfigFor(cfg *config.NATSConfig) eventprocessor.RouterConfig {
	routerCfg := eventprocessor.DefaultRouterConfig()
	routerCfg.RetryMaxRetries = cfg.RouterRetryCount
	if cfg.RouterRetryInitialInterval > 0 {
		routerCfg.RetryInitialInterval = cfg.RouterRetryInitialInterval
	}
	if cfg.RouterCloseTimeout > 0 {
		routerCfg.CloseTimeout = cfg.RouterCloseTimeout
	}
	routerCfg.ThrottlePerSecond = int64(cfg.RouterThrottlePerSecond)
	routerCfg.PoisonQueueTopic = ""
	if cfg.RouterPoisonQueueEnabled {
		routerCfg.PoisonQueueTopic = cfg.RouterPoisonQueueTopic
	}
	return routerCfg
}

// subscriberConfigFor binds the durable consumer to the request stream.
func subscriberConfigFor(cfg *config.NATSConfig, url, streamName string) eventprocessor.SubscriberConfig {
	subCfg := eventprocessor.DefaultSubscriberConfig(url)
	if cfg.DurableName != "" {
		subCfg.DurableName = cfg.DurableName
	}
	if cfg.QueueGroup != "" {
		subCfg.QueueGroup = cfg.QueueGroup
	}
	if cfg.SubscribersCount > 0 {
		subCfg.SubscribersCount = cfg.SubscribersCount
	}
	subCfg.StreamName = streamName
	return subCfg
}

// RouterFactory returns a factory building a fresh subscriber and router
// per start, since a closed Watermill router cannot run again.
func (c *NATSComponents) RouterFactory(cfg *config.NATSConfig, handler *eventprocessor.FeedHandler) services.RouterFactory {
	return func() (services.RouterRunner, error) {
		subCfg := subscriberConfigFor(cfg, c.url, c.streamCfg.Name)
		subscriber, err := eventprocessor.NewSubscriber(&subCfg, logging.NewWatermillLogger("subscriber"))
		if err != nil {
			return nil, err
		}

		routerCfg := routerConfigFor(cfg)
		router, err := eventprocessor.NewRouter(&routerCfg, c.publisher, logging.NewWatermillLogger("router"))
		if err != nil {
			_ = subscriber.Close()
			return nil, fmt.Errorf("create router: %w", err)
		}
		router.AddConsumerHandler("feed-generate", cfg.GenerateTopic, subscriber, handler.Handle)

		return &routerRunner{router: router, subscriber: subscriber}, nil
	}
}

// routerRunner ties the subscriber lifetime to its router.
type routerRunner struct {
	router     *eventprocessor.Router
	subscriber *eventprocessor.Subscriber
}

func (r *routerRunner) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

func (r *routerRunner) Close() error {
	return errors.Join(r.router.Close(), r.subscriber.Close())
}

// JetStream returns the JetStream context for the feed KV bucket.
func (c *NATSComponents) JetStream() jetstream.JetStream {
	if c == nil {
		return nil
	}
	return c.js
}

// Healthy reports whether the connection is up and the stream exists.
func (c *NATSComponents) Healthy(ctx context.Context) error {
	if c == nil || c.natsConn == nil {
		return errors.New("nats not initialized")
	}
	if !c.natsConn.IsConnected() {
		return fmt.Errorf("nats connection %s", c.natsConn.Status())
	}
	if !c.streamInitializer.IsHealthy(ctx) {
		return fmt.Errorf("stream %s unavailable", c.streamCfg.Name)
	}
	return nil
}

// IsRunning reports whether the components have been initialized and not
// yet shut down.
func (c *NATSComponents) IsRunning() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Shutdown releases the publisher, connection and embedded server in that
// order. Safe on nil and partially initialized components.
func (c *NATSComponents) Shutdown(ctx context.Context) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing NATS publisher")
		}
		c.publisher = nil
	}
	if c.natsConn != nil {
		if err := c.natsConn.Drain(); err != nil {
			logging.Warn().Err(err).Msg("Error draining NATS connection")
		}
		c.natsConn = nil
	}
	if c.server != nil {
		if err := c.server.Shutdown(ctx); err != nil {
			logging.Error().Err(err).Msg("Error shutting down embedded NATS server")
		}
		c.server = nil
	}
	c.running = false
}
