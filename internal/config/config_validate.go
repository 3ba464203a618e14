// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/playmaker/internal/validation"
)

// Validate checks that required configuration is present and valid.
// Struct tags are checked first, then rules that span sections.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	validators := []func() error{
		c.validateStore,
		c.validateFeedStore,
		c.validateNATS,
		c.validateBreaker,
		c.validateFeed,
	}
	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

// validateStore requires a path for on-disk stores.
func (c *Config) validateStore() error {
	if !c.Store.InMemory && strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("STORE_PATH is required unless STORE_IN_MEMORY=true")
	}
	return nil
}

// validateFeedStore checks that the chosen backend has what it needs.
func (c *Config) validateFeedStore() error {
	switch c.FeedStore.Backend {
	case FeedStoreNATS:
		if !c.NATS.Enabled {
			return fmt.Errorf("FEED_STORE_BACKEND=nats requires NATS_ENABLED=true")
		}
		if c.NATS.KVBucket == "" {
			return fmt.Errorf("NATS_KV_BUCKET is required when FEED_STORE_BACKEND=nats")
		}
	case FeedStoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when FEED_STORE_BACKEND=redis")
		}
	}
	return nil
}

// NATS limit constants
const (
	natsMinMemory      = 16 * 1024 * 1024 // 16MB
	natsMinStore       = 64 * 1024 * 1024 // 64MB
	natsMaxSubscribers = 32
	natsMaxKVHistory   = 64
)

// validateNATS validates NATS configuration (only if enabled)
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}

	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if c.NATS.GenerateTopic == "" {
		return fmt.Errorf("NATS_GENERATE_TOPIC is required when NATS_ENABLED=true")
	}
	if c.NATS.SubscribersCount < 1 || c.NATS.SubscribersCount > natsMaxSubscribers {
		return fmt.Errorf("NATS_SUBSCRIBERS must be between 1 and %d", natsMaxSubscribers)
	}
	if c.NATS.RouterRetryCount < 0 {
		return fmt.Errorf("NATS_ROUTER_RETRY_COUNT must be >= 0")
	}
	if c.NATS.RouterPoisonQueueEnabled && c.NATS.RouterPoisonQueueTopic == "" {
		return fmt.Errorf("NATS_ROUTER_POISON_TOPIC is required when the poison queue is enabled")
	}
	if c.NATS.RouterPoisonQueueTopic == c.NATS.GenerateTopic {
		return fmt.Errorf("NATS_ROUTER_POISON_TOPIC must differ from NATS_GENERATE_TOPIC")
	}
	if c.NATS.KVHistory < 0 || c.NATS.KVHistory > natsMaxKVHistory {
		return fmt.Errorf("NATS_KV_HISTORY must be between 0 and %d", natsMaxKVHistory)
	}

	if !c.NATS.EmbeddedServer {
		return nil
	}
	if c.NATS.MaxMemory < natsMinMemory {
		return fmt.Errorf("NATS_MAX_MEMORY must be at least 16MB (16777216 bytes)")
	}
	if c.NATS.MaxStore < natsMinStore {
		return fmt.Errorf("NATS_MAX_STORE must be at least 64MB (67108864 bytes)")
	}
	return nil
}

// validateNATSURL validates the NATS server URL format.
func validateNATSURL(natsURL string) error {
	if natsURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	u, err := url.Parse(natsURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	switch u.Scheme {
	case "nats", "tls", "ws", "wss":
	default:
		return fmt.Errorf("scheme must be nats, tls, ws or wss, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must include a host")
	}
	return nil
}

func (c *Config) validateBreaker() error {
	if !c.Breaker.Enabled {
		return nil
	}
	if c.Breaker.FailureThreshold == 0 {
		return fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be > 0 when the breaker is enabled")
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be > 0 when the breaker is enabled")
	}
	return nil
}

// validateFeed checks overrides that struct tags cannot express.
func (c *Config) validateFeed() error {
	for role, weight := range c.Feed.RoleWeights {
		if strings.TrimSpace(role) == "" {
			return fmt.Errorf("FEED_ROLE_WEIGHTS contains an empty role name")
		}
		if weight < 0 {
			return fmt.Errorf("FEED_ROLE_WEIGHTS[%s] must be >= 0, got %v", role, weight)
		}
	}
	return nil
}
