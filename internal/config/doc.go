// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

/*
Package config provides centralized configuration management for Playmaker.

Configuration is loaded with Koanf v2 from three layers, later layers
overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, else config.yaml, config.yml,
    /etc/playmaker/config.yaml, /etc/playmaker/config.yml
 3. Allow-listed environment variables

Unknown environment variables are ignored.

# Configuration Structure

  - LoggingConfig: zerolog level, format and caller info
  - ServerConfig: ops HTTP server (health probes and metrics)
  - StoreConfig: BadgerDB document store and optional fixtures
  - FeedStoreConfig: where generated feeds are written (badger, nats, redis)
  - NATSConfig: embedded or external NATS, regeneration topic, KV bucket,
    Watermill router middleware
  - RedisConfig: Redis feed store
  - BreakerConfig: circuit breaker around document store reads
  - RefreshConfig: cron-scheduled regeneration of recently active viewers
  - FeedConfig: every ranking weight and threshold, seeded from feed.DefaultConfig

# Environment Variables

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: include file:line (default: false)

Server:
  - HTTP_HOST (default: 0.0.0.0), HTTP_PORT (default: 8080)
  - HTTP_TIMEOUT (default: 30s), HTTP_SHUTDOWN_TIMEOUT (default: 15s)

Stores:
  - STORE_PATH (default: /data/playmaker), STORE_IN_MEMORY, STORE_SYNC_WRITES
  - STORE_FIXTURES_PATH: JSON fixtures loaded at startup
  - FEED_STORE_BACKEND: badger, nats or redis (default: badger)
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_KEY_PREFIX, REDIS_TTL

NATS:
  - NATS_ENABLED (default: true), NATS_URL, NATS_EMBEDDED
  - NATS_GENERATE_TOPIC (default: feed.generate)
  - NATS_KV_BUCKET (default: feeds), NATS_KV_TTL, NATS_KV_HISTORY
  - NATS_ROUTER_RETRY_COUNT, NATS_ROUTER_POISON_QUEUE, NATS_ROUTER_POISON_TOPIC

Refresh:
  - REFRESH_ENABLED (default: true), REFRESH_SCHEDULE (default: @every 15m)
  - REFRESH_MAX_VIEWERS (default: 500), REFRESH_RATE_PER_SECOND (default: 10)

Feed tuning:
  - FEED_BATCH_SIZE (at most 10), FEED_MAX_BUCKET_SIZE, FEED_MAX_PER_AUTHOR
  - FEED_ROLE_WEIGHTS: "scout=2,coach=1.5"
  - FEED_ENGAGEMENT_*, FEED_BONUS_*, FEED_TRUST_*: per-signal weights,
    personalization bonuses and trust multipliers
  - An explicit 0 is kept; unset values use the engine default

# Usage Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal().Err(err).Msg("Failed to load config")
	}

# Thread Safety

The Config struct is immutable after Load() returns and is safe for
concurrent reads.
*/
package config
