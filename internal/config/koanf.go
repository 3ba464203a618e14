// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/playmaker/config.yaml",
	"/etc/playmaker/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
// Feed tuning is seeded from feed.DefaultConfig.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Store: StoreConfig{
			Path:           "/data/playmaker",
			InMemory:       false,
			SyncWrites:     false,
			GCInterval:     10 * time.Minute,
			GCDiscardRatio: 0.5,
		},
		FeedStore: FeedStoreConfig{
			Backend: FeedStoreBadger,
		},
		NATS: NATSConfig{
			Enabled:                    true,
			URL:                        "nats://127.0.0.1:4222",
			EmbeddedServer:             true,
			StoreDir:                   "/data/nats/jetstream",
			MaxMemory:                  256 * 1024 * 1024,  // 256MB
			MaxStore:                   1024 * 1024 * 1024, // 1GB
			GenerateTopic:              "feed.generate",
			SubscribersCount:           4,
			DurableName:                "playmaker-feed",
			QueueGroup:                 "playmaker-feed",
			KVBucket:                   "feeds",
			KVHistory:                  1,
			KVReplicas:                 1,
			RouterRetryCount:           3,
			RouterRetryInitialInterval: 100 * time.Millisecond,
			RouterThrottlePerSecond:    50,
			RouterPoisonQueueEnabled:   true,
			RouterPoisonQueueTopic:     "feed.generate.poison",
			RouterCloseTimeout:         30 * time.Second,
		},
		Redis: RedisConfig{
			Addr:      "",
			DB:        0,
			KeyPrefix: "playmaker:",
		},
		Breaker: BreakerConfig{
			Enabled:          true,
			MaxRequests:      3,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
		Refresh: RefreshConfig{
			Enabled:       true,
			Schedule:      "@every 15m",
			MaxViewers:    500,
			RatePerSecond: 10,
			ViewerTimeout: 30 * time.Second,
			OnStartup:     false,
		},
		Feed: DefaultFeedConfig(),
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// NATS_URL -> nats.url
	// FEED_MAX_BUCKET_SIZE -> feed.max_bucket_size
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processMapFields(k); err != nil {
		return nil, fmt.Errorf("failed to process map fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// mapConfigPaths are settings that arrive from the environment as
// "key=value,key=value" strings.
var mapConfigPaths = []string{
	"feed.role_weights",
}

// processMapFields converts "role=weight" lists to maps for known map fields.
// YAML already yields a map, so only string values are rewritten.
func processMapFields(k *koanf.Koanf) error {
	for _, path := range mapConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strings.TrimSpace(strVal) == "" {
			continue
		}
		out := make(map[string]interface{})
		for _, pair := range strings.Split(strVal, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			name, value, found := strings.Cut(pair, "=")
			if !found {
				return fmt.Errorf("%s: entry %q must be name=value", path, pair)
			}
			out[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(value)
		}
		// Delete first: Set merges into the existing key instead of replacing it.
		k.Delete(path)
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps allow-listed environment variable names (lowercased) to
// koanf config paths.
var envMappings = map[string]string{
	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Ops HTTP server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Document store
	"store_path":          "store.path",
	"store_in_memory":     "store.in_memory",
	"store_sync_writes":   "store.sync_writes",
	"store_fixtures_path": "store.fixtures_path",
	"store_gc_interval":   "store.gc_interval",
	"store_gc_ratio":      "store.gc_discard_ratio",

	// Feed store
	"feed_store_backend": "feed_store.backend",

	// NATS
	"nats_enabled":               "nats.enabled",
	"nats_url":                   "nats.url",
	"nats_embedded":              "nats.embedded_server",
	"nats_store_dir":             "nats.store_dir",
	"nats_max_memory":            "nats.max_memory",
	"nats_max_store":             "nats.max_store",
	"nats_generate_topic":        "nats.generate_topic",
	"nats_subscribers":           "nats.subscribers_count",
	"nats_durable_name":          "nats.durable_name",
	"nats_queue_group":           "nats.queue_group",
	"nats_kv_bucket":             "nats.kv_bucket",
	"nats_kv_history":            "nats.kv_history",
	"nats_kv_ttl":                "nats.kv_ttl",
	"nats_kv_replicas":           "nats.kv_replicas",
	"nats_router_retry_count":    "nats.router_retry_count",
	"nats_router_retry_interval": "nats.router_retry_initial_interval",
	"nats_router_throttle":       "nats.router_throttle_per_second",
	"nats_router_poison_queue":   "nats.router_poison_queue_enabled",
	"nats_router_poison_topic":   "nats.router_poison_queue_topic",
	"nats_router_close_timeout":  "nats.router_close_timeout",

	// Redis
	"redis_addr":       "redis.addr",
	"redis_password":   "redis.password",
	"redis_db":         "redis.db",
	"redis_key_prefix": "redis.key_prefix",
	"redis_ttl":        "redis.ttl",

	// Circuit breaker
	"breaker_enabled":           "breaker.enabled",
	"breaker_max_requests":      "breaker.max_requests",
	"breaker_interval":          "breaker.interval",
	"breaker_timeout":           "breaker.timeout",
	"breaker_failure_threshold": "breaker.failure_threshold",

	// Scheduled refresh
	"refresh_enabled":         "refresh.enabled",
	"refresh_schedule":        "refresh.schedule",
	"refresh_max_viewers":     "refresh.max_viewers",
	"refresh_rate_per_second": "refresh.rate_per_second",
	"refresh_viewer_timeout":  "refresh.viewer_timeout",
	"refresh_on_startup":      "refresh.on_startup",

	// Feed tuning
	"feed_batch_size":             "feed.batch_size",
	"feed_batch_limit":            "feed.batch_limit",
	"feed_backfill_floor":         "feed.backfill_floor",
	"feed_backfill_limit":         "feed.backfill_limit",
	"feed_game_limit":             "feed.game_limit",
	"feed_sport_field":            "feed.sport_field",
	"feed_concurrency":            "feed.concurrency",
	"feed_max_bucket_size":        "feed.max_bucket_size",
	"feed_diversity_floor":        "feed.diversity_floor",
	"feed_max_per_author":         "feed.max_per_author",
	"feed_max_per_sport":          "feed.max_per_sport",
	"feed_author_penalty":         "feed.author_penalty",
	"feed_quality_min_engagement": "feed.quality_min_engagement",
	"feed_quality_min_views":      "feed.quality_min_views",
	"feed_quality_stale_age":      "feed.quality_stale_age",
	"feed_global_weight":          "feed.global_weight",
	"feed_personal_weight":        "feed.personal_weight",
	"feed_role_weights":           "feed.role_weights",
	"feed_default_sport":          "feed.default_sport",
	"feed_quality_exempt_posts":   "feed.quality_exempt_max_posts",
	"feed_decay_window":           "feed.decay_window",
	"feed_velocity_divisor":       "feed.velocity_divisor",
	"feed_velocity_cap":           "feed.velocity_cap",
	"feed_cold_start_age":         "feed.cold_start_age",
	"feed_cold_start_max_posts":   "feed.cold_start_max_posts",
	"feed_cold_start_base":        "feed.cold_start_base",
	"feed_cold_start_step":        "feed.cold_start_step",

	"feed_engagement_view":    "feed.engagement.view",
	"feed_engagement_like":    "feed.engagement.like",
	"feed_engagement_comment": "feed.engagement.comment",
	"feed_engagement_share":   "feed.engagement.share",
	"feed_engagement_save":    "feed.engagement.save",

	"feed_bonus_following":        "feed.personalization.following",
	"feed_bonus_favorite_athlete": "feed.personalization.favorite_athlete",
	"feed_bonus_favorite_team":    "feed.personalization.favorite_team",
	"feed_bonus_favorite_sport":   "feed.personalization.favorite_sport",
	"feed_bonus_interested_sport": "feed.personalization.interested_sport",
	"feed_bonus_tag_match":        "feed.personalization.tag_match",
	"feed_bonus_liked":            "feed.personalization.liked",
	"feed_bonus_saved":            "feed.personalization.saved",

	"feed_trust_verified_boost":     "feed.trust.verified_boost",
	"feed_trust_veteran_age":        "feed.trust.veteran_age",
	"feed_trust_veteran_boost":      "feed.trust.veteran_boost",
	"feed_trust_follower_divisor":   "feed.trust.follower_divisor",
	"feed_trust_warning_penalty":    "feed.trust.warning_penalty",
	"feed_trust_shadow_ban_penalty": "feed.trust.shadow_ban_penalty",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - NATS_URL -> nats.url
//   - HTTP_PORT -> server.port
//   - FEED_MAX_BUCKET_SIZE -> feed.max_bucket_size
//   - FEED_ROLE_WEIGHTS -> feed.role_weights
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
