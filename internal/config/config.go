// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package config

import "time"

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values for every setting
//  2. Config File: optional YAML file (config.yaml or CONFIG_PATH)
//  3. Environment Variables: allow-listed names override any setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal().Err(err).Msg("Failed to load config")
//	}
type Config struct {
	Logging   LoggingConfig   `koanf:"logging"`
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	FeedStore FeedStoreConfig `koanf:"feed_store"`
	NATS      NATSConfig      `koanf:"nats"`
	Redis     RedisConfig     `koanf:"redis"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Refresh   RefreshConfig   `koanf:"refresh"`
	Feed      FeedConfig      `koanf:"feed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic"`

	// Format is json (production) or console (development).
	// Default: json
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// ServerConfig holds the ops HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// StoreConfig configures the BadgerDB document store holding posts,
// events and users.
type StoreConfig struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string `koanf:"path"`

	// InMemory keeps all data in memory. Useful for demos and tests.
	InMemory bool `koanf:"in_memory"`

	// SyncWrites fsyncs every write.
	SyncWrites bool `koanf:"sync_writes"`

	// FixturesPath, when set, is a JSON fixtures file loaded at startup.
	FixturesPath string `koanf:"fixtures_path"`

	// GCInterval is how often value log garbage collection runs. Zero
	// disables it.
	GCInterval time.Duration `koanf:"gc_interval" validate:"gte=0"`

	// GCDiscardRatio is the fraction of a value log file that must be
	// stale before it is rewritten.
	GCDiscardRatio float64 `koanf:"gc_discard_ratio" validate:"gt=0,lt=1"`
}

// Feed store backends.
const (
	FeedStoreBadger = "badger"
	FeedStoreNATS   = "nats"
	FeedStoreRedis  = "redis"
)

// FeedStoreConfig selects where generated feeds are written.
type FeedStoreConfig struct {
	// Backend is badger (same database as the documents), nats (JetStream
	// key-value bucket) or redis.
	Backend string `koanf:"backend" validate:"oneof=badger nats redis"`
}

// NATSConfig holds NATS settings: the broker for regeneration events and
// the JetStream key-value feed store.
type NATSConfig struct {
	// Enabled controls whether event-triggered regeneration is active.
	Enabled bool `koanf:"enabled"`

	// URL is the NATS server connection URL.
	URL string `koanf:"url"`

	// EmbeddedServer starts an in-process NATS server.
	// If false, expects an external server at URL.
	EmbeddedServer bool `koanf:"embedded_server"`

	// StoreDir is the JetStream storage directory for the embedded server.
	StoreDir string `koanf:"store_dir"`

	// MaxMemory is the maximum memory for JetStream in bytes.
	MaxMemory int64 `koanf:"max_memory"`

	// MaxStore is the maximum disk storage for JetStream in bytes.
	MaxStore int64 `koanf:"max_store"`

	// GenerateTopic receives feed regeneration requests.
	GenerateTopic string `koanf:"generate_topic"`

	// SubscribersCount is the number of concurrent subscribers.
	SubscribersCount int `koanf:"subscribers_count"`

	// DurableName is the durable consumer name.
	DurableName string `koanf:"durable_name"`

	// QueueGroup is the queue group shared by all instances.
	QueueGroup string `koanf:"queue_group"`

	// KV bucket used when feed_store.backend is nats.
	KVBucket   string        `koanf:"kv_bucket"`
	KVHistory  int           `koanf:"kv_history"`
	KVTTL      time.Duration `koanf:"kv_ttl"`
	KVReplicas int           `koanf:"kv_replicas"`

	// Router middleware (Watermill).
	RouterRetryCount           int           `koanf:"router_retry_count"`
	RouterRetryInitialInterval time.Duration `koanf:"router_retry_initial_interval"`
	RouterThrottlePerSecond    int           `koanf:"router_throttle_per_second"`
	RouterPoisonQueueEnabled   bool          `koanf:"router_poison_queue_enabled"`
	RouterPoisonQueueTopic     string        `koanf:"router_poison_queue_topic"`
	RouterCloseTimeout         time.Duration `koanf:"router_close_timeout"`
}

// RedisConfig configures the Redis feed store.
type RedisConfig struct {
	Addr      string        `koanf:"addr"`
	Password  string        `koanf:"password"`
	DB        int           `koanf:"db" validate:"gte=0"`
	KeyPrefix string        `koanf:"key_prefix"`
	TTL       time.Duration `koanf:"ttl" validate:"gte=0"`
}

// BreakerConfig configures the circuit breaker around the document store.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
}

// RefreshConfig configures scheduled regeneration of active viewers.
type RefreshConfig struct {
	Enabled bool `koanf:"enabled"`

	// Schedule is a cron spec or descriptor, e.g. "@every 15m".
	Schedule string `koanf:"schedule" validate:"required,cronspec"`

	// MaxViewers caps viewers regenerated per run, most recently active first.
	MaxViewers int `koanf:"max_viewers" validate:"min=1"`

	// RatePerSecond throttles regeneration within a run.
	RatePerSecond float64 `koanf:"rate_per_second" validate:"gt=0"`

	// ViewerTimeout bounds one viewer's pass.
	ViewerTimeout time.Duration `koanf:"viewer_timeout" validate:"gt=0"`

	// OnStartup runs one refresh as soon as the service starts.
	OnStartup bool `koanf:"on_startup"`
}

// FeedConfig exposes every weight and threshold of the ranking pipeline.
// Defaults come from feed.DefaultConfig, so an explicit zero in a file or
// the environment is kept as zero.
type FeedConfig struct {
	BatchSize     int    `koanf:"batch_size" validate:"min=1,max=10"`
	BatchLimit    int    `koanf:"batch_limit" validate:"min=1"`
	BackfillFloor int    `koanf:"backfill_floor" validate:"gte=0"`
	BackfillLimit int    `koanf:"backfill_limit" validate:"min=1"`
	GameLimit     int    `koanf:"game_limit" validate:"min=1"`
	SportField    string `koanf:"sport_field" validate:"required"`
	Concurrency   int    `koanf:"concurrency" validate:"min=1"`

	MaxBucketSize int `koanf:"max_bucket_size" validate:"min=1"`

	DiversityFloor int     `koanf:"diversity_floor" validate:"gte=0"`
	MaxPerAuthor   int     `koanf:"max_per_author" validate:"min=1"`
	MaxPerSport    int     `koanf:"max_per_sport" validate:"min=1"`
	AuthorPenalty  float64 `koanf:"author_penalty" validate:"gt=0,lte=1"`
	DefaultSport   string  `koanf:"default_sport"`

	QualityExemptMaxPosts int           `koanf:"quality_exempt_max_posts" validate:"gte=0"`
	QualityMinEngagement  float64       `koanf:"quality_min_engagement" validate:"gte=0"`
	QualityMinViews       int           `koanf:"quality_min_views" validate:"gte=0"`
	QualityStaleAge       time.Duration `koanf:"quality_stale_age" validate:"gte=0"`

	DecayWindow     time.Duration `koanf:"decay_window" validate:"gt=0"`
	VelocityDivisor float64       `koanf:"velocity_divisor" validate:"gt=0"`
	VelocityCap     float64       `koanf:"velocity_cap" validate:"gte=1"`

	ColdStartAge      time.Duration `koanf:"cold_start_age" validate:"gte=0"`
	ColdStartMaxPosts int           `koanf:"cold_start_max_posts" validate:"gte=0"`
	ColdStartBase     float64       `koanf:"cold_start_base" validate:"gte=1"`
	ColdStartStep     float64       `koanf:"cold_start_step" validate:"gte=0"`

	GlobalWeight   float64 `koanf:"global_weight" validate:"gte=0"`
	PersonalWeight float64 `koanf:"personal_weight" validate:"gte=0"`

	Engagement      EngagementConfig      `koanf:"engagement"`
	Personalization PersonalizationConfig `koanf:"personalization"`
	Trust           TrustConfig           `koanf:"trust"`

	// RoleWeights replaces individual role trust weights; roles not listed
	// keep their default.
	RoleWeights map[string]float64 `koanf:"role_weights"`
}

// EngagementConfig holds the points per engagement signal.
type EngagementConfig struct {
	View    float64 `koanf:"view" validate:"gte=0"`
	Like    float64 `koanf:"like" validate:"gte=0"`
	Comment float64 `koanf:"comment" validate:"gte=0"`
	Share   float64 `koanf:"share" validate:"gte=0"`
	Save    float64 `koanf:"save" validate:"gte=0"`
}

// PersonalizationConfig holds the additive viewer-affinity bonuses.
type PersonalizationConfig struct {
	Following       float64 `koanf:"following" validate:"gte=0"`
	FavoriteAthlete float64 `koanf:"favorite_athlete" validate:"gte=0"`
	FavoriteTeam    float64 `koanf:"favorite_team" validate:"gte=0"`
	FavoriteSport   float64 `koanf:"favorite_sport" validate:"gte=0"`
	InterestedSport float64 `koanf:"interested_sport" validate:"gte=0"`
	TagMatch        float64 `koanf:"tag_match" validate:"gte=0"`
	Liked           float64 `koanf:"liked" validate:"gte=0"`
	Saved           float64 `koanf:"saved" validate:"gte=0"`
}

// TrustConfig holds the author trust multipliers.
type TrustConfig struct {
	VerifiedBoost    float64       `koanf:"verified_boost" validate:"gte=0"`
	VeteranAge       time.Duration `koanf:"veteran_age" validate:"gte=0"`
	VeteranBoost     float64       `koanf:"veteran_boost" validate:"gte=0"`
	FollowerDivisor  float64       `koanf:"follower_divisor" validate:"gt=0"`
	WarningPenalty   float64       `koanf:"warning_penalty" validate:"gte=0"`
	ShadowBanPenalty float64       `koanf:"shadow_ban_penalty" validate:"gte=0"`
}

// Load loads configuration using Koanf with layered sources.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
