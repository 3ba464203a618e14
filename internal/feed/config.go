// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package feed

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/playmaker/internal/store"
)

// Config holds every weight table and threshold used by a pass.
// A Generator clones the config it is given, so later changes by the
// caller have no effect.
type Config struct {
	Retrieval RetrievalConfig `json:"retrieval"`
	Scoring   ScoringConfig   `json:"scoring"`
	Quality   QualityConfig   `json:"quality"`
	Diversity DiversityConfig `json:"diversity"`
	Output    OutputConfig    `json:"output"`
}

// RetrievalConfig bounds candidate retrieval.
type RetrievalConfig struct {
	// BatchSize is the number of ids per "in" query. At most store.MaxInValues.
	BatchSize int `json:"batch_size"`

	// BatchLimit caps each batched query.
	BatchLimit int `json:"batch_limit"`

	// BackfillFloor triggers the recency backfill when the merged post set
	// is smaller than this.
	BackfillFloor int `json:"backfill_floor"`

	// BackfillLimit caps the recency backfill query.
	BackfillLimit int `json:"backfill_limit"`

	// GameLimit caps the recent games query.
	GameLimit int `json:"game_limit"`

	// SportField is the document field sport queries filter on.
	SportField string `json:"sport_field"`

	// Concurrency bounds parallel queries and author lookups within a pass.
	Concurrency int `json:"concurrency"`
}

// EngagementWeights are the per-signal points of base engagement.
type EngagementWeights struct {
	View    float64 `json:"view"`
	Like    float64 `json:"like"`
	Comment float64 `json:"comment"`
	Share   float64 `json:"share"`
	Save    float64 `json:"save"`
}

// TrustConfig controls the author trust multiplier.
type TrustConfig struct {
	VerifiedBoost    float64            `json:"verified_boost"`
	RoleWeights      map[string]float64 `json:"role_weights"`
	VeteranAge       time.Duration      `json:"veteran_age"`
	VeteranBoost     float64            `json:"veteran_boost"`
	FollowerDivisor  float64            `json:"follower_divisor"`
	WarningPenalty   float64            `json:"warning_penalty"`
	ShadowBanPenalty float64            `json:"shadow_ban_penalty"`
}

// PersonalizationWeights are the additive viewer-affinity bonuses.
type PersonalizationWeights struct {
	Following       float64 `json:"following"`
	FavoriteAthlete float64 `json:"favorite_athlete"`
	FavoriteTeam    float64 `json:"favorite_team"`
	FavoriteSport   float64 `json:"favorite_sport"`
	InterestedSport float64 `json:"interested_sport"`
	TagMatch        float64 `json:"tag_match"`
	Liked           float64 `json:"liked"`
	Saved           float64 `json:"saved"`
}

// ScoringConfig holds the scoring formula's constants.
type ScoringConfig struct {
	Engagement EngagementWeights `json:"engagement"`

	// DecayWindow is the age unit of the decay divisor.
	DecayWindow time.Duration `json:"decay_window"`

	VelocityDivisor float64 `json:"velocity_divisor"`
	VelocityCap     float64 `json:"velocity_cap"`

	// Cold start: accounts younger than ColdStartAge with at most
	// ColdStartMaxPosts posts get ColdStartBase - ColdStartStep*posts.
	ColdStartAge      time.Duration `json:"cold_start_age"`
	ColdStartMaxPosts int           `json:"cold_start_max_posts"`
	ColdStartBase     float64       `json:"cold_start_base"`
	ColdStartStep     float64       `json:"cold_start_step"`

	Trust           TrustConfig            `json:"trust"`
	Personalization PersonalizationWeights `json:"personalization"`

	// Final = Global*GlobalWeight + Personal*PersonalWeight.
	GlobalWeight   float64 `json:"global_weight"`
	PersonalWeight float64 `json:"personal_weight"`
}

// QualityConfig holds the quality filter thresholds.
type QualityConfig struct {
	// Authors with at most ExemptMaxPosts posts always pass.
	ExemptMaxPosts int     `json:"exempt_max_posts"`
	MinEngagement  float64 `json:"min_engagement"`
	MinViews       int     `json:"min_views"`

	// StaleAge is the age past which MinViews applies.
	StaleAge time.Duration `json:"stale_age"`
}

// DiversityConfig controls the diversity re-ranker.
type DiversityConfig struct {
	// Floor is the result size below which no caps apply.
	Floor         int     `json:"floor"`
	MaxPerAuthor  int     `json:"max_per_author"`
	MaxPerSport   int     `json:"max_per_sport"`
	AuthorPenalty float64 `json:"author_penalty"`
	DefaultSport  string  `json:"default_sport"`
}

// OutputConfig caps the output lists.
type OutputConfig struct {
	MaxBucketSize int `json:"max_bucket_size"`
}

// DefaultRoleWeights returns the trust weight per author role.
// Roles not listed weigh 1.0.
func DefaultRoleWeights() map[string]float64 {
	return map[string]float64{
		"scout":   2.0,
		"coach":   1.5,
		"team":    1.2,
		"athlete": 1.1,
		"fan":     1.0,
	}
}

// DefaultConfig returns the production weight tables.
func DefaultConfig() *Config {
	return &Config{
		Retrieval: RetrievalConfig{
			BatchSize:     10,
			BatchLimit:    30,
			BackfillFloor: 20,
			BackfillLimit: 40,
			GameLimit:     150,
			SportField:    "data.sport",
			Concurrency:   8,
		},
		Scoring: ScoringConfig{
			Engagement: EngagementWeights{
				View:    1,
				Like:    2,
				Comment: 4,
				Share:   6,
				Save:    5,
			},
			DecayWindow:       24 * time.Hour,
			VelocityDivisor:   10,
			VelocityCap:       2.0,
			ColdStartAge:      30 * 24 * time.Hour,
			ColdStartMaxPosts: 5,
			ColdStartBase:     2.0,
			ColdStartStep:     0.2,
			Trust: TrustConfig{
				VerifiedBoost:    1.5,
				RoleWeights:      DefaultRoleWeights(),
				VeteranAge:       365 * 24 * time.Hour,
				VeteranBoost:     1.1,
				FollowerDivisor:  10,
				WarningPenalty:   0.8,
				ShadowBanPenalty: 0.1,
			},
			Personalization: PersonalizationWeights{
				Following:       30,
				FavoriteAthlete: 50,
				FavoriteTeam:    40,
				FavoriteSport:   20,
				InterestedSport: 10,
				TagMatch:        5,
				Liked:           15,
				Saved:           20,
			},
			GlobalWeight:   0.6,
			PersonalWeight: 0.4,
		},
		Quality: QualityConfig{
			ExemptMaxPosts: 5,
			MinEngagement:  3,
			MinViews:       5,
			StaleAge:       24 * time.Hour,
		},
		Diversity: DiversityConfig{
			Floor:         20,
			MaxPerAuthor:  3,
			MaxPerSport:   5,
			AuthorPenalty: 0.9,
			DefaultSport:  "general",
		},
		Output: OutputConfig{
			MaxBucketSize: 100,
		},
	}
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	r := c.Retrieval
	if r.BatchSize < 1 || r.BatchSize > store.MaxInValues {
		return fmt.Errorf("retrieval.batch_size must be in [1, %d], got %d", store.MaxInValues, r.BatchSize)
	}
	if r.BatchLimit < 1 {
		return fmt.Errorf("retrieval.batch_limit must be positive, got %d", r.BatchLimit)
	}
	if r.BackfillFloor < 0 {
		return fmt.Errorf("retrieval.backfill_floor must be non-negative, got %d", r.BackfillFloor)
	}
	if r.BackfillLimit < 1 {
		return fmt.Errorf("retrieval.backfill_limit must be positive, got %d", r.BackfillLimit)
	}
	if r.GameLimit < 1 {
		return fmt.Errorf("retrieval.game_limit must be positive, got %d", r.GameLimit)
	}
	if r.SportField == "" {
		return errors.New("retrieval.sport_field is required")
	}
	if r.Concurrency < 1 {
		return fmt.Errorf("retrieval.concurrency must be positive, got %d", r.Concurrency)
	}

	s := c.Scoring
	if s.DecayWindow <= 0 {
		return fmt.Errorf("scoring.decay_window must be positive, got %s", s.DecayWindow)
	}
	if s.VelocityDivisor <= 0 {
		return fmt.Errorf("scoring.velocity_divisor must be positive, got %f", s.VelocityDivisor)
	}
	if s.VelocityCap < 1 {
		return fmt.Errorf("scoring.velocity_cap must be >= 1, got %f", s.VelocityCap)
	}
	if s.ColdStartMaxPosts < 0 {
		return fmt.Errorf("scoring.cold_start_max_posts must be non-negative, got %d", s.ColdStartMaxPosts)
	}
	if s.ColdStartBase < 1 {
		return fmt.Errorf("scoring.cold_start_base must be >= 1, got %f", s.ColdStartBase)
	}
	if s.Trust.FollowerDivisor <= 0 {
		return fmt.Errorf("scoring.trust.follower_divisor must be positive, got %f", s.Trust.FollowerDivisor)
	}
	for role, w := range s.Trust.RoleWeights {
		if w < 0 {
			return fmt.Errorf("scoring.trust.role_weights[%s] must be non-negative, got %f", role, w)
		}
	}
	if s.GlobalWeight < 0 || s.PersonalWeight < 0 {
		return fmt.Errorf("scoring blend weights must be non-negative, got %f/%f", s.GlobalWeight, s.PersonalWeight)
	}

	if c.Quality.ExemptMaxPosts < 0 {
		return fmt.Errorf("quality.exempt_max_posts must be non-negative, got %d", c.Quality.ExemptMaxPosts)
	}
	if c.Quality.StaleAge < 0 {
		return fmt.Errorf("quality.stale_age must be non-negative, got %s", c.Quality.StaleAge)
	}

	d := c.Diversity
	if d.Floor < 0 {
		return fmt.Errorf("diversity.floor must be non-negative, got %d", d.Floor)
	}
	if d.MaxPerAuthor < 1 {
		return fmt.Errorf("diversity.max_per_author must be positive, got %d", d.MaxPerAuthor)
	}
	if d.MaxPerSport < 1 {
		return fmt.Errorf("diversity.max_per_sport must be positive, got %d", d.MaxPerSport)
	}
	if d.AuthorPenalty <= 0 || d.AuthorPenalty > 1 {
		return fmt.Errorf("diversity.author_penalty must be in (0, 1], got %f", d.AuthorPenalty)
	}

	if c.Output.MaxBucketSize < 1 {
		return fmt.Errorf("output.max_bucket_size must be positive, got %d", c.Output.MaxBucketSize)
	}
	return nil
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	out := *c
	out.Scoring.Trust.RoleWeights = make(map[string]float64, len(c.Scoring.Trust.RoleWeights))
	for k, v := range c.Scoring.Trust.RoleWeights {
		out.Scoring.Trust.RoleWeights[k] = v
	}
	return &out
}
