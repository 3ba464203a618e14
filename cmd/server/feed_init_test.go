// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package main

import (
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/playmaker/internal/config"
	"github.com/tomtom215/playmaker/internal/feed"
)

func TestBuildFeedConfig_DefaultsRoundTrip(t *testing.T) {
	cfg := config.DefaultFeedConfig()
	got, err := buildFeedConfig(&cfg)
	if err != nil {
		t.Fatalf("buildFeedConfig() error = %v", err)
	}
	if want := feed.DefaultConfig(); !reflect.DeepEqual(got, want) {
		t.Errorf("buildFeedConfig(defaults) = %+v, want %+v", got, want)
	}
}

func TestBuildFeedConfig_ExplicitZerosKept(t *testing.T) {
	cfg := config.DefaultFeedConfig()
	cfg.DiversityFloor = 0
	cfg.QualityMinViews = 0
	cfg.QualityMinEngagement = 0
	cfg.BackfillFloor = 0
	cfg.Engagement.View = 0
	cfg.Personalization.TagMatch = 0
	cfg.Trust.ShadowBanPenalty = 0
	cfg.ColdStartStep = 0

	got, err := buildFeedConfig(&cfg)
	if err != nil {
		t.Fatalf("buildFeedConfig() error = %v", err)
	}
	if got.Diversity.Floor != 0 || got.Quality.MinViews != 0 || got.Quality.MinEngagement != 0 {
		t.Errorf("thresholds = floor %d views %d engagement %v, want zeros",
			got.Diversity.Floor, got.Quality.MinViews, got.Quality.MinEngagement)
	}
	if got.Retrieval.BackfillFloor != 0 || got.Scoring.Engagement.View != 0 {
		t.Errorf("backfill floor %d view weight %v, want zeros", got.Retrieval.BackfillFloor, got.Scoring.Engagement.View)
	}
	if got.Scoring.Personalization.TagMatch != 0 || got.Scoring.Trust.ShadowBanPenalty != 0 || got.Scoring.ColdStartStep != 0 {
		t.Errorf("scoring = %+v, want zeroed tag bonus, shadow-ban penalty and cold-start step", got.Scoring)
	}
}

func TestBuildFeedConfig_Overrides(t *testing.T) {
	cfg := config.DefaultFeedConfig()
	cfg.BatchSize = 5
	cfg.SportField = "sport"
	cfg.MaxBucketSize = 50
	cfg.MaxPerAuthor = 2
	cfg.AuthorPenalty = 0.5
	cfg.QualityStaleAge = 48 * time.Hour
	cfg.GlobalWeight = 0.7
	cfg.PersonalWeight = 0.3
	cfg.DecayWindow = 12 * time.Hour
	cfg.VelocityDivisor = 20
	cfg.VelocityCap = 3
	cfg.Engagement.Share = 8
	cfg.Personalization.FavoriteAthlete = 60
	cfg.Trust.VerifiedBoost = 2
	cfg.RoleWeights = map[string]float64{"scout": 3, "analyst": 1.3}

	got, err := buildFeedConfig(&cfg)
	if err != nil {
		t.Fatalf("buildFeedConfig() error = %v", err)
	}

	if got.Retrieval.BatchSize != 5 || got.Retrieval.SportField != "sport" {
		t.Errorf("Retrieval = %+v", got.Retrieval)
	}
	if got.Retrieval.BatchLimit != feed.DefaultConfig().Retrieval.BatchLimit {
		t.Errorf("BatchLimit changed to %d", got.Retrieval.BatchLimit)
	}
	if got.Output.MaxBucketSize != 50 {
		t.Errorf("MaxBucketSize = %d", got.Output.MaxBucketSize)
	}
	if got.Diversity.MaxPerAuthor != 2 || got.Diversity.AuthorPenalty != 0.5 {
		t.Errorf("Diversity = %+v", got.Diversity)
	}
	if got.Quality.StaleAge != 48*time.Hour {
		t.Errorf("StaleAge = %v", got.Quality.StaleAge)
	}

	s := got.Scoring
	if s.GlobalWeight != 0.7 || s.PersonalWeight != 0.3 {
		t.Errorf("weights = %v/%v", s.GlobalWeight, s.PersonalWeight)
	}
	if s.DecayWindow != 12*time.Hour || s.VelocityDivisor != 20 || s.VelocityCap != 3 {
		t.Errorf("decay/velocity = %v %v %v", s.DecayWindow, s.VelocityDivisor, s.VelocityCap)
	}
	if s.Engagement.Share != 8 || s.Engagement.Like != feed.DefaultConfig().Scoring.Engagement.Like {
		t.Errorf("Engagement = %+v", s.Engagement)
	}
	if s.Personalization.FavoriteAthlete != 60 || s.Trust.VerifiedBoost != 2 {
		t.Errorf("athlete bonus %v verified boost %v", s.Personalization.FavoriteAthlete, s.Trust.VerifiedBoost)
	}

	roles := s.Trust.RoleWeights
	if roles["scout"] != 3 || roles["analyst"] != 1.3 {
		t.Errorf("overridden roles = %v", roles)
	}
	if roles["coach"] != feed.DefaultRoleWeights()["coach"] {
		t.Errorf("coach weight lost: %v", roles)
	}
}

func TestBuildFeedConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.FeedConfig)
	}{
		{"batch size above in-query limit", func(c *config.FeedConfig) { c.BatchSize = 11 }},
		{"zero author penalty", func(c *config.FeedConfig) { c.AuthorPenalty = 0 }},
		{"zero velocity divisor", func(c *config.FeedConfig) { c.VelocityDivisor = 0 }},
		{"zero bucket size", func(c *config.FeedConfig) { c.MaxBucketSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultFeedConfig()
			tt.mutate(&cfg)
			if _, err := buildFeedConfig(&cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}
