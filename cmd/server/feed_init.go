// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package main

import (
	"fmt"

	"github.com/tomtom215/playmaker/internal/config"
	"github.com/tomtom215/playmaker/internal/feed"
)

// buildFeedConfig maps the loaded feed section onto the engine config.
// Every value is taken as given, zeros included; role weights are merged
// per role over the defaults.
func buildFeedConfig(cfg *config.FeedConfig) (*feed.Config, error) {
	fc := feed.DefaultConfig()

	fc.Retrieval = feed.RetrievalConfig{
		BatchSize:     cfg.BatchSize,
		BatchLimit:    cfg.BatchLimit,
		BackfillFloor: cfg.BackfillFloor,
		BackfillLimit: cfg.BackfillLimit,
		GameLimit:     cfg.GameLimit,
		SportField:    cfg.SportField,
		Concurrency:   cfg.Concurrency,
	}
	fc.Output.MaxBucketSize = cfg.MaxBucketSize

	fc.Diversity.Floor = cfg.DiversityFloor
	fc.Diversity.MaxPerAuthor = cfg.MaxPerAuthor
	fc.Diversity.MaxPerSport = cfg.MaxPerSport
	fc.Diversity.AuthorPenalty = cfg.AuthorPenalty
	if cfg.DefaultSport != "" {
		fc.Diversity.DefaultSport = cfg.DefaultSport
	}

	fc.Quality = feed.QualityConfig{
		ExemptMaxPosts: cfg.QualityExemptMaxPosts,
		MinEngagement:  cfg.QualityMinEngagement,
		MinViews:       cfg.QualityMinViews,
		StaleAge:       cfg.QualityStaleAge,
	}

	s := &fc.Scoring
	s.Engagement = feed.EngagementWeights(cfg.Engagement)
	s.Personalization = feed.PersonalizationWeights(cfg.Personalization)
	s.DecayWindow = cfg.DecayWindow
	s.VelocityDivisor = cfg.VelocityDivisor
	s.VelocityCap = cfg.VelocityCap
	s.ColdStartAge = cfg.ColdStartAge
	s.ColdStartMaxPosts = cfg.ColdStartMaxPosts
	s.ColdStartBase = cfg.ColdStartBase
	s.ColdStartStep = cfg.ColdStartStep
	s.GlobalWeight = cfg.GlobalWeight
	s.PersonalWeight = cfg.PersonalWeight

	s.Trust.VerifiedBoost = cfg.Trust.VerifiedBoost
	s.Trust.VeteranAge = cfg.Trust.VeteranAge
	s.Trust.VeteranBoost = cfg.Trust.VeteranBoost
	s.Trust.FollowerDivisor = cfg.Trust.FollowerDivisor
	s.Trust.WarningPenalty = cfg.Trust.WarningPenalty
	s.Trust.ShadowBanPenalty = cfg.Trust.ShadowBanPenalty
	for role, w := range cfg.RoleWeights {
		s.Trust.RoleWeights[role] = w
	}

	if err := fc.Validate(); err != nil {
		return nil, fmt.Errorf("feed config: %w", err)
	}
	return fc, nil
}
