// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package config

import "github.com/tomtom215/playmaker/internal/feed"

// DefaultFeedConfig mirrors feed.DefaultConfig into the config layer.
// Role weights are left empty; they are merged over the defaults.
func DefaultFeedConfig() FeedConfig {
	d := feed.DefaultConfig()
	r, s, q, div := d.Retrieval, d.Scoring, d.Quality, d.Diversity
	return FeedConfig{
		BatchSize:     r.BatchSize,
		BatchLimit:    r.BatchLimit,
		BackfillFloor: r.BackfillFloor,
		BackfillLimit: r.BackfillLimit,
		GameLimit:     r.GameLimit,
		SportField:    r.SportField,
		Concurrency:   r.Concurrency,

		MaxBucketSize: d.Output.MaxBucketSize,

		DiversityFloor: div.Floor,
		MaxPerAuthor:   div.MaxPerAuthor,
		MaxPerSport:    div.MaxPerSport,
		AuthorPenalty:  div.AuthorPenalty,
		DefaultSport:   div.DefaultSport,

		QualityExemptMaxPosts: q.ExemptMaxPosts,
		QualityMinEngagement:  q.MinEngagement,
		QualityMinViews:       q.MinViews,
		QualityStaleAge:       q.StaleAge,

		DecayWindow:     s.DecayWindow,
		VelocityDivisor: s.VelocityDivisor,
		VelocityCap:     s.VelocityCap,

		ColdStartAge:      s.ColdStartAge,
		ColdStartMaxPosts: s.ColdStartMaxPosts,
		ColdStartBase:     s.ColdStartBase,
		ColdStartStep:     s.ColdStartStep,

		GlobalWeight:   s.GlobalWeight,
		PersonalWeight: s.PersonalWeight,

		Engagement: EngagementConfig{
			View:    s.Engagement.View,
			Like:    s.Engagement.Like,
			Comment: s.Engagement.Comment,
			Share:   s.Engagement.Share,
			Save:    s.Engagement.Save,
		},
		Personalization: PersonalizationConfig{
			Following:       s.Personalization.Following,
			FavoriteAthlete: s.Personalization.FavoriteAthlete,
			FavoriteTeam:    s.Personalization.FavoriteTeam,
			FavoriteSport:   s.Personalization.FavoriteSport,
			InterestedSport: s.Personalization.InterestedSport,
			TagMatch:        s.Personalization.TagMatch,
			Liked:           s.Personalization.Liked,
			Saved:           s.Personalization.Saved,
		},
		Trust: TrustConfig{
			VerifiedBoost:    s.Trust.VerifiedBoost,
			VeteranAge:       s.Trust.VeteranAge,
			VeteranBoost:     s.Trust.VeteranBoost,
			FollowerDivisor:  s.Trust.FollowerDivisor,
			WarningPenalty:   s.Trust.WarningPenalty,
			ShadowBanPenalty: s.Trust.ShadowBanPenalty,
		},
	}
}
