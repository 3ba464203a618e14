// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package feed

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var errNonFiniteScore = errors.New("score is not finite")

// Scorer computes the closed-form ranking score. It holds no state beyond
// its weight table and is safe for concurrent use.
type Scorer struct {
	cfg ScoringConfig
}

// NewScorer creates a scorer for the given weights.
func NewScorer(cfg ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// BaseEngagement is the weighted sum of the item's engagement counters.
func (s *Scorer) BaseEngagement(it Item) float64 {
	w := s.cfg.Engagement
	return float64(it.ViewCount)*w.View +
		float64(it.Likes)*w.Like +
		float64(it.Comments)*w.Comment +
		float64(it.Shares)*w.Share +
		float64(it.Saves)*w.Save
}

// LogCompress returns log10(1 + base).
func LogCompress(base float64) float64 {
	return math.Log10(1 + base)
}

// DecayDivisor returns max(1, age / decay window). Items without a
// timestamp, and items from the future, get 1.
func (s *Scorer) DecayDivisor(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 1
	}
	units := float64(now.Sub(createdAt)) / float64(s.cfg.DecayWindow)
	return math.Max(1, units)
}

// VelocityMultiplier returns min(cap, 1 + velocity / divisor).
func (s *Scorer) VelocityMultiplier(velocity float64) float64 {
	if velocity < 0 {
		velocity = 0
	}
	return math.Min(s.cfg.VelocityCap, 1+velocity/s.cfg.VelocityDivisor)
}

// ColdStartMultiplier boosts young accounts with few posts. An author with
// no creation time is treated as created now.
func (s *Scorer) ColdStartMultiplier(a *Author, now time.Time) float64 {
	if accountAge(a, now) >= s.cfg.ColdStartAge {
		return 1
	}
	if a.PostCount > s.cfg.ColdStartMaxPosts {
		return 1
	}
	return s.cfg.ColdStartBase - s.cfg.ColdStartStep*float64(a.PostCount)
}

// TrustMultiplier weighs the author's credibility. Banned authors get
// exactly 0.
func (s *Scorer) TrustMultiplier(a *Author, now time.Time) float64 {
	t := s.cfg.Trust
	trust := 1.0

	if a.Verified {
		trust *= t.VerifiedBoost
	}
	if w, ok := t.RoleWeights[a.Role]; ok {
		trust *= w
	}
	if accountAge(a, now) > t.VeteranAge {
		trust *= t.VeteranBoost
	}
	trust *= 1 + math.Log10(1+float64(a.Followers))/t.FollowerDivisor

	if a.Warnings > 0 {
		trust *= t.WarningPenalty
	}
	if a.Banned {
		trust = 0
	}
	if a.ShadowBanned {
		trust *= t.ShadowBanPenalty
	}
	return trust
}

// Personalization sums the viewer-affinity bonuses for an item.
func (s *Scorer) Personalization(v *Viewer, it Item, authorID string) float64 {
	w := s.cfg.Personalization
	var score float64

	if v.Following.Has(authorID) {
		score += w.Following
	}
	if v.FavoriteAthletes.Has(authorID) {
		score += w.FavoriteAthlete
	}
	if v.FavoriteTeams.Has(authorID) {
		score += w.FavoriteTeam
	}

	if it.Sport != "" {
		switch {
		case v.FavoriteSports.Has(it.Sport):
			score += w.FavoriteSport
		case v.InterestedSports.Has(it.Sport):
			score += w.InterestedSport
		}
	}

	for _, tag := range it.Tags {
		if v.InterestedTags.Has(tag) || v.Tags.Has(tag) {
			score += w.TagMatch
		}
	}

	if v.LikedPosts.Has(it.ID) {
		score += w.Liked
	}
	if v.SavedPosts.Has(it.ID) {
		score += w.Saved
	}
	return score
}

// Score computes every factor for one item. A panic or a non-finite
// result is returned as an error so the caller can drop the item.
func (s *Scorer) Score(v *Viewer, it Item, authorID string, a *Author, now time.Time) (si ScoredItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			si = ScoredItem{}
			err = &scoringError{ItemID: it.ID, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if it.decodeErr != nil {
		return ScoredItem{}, &scoringError{ItemID: it.ID, Err: it.decodeErr}
	}
	if a == nil {
		return ScoredItem{}, &scoringError{ItemID: it.ID, Err: errors.New("author is nil")}
	}

	si = ScoredItem{
		Item:        it,
		AuthorID:    authorID,
		AuthorPosts: a.PostCount,
	}
	if !it.CreatedAt.IsZero() {
		if age := now.Sub(it.CreatedAt); age > 0 {
			si.Age = age
		}
	}

	si.BaseEngagement = s.BaseEngagement(it)
	si.LogEngagement = LogCompress(si.BaseEngagement)
	si.DecayDivisor = s.DecayDivisor(it.CreatedAt, now)
	si.Velocity = s.VelocityMultiplier(it.Velocity)
	si.ColdStart = s.ColdStartMultiplier(a, now)
	si.Trust = s.TrustMultiplier(a, now)
	si.Personal = s.Personalization(v, it, authorID)

	si.Global = (si.LogEngagement / si.DecayDivisor) * si.Velocity * si.ColdStart * si.Trust
	si.Score = si.Global*s.cfg.GlobalWeight + si.Personal*s.cfg.PersonalWeight

	if math.IsNaN(si.Score) || math.IsInf(si.Score, 0) {
		return ScoredItem{}, &scoringError{ItemID: it.ID, Err: errNonFiniteScore}
	}
	return si, nil
}

func accountAge(a *Author, now time.Time) time.Duration {
	if a.CreatedAt.IsZero() {
		return 0
	}
	return now.Sub(a.CreatedAt)
}
