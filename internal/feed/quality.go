// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package feed

// QualityFilter drops low-signal items. New creators are exempt.
type QualityFilter struct {
	cfg QualityConfig
}

// NewQualityFilter creates a filter with the given thresholds.
func NewQualityFilter(cfg QualityConfig) QualityFilter {
	return QualityFilter{cfg: cfg}
}

// Passes reports whether si survives the filter.
func (f QualityFilter) Passes(si ScoredItem) bool {
	if si.AuthorPosts <= f.cfg.ExemptMaxPosts {
		return true
	}
	if si.BaseEngagement < f.cfg.MinEngagement {
		return false
	}
	// Old and unwatched.
	if si.Item.ViewCount < f.cfg.MinViews && si.Age > f.cfg.StaleAge {
		return false
	}
	return true
}

// Filter returns the passing items in their original order and the number
// dropped.
func (f QualityFilter) Filter(items []ScoredItem) ([]ScoredItem, int) {
	kept := make([]ScoredItem, 0, len(items))
	for _, si := range items {
		if f.Passes(si) {
			kept = append(kept, si)
		}
	}
	return kept, len(items) - len(kept)
}
