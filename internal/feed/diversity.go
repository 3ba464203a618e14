// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package feed

import (
	"math"
	"sort"
)

// Reranker reorders scored items after the quality filter.
// Implementations must not return an item twice.
type Reranker interface {
	// Name returns the reranker's name for logging.
	Name() string

	// Rerank returns the items in output order. The input slice may be
	// reordered but its elements are not modified.
	Rerank(items []ScoredItem) []ScoredItem
}

// Diversity caps how often one author or one sport appears once the feed
// reaches a minimum size, and penalizes repeated authors from the start.
//
// Items are walked in descending score order. Below Floor accepted items
// everything is accepted. At or above Floor, an item is skipped when its
// author already has MaxPerAuthor accepted items or its sport already has
// MaxPerSport. Each accepted item's score is multiplied by
// AuthorPenalty^k, where k counts earlier accepted items by the same author.
// The output keeps acceptance order.
type Diversity struct {
	cfg DiversityConfig
}

var _ Reranker = (*Diversity)(nil)

// NewDiversity creates a diversity reranker.
func NewDiversity(cfg DiversityConfig) *Diversity {
	return &Diversity{cfg: cfg}
}

// Name implements Reranker.
func (d *Diversity) Name() string {
	return "diversity"
}

// Rerank implements Reranker.
func (d *Diversity) Rerank(items []ScoredItem) []ScoredItem {
	SortByScore(items)

	authorCounts := make(map[string]int)
	sportCounts := make(map[string]int)
	result := make([]ScoredItem, 0, len(items))

	for _, si := range items {
		author := si.AuthorID
		sport := si.Item.Sport
		if sport == "" {
			sport = d.cfg.DefaultSport
		}

		if len(result) >= d.cfg.Floor {
			if authorCounts[author] >= d.cfg.MaxPerAuthor {
				continue
			}
			if sportCounts[sport] >= d.cfg.MaxPerSport {
				continue
			}
		}

		si.Score *= math.Pow(d.cfg.AuthorPenalty, float64(authorCounts[author]))
		result = append(result, si)
		authorCounts[author]++
		sportCounts[sport]++
	}
	return result
}

// SortByScore orders items by descending score. Ties break on item id so
// identical inputs always produce identical output.
func SortByScore(items []ScoredItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Item.ID < items[j].Item.ID
	})
}
