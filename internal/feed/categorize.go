// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package feed

import "strings"

// Bucket names, used as metric labels.
const (
	BucketHighlights = "highlights"
	BucketImages     = "images"
	BucketThoughts   = "thoughts"
	BucketGames      = "games"
)

// BucketFor maps a post subtype to its bucket. Matching is
// case-insensitive and unknown subtypes land in images.
func BucketFor(postType string) string {
	switch strings.ToLower(strings.TrimSpace(postType)) {
	case "highlight":
		return BucketHighlights
	case "thoughts":
		return BucketThoughts
	default: // "image", "image-post" and anything unrecognized
		return BucketImages
	}
}

// Categorize splits ranked posts into buckets, keeping rank order, and
// caps each bucket at limit.
func Categorize(ranked []ScoredItem, limit int) Posts {
	posts := Posts{
		Highlights: []string{},
		Images:     []string{},
		Thoughts:   []string{},
	}
	seen := make(map[string]struct{}, len(ranked))
	for _, si := range ranked {
		if _, dup := seen[si.Item.ID]; dup {
			continue
		}
		seen[si.Item.ID] = struct{}{}

		switch BucketFor(si.Item.Type) {
		case BucketHighlights:
			posts.Highlights = appendCapped(posts.Highlights, si.Item.ID, limit)
		case BucketThoughts:
			posts.Thoughts = appendCapped(posts.Thoughts, si.Item.ID, limit)
		default:
			posts.Images = appendCapped(posts.Images, si.Item.ID, limit)
		}
	}
	return posts
}

// RankedIDs returns the first limit unique ids in rank order.
func RankedIDs(ranked []ScoredItem, limit int) []string {
	if limit <= 0 {
		return []string{}
	}
	ids := make([]string, 0, min(len(ranked), limit))
	seen := make(map[string]struct{}, len(ranked))
	for _, si := range ranked {
		if len(ids) >= limit {
			break
		}
		if _, dup := seen[si.Item.ID]; dup {
			continue
		}
		seen[si.Item.ID] = struct{}{}
		ids = append(ids, si.Item.ID)
	}
	return ids
}

func appendCapped(ids []string, id string, limit int) []string {
	if len(ids) >= limit {
		return ids
	}
	return append(ids, id)
}
