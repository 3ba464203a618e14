// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package feed

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/playmaker/internal/store"
)

// Document field names read by the engine.
const (
	fieldUserID         = "userId"
	fieldCreatedAt      = "createdAt"
	fieldType           = "type"
	fieldSport          = "sport"
	fieldNestedSport    = "data.sport"
	fieldTags           = "tags"
	fieldViewCount      = "viewCount"
	fieldLikes          = "likes"
	fieldComments       = "comments"
	fieldShares         = "shares"
	fieldSaves          = "saves"
	fieldVelocity       = "velocity"
	fieldVerified       = "verified"
	fieldRole           = "role"
	fieldPosts          = "posts"
	fieldPostCount      = "postCount"
	fieldFollowers      = "followers"
	fieldFollowerCount  = "followerCount"
	fieldWarnings       = "flags.warnings"
	fieldFlagBanned     = "flags.banned"
	fieldIsBanned       = "isBanned"
	fieldShadowBanned   = "isShadowBanned"
	fieldFollowing      = "following"
	fieldFavAthletes    = "favoriteAthletes"
	fieldFavTeams       = "favoriteTeams"
	fieldIntSports      = "interestedSports"
	fieldFavSports      = "favoriteSports"
	fieldInterestedTags = "interestedTags"
	fieldLikedPosts     = "likedPosts"
	fieldSavedPosts     = "savedPosts"
)

// ViewerFromDocument maps a users document into a Viewer.
func ViewerFromDocument(doc store.Document) *Viewer {
	return &Viewer{
		ID:               doc.ID,
		Following:        NewSet(stringsField(doc, fieldFollowing)...),
		FavoriteAthletes: NewSet(stringsField(doc, fieldFavAthletes)...),
		FavoriteTeams:    NewSet(stringsField(doc, fieldFavTeams)...),
		InterestedSports: NewSet(stringsField(doc, fieldIntSports)...),
		FavoriteSports:   NewSet(stringsField(doc, fieldFavSports)...),
		InterestedTags:   NewSet(stringsField(doc, fieldInterestedTags)...),
		Tags:             NewSet(stringsField(doc, fieldTags)...),
		LikedPosts:       NewSet(stringsField(doc, fieldLikedPosts)...),
		SavedPosts:       NewSet(stringsField(doc, fieldSavedPosts)...),
	}
}

// ItemFromDocument maps a posts or events document into an Item.
// A timestamp that is present but unreadable marks the item for a
// scoring drop instead of failing retrieval.
func ItemFromDocument(doc store.Document, kind Kind) Item {
	it := Item{
		ID:        doc.ID,
		AuthorID:  stringField(doc, fieldUserID),
		Kind:      kind,
		Type:      stringField(doc, fieldType),
		Sport:     itemSport(doc),
		Tags:      stringsField(doc, fieldTags),
		ViewCount: countField(doc, fieldViewCount),
		Likes:     countField(doc, fieldLikes),
		Comments:  countField(doc, fieldComments),
		Shares:    countField(doc, fieldShares),
		Saves:     countField(doc, fieldSaves),
		Velocity:  floatField(doc, fieldVelocity),
	}
	if raw, ok := doc.Lookup(fieldCreatedAt); ok {
		ts, err := store.ParseTime(raw)
		if err != nil {
			it.decodeErr = fmt.Errorf("%s: %w", fieldCreatedAt, err)
		}
		it.CreatedAt = ts
	}
	return it
}

// AuthorFromDocument maps a users document into an Author.
// An unreadable createdAt is treated as unknown.
func AuthorFromDocument(doc store.Document) *Author {
	a := &Author{
		ID:           doc.ID,
		Verified:     boolField(doc, fieldVerified),
		Role:         strings.ToLower(stringField(doc, fieldRole)),
		PostCount:    sizeField(doc, fieldPosts, fieldPostCount),
		Followers:    sizeField(doc, fieldFollowers, fieldFollowerCount),
		Warnings:     countField(doc, fieldWarnings),
		Banned:       boolField(doc, fieldFlagBanned) || boolField(doc, fieldIsBanned),
		ShadowBanned: boolField(doc, fieldShadowBanned),
	}
	if raw, ok := doc.Lookup(fieldCreatedAt); ok {
		if ts, err := store.ParseTime(raw); err == nil {
			a.CreatedAt = ts
		}
	}
	return a
}

func itemSport(doc store.Document) string {
	if s := stringField(doc, fieldSport); s != "" {
		return s
	}
	return stringField(doc, fieldNestedSport)
}

func stringField(doc store.Document, path string) string {
	v, _ := doc.Lookup(path)
	s, _ := v.(string)
	return s
}

func stringsField(doc store.Document, path string) []string {
	v, ok := doc.Lookup(path)
	if !ok {
		return nil
	}
	switch vv := v.(type) {
	case []string:
		return vv
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func boolField(doc store.Document, path string) bool {
	v, _ := doc.Lookup(path)
	b, _ := v.(bool)
	return b
}

func floatField(doc store.Document, path string) float64 {
	v, _ := doc.Lookup(path)
	f, ok := number(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// countField reads a counter stored either as a list of ids or as a number.
func countField(doc store.Document, path string) int {
	v, ok := doc.Lookup(path)
	if !ok {
		return 0
	}
	if n, ok := listLen(v); ok {
		return n
	}
	f, ok := number(v)
	if !ok || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// sizeField prefers the length of a list field and falls back to a
// numeric count field.
func sizeField(doc store.Document, listPath, countPath string) int {
	if v, ok := doc.Lookup(listPath); ok {
		if n, ok := listLen(v); ok {
			return n
		}
	}
	return countField(doc, countPath)
}

func listLen(v interface{}) (int, bool) {
	switch vv := v.(type) {
	case []interface{}:
		return len(vv), true
	case []string:
		return len(vv), true
	}
	return 0, false
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

