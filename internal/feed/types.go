// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package feed

import (
	"sort"
	"time"
)

// Set is an unordered collection of identifiers.
type Set map[string]struct{}

// NewSet builds a Set, skipping empty strings.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		if v != "" {
			s[v] = struct{}{}
		}
	}
	return s
}

// Has reports whether v is in the set. A nil set has no members.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s)
}

// Values returns the members sorted, so callers that issue queries
// get a deterministic batch layout.
func (s Set) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Union returns a new set holding the members of s and other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for v := range s {
		out[v] = struct{}{}
	}
	for v := range other {
		out[v] = struct{}{}
	}
	return out
}

// Kind distinguishes the two candidate families.
type Kind string

// Candidate kinds.
const (
	KindPost Kind = "post"
	KindGame Kind = "game"
)

// Viewer is the snapshot of the user a feed is generated for. It is read
// once at pass start and never modified during the pass.
type Viewer struct {
	ID string

	// Social graph
	Following        Set
	FavoriteAthletes Set
	FavoriteTeams    Set

	// Interests
	InterestedSports Set
	FavoriteSports   Set
	InterestedTags   Set
	Tags             Set

	// Engagement history
	LikedPosts Set
	SavedPosts Set
}

// SportInterests returns the union of interested and favorite sports.
func (v *Viewer) SportInterests() Set {
	return v.InterestedSports.Union(v.FavoriteSports)
}

// HasPreferences reports whether the viewer declared any sport or generic
// tag preference.
func (v *Viewer) HasPreferences() bool {
	return v.InterestedSports.Len() > 0 || v.FavoriteSports.Len() > 0 || v.Tags.Len() > 0
}

// Item is a post or game candidate.
type Item struct {
	ID string

	// AuthorID is the explicit author field. Empty when the record has none;
	// see ResolveAuthorID.
	AuthorID string

	Kind      Kind
	Type      string
	Sport     string
	Tags      []string
	CreatedAt time.Time // zero when the record has no timestamp

	ViewCount int
	Likes     int
	Comments  int
	Shares    int
	Saves     int

	// Velocity is engagements per hour, maintained by an external job.
	Velocity float64

	// decodeErr is set when a field was present but could not be read.
	// Scoring drops such items.
	decodeErr error
}

// Author is the user record of a candidate's creator.
type Author struct {
	ID           string
	Verified     bool
	Role         string
	CreatedAt    time.Time // zero when unknown; treated as a brand new account
	PostCount    int
	Followers    int
	Warnings     int
	Banned       bool
	ShadowBanned bool
}

// ScoredItem is a candidate with every scoring factor attached. It lives
// for one pass only.
type ScoredItem struct {
	Item     Item
	AuthorID string

	// AuthorPosts and Age feed the quality filter.
	AuthorPosts int
	Age         time.Duration

	BaseEngagement float64
	LogEngagement  float64
	DecayDivisor   float64
	Velocity       float64
	ColdStart      float64
	Trust          float64
	Personal       float64
	Global         float64
	Score          float64
}

// Posts holds the three post buckets in rank order.
type Posts struct {
	Highlights []string `json:"highlights"`
	Images     []string `json:"images"`
	Thoughts   []string `json:"thoughts"`
}

// Result is the feed persisted for a viewer.
type Result struct {
	Posts Posts    `json:"posts"`
	Games []string `json:"games"`
}

// EmptyResult returns a well-formed result with no entries. Lists are
// non-nil so they encode as [] rather than null.
func EmptyResult() *Result {
	return &Result{
		Posts: Posts{
			Highlights: []string{},
			Images:     []string{},
			Thoughts:   []string{},
		},
		Games: []string{},
	}
}

// Len returns the total number of identifiers across all lists.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Posts.Highlights) + len(r.Posts.Images) + len(r.Posts.Thoughts) + len(r.Games)
}

// Persisted is the value written to the feed store.
type Persisted struct {
	Data        *Result   `json:"data"`
	GeneratedAt time.Time `json:"generatedAt"`
}
