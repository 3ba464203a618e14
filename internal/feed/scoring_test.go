// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package feed

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/playmaker/internal/store"
)

func newTestScorer() *Scorer {
	return NewScorer(DefaultConfig().Scoring)
}

func TestBaseEngagement(t *testing.T) {
	s := newTestScorer()
	it := Item{ViewCount: 10, Likes: 3, Comments: 2, Shares: 1, Saves: 4}
	// 10*1 + 3*2 + 2*4 + 1*6 + 4*5
	if got := s.BaseEngagement(it); got != 50 {
		t.Errorf("BaseEngagement = %v, want 50", got)
	}
}

func TestLogCompress_OrderOfMagnitude(t *testing.T) {
	s := newTestScorer()
	big := LogCompress(s.BaseEngagement(Item{Likes: 1000}))
	small := LogCompress(s.BaseEngagement(Item{Likes: 10}))
	if big <= small {
		t.Fatalf("more likes should still score higher: %v <= %v", big, small)
	}
	if big/small >= 10 {
		t.Errorf("1000 vs 10 likes differ by %vx, want less than 10x", big/small)
	}
	if LogCompress(0) != 0 {
		t.Errorf("LogCompress(0) = %v", LogCompress(0))
	}
}

func TestDecayDivisor(t *testing.T) {
	s := newTestScorer()
	tests := []struct {
		name      string
		createdAt time.Time
		want      float64
	}{
		{"missing timestamp", time.Time{}, 1},
		{"two hours", testNow.Add(-2 * time.Hour), 1},
		{"three days", testNow.Add(-72 * time.Hour), 3},
		{"future", testNow.Add(48 * time.Hour), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.DecayDivisor(tt.createdAt, testNow); !approxEqual(got, tt.want) {
				t.Errorf("DecayDivisor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVelocityMultiplier(t *testing.T) {
	s := newTestScorer()
	tests := []struct {
		velocity float64
		want     float64
	}{
		{0, 1},
		{5, 1.5},
		{10, 2},
		{500, 2},
		{-3, 1},
	}
	for _, tt := range tests {
		if got := s.VelocityMultiplier(tt.velocity); !approxEqual(got, tt.want) {
			t.Errorf("VelocityMultiplier(%v) = %v, want %v", tt.velocity, got, tt.want)
		}
	}
}

func TestColdStartMultiplier(t *testing.T) {
	s := newTestScorer()
	young := testNow.Add(-10 * day)
	tests := []struct {
		name   string
		author Author
		want   float64
	}{
		{"new account no posts", Author{CreatedAt: young}, 2.0},
		{"new account three posts", Author{CreatedAt: young, PostCount: 3}, 1.4},
		{"new account five posts", Author{CreatedAt: young, PostCount: 5}, 1.0},
		{"new account six posts", Author{CreatedAt: young, PostCount: 6}, 1.0},
		{"unknown creation is new", Author{PostCount: 1}, 1.8},
		{"established account", Author{CreatedAt: testNow.Add(-40 * day)}, 1.0},
		{"exactly thirty days", Author{CreatedAt: testNow.Add(-30 * day)}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ColdStartMultiplier(&tt.author, testNow); !approxEqual(got, tt.want) {
				t.Errorf("ColdStartMultiplier = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrustMultiplier(t *testing.T) {
	s := newTestScorer()
	old := testNow.Add(-400 * day)
	tests := []struct {
		name   string
		author Author
		want   float64
	}{
		{"plain fan", Author{Role: "fan"}, 1.0},
		{"unknown role", Author{Role: "commentator"}, 1.0},
		{"verified scout", Author{Verified: true, Role: "scout"}, 3.0},
		{"coach", Author{Role: "coach"}, 1.5},
		{"team", Author{Role: "team"}, 1.2},
		{"athlete", Author{Role: "athlete"}, 1.1},
		{"veteran", Author{CreatedAt: old}, 1.1},
		{"nine followers", Author{Followers: 9}, 1.1},
		{"warned", Author{Warnings: 1}, 0.8},
		{"banned", Author{Verified: true, Role: "scout", Followers: 1000, Banned: true}, 0},
		{"shadow banned", Author{ShadowBanned: true}, 0.1},
		{"banned and shadow banned", Author{Banned: true, ShadowBanned: true}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.TrustMultiplier(&tt.author, testNow); !approxEqual(got, tt.want) {
				t.Errorf("TrustMultiplier = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPersonalization(t *testing.T) {
	s := newTestScorer()
	v := &Viewer{
		ID:               "viewer",
		Following:        NewSet("a"),
		FavoriteAthletes: NewSet("a"),
		FavoriteTeams:    NewSet("team"),
		FavoriteSports:   NewSet("soccer"),
		InterestedSports: NewSet("soccer", "tennis"),
		InterestedTags:   NewSet("derby"),
		Tags:             NewSet("local"),
		LikedPosts:       NewSet("p1"),
		SavedPosts:       NewSet("p1"),
	}

	tests := []struct {
		name     string
		item     Item
		authorID string
		want     float64
	}{
		{"stranger no overlap", Item{ID: "x", Sport: "golf"}, "z", 0},
		{"followed favorite athlete", Item{ID: "x"}, "a", 80},
		{"favorite team", Item{ID: "x"}, "team", 40},
		{"favorite sport beats interested", Item{ID: "x", Sport: "soccer"}, "z", 20},
		{"interested sport", Item{ID: "x", Sport: "tennis"}, "z", 10},
		{"tags from both sets", Item{ID: "x", Tags: []string{"derby", "local", "other"}}, "z", 10},
		{"liked and saved", Item{ID: "p1"}, "z", 35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Personalization(v, tt.item, tt.authorID); got != tt.want {
				t.Errorf("Personalization = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore_Combines(t *testing.T) {
	s := newTestScorer()
	v := &Viewer{ID: "viewer", Following: NewSet("a")}
	it := Item{ID: "a-1", Likes: 4, Velocity: 5, CreatedAt: testNow.Add(-48 * time.Hour)}
	a := &Author{ID: "a", Role: "coach", CreatedAt: testNow.Add(-100 * day), PostCount: 20}

	si, err := s.Score(v, it, "a", a, testNow)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	wantGlobal := (math.Log10(9) / 2) * 1.5 * 1.0 * 1.5
	if !approxEqual(si.Global, wantGlobal) {
		t.Errorf("Global = %v, want %v", si.Global, wantGlobal)
	}
	if want := wantGlobal*0.6 + 30*0.4; !approxEqual(si.Score, want) {
		t.Errorf("Score = %v, want %v", si.Score, want)
	}
	if si.Age != 48*time.Hour || si.AuthorPosts != 20 {
		t.Errorf("Age/AuthorPosts = %v/%d", si.Age, si.AuthorPosts)
	}
}

func TestScore_BannedAuthorHasZeroGlobal(t *testing.T) {
	s := newTestScorer()
	v := &Viewer{ID: "viewer"}
	it := Item{ID: "b-1", ViewCount: 100000, Likes: 5000, Velocity: 50, CreatedAt: testNow.Add(-time.Hour)}

	si, err := s.Score(v, it, "b", &Author{ID: "b", Verified: true, Banned: true}, testNow)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if si.Trust != 0 || si.Global != 0 || si.Score != 0 {
		t.Errorf("banned item: trust=%v global=%v score=%v, want all 0", si.Trust, si.Global, si.Score)
	}
}

func TestScore_Failures(t *testing.T) {
	v := &Viewer{ID: "viewer"}
	a := &Author{ID: "a"}

	t.Run("unreadable timestamp", func(t *testing.T) {
		it := Item{ID: "a-1", decodeErr: store.ErrUnreadableTime}
		_, err := newTestScorer().Score(v, it, "a", a, testNow)
		var se *scoringError
		if !errors.As(err, &se) || se.ItemID != "a-1" {
			t.Fatalf("expected scoringError for a-1, got %v", err)
		}
	})

	t.Run("non-finite", func(t *testing.T) {
		cfg := DefaultConfig().Scoring
		cfg.Personalization.Following = math.Inf(1)
		_, err := NewScorer(cfg).Score(&Viewer{Following: NewSet("a")}, Item{ID: "a-1"}, "a", a, testNow)
		if !errors.Is(err, errNonFiniteScore) {
			t.Fatalf("expected errNonFiniteScore, got %v", err)
		}
	})

	t.Run("panic is recovered", func(t *testing.T) {
		cfg := DefaultConfig().Scoring
		s := NewScorer(cfg)
		// A nil viewer panics on the first set access.
		_, err := s.Score(nil, Item{ID: "a-1"}, "a", a, testNow)
		if err == nil {
			t.Fatal("expected error from recovered panic")
		}
	})
}
