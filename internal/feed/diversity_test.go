// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package feed

import (
	"fmt"
	"math"
	"testing"
)

func scored(id, author, sport string, score float64) ScoredItem {
	return ScoredItem{Item: Item{ID: id, Sport: sport}, AuthorID: author, Score: score}
}

func TestDiversity_NoCapsBelowFloor(t *testing.T) {
	d := NewDiversity(DefaultConfig().Diversity)
	var items []ScoredItem
	for i := 0; i < 10; i++ {
		items = append(items, scored(fmt.Sprintf("p%d", i), "chatty", "soccer", float64(100-i)))
	}

	got := d.Rerank(items)

	if len(got) != 10 {
		t.Fatalf("got %d items, want all 10 below the floor", len(got))
	}
	for k, si := range got {
		want := float64(100-k) * math.Pow(0.9, float64(k))
		if !approxEqual(si.Score, want) {
			t.Errorf("item %d score = %v, want %v", k, si.Score, want)
		}
	}
}

func TestDiversity_AuthorCapAfterFloor(t *testing.T) {
	d := NewDiversity(DefaultConfig().Diversity)

	var items []ScoredItem
	// 20 distinct authors fill the floor with the highest scores.
	for i := 0; i < 20; i++ {
		items = append(items, scored(fmt.Sprintf("floor%d", i), fmt.Sprintf("author%d", i), fmt.Sprintf("sport%d", i), 1000-float64(i)))
	}
	// 10 items from one author, all above the remaining items.
	for i := 0; i < 10; i++ {
		items = append(items, scored(fmt.Sprintf("chatty%d", i), "chatty", fmt.Sprintf("s%d", i), 500-float64(i)))
	}
	for i := 0; i < 5; i++ {
		items = append(items, scored(fmt.Sprintf("tail%d", i), fmt.Sprintf("tail%d", i), "tail", 10-float64(i)))
	}

	got := d.Rerank(items)

	chatty := 0
	for _, si := range got {
		if si.AuthorID == "chatty" {
			chatty++
		}
	}
	if chatty != 3 {
		t.Errorf("chatty author has %d items, want 3", chatty)
	}
	if len(got) != 20+3+5 {
		t.Errorf("got %d items, want 28", len(got))
	}
}

func TestDiversity_SportCapAfterFloor(t *testing.T) {
	d := NewDiversity(DiversityConfig{Floor: 2, MaxPerAuthor: 10, MaxPerSport: 3, AuthorPenalty: 1, DefaultSport: "general"})

	items := []ScoredItem{
		scored("a", "u1", "", 10),
		scored("b", "u2", "", 9),
		scored("c", "u3", "", 8),
		scored("d", "u4", "", 7),
		scored("e", "u5", "golf", 6),
	}

	got := d.Rerank(items)

	var order []string
	for _, si := range got {
		order = append(order, si.Item.ID)
	}
	want := []string{"a", "b", "c", "e"}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Errorf("order = %v, want %v (missing sport counts as general)", order, want)
	}
}

func TestDiversity_PreservesAcceptanceOrder(t *testing.T) {
	d := NewDiversity(DefaultConfig().Diversity)
	// After the penalty x2 (0.9*10=9) falls below y (9.5), but the output
	// keeps acceptance order rather than re-sorting.
	items := []ScoredItem{
		scored("y", "other", "s", 9.5),
		scored("x1", "x", "s", 11),
		scored("x2", "x", "s", 10),
	}

	got := d.Rerank(items)

	want := []string{"x1", "x2", "y"}
	for i, id := range want {
		if got[i].Item.ID != id {
			t.Fatalf("position %d = %s, want %s", i, got[i].Item.ID, id)
		}
	}
	if !approxEqual(got[1].Score, 9) {
		t.Errorf("x2 score = %v, want 9", got[1].Score)
	}
}

func TestSortByScore_TiesBreakOnID(t *testing.T) {
	items := []ScoredItem{scored("b", "", "", 1), scored("a", "", "", 1), scored("c", "", "", 2)}
	SortByScore(items)
	if items[0].Item.ID != "c" || items[1].Item.ID != "a" || items[2].Item.ID != "b" {
		t.Errorf("order = %s %s %s", items[0].Item.ID, items[1].Item.ID, items[2].Item.ID)
	}
}
