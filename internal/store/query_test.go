// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package store

import (
	"errors"
	"testing"
)

func doc(id string, fields map[string]interface{}) Document {
	return Document{ID: id, Fields: fields}
}

func ids(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Query
		wantErr error
		ok      bool
	}{
		{name: "no filter", q: Query{Collection: CollectionPosts, Limit: 40}, ok: true},
		{name: "equal", q: Query{Collection: CollectionEvents, Field: "type", Op: OpEqual, Value: "game"}, ok: true},
		{name: "in with ten", q: Query{Collection: CollectionPosts, Field: "userId", Op: OpIn, Value: make([]string, 10)}, ok: true},
		{name: "in with eleven", q: Query{Collection: CollectionPosts, Field: "userId", Op: OpIn, Value: make([]string, 11)}, wantErr: ErrTooManyValues},
		{name: "unknown op", q: Query{Collection: CollectionPosts, Field: "userId", Op: ">="}, wantErr: ErrUnsupportedOp},
		{name: "missing collection", q: Query{}},
		{name: "in with scalar", q: Query{Collection: CollectionPosts, Field: "userId", Op: OpIn, Value: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDocumentLookup(t *testing.T) {
	d := doc("p1", map[string]interface{}{
		"sport": "soccer",
		"data":  map[string]interface{}{"sport": "tennis"},
	})

	if v, ok := d.Lookup("sport"); !ok || v != "soccer" {
		t.Errorf("Lookup(sport) = %v, %v", v, ok)
	}
	if v, ok := d.Lookup("data.sport"); !ok || v != "tennis" {
		t.Errorf("Lookup(data.sport) = %v, %v", v, ok)
	}
	if _, ok := d.Lookup("sport.name"); ok {
		t.Error("Lookup through a scalar should fail")
	}
	if _, ok := d.Lookup("missing"); ok {
		t.Error("Lookup(missing) should fail")
	}
}

func TestMatches(t *testing.T) {
	d := doc("p1", map[string]interface{}{
		"userId":    "alice",
		"viewCount": float64(12),
		"tags":      []interface{}{"derby", "goal"},
	})

	tests := []struct {
		name string
		q    Query
		want bool
	}{
		{"equal string", Query{Field: "userId", Op: OpEqual, Value: "alice"}, true},
		{"equal number across types", Query{Field: "viewCount", Op: OpEqual, Value: 12}, true},
		{"in hit", Query{Field: "userId", Op: OpIn, Value: []string{"bob", "alice"}}, true},
		{"in miss", Query{Field: "userId", Op: OpIn, Value: []string{"bob"}}, false},
		{"array contains any hit", Query{Field: "tags", Op: OpArrayContainsAny, Value: []string{"goal"}}, true},
		{"array contains any on scalar", Query{Field: "userId", Op: OpArrayContainsAny, Value: []string{"alice"}}, false},
		{"missing field", Query{Field: "sport", Op: OpEqual, Value: "soccer"}, false},
		{"no filter", Query{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(d, tt.q); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApply_OrdersByTimeDescendingAndLimits(t *testing.T) {
	docs := []Document{
		doc("old", map[string]interface{}{"type": "game", "createdAt": "2026-01-01T00:00:00Z"}),
		doc("new", map[string]interface{}{"type": "game", "createdAt": "2026-03-01T00:00:00Z"}),
		doc("mid", map[string]interface{}{"type": "game", "createdAt": "2026-02-01T10:00:00+02:00"}),
		doc("undated", map[string]interface{}{"type": "game"}),
		doc("practice", map[string]interface{}{"type": "practice", "createdAt": "2026-04-01T00:00:00Z"}),
	}

	got := Apply(docs, Query{Field: "type", Op: OpEqual, Value: "game", OrderBy: "createdAt", Direction: Desc})
	want := []string{"new", "mid", "old", "undated"}
	if !equalIDs(ids(got), want) {
		t.Errorf("Apply() = %v, want %v", ids(got), want)
	}

	got = Apply(docs, Query{OrderBy: "createdAt", Direction: Desc, Limit: 2})
	want = []string{"practice", "new"}
	if !equalIDs(ids(got), want) {
		t.Errorf("Apply() with limit = %v, want %v", ids(got), want)
	}
}

func TestDocumentDecode(t *testing.T) {
	var out struct {
		UserID string   `json:"userId"`
		Likes  []string `json:"likes"`
		Views  int      `json:"viewCount"`
	}
	d := doc("p1", map[string]interface{}{
		"userId":    "alice",
		"likes":     []interface{}{"u1", "u2"},
		"viewCount": float64(7),
	})
	if err := d.Decode(&out); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if out.UserID != "alice" || len(out.Likes) != 2 || out.Views != 7 {
		t.Errorf("Decode() = %+v", out)
	}
}

func TestFeedPath(t *testing.T) {
	if got := FeedPath("u42"); got != "feed/u42" {
		t.Errorf("FeedPath() = %q", got)
	}
}
