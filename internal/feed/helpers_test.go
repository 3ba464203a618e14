// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package feed

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/playmaker/internal/store"
)

// testNow is the frozen clock used across the package tests.
var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func ago(d time.Duration) string {
	return testNow.Add(-d).Format(time.RFC3339)
}

const day = 24 * time.Hour

// mockDocs is an in-memory DocumentStore.
type mockDocs struct {
	mu   sync.Mutex
	docs map[string][]store.Document

	// queryErr, when set, decides per query whether it fails.
	queryErr func(q store.Query) error
	getErr   func(collection, id string) error

	queries  []store.Query
	getCalls atomic.Int64
	getByID  map[string]int
}

func newMockDocs() *mockDocs {
	return &mockDocs{
		docs:    make(map[string][]store.Document),
		getByID: make(map[string]int),
	}
}

func (m *mockDocs) put(collection, id string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[collection] = append(m.docs[collection], store.Document{ID: id, Fields: fields})
}

func (m *mockDocs) QueryByField(_ context.Context, q store.Query) ([]store.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.queries = append(m.queries, q)
	docs := append([]store.Document(nil), m.docs[q.Collection]...)
	m.mu.Unlock()

	if m.queryErr != nil {
		if err := m.queryErr(q); err != nil {
			return nil, err
		}
	}
	return store.Apply(docs, q), nil
}

func (m *mockDocs) GetByID(_ context.Context, collection, id string) (store.Document, error) {
	m.getCalls.Add(1)
	m.mu.Lock()
	m.getByID[collection+"/"+id]++
	docs := m.docs[collection]
	m.mu.Unlock()

	if m.getErr != nil {
		if err := m.getErr(collection, id); err != nil {
			return store.Document{}, err
		}
	}
	for _, d := range docs {
		if d.ID == id {
			return d, nil
		}
	}
	return store.Document{}, store.ErrNotFound
}

func (m *mockDocs) recordedQueries() []store.Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.Query(nil), m.queries...)
}

func (m *mockDocs) lookups(collection, id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getByID[collection+"/"+id]
}

// mockFeeds records overwrites.
type mockFeeds struct {
	mu     sync.Mutex
	values map[string]interface{}
	writes int
	err    error
}

func newMockFeeds() *mockFeeds {
	return &mockFeeds{values: make(map[string]interface{})}
}

func (m *mockFeeds) Overwrite(_ context.Context, path string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.err != nil {
		return m.err
	}
	m.values[path] = value
	return nil
}

func (m *mockFeeds) get(path string) (Persisted, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[path]
	if !ok {
		return Persisted{}, false
	}
	p, ok := v.(Persisted)
	return p, ok
}

// fields is a short alias for document literals.
type fields = map[string]interface{}

func addUser(m *mockDocs, id string, f fields) {
	if f == nil {
		f = fields{}
	}
	m.put(store.CollectionUsers, id, f)
}

// addPost stores a post and returns its id.
func addPost(m *mockDocs, id, author, postType string, age time.Duration, f fields) string {
	if f == nil {
		f = fields{}
	}
	f["userId"] = author
	f["type"] = postType
	f["createdAt"] = ago(age)
	m.put(store.CollectionPosts, id, f)
	return id
}

func addGame(m *mockDocs, id, author string, age time.Duration, f fields) string {
	if f == nil {
		f = fields{}
	}
	if author != "" {
		f["userId"] = author
	}
	f["type"] = "game"
	f["createdAt"] = ago(age)
	m.put(store.CollectionEvents, id, f)
	return id
}

// veteranAuthor has an old account and many posts, so neither the
// cold-start boost nor the quality exemption applies.
func veteranAuthor() fields {
	return fields{
		"role":      "fan",
		"createdAt": ago(100 * day),
		"postCount": 50,
	}
}

func ids(n int, prefix string) []interface{} {
	out := make([]interface{}, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

func newTestGenerator(t *testing.T, docs store.DocumentStore, feeds store.FeedStore, cfg *Config, opts ...Option) *Generator {
	t.Helper()
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	g, err := NewGenerator(docs, feeds, cfg, zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return g
}

func allIDs(r *Result) [][]string {
	return [][]string{r.Posts.Highlights, r.Posts.Images, r.Posts.Thoughts, r.Games}
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func indexOf(list []string, id string) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

func approxEqual(a, b float64) bool {
	const eps = 1e-9
	d := a - b
	return d < eps && d > -eps
}
