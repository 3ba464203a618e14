// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

// Package store defines the two storage contracts the feed engine consumes:
// a queryable document store holding posts, events and users, and a
// key-value real-time store that receives each generated feed.
//
// Backends live in subpackages (badgerstore, natskv, redisstore). Query
// evaluation shared by backends that filter in process is in query.go.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Collections read by the feed engine.
const (
	CollectionPosts  = "posts"
	CollectionEvents = "events"
	CollectionUsers  = "users"
)

// MaxInValues is the largest value list accepted by OpIn and
// OpArrayContainsAny in one query.
const MaxInValues = 10

var (
	// ErrNotFound is returned by GetByID when no document has the id.
	ErrNotFound = errors.New("store: document not found")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("store: closed")

	// ErrTooManyValues is returned when a set operator receives more than MaxInValues values.
	ErrTooManyValues = fmt.Errorf("store: set operators accept at most %d values", MaxInValues)

	// ErrUnsupportedOp is returned for an unknown operator.
	ErrUnsupportedOp = errors.New("store: unsupported operator")
)

// Op is a query filter operator.
type Op string

// Supported operators.
const (
	OpEqual            Op = "=="
	OpIn               Op = "in"
	OpArrayContainsAny Op = "array-contains-any"
)

// Direction orders query results.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Query describes one queryByField call. An empty Field means no filter.
// Field and OrderBy accept one level of nesting ("data.sport").
type Query struct {
	Collection string
	Field      string
	Op         Op
	Value      interface{}
	OrderBy    string
	Direction  Direction
	Limit      int
}

// Validate checks the query shape before it reaches a backend.
func (q Query) Validate() error {
	if q.Collection == "" {
		return errors.New("store: query collection is required")
	}
	if q.Limit < 0 {
		return fmt.Errorf("store: query limit must be >= 0, got %d", q.Limit)
	}
	if q.Field == "" {
		return nil
	}
	switch q.Op {
	case OpEqual:
		return nil
	case OpIn, OpArrayContainsAny:
		values, ok := asSlice(q.Value)
		if !ok {
			return fmt.Errorf("store: %s requires a list value, got %T", q.Op, q.Value)
		}
		if len(values) > MaxInValues {
			return fmt.Errorf("%w: got %d", ErrTooManyValues, len(values))
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedOp, q.Op)
	}
}

// Document is one stored record.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

// DocumentStore is the read side the feed engine queries.
type DocumentStore interface {
	// QueryByField returns documents matching q, ordered and limited as q says.
	QueryByField(ctx context.Context, q Query) ([]Document, error)

	// GetByID returns one document or ErrNotFound.
	GetByID(ctx context.Context, collection, id string) (Document, error)
}

// FeedStore is the key-value real-time store. Overwrite replaces the value
// at path in full; a failed call leaves the previous value in place.
type FeedStore interface {
	Overwrite(ctx context.Context, path string, value interface{}) error
}

// FeedPath returns the key a viewer's feed is written to.
func FeedPath(viewerID string) string {
	return "feed/" + viewerID
}
