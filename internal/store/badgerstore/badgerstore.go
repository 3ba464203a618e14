// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

// Package badgerstore implements the document store and the feed store on
// an embedded BadgerDB.
//
// Key layout:
//
//	doc/{collection}/{id}  JSON object of document fields
//	rt/{path}              JSON value written by Overwrite (rt/feed/{viewerId})
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/playmaker/internal/store"
)

const (
	prefixDoc      = "doc/"
	prefixRealtime = "rt/"
)

// Config configures the Badger database.
type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM. Used by tests and demo runs.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool
}

// Store is a BadgerDB-backed DocumentStore and FeedStore.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
	mu     sync.RWMutex
	closed bool
}

var (
	_ store.DocumentStore = (*Store)(nil)
	_ store.FeedStore     = (*Store)(nil)
)

// Open opens (or creates) the database.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(cfg Config, logger zerolog.Logger) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badgerstore: path is required unless in_memory is set")
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger.With().Str("component", "badgerstore").Logger(),
	}
	s.logger.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("document store opened")
	return s, nil
}

func docKey(collection, id string) []byte {
	return []byte(prefixDoc + collection + "/" + id)
}

func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return store.ErrClosed
	}
	return nil
}

// Put writes a document, replacing any previous version.
func (s *Store) Put(_ context.Context, collection, id string, fields map[string]interface{}) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(docKey(collection, id), data)
	})
}

// GetByID implements store.DocumentStore.
func (s *Store) GetByID(_ context.Context, collection, id string) (store.Document, error) {
	if err := s.checkOpen(); err != nil {
		return store.Document{}, err
	}

	doc := store.Document{ID: id}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(docKey(collection, id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc.Fields)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return store.Document{}, fmt.Errorf("%s/%s: %w", collection, id, store.ErrNotFound)
	}
	if err != nil {
		return store.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// QueryByField implements store.DocumentStore by scanning the collection
// prefix and evaluating q in process.
func (s *Store) QueryByField(ctx context.Context, q store.Query) ([]store.Document, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	// Without an order the first Limit matches are the answer.
	stopAt := 0
	if q.OrderBy == "" {
		stopAt = q.Limit
	}

	var docs []store.Document
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixDoc + q.Collection + "/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			item := it.Item()
			d := store.Document{ID: string(item.Key()[len(prefix):])}
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &d.Fields)
			}); err != nil {
				s.logger.Warn().Err(err).Str("key", string(item.Key())).Msg("skipping undecodable document")
				continue
			}
			if store.Matches(d, q) {
				docs = append(docs, d)
				if stopAt > 0 && len(docs) >= stopAt {
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Collection, err)
	}

	// Filter already applied during the scan; Apply orders and limits.
	q.Field = ""
	return store.Apply(docs, q), nil
}

// Overwrite implements store.FeedStore in a single transaction.
func (s *Store) Overwrite(_ context.Context, path string, value interface{}) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixRealtime+path), data)
	}); err != nil {
		return fmt.Errorf("overwrite %s: %w", path, err)
	}
	return nil
}

// Get reads the value at path into v.
func (s *Store) Get(_ context.Context, path string, v interface{}) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixRealtime + path))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%s: %w", path, store.ErrNotFound)
	}
	return err
}

// Ping reports whether the database is open and readable.
func (s *Store) Ping(_ context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.db.View(func(_ *badger.Txn) error { return nil })
}

// RunGC reclaims value log space until Badger reports nothing left to
// rewrite. In-memory databases have no value log and return nil.
func (s *Store) RunGC(discardRatio float64) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	for {
		err := s.db.RunValueLogGC(discardRatio)
		switch {
		case err == nil:
			continue
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
			return nil
		default:
			return fmt.Errorf("run value log GC: %w", err)
		}
	}
}

// Fixtures maps collection name to document id to fields.
type Fixtures map[string]map[string]map[string]interface{}

// LoadFixtures seeds documents from a JSON object shaped like Fixtures.
// It returns the number of documents written.
func (s *Store) LoadFixtures(ctx context.Context, r io.Reader) (int, error) {
	var fx Fixtures
	if err := json.NewDecoder(r).Decode(&fx); err != nil {
		return 0, fmt.Errorf("decode fixtures: %w", err)
	}

	n := 0
	for collection, docs := range fx {
		for id, fields := range docs {
			if err := s.Put(ctx, collection, id, fields); err != nil {
				return n, err
			}
			n++
		}
	}
	s.logger.Info().Int("documents", n).Msg("fixtures loaded")
	return n, nil
}

// Close closes the database. Further calls return store.ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
