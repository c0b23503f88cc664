// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/pressfeed/internal/logging"
	"github.com/tomtom215/pressfeed/internal/metrics"
)

// Errors
var (
	// ErrNotFound is returned when a key is missing or its TTL has elapsed.
	ErrNotFound = errors.New("snapshot not found")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("snapshot store is closed")
)

// keyPrefix namespaces snapshot keys inside the database.
const keyPrefix = "snapshot:"

// Config holds snapshot store settings.
type Config struct {
	// Path is the BadgerDB directory. Empty selects in-memory mode.
	Path string

	// TTL is applied to every snapshot written with Put.
	TTL time.Duration

	// GCRatio is the discard ratio passed to RunValueLogGC.
	GCRatio float64

	// CloseTimeout bounds how long Close waits for Badger to flush.
	CloseTimeout time.Duration
}

// DefaultConfig returns in-memory settings with a 24h TTL.
func DefaultConfig() Config {
	return Config{
		TTL:          24 * time.Hour,
		GCRatio:      0.5,
		CloseTimeout: 30 * time.Second,
	}
}

// Snapshot is a stored value together with the time it was written.
type Snapshot struct {
	SavedAt time.Time       `json:"saved_at"`
	Data    json.RawMessage `json:"data"`
}

// Age returns how long ago the snapshot was written.
func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.SavedAt)
}

// Decode unmarshals the stored value into v.
func (s Snapshot) Decode(v interface{}) error {
	return json.Unmarshal(s.Data, v)
}

// Store keeps last-known-good upstream responses in BadgerDB.
type Store struct {
	db     *badger.DB
	config Config

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the store described by cfg.
func Open(cfg Config) (*Store, error) {
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("snapshot TTL must be positive, got %v", cfg.TTL)
	}
	if cfg.GCRatio <= 0 || cfg.GCRatio >= 1 {
		cfg.GCRatio = 0.5
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = 30 * time.Second
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.Path == "" {
		opts = opts.WithInMemory(true)
	}
	// Badger's own logger is too chatty for service logs.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.Path == "").
		Dur("ttl", cfg.TTL).
		Msg("Snapshot store opened")

	return &Store{db: db, config: cfg}, nil
}

// Put writes v under key with the configured TTL.
func (s *Store) Put(ctx context.Context, key string, v interface{}) error {
	return s.PutWithTTL(ctx, key, v, s.config.TTL)
}

// PutWithTTL writes v under key with an explicit TTL.
func (s *Store) PutWithTTL(ctx context.Context, key string, v interface{}, ttl time.Duration) (err error) {
	defer func() { metrics.RecordStoreOperation("put", err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.checkOpen(); err != nil {
		return err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", key, err)
	}
	data, err := json.Marshal(Snapshot{SavedAt: time.Now().UTC(), Data: payload})
	if err != nil {
		return fmt.Errorf("marshal snapshot envelope %s: %w", key, err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(keyPrefix+key), data).WithTTL(ttl)
		if err := txn.SetEntry(e); err != nil {
			return fmt.Errorf("set snapshot %s: %w", key, err)
		}
		return nil
	})
}

// Get returns the snapshot stored under key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (snap Snapshot, err error) {
	defer func() {
		if errors.Is(err, ErrNotFound) {
			metrics.RecordStoreOperation("get_miss", nil)
			return
		}
		metrics.RecordStoreOperation("get", err)
	}()

	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	if err := s.checkOpen(); err != nil {
		return Snapshot{}, err
	}

	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get snapshot %s: %w", key, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	return snap, err
}

// Load fetches the snapshot under key and decodes it into v.
func (s *Store) Load(ctx context.Context, key string, v interface{}) (time.Time, error) {
	snap, err := s.Get(ctx, key)
	if err != nil {
		return time.Time{}, err
	}
	if err := snap.Decode(v); err != nil {
		return time.Time{}, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return snap.SavedAt, nil
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) (err error) {
	defer func() { metrics.RecordStoreOperation("delete", err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.checkOpen(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(keyPrefix + key))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete snapshot %s: %w", key, err)
		}
		return nil
	})
}

// Count returns the number of live snapshots.
func (s *Store) Count() (int, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}

	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// RunGC runs value-log GC until Badger reports nothing left to rewrite.
// In-memory stores have no value log and return immediately.
func (s *Store) RunGC() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.config.Path == "" {
		return nil
	}

	for {
		err := s.db.RunValueLogGC(s.config.GCRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Ping reports whether the store is usable.
func (s *Store) Ping() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.db.View(func(_ *badger.Txn) error { return nil })
}

// Close flushes and closes the database, giving up after CloseTimeout.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- s.db.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("close BadgerDB: %w", err)
		}
		logging.Info().Msg("Snapshot store closed")
		return nil
	case <-time.After(s.config.CloseTimeout):
		logging.Warn().Dur("timeout", s.config.CloseTimeout).Msg("BadgerDB close timed out")
		return fmt.Errorf("badgerdb close timeout after %v", s.config.CloseTimeout)
	}
}

func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}
