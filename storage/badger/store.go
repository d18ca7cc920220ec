// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package badger provides a durable storage.Store backed by BadgerDB. Each
// client/server pair gets its own database directory so concurrent clients
// never share a key space.
package badger

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/absmach/mqttcore/storage"
)

var _ storage.Store = (*Store)(nil)

// Config holds BadgerDB configuration.
type Config struct {
	// Dir is the root directory; per-session databases are created below it.
	Dir string

	// GCInterval is how often the value log garbage collector runs.
	// Zero means the default of five minutes.
	GCInterval time.Duration
}

// Store is a BadgerDB-backed implementation of storage.Store.
type Store struct {
	cfg Config

	mu       sync.Mutex
	db       *badger.DB
	gcStopCh chan struct{}
	gcDone   chan struct{}
}

// New creates a BadgerDB store rooted at cfg.Dir. The database itself is
// opened on Open, once the session identity is known.
func New(cfg Config) *Store {
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = 5 * time.Minute
	}
	return &Store{cfg: cfg}
}

// Open opens (or creates) the database for the given client session.
// Reopening an already-open store is a no-op.
func (s *Store) Open(clientID, serverAddr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}

	dir := filepath.Join(s.cfg.Dir, sessionDir(clientID, serverAddr))

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable BadgerDB's internal logging
	// In-flight state is re-creatable from the session on restart.
	opts.SyncWrites = false
	opts.NumVersionsToKeep = 1
	opts.NumCompactors = 2

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("failed to open badger store: %w", err)
	}

	s.db = db
	s.gcStopCh = make(chan struct{})
	s.gcDone = make(chan struct{})
	go s.runGC()

	return nil
}

// Close stops the garbage collector and closes the database. Data persists
// for a later Open.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}

	close(s.gcStopCh)
	<-s.gcDone

	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) Clear() error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	return db.DropAll()
}

func (s *Store) ContainsKey(key string) bool {
	db, err := s.handle()
	if err != nil {
		return false
	}

	err = db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	return err == nil
}

func (s *Store) Keys() ([]string, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var keys []string
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *Store) Put(key string, value []byte) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	return db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (s *Store) Get(key string) ([]byte, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var value []byte
	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) Remove(key string) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	return db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (s *Store) handle() (*badger.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, storage.ErrNotOpen
	}
	return s.db, nil
}

// runGC periodically runs BadgerDB value log garbage collection.
func (s *Store) runGC() {
	defer close(s.gcDone)

	ticker := time.NewTicker(s.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.gcStopCh:
			return
		case <-ticker.C:
			// Rerun while it keeps reclaiming space.
			for s.db.RunValueLogGC(0.5) == nil {
			}
		}
	}
}

// sessionDir derives a filesystem-safe directory name from the session
// identity.
func sessionDir(clientID, serverAddr string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_")
	return r.Replace(clientID) + "-" + r.Replace(serverAddr)
}
