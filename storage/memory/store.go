// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package memory provides a non-durable, in-process storage.Store. It is the
// default backend and the reference for the store contract semantics.
package memory

import (
	"sync"

	"github.com/absmach/mqttcore/storage"
)

var _ storage.Store = (*Store)(nil)

// Store is an in-memory implementation of storage.Store.
type Store struct {
	mu   sync.RWMutex
	open bool
	data map[string][]byte
}

// New creates an in-memory store.
func New() *Store {
	return &Store{}
}

// Open prepares the store. The client and server identifiers are unused
// since the store lives and dies with one client instance.
func (s *Store) Open(clientID, serverAddr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = make(map[string][]byte)
	}
	s.open = true
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	return nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return storage.ErrNotOpen
	}
	s.data = make(map[string][]byte)
	return nil
}

func (s *Store) ContainsKey(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.open {
		return false
	}
	_, ok := s.data[key]
	return ok
}

func (s *Store) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.open {
		return nil, storage.ErrNotOpen
	}
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func (s *Store) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return storage.ErrNotOpen
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	s.data[key] = cp
	return nil
}

func (s *Store) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.open {
		return nil, storage.ErrNotOpen
	}
	value, ok := s.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return storage.ErrNotOpen
	}
	delete(s.data, key)
	return nil
}
