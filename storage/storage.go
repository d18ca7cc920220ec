// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package storage defines the pluggable persistence contract the client core
// uses to stash in-flight protocol state across restarts. Keys and values
// are opaque byte sequences; a backend is free to transform them (encoding,
// encryption) as long as Get inverts Put.
package storage

import "errors"

// Storage errors.
var (
	// ErrNotFound is returned by Get when the key is absent.
	ErrNotFound = errors.New("storage: key not found")

	// ErrNotOpen is returned when the store is used before Open or after
	// Close.
	ErrNotOpen = errors.New("storage: store not open")
)

// Store is a key/value persistence backend scoped to one client/server
// pair. Open is called once before any other operation, with the client ID
// and server address identifying the session the data belongs to.
// Implementations must be safe for concurrent use.
type Store interface {
	// Open prepares the store for the given client session.
	Open(clientID, serverAddr string) error

	// Close releases the store. Data persists for a later Open.
	Close() error

	// Clear removes every key in the store.
	Clear() error

	// ContainsKey reports whether the key is present.
	ContainsKey(key string) bool

	// Keys returns all keys currently in the store.
	Keys() ([]string, error)

	// Put stores the value under key, replacing any previous value.
	Put(key string, value []byte) error

	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)

	// Remove deletes the key. Removing an absent key is not an error.
	Remove(key string) error
}
