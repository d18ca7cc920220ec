// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// TokenKind identifies the kind of request a token tracks, for diagnostics.
type TokenKind int

const (
	TokenConnect TokenKind = iota
	TokenSubscribe
	TokenUnsubscribe
	TokenPublish
	TokenDisconnect
	TokenPing
)

// String returns the token kind name.
func (k TokenKind) String() string {
	switch k {
	case TokenConnect:
		return "connect"
	case TokenSubscribe:
		return "subscribe"
	case TokenUnsubscribe:
		return "unsubscribe"
	case TokenPublish:
		return "publish"
	case TokenDisconnect:
		return "disconnect"
	case TokenPing:
		return "ping"
	default:
		return "unknown"
	}
}

// Token tracks one outstanding asynchronous request. It is created in the
// pending state when the request is issued and resolved exactly once by the
// packet engine, on the engine's own goroutine, through Complete or Fail.
// Any number of application goroutines may wait on or poll the token; reads
// of a resolved token are idempotent.
//
// The token's ID is the opaque context handle the engine carries until its
// single completion callback fires; the token must stay reachable from
// issuance until the application has consumed the result.
type Token struct {
	id      string
	kind    TokenKind
	created time.Time

	mu       sync.Mutex
	resolved bool
	result   any
	err      error
	done     chan struct{}

	// onSettle runs once, after resolution, before waiters wake. Used for
	// inflight accounting and persistence cleanup.
	onSettle func(*Token)
}

func newToken(kind TokenKind) *Token {
	return &Token{
		id:      uuid.NewString(),
		kind:    kind,
		created: time.Now(),
		done:    make(chan struct{}),
	}
}

// ID returns the token's opaque identity.
func (t *Token) ID() string {
	return t.id
}

// Kind returns the kind of request this token tracks.
func (t *Token) Kind() TokenKind {
	return t.kind
}

// Done returns a channel that closes when the token resolves, for
// select-based waits.
func (t *Token) Done() <-chan struct{} {
	return t.done
}

// Complete resolves the token successfully with an optional response
// payload (SUBACK reason codes, CONNACK details, and so on) and wakes all
// waiters.
//
// The engine must resolve each token at most once; a second Complete or
// Fail is a contract violation and is ignored, never an overwrite.
func (t *Token) Complete(result any) bool {
	return t.settle(result, nil)
}

// Fail resolves the token with the error detail carried to waiters.
// See Complete for the single-resolution precondition.
func (t *Token) Fail(err error) bool {
	return t.settle(nil, err)
}

func (t *Token) settle(result any, err error) bool {
	t.mu.Lock()
	if t.resolved {
		t.mu.Unlock()
		return false
	}
	t.resolved = true
	t.result = result
	t.err = err
	onSettle := t.onSettle
	t.mu.Unlock()

	if onSettle != nil {
		onSettle(t)
	}
	close(t.done)
	return true
}

// Wait blocks until the token resolves, returning nil on success or the
// failure detail.
func (t *Token) Wait() error {
	<-t.done
	return t.Error()
}

// WaitTimeout blocks until the token resolves or the timeout elapses. A
// still-pending token yields ErrTimeout, distinct from both success and
// operation failure.
func (t *Token) WaitTimeout(d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-t.done:
		return t.Error()
	case <-timer.C:
		return ErrTimeout
	}
}

// Resolved reports whether the token has been completed or failed.
func (t *Token) Resolved() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resolved
}

// Result returns the response payload, nil while pending or failed.
func (t *Token) Result() any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

// Error returns the failure detail, nil while pending or on success.
func (t *Token) Error() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// tokenStore tracks outstanding tokens so the client can bound the number
// of inflight requests and force-fail everything on teardown.
type tokenStore struct {
	mu          sync.Mutex
	outstanding map[string]*Token
	maxInflight int
}

func newTokenStore(maxInflight int) *tokenStore {
	return &tokenStore{
		outstanding: make(map[string]*Token),
		maxInflight: maxInflight,
	}
}

// add creates and registers a pending token, or returns ErrMaxInflight.
// The extra settle hook, if any, runs after the store's own bookkeeping.
func (s *tokenStore) add(kind TokenKind, onSettle func(*Token)) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxInflight > 0 && len(s.outstanding) >= s.maxInflight {
		return nil, ErrMaxInflight
	}

	t := newToken(kind)
	t.onSettle = func(t *Token) {
		s.release(t.id)
		if onSettle != nil {
			onSettle(t)
		}
	}
	s.outstanding[t.id] = t
	return t, nil
}

// get returns an outstanding token by ID, nil if already settled.
func (s *tokenStore) get(id string) *Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outstanding[id]
}

func (s *tokenStore) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.outstanding, id)
}

// count returns the number of outstanding tokens.
func (s *tokenStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.outstanding)
}

// failAll fails every outstanding token with err. Used on teardown, when
// the engine can no longer deliver completions.
func (s *tokenStore) failAll(err error) {
	s.mu.Lock()
	pending := make([]*Token, 0, len(s.outstanding))
	for _, t := range s.outstanding {
		pending = append(pending, t)
	}
	s.mu.Unlock()

	for _, t := range pending {
		t.Fail(err)
	}
}
