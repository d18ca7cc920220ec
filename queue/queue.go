// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package queue provides a bounded, thread-safe FIFO queue with blocking,
// timed, and non-blocking variants of put and get. It is used to hand
// inbound protocol events to a consuming application and, internally, to
// pace producers against slow consumers.
package queue

import (
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned by Put once the queue is closed, and by Get once the
// queue is closed and drained. For a consumer loop it is the expected
// termination signal, not a fault.
var ErrClosed = errors.New("queue is closed")

// Queue is a FIFO queue safe for concurrent use by any number of producer
// and consumer goroutines. A capacity of zero means unbounded. Close is
// irreversible: no new items are accepted afterwards, but items already
// buffered remain retrievable until the queue is drained.
//
// Ordering is FIFO across all producers combined, in lock-arrival order.
// Each queue owns its own lock; distinct queues are fully independent.
type Queue[T any] struct {
	mu       sync.Mutex
	items    []T
	capacity int
	closed   bool

	// Broadcast channels: closed and replaced whenever a waiter on that
	// side may be unblocked. Waiters snapshot the channel under the lock,
	// release the lock, block on the snapshot, then re-check the predicate.
	notEmpty chan struct{}
	notFull  chan struct{}
}

// New creates an unbounded queue.
func New[T any]() *Queue[T] {
	return NewBounded[T](0)
}

// NewBounded creates a queue holding at most capacity buffered items.
// A capacity <= 0 means unbounded.
func NewBounded[T any](capacity int) *Queue[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue[T]{
		capacity: capacity,
		notEmpty: make(chan struct{}),
		notFull:  make(chan struct{}),
	}
}

// Put appends an item, blocking until capacity is available. It returns
// ErrClosed if the queue is closed before the item is accepted; the item is
// never partially enqueued. Unbounded queues never block.
func (q *Queue[T]) Put(item T) error {
	q.mu.Lock()
	for {
		if q.closed {
			q.mu.Unlock()
			return ErrClosed
		}
		if q.capacity <= 0 || len(q.items) < q.capacity {
			q.push(item)
			q.mu.Unlock()
			return nil
		}
		wait := q.notFull
		q.mu.Unlock()
		<-wait
		q.mu.Lock()
	}
}

// TryPut appends an item without blocking. It returns false if the queue is
// full or closed.
func (q *Queue[T]) TryPut(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || (q.capacity > 0 && len(q.items) >= q.capacity) {
		return false
	}
	q.push(item)
	return true
}

// TryPutFor appends an item, waiting up to d for capacity. It returns false
// on timeout or if the queue is closed.
func (q *Queue[T]) TryPutFor(item T, d time.Duration) bool {
	return q.TryPutUntil(item, time.Now().Add(d))
}

// TryPutUntil appends an item, waiting until deadline for capacity. It
// returns false on timeout or if the queue is closed.
func (q *Queue[T]) TryPutUntil(item T, deadline time.Time) bool {
	q.mu.Lock()
	for {
		if q.closed {
			q.mu.Unlock()
			return false
		}
		if q.capacity <= 0 || len(q.items) < q.capacity {
			q.push(item)
			q.mu.Unlock()
			return true
		}
		d := time.Until(deadline)
		if d <= 0 {
			q.mu.Unlock()
			return false
		}
		wait := q.notFull
		q.mu.Unlock()

		timer := time.NewTimer(d)
		select {
		case <-wait:
			timer.Stop()
		case <-timer.C:
		}
		q.mu.Lock()
	}
}

// Get removes and returns the head item, blocking until one is available.
// A closed queue still yields its buffered items; once closed and empty,
// Get returns ErrClosed.
func (q *Queue[T]) Get() (T, error) {
	q.mu.Lock()
	for {
		if len(q.items) > 0 {
			item := q.pop()
			q.mu.Unlock()
			return item, nil
		}
		if q.closed {
			q.mu.Unlock()
			var zero T
			return zero, ErrClosed
		}
		wait := q.notEmpty
		q.mu.Unlock()
		<-wait
		q.mu.Lock()
	}
}

// TryGet removes and returns the head item without blocking. The second
// return value is false when nothing was retrieved.
func (q *Queue[T]) TryGet() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return q.pop(), true
}

// TryGetFor removes and returns the head item, waiting up to d for one to
// arrive. The second return value is false on timeout and when the queue is
// closed and empty.
func (q *Queue[T]) TryGetFor(d time.Duration) (T, bool) {
	return q.TryGetUntil(time.Now().Add(d))
}

// TryGetUntil removes and returns the head item, waiting until deadline for
// one to arrive.
func (q *Queue[T]) TryGetUntil(deadline time.Time) (T, bool) {
	q.mu.Lock()
	for {
		if len(q.items) > 0 {
			item := q.pop()
			q.mu.Unlock()
			return item, true
		}
		if q.closed {
			q.mu.Unlock()
			var zero T
			return zero, false
		}
		d := time.Until(deadline)
		if d <= 0 {
			q.mu.Unlock()
			var zero T
			return zero, false
		}
		wait := q.notEmpty
		q.mu.Unlock()

		timer := time.NewTimer(d)
		select {
		case <-wait:
			timer.Stop()
		case <-timer.C:
		}
		q.mu.Lock()
	}
}

// Close marks the queue closed and wakes every blocked producer and
// consumer. Buffered items are not discarded. Close is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.notEmpty)
	close(q.notFull)
}

// Len returns the number of buffered items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Empty reports whether the queue holds no items.
func (q *Queue[T]) Empty() bool {
	return q.Len() == 0
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Done reports whether the queue is closed and drained.
func (q *Queue[T]) Done() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed && len(q.items) == 0
}

// Capacity returns the capacity bound, 0 for unbounded.
func (q *Queue[T]) Capacity() int {
	return q.capacity
}

// push appends and signals consumers. Caller holds the lock.
func (q *Queue[T]) push(item T) {
	q.items = append(q.items, item)
	q.signal(&q.notEmpty)
}

// pop removes the head and signals producers. Caller holds the lock and has
// checked the queue is non-empty.
func (q *Queue[T]) pop() T {
	item := q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	q.signal(&q.notFull)
	return item
}

// signal broadcasts to the waiters on ch by closing it and installing a
// fresh channel. After Close both channels stay closed for good.
func (q *Queue[T]) signal(ch *chan struct{}) {
	if q.closed {
		return
	}
	close(*ch)
	*ch = make(chan struct{})
}
