// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"errors"
	"sync"

	"github.com/absmach/mqttcore/queue"
)

// consumer owns the client's event queue. While active, every inbound
// message and connection-state change is appended as an Event; a bounded
// queue makes a slow consumer back-pressure the engine's delivery
// goroutine, which is deliberate pacing rather than a defect.
//
// Stopping closes the queue: a consumer loop drains the remaining events
// and then gets the queue's closed error as its termination signal.
type consumer struct {
	client *Client

	mu     sync.RWMutex
	events *queue.Queue[Event]
}

func newConsumer(c *Client) *consumer {
	return &consumer{client: c}
}

// start activates consuming and returns the event queue. Calling start
// while already consuming returns the existing queue.
func (cn *consumer) start(capacity int) *queue.Queue[Event] {
	cn.mu.Lock()
	defer cn.mu.Unlock()

	if cn.events != nil && !cn.events.Closed() {
		return cn.events
	}

	if capacity > 0 {
		cn.events = queue.NewBounded[Event](capacity)
	} else {
		cn.events = queue.New[Event]()
	}
	return cn.events
}

// stop closes the event queue. Idempotent.
func (cn *consumer) stop() {
	cn.mu.Lock()
	defer cn.mu.Unlock()

	if cn.events != nil {
		cn.events.Close()
	}
}

// active reports whether events are currently being queued.
func (cn *consumer) active() bool {
	cn.mu.RLock()
	defer cn.mu.RUnlock()
	return cn.events != nil && !cn.events.Closed()
}

// emit appends an event to the queue if consuming is active. The Put may
// block on a full bounded queue; it runs on the engine's goroutine, so the
// engine's inbound delivery pauses until the consumer catches up.
func (cn *consumer) emit(ev Event) {
	cn.mu.RLock()
	q := cn.events
	cn.mu.RUnlock()

	if q == nil {
		return
	}

	if err := q.Put(ev); err != nil {
		if errors.Is(err, queue.ErrClosed) {
			cn.client.metrics.RecordEventDropped(ev.Kind())
		}
		return
	}
	cn.client.metrics.RecordEventEnqueued(ev.Kind())
}
