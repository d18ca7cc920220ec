// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides an in-process loopback packet engine for tests,
// examples and demos: every request is acknowledged immediately and
// published messages matching a subscription are echoed straight back to
// the receiver. No network is involved.
package testutil

import (
	"sync"

	"github.com/absmach/mqttcore/client"
	"github.com/absmach/mqttcore/topics"
)

// Loopback implements client.Engine against no broker at all. Attach the
// client before calling Connect.
type Loopback struct {
	mu        sync.Mutex
	receiver  client.Receiver
	connected bool
	closed    bool
	filters   map[string]byte
}

// NewLoopback creates a detached loopback engine.
func NewLoopback() *Loopback {
	return &Loopback{
		filters: make(map[string]byte),
	}
}

// Attach binds the receiving side. Must be called before Connect.
func (l *Loopback) Attach(r client.Receiver) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.receiver = r
}

// Connect implements client.Engine. It succeeds immediately.
func (l *Loopback) Connect(req client.ConnectRequest, tok *client.Token) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return client.ErrClientClosed
	}
	l.connected = true
	r := l.receiver
	l.mu.Unlock()

	tok.Complete(nil)
	if r != nil {
		r.OnConnected("connect")
	}
	return nil
}

// Publish implements client.Engine. The message is acknowledged and, when
// it matches a subscription, echoed back through OnMessage on the caller's
// goroutine.
func (l *Loopback) Publish(msg *client.Message, tok *client.Token) error {
	l.mu.Lock()
	if !l.connected {
		l.mu.Unlock()
		return client.ErrNotConnected
	}
	matched := false
	for f := range l.filters {
		if topics.Match(f, msg.Topic) {
			matched = true
			break
		}
	}
	r := l.receiver
	l.mu.Unlock()

	tok.Complete(nil)
	if matched && r != nil {
		r.OnMessage(msg.Copy())
	}
	return nil
}

// Subscribe implements client.Engine.
func (l *Loopback) Subscribe(subs []client.Subscription, tok *client.Token) error {
	l.mu.Lock()
	for _, s := range subs {
		l.filters[s.Filter] = s.QoS
	}
	l.mu.Unlock()

	tok.Complete(nil)
	return nil
}

// Unsubscribe implements client.Engine.
func (l *Loopback) Unsubscribe(filters []string, tok *client.Token) error {
	l.mu.Lock()
	for _, f := range filters {
		delete(l.filters, f)
	}
	l.mu.Unlock()

	tok.Complete(nil)
	return nil
}

// Disconnect implements client.Engine.
func (l *Loopback) Disconnect(reason client.ReasonCode, tok *client.Token) error {
	l.mu.Lock()
	l.connected = false
	l.mu.Unlock()

	tok.Complete(nil)
	return nil
}

// Close implements client.Engine. All tokens are resolved synchronously at
// acceptance, so there is nothing to force-fail.
func (l *Loopback) Close() error {
	l.mu.Lock()
	l.closed = true
	l.connected = false
	l.mu.Unlock()
	return nil
}

// DropConnection simulates an abrupt network loss.
func (l *Loopback) DropConnection(cause string) {
	l.mu.Lock()
	l.connected = false
	r := l.receiver
	l.mu.Unlock()

	if r != nil {
		r.OnConnectionLost(cause)
	}
}

// ServerDisconnect simulates a DISCONNECT packet from the server.
func (l *Loopback) ServerDisconnect(reason client.ReasonCode, props client.Properties) {
	l.mu.Lock()
	l.connected = false
	r := l.receiver
	l.mu.Unlock()

	if r != nil {
		r.OnDisconnected(reason, props)
	}
}

// Inject delivers an arbitrary inbound message, as if the broker pushed it.
func (l *Loopback) Inject(msg *client.Message) {
	l.mu.Lock()
	r := l.receiver
	l.mu.Unlock()

	if r != nil {
		r.OnMessage(msg)
	}
}
