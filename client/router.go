// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"sync"

	"github.com/absmach/mqttcore/topics"
)

// MessageHandler is called for each inbound message matching a
// subscription's topic filter. Handlers run synchronously on the engine's
// delivery goroutine and must not block.
type MessageHandler func(*Message)

type route struct {
	filter  topics.Filter
	qos     byte
	handler MessageHandler
}

// router maps topic filters to per-subscription handlers and dispatches
// inbound messages to every matching one.
type router struct {
	mu     sync.RWMutex
	routes map[string]route // keyed by the raw filter string
}

func newRouter() *router {
	return &router{
		routes: make(map[string]route),
	}
}

func (r *router) add(filter topics.Filter, qos byte, handler MessageHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[filter.String()] = route{filter: filter, qos: qos, handler: handler}
}

func (r *router) remove(filters ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range filters {
		delete(r.routes, f)
	}
}

// dispatch invokes each matching handler and returns how many matched.
// Routes registered without a handler count as matched but invoke nothing.
func (r *router) dispatch(msg *Message) int {
	r.mu.RLock()
	var handlers []MessageHandler
	matched := 0
	for _, rt := range r.routes {
		if rt.filter.Matches(msg.Topic) {
			matched++
			if rt.handler != nil {
				handlers = append(handlers, rt.handler)
			}
		}
	}
	r.mu.RUnlock()

	for _, h := range handlers {
		h(msg)
	}
	return matched
}

// snapshot returns the registered subscriptions, for diagnostics and
// session resume.
func (r *router) snapshot() []Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := make([]Subscription, 0, len(r.routes))
	for _, rt := range r.routes {
		subs = append(subs, Subscription{Filter: rt.filter.String(), QoS: rt.qos})
	}
	return subs
}
