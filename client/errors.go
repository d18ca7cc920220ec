// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

import "errors"

// Client errors.
var (
	// Configuration errors.
	ErrNoServers = errors.New("no servers configured")
	ErrNoEngine  = errors.New("no packet engine configured")

	// Connection errors.
	ErrNotConnected     = errors.New("client not connected")
	ErrAlreadyConnected = errors.New("client already connected")
	ErrConnectionLost   = errors.New("connection lost")
	ErrClientClosed     = errors.New("client has been closed")

	// Operation errors.
	ErrTimeout     = errors.New("operation still pending after timeout")
	ErrMaxInflight = errors.New("maximum inflight operations exceeded")
	ErrInvalidQoS  = errors.New("invalid QoS level (must be 0, 1, or 2)")

	// ErrEventKind is the panic value when an Event is unwrapped as the
	// wrong variant. It marks a programming error, never expected at
	// runtime in correct usage.
	ErrEventKind = errors.New("event does not hold the requested variant")
)
