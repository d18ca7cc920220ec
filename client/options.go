// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/absmach/mqttcore/storage"
)

// Default values.
const (
	DefaultKeepAlive      = 60 * time.Second
	DefaultAckTimeout     = 10 * time.Second
	DefaultMaxInflight    = 100
	DefaultEventQueueSize = 256
)

// Options configures the MQTT client core.
type Options struct {
	// Connection
	Servers  []string // Broker addresses, tried in order by the engine
	ClientID string   // Client identifier; generated when empty
	Username string
	Password string

	// Session
	CleanStart    bool          // Start with a clean session
	SessionExpiry uint32        // Session expiry interval (seconds, MQTT 5.0)
	KeepAlive     time.Duration // Keep-alive interval (0 to disable)

	// Will
	Will *WillMessage // Last will and testament

	// Operations
	AckTimeout  time.Duration // Bound for synchronous waits on acknowledgments
	MaxInflight int           // Maximum outstanding requests

	// Consuming
	EventQueueSize int // Capacity of the consumer event queue (0 = unbounded)

	// DefaultHandler receives inbound messages matched by no registered
	// subscription handler. May be nil.
	DefaultHandler MessageHandler

	// Store persists in-flight state for QoS 1/2 delivery (nil = in-memory
	// only, nothing survives a restart).
	Store storage.Store

	// Logger for structured client logging (nil = slog.Default()).
	Logger *slog.Logger
}

// NewOptions creates Options with sensible defaults.
func NewOptions() *Options {
	return &Options{
		Servers:        []string{"localhost:1883"},
		CleanStart:     true,
		KeepAlive:      DefaultKeepAlive,
		AckTimeout:     DefaultAckTimeout,
		MaxInflight:    DefaultMaxInflight,
		EventQueueSize: DefaultEventQueueSize,
	}
}

// SetServers sets the broker addresses.
func (o *Options) SetServers(servers ...string) *Options {
	o.Servers = servers
	return o
}

// SetClientID sets the client identifier.
func (o *Options) SetClientID(id string) *Options {
	o.ClientID = id
	return o
}

// SetCredentials sets username and password.
func (o *Options) SetCredentials(username, password string) *Options {
	o.Username = username
	o.Password = password
	return o
}

// SetCleanStart sets the clean start flag.
func (o *Options) SetCleanStart(clean bool) *Options {
	o.CleanStart = clean
	return o
}

// SetSessionExpiry sets the session expiry interval in seconds (MQTT 5.0).
func (o *Options) SetSessionExpiry(seconds uint32) *Options {
	o.SessionExpiry = seconds
	return o
}

// SetKeepAlive sets the keep-alive interval.
func (o *Options) SetKeepAlive(d time.Duration) *Options {
	o.KeepAlive = d
	return o
}

// SetWill sets the last will and testament.
func (o *Options) SetWill(topic string, payload []byte, qos byte, retained bool) *Options {
	o.Will = &WillMessage{
		Topic:    topic,
		Payload:  payload,
		QoS:      qos,
		Retained: retained,
	}
	return o
}

// SetAckTimeout sets the acknowledgment wait bound.
func (o *Options) SetAckTimeout(d time.Duration) *Options {
	o.AckTimeout = d
	return o
}

// SetMaxInflight sets the maximum number of outstanding requests.
func (o *Options) SetMaxInflight(n int) *Options {
	o.MaxInflight = n
	return o
}

// SetEventQueueSize sets the consumer event queue capacity. Zero means
// unbounded; a bound makes a slow consumer back-pressure the engine.
func (o *Options) SetEventQueueSize(n int) *Options {
	o.EventQueueSize = n
	return o
}

// SetDefaultHandler sets the handler for unrouted inbound messages.
func (o *Options) SetDefaultHandler(h MessageHandler) *Options {
	o.DefaultHandler = h
	return o
}

// SetStore sets the persistence backend.
func (o *Options) SetStore(s storage.Store) *Options {
	o.Store = s
	return o
}

// SetLogger sets the structured logger.
func (o *Options) SetLogger(l *slog.Logger) *Options {
	o.Logger = l
	return o
}

// Validate checks the options and fills in generated defaults.
func (o *Options) Validate() error {
	if len(o.Servers) == 0 {
		return ErrNoServers
	}
	if o.ClientID == "" {
		o.ClientID = "mqttcore-" + uuid.NewString()[:8]
	}
	if o.AckTimeout <= 0 {
		o.AckTimeout = DefaultAckTimeout
	}
	if o.MaxInflight <= 0 {
		o.MaxInflight = DefaultMaxInflight
	}
	if o.EventQueueSize < 0 {
		o.EventQueueSize = 0
	}
	return nil
}
