// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package client implements the asynchronous core of an MQTT client:
// completion tokens for in-flight requests, subscription routing, and a
// consumer event queue. The wire protocol itself lives behind the Engine
// interface; this package never touches a socket.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/absmach/mqttcore/queue"
	"github.com/absmach/mqttcore/storage"
	"github.com/absmach/mqttcore/topics"
)

// persistence key prefix for outbound QoS>0 messages awaiting acknowledgment.
const sentKeyPrefix = "sent-"

// Client is the asynchronous MQTT client core. All request methods return
// immediately with a Token tracking the operation; inbound traffic reaches
// the application through registered handlers and the consumer queue.
//
// A Client is safe for concurrent use by multiple goroutines.
type Client struct {
	opts    *Options
	engine  Engine
	state   *stateManager
	tokens  *tokenStore
	router  *router
	store   storage.Store
	log     *slog.Logger
	metrics *Metrics

	consumer *consumer
}

// New creates a client bound to the given packet engine. The engine must be
// constructed with the returned client as its Receiver before Connect is
// called.
func New(opts *Options, engine Engine) (*Client, error) {
	if opts == nil {
		opts = NewOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if engine == nil {
		return nil, ErrNoEngine
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("client_id", opts.ClientID))

	metrics, err := NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	c := &Client{
		opts:    opts,
		engine:  engine,
		state:   newStateManager(),
		tokens:  newTokenStore(opts.MaxInflight),
		router:  newRouter(),
		store:   opts.Store,
		log:     log,
		metrics: metrics,
	}
	c.consumer = newConsumer(c)
	return c, nil
}

// ClientID returns the effective client identifier, including one generated
// during option validation.
func (c *Client) ClientID() string {
	return c.opts.ClientID
}

// State returns the current connection state.
func (c *Client) State() State {
	return c.state.get()
}

// IsConnected reports whether the client currently holds a connection.
func (c *Client) IsConnected() bool {
	return c.state.isConnected()
}

// InflightCount returns the number of outstanding request tokens.
func (c *Client) InflightCount() int {
	return c.tokens.count()
}

// Subscriptions returns the currently registered subscriptions.
func (c *Client) Subscriptions() []Subscription {
	return c.router.snapshot()
}

// Connect asks the engine to open a session. The returned token resolves
// when the server's CONNACK arrives or the attempt fails.
func (c *Client) Connect() (*Token, error) {
	if c.state.isClosed() {
		return nil, ErrClientClosed
	}
	if !c.state.transition(StateDisconnected, StateConnecting) {
		return nil, ErrAlreadyConnected
	}

	if c.store != nil {
		if err := c.store.Open(c.opts.ClientID, c.opts.Servers[0]); err != nil {
			c.state.set(StateDisconnected)
			return nil, fmt.Errorf("failed to open persistence store: %w", err)
		}
	}

	tok, err := c.newToken(TokenConnect, func(t *Token) {
		if t.Error() != nil {
			c.state.transition(StateConnecting, StateDisconnected)
		}
	})
	if err != nil {
		c.state.set(StateDisconnected)
		return nil, err
	}

	req := ConnectRequest{
		Servers:       c.opts.Servers,
		ClientID:      c.opts.ClientID,
		Username:      c.opts.Username,
		Password:      c.opts.Password,
		CleanStart:    c.opts.CleanStart,
		KeepAliveSecs: uint16(c.opts.KeepAlive / time.Second),
		SessionExpiry: c.opts.SessionExpiry,
		Will:          c.opts.Will,
	}

	c.log.Info("connecting",
		slog.Any("servers", c.opts.Servers),
		slog.Bool("clean_start", c.opts.CleanStart))

	if err := c.engine.Connect(req, tok); err != nil {
		tok.Fail(err)
		return nil, err
	}
	return tok, nil
}

// Publish sends an application message. For QoS 1 and 2 the message is
// persisted until the token resolves, so delivery can be retried after a
// restart when a durable store is configured.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) (*Token, error) {
	return c.PublishMessage(NewMessage(topic, payload, qos, retained))
}

// PublishMessage sends a prepared message, preserving its MQTT 5.0
// properties.
func (c *Client) PublishMessage(msg *Message) (*Token, error) {
	if msg.QoS > 2 {
		return nil, ErrInvalidQoS
	}
	if err := topics.ValidateTopicName(msg.Topic); err != nil {
		return nil, err
	}
	if err := c.requireConnected(); err != nil {
		return nil, err
	}

	var onSettle func(*Token)
	if msg.QoS > 0 && c.store != nil {
		onSettle = func(t *Token) {
			if err := c.store.Remove(sentKeyPrefix + t.ID()); err != nil {
				c.log.Warn("failed to clear persisted message",
					slog.String("token", t.ID()),
					slog.Any("error", err))
			}
		}
	}

	tok, err := c.newToken(TokenPublish, onSettle)
	if err != nil {
		return nil, err
	}

	if msg.QoS > 0 && c.store != nil {
		if err := c.persistOutbound(tok.ID(), msg); err != nil {
			tok.Fail(err)
			return nil, err
		}
	}

	if err := c.engine.Publish(msg, tok); err != nil {
		tok.Fail(err)
		return nil, err
	}
	return tok, nil
}

// Subscribe registers a handler for one topic filter and asks the engine to
// subscribe. The handler is active from the moment the token completes;
// passing a nil handler routes matching messages to the default handler and
// the event queue only.
func (c *Client) Subscribe(filter string, qos byte, handler MessageHandler) (*Token, error) {
	return c.SubscribeMultiple([]Subscription{{Filter: filter, QoS: qos}}, handler)
}

// SubscribeMultiple subscribes to several filters in one request, sharing a
// handler. Routes are registered only once the server confirms.
func (c *Client) SubscribeMultiple(subs []Subscription, handler MessageHandler) (*Token, error) {
	parsed := make([]topics.Filter, 0, len(subs))
	for _, s := range subs {
		if s.QoS > 2 {
			return nil, ErrInvalidQoS
		}
		f, err := topics.ParseFilter(s.Filter)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, f)
	}
	if err := c.requireConnected(); err != nil {
		return nil, err
	}

	tok, err := c.newToken(TokenSubscribe, func(t *Token) {
		if t.Error() != nil {
			return
		}
		for i, f := range parsed {
			c.router.add(f, subs[i].QoS, handler)
		}
	})
	if err != nil {
		return nil, err
	}

	if err := c.engine.Subscribe(subs, tok); err != nil {
		tok.Fail(err)
		return nil, err
	}
	return tok, nil
}

// Unsubscribe removes subscriptions. Routes are dropped once the server
// confirms, so messages already in flight still reach their handler.
func (c *Client) Unsubscribe(filters ...string) (*Token, error) {
	if err := c.requireConnected(); err != nil {
		return nil, err
	}

	tok, err := c.newToken(TokenUnsubscribe, func(t *Token) {
		if t.Error() != nil {
			return
		}
		c.router.remove(filters...)
	})
	if err != nil {
		return nil, err
	}

	if err := c.engine.Unsubscribe(filters, tok); err != nil {
		tok.Fail(err)
		return nil, err
	}
	return tok, nil
}

// Disconnect performs an orderly shutdown of the session. The token
// resolves once the engine has sent DISCONNECT and closed the connection.
func (c *Client) Disconnect(reason ReasonCode) (*Token, error) {
	if !c.state.transitionFrom(StateDisconnecting, StateConnected, StateConnecting) {
		return nil, ErrNotConnected
	}

	tok, err := c.newToken(TokenDisconnect, func(t *Token) {
		c.state.transition(StateDisconnecting, StateDisconnected)
	})
	if err != nil {
		c.state.transition(StateDisconnecting, StateConnected)
		return nil, err
	}

	c.log.Info("disconnecting", slog.String("reason", reason.String()))

	if err := c.engine.Disconnect(reason, tok); err != nil {
		tok.Fail(err)
		return nil, err
	}
	return tok, nil
}

// Close releases the client. Outstanding tokens fail with ErrClientClosed,
// the engine is torn down, consuming stops and the persistence store is
// closed. Close is terminal: a closed client cannot reconnect.
func (c *Client) Close() error {
	if !c.state.transitionFrom(StateClosed,
		StateDisconnected, StateConnecting, StateConnected, StateDisconnecting) {
		return nil
	}

	c.tokens.failAll(ErrClientClosed)

	err := c.engine.Close()

	c.consumer.stop()

	if c.store != nil {
		if cerr := c.store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	c.log.Info("client closed")
	return err
}

// StartConsuming switches the client to consumer mode and returns the event
// queue. See the consumer type for the delivery contract.
func (c *Client) StartConsuming() *queue.Queue[Event] {
	return c.consumer.start(c.opts.EventQueueSize)
}

// StopConsuming leaves consumer mode. The returned queue is closed; a
// consumer loop drains what was already delivered and then sees the
// queue's closed error.
func (c *Client) StopConsuming() {
	c.consumer.stop()
}

// Consuming reports whether consumer mode is active.
func (c *Client) Consuming() bool {
	return c.consumer.active()
}

// OnMessage implements Receiver. The message is dispatched to every
// matching subscription handler, then to the default handler when nothing
// matched, and finally to the consumer queue when consuming is active.
func (c *Client) OnMessage(msg *Message) {
	matched := c.router.dispatch(msg)
	c.metrics.RecordMessageRouted(matched)

	if matched == 0 && c.opts.DefaultHandler != nil {
		c.opts.DefaultHandler(msg)
	}

	c.consumer.emit(NewMessageEvent(msg))
}

// OnConnected implements Receiver.
func (c *Client) OnConnected(cause string) {
	c.state.transitionFrom(StateConnected, StateConnecting, StateDisconnected)
	c.log.Info("connected", slog.String("cause", cause))
	c.consumer.emit(NewConnectedEvent(cause))
}

// OnConnectionLost implements Receiver. Every outstanding token fails: the
// engine can no longer deliver their completions.
func (c *Client) OnConnectionLost(cause string) {
	c.state.transitionFrom(StateDisconnected, StateConnected, StateConnecting)
	c.log.Warn("connection lost", slog.String("cause", cause))
	c.tokens.failAll(ErrConnectionLost)
	c.consumer.emit(NewConnectionLostEvent(cause))
}

// OnDisconnected implements Receiver.
func (c *Client) OnDisconnected(reason ReasonCode, props Properties) {
	c.state.transitionFrom(StateDisconnected,
		StateConnected, StateConnecting, StateDisconnecting)
	c.log.Info("server disconnect",
		slog.String("reason", reason.String()),
		slog.String("reason_string", props.ReasonString))
	c.consumer.emit(NewDisconnectedEvent(reason, props))
}

func (c *Client) requireConnected() error {
	switch c.state.get() {
	case StateConnected, StateConnecting:
		return nil
	case StateClosed:
		return ErrClientClosed
	default:
		return ErrNotConnected
	}
}

func (c *Client) newToken(kind TokenKind, onSettle func(*Token)) (*Token, error) {
	tok, err := c.tokens.add(kind, func(t *Token) {
		if onSettle != nil {
			onSettle(t)
		}
		elapsed := float64(time.Since(t.created)) / float64(time.Millisecond)
		c.metrics.RecordTokenSettled(t.Kind(), t.Error() != nil, elapsed)
	})
	if err != nil {
		return nil, err
	}
	c.metrics.RecordTokenCreated(kind)
	return tok, nil
}

func (c *Client) persistOutbound(id string, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message for persistence: %w", err)
	}
	if err := c.store.Put(sentKeyPrefix+id, data); err != nil {
		return fmt.Errorf("failed to persist message: %w", err)
	}
	return nil
}

// PendingMessages returns outbound messages persisted but not yet
// acknowledged, for redelivery after a restart.
func (c *Client) PendingMessages() ([]*Message, error) {
	if c.store == nil {
		return nil, nil
	}

	keys, err := c.store.Keys()
	if err != nil {
		return nil, err
	}

	var pending []*Message
	for _, k := range keys {
		if !strings.HasPrefix(k, sentKeyPrefix) {
			continue
		}
		data, err := c.store.Get(k)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, err
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warn("skipping corrupt persisted message", slog.String("key", k))
			continue
		}
		msg.Duplicate = true
		pending = append(pending, &msg)
	}
	return pending, nil
}
