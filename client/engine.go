// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

// ConnectRequest carries the session parameters the engine needs to open a
// connection.
type ConnectRequest struct {
	Servers       []string
	ClientID      string
	Username      string
	Password      string
	CleanStart    bool
	KeepAliveSecs uint16
	SessionExpiry uint32
	Will          *WillMessage
}

// WillMessage represents a last will and testament message.
type WillMessage struct {
	Topic    string
	Payload  []byte
	QoS      byte
	Retained bool
}

// Subscription pairs a topic filter with its requested maximum QoS.
type Subscription struct {
	Filter string
	QoS    byte
}

// Engine is the external packet engine: it owns the socket, encodes and
// decodes control packets, and runs its own I/O goroutine. This core never
// touches the wire.
//
// The engine's obligations:
//   - Resolve every token it is handed exactly once, with Complete or
//     Fail, even on abnormal session termination: outstanding tokens must
//     be force-failed before teardown.
//   - Deliver inbound messages and connection-state transitions through
//     the Receiver it was constructed with, in arrival order.
//
// Each request method returns an error only for failures detected before
// the request was accepted; after a nil return, the outcome arrives through
// the token.
type Engine interface {
	Connect(req ConnectRequest, tok *Token) error
	Publish(msg *Message, tok *Token) error
	Subscribe(subs []Subscription, tok *Token) error
	Unsubscribe(filters []string, tok *Token) error
	Disconnect(reason ReasonCode, tok *Token) error

	// Close tears the engine down. Pending tokens are force-failed by the
	// engine before Close returns.
	Close() error
}

// Receiver is the callback half of the engine contract; the Client
// implements it. All methods are invoked on the engine's goroutine, so
// implementations must not block it beyond the event-queue pacing that is
// their purpose.
type Receiver interface {
	// OnMessage delivers an inbound application message.
	OnMessage(msg *Message)

	// OnConnected reports a successful connect or reconnect.
	OnConnected(cause string)

	// OnConnectionLost reports an abrupt network-level loss.
	OnConnectionLost(cause string)

	// OnDisconnected reports a server DISCONNECT packet.
	OnDisconnected(reason ReasonCode, props Properties)
}
