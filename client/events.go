// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

// EventKind discriminates the variants of Event.
type EventKind int

// Event variants. The set is closed: a consuming loop switching on Kind
// with these four cases has handled every event the client produces.
const (
	EventMessage EventKind = iota
	EventConnected
	EventConnectionLost
	EventDisconnected
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventConnected:
		return "connected"
	case EventConnectionLost:
		return "connection_lost"
	case EventDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Event is a single notification delivered to a consuming application
// through the client's event queue. Exactly one variant is active; events
// are immutable values, produced by the packet engine and consumed once.
//
// The variants are:
//   - message: an application message arrived from the server.
//   - connected: the client connected, or reconnected after a loss.
//   - connection lost: the network connection dropped unexpectedly.
//   - disconnected: the server sent a DISCONNECT packet, with a reason
//     code and properties.
type Event struct {
	kind   EventKind
	msg    *Message
	cause  string
	reason ReasonCode
	props  Properties
}

// NewMessageEvent creates a message-arrival event.
func NewMessageEvent(msg *Message) Event {
	return Event{kind: EventMessage, msg: msg}
}

// NewConnectedEvent creates a connected event.
func NewConnectedEvent(cause string) Event {
	return Event{kind: EventConnected, cause: cause}
}

// NewConnectionLostEvent creates a connection-lost event.
func NewConnectionLostEvent(cause string) Event {
	return Event{kind: EventConnectionLost, cause: cause}
}

// NewDisconnectedEvent creates a disconnected event carrying the server's
// reason code and DISCONNECT properties.
func NewDisconnectedEvent(reason ReasonCode, props Properties) Event {
	return Event{kind: EventDisconnected, reason: reason, props: props}
}

// Kind returns the active variant.
func (e Event) Kind() EventKind {
	return e.kind
}

// IsMessage reports whether this is a message-arrival event.
func (e Event) IsMessage() bool {
	return e.kind == EventMessage
}

// IsConnected reports whether this is a connected event.
func (e Event) IsConnected() bool {
	return e.kind == EventConnected
}

// IsConnectionLost reports whether this is a connection-lost event.
func (e Event) IsConnectionLost() bool {
	return e.kind == EventConnectionLost
}

// IsDisconnected reports whether this is a server-disconnect event.
func (e Event) IsDisconnected() bool {
	return e.kind == EventDisconnected
}

// IsAnyDisconnect reports whether this event signals the end of the
// session, either an abrupt connection loss or a protocol-level
// disconnect. Both mean "stop expecting more work", but they stay distinct
// variants because the protocol semantics differ.
func (e Event) IsAnyDisconnect() bool {
	return e.kind == EventConnectionLost || e.kind == EventDisconnected
}

// Message returns the arrived message if this is a message event.
func (e Event) Message() (*Message, bool) {
	if e.kind != EventMessage {
		return nil, false
	}
	return e.msg, true
}

// Cause returns the cause text of a connected or connection-lost event.
func (e Event) Cause() (string, bool) {
	if e.kind != EventConnected && e.kind != EventConnectionLost {
		return "", false
	}
	return e.cause, true
}

// Disconnected returns the reason code and properties of a disconnected
// event.
func (e Event) Disconnected() (ReasonCode, Properties, bool) {
	if e.kind != EventDisconnected {
		return 0, Properties{}, false
	}
	return e.reason, e.props, true
}

// MustMessage returns the arrived message, panicking with ErrEventKind if
// this is not a message event.
func (e Event) MustMessage() *Message {
	if e.kind != EventMessage {
		panic(ErrEventKind)
	}
	return e.msg
}

// MustDisconnected returns the disconnect details, panicking with
// ErrEventKind if this is not a disconnected event.
func (e Event) MustDisconnected() (ReasonCode, Properties) {
	if e.kind != EventDisconnected {
		panic(ErrEventKind)
	}
	return e.reason, e.props
}
