// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

import "time"

// Message represents an MQTT application message. Messages are treated as
// immutable once constructed; the engine and the application exchange
// pointers but never mutate a delivered message.
type Message struct {
	Topic     string
	Payload   []byte
	QoS       byte
	Retained  bool
	Duplicate bool
	Timestamp time.Time

	// MQTT 5.0 properties
	ContentType     string
	ResponseTopic   string
	CorrelationData []byte
	UserProperties  map[string]string
}

// NewMessage creates a message with the given parameters.
func NewMessage(topic string, payload []byte, qos byte, retained bool) *Message {
	return &Message{
		Topic:     topic,
		Payload:   payload,
		QoS:       qos,
		Retained:  retained,
		Timestamp: time.Now(),
	}
}

// Copy creates a deep copy of the message.
func (m *Message) Copy() *Message {
	if m == nil {
		return nil
	}

	msg := &Message{
		Topic:         m.Topic,
		QoS:           m.QoS,
		Retained:      m.Retained,
		Duplicate:     m.Duplicate,
		Timestamp:     m.Timestamp,
		ContentType:   m.ContentType,
		ResponseTopic: m.ResponseTopic,
	}

	if m.Payload != nil {
		msg.Payload = make([]byte, len(m.Payload))
		copy(msg.Payload, m.Payload)
	}

	if m.CorrelationData != nil {
		msg.CorrelationData = make([]byte, len(m.CorrelationData))
		copy(msg.CorrelationData, m.CorrelationData)
	}

	if m.UserProperties != nil {
		msg.UserProperties = make(map[string]string, len(m.UserProperties))
		for k, v := range m.UserProperties {
			msg.UserProperties[k] = v
		}
	}

	return msg
}
