// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"testing"
	"time"

	"github.com/absmach/mqttcore/client"
)

func newConnectedClient(t *testing.T) (*client.Client, *Loopback) {
	t.Helper()

	engine := NewLoopback()
	opts := client.NewOptions().SetClientID("loopback-test")
	c, err := client.New(opts, engine)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	engine.Attach(c)

	tok, err := c.Connect()
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := tok.WaitTimeout(time.Second); err != nil {
		t.Fatalf("connect token failed: %v", err)
	}
	if !c.IsConnected() {
		t.Fatal("client should be connected")
	}
	return c, engine
}

func TestLoopbackEcho(t *testing.T) {
	c, _ := newConnectedClient(t)
	defer c.Close()

	received := make(chan *client.Message, 1)
	tok, err := c.Subscribe("echo/+", 1, func(m *client.Message) {
		received <- m
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if err := tok.WaitTimeout(time.Second); err != nil {
		t.Fatalf("subscribe token failed: %v", err)
	}

	tok, err = c.Publish("echo/hello", []byte("round trip"), 1, false)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := tok.WaitTimeout(time.Second); err != nil {
		t.Fatalf("publish token failed: %v", err)
	}

	select {
	case m := <-received:
		if m.Topic != "echo/hello" || string(m.Payload) != "round trip" {
			t.Errorf("unexpected message %q %q", m.Topic, m.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("message was not echoed")
	}
}

func TestLoopbackNoEchoWithoutSubscription(t *testing.T) {
	c, engine := newConnectedClient(t)
	defer c.Close()

	events := c.StartConsuming()

	tok, err := c.Publish("silent/topic", []byte("x"), 0, false)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	tok.Wait()

	if _, ok := events.TryGet(); ok {
		t.Error("unsubscribed publish should not come back")
	}

	// Injection bypasses subscriptions entirely.
	engine.Inject(client.NewMessage("pushed/topic", []byte("y"), 0, false))
	ev, ok := events.TryGetFor(time.Second)
	if !ok {
		t.Fatal("injected message did not arrive")
	}
	msg, ok := ev.Message()
	if !ok || msg.Topic != "pushed/topic" {
		t.Errorf("expected injected message, got %v", ev.Kind())
	}
}

func TestLoopbackDropConnection(t *testing.T) {
	c, engine := newConnectedClient(t)
	defer c.Close()

	events := c.StartConsuming()

	engine.DropConnection("simulated cable pull")

	if c.IsConnected() {
		t.Error("client should be disconnected")
	}

	ev, ok := events.TryGetFor(time.Second)
	if !ok {
		t.Fatal("connection lost event did not arrive")
	}
	if !ev.IsConnectionLost() {
		t.Errorf("expected connection lost event, got %v", ev.Kind())
	}
}

func TestLoopbackServerDisconnect(t *testing.T) {
	c, engine := newConnectedClient(t)
	defer c.Close()

	events := c.StartConsuming()
	engine.ServerDisconnect(client.ReasonServerShuttingDown, client.Properties{ReasonString: "bye"})

	ev, ok := events.TryGetFor(time.Second)
	if !ok {
		t.Fatal("disconnect event did not arrive")
	}
	reason, props, ok := ev.Disconnected()
	if !ok || reason != client.ReasonServerShuttingDown || props.ReasonString != "bye" {
		t.Errorf("unexpected disconnect event: %v", ev.Kind())
	}
}

func TestLoopbackPublishWhileDisconnected(t *testing.T) {
	c, engine := newConnectedClient(t)
	defer c.Close()

	engine.DropConnection("gone")

	if _, err := c.Publish("a/b", nil, 0, false); err != client.ErrNotConnected {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}
