// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"strings"
	"testing"
	"time"
)

func TestNewOptionsDefaults(t *testing.T) {
	opts := NewOptions()

	if len(opts.Servers) != 1 || opts.Servers[0] != "localhost:1883" {
		t.Errorf("unexpected default servers: %v", opts.Servers)
	}
	if !opts.CleanStart {
		t.Error("clean start should default to true")
	}
	if opts.KeepAlive != DefaultKeepAlive {
		t.Errorf("expected keep alive %v, got %v", DefaultKeepAlive, opts.KeepAlive)
	}
	if opts.AckTimeout != DefaultAckTimeout {
		t.Errorf("expected ack timeout %v, got %v", DefaultAckTimeout, opts.AckTimeout)
	}
	if opts.MaxInflight != DefaultMaxInflight {
		t.Errorf("expected max inflight %d, got %d", DefaultMaxInflight, opts.MaxInflight)
	}
	if opts.EventQueueSize != DefaultEventQueueSize {
		t.Errorf("expected event queue size %d, got %d", DefaultEventQueueSize, opts.EventQueueSize)
	}
}

func TestOptionsBuilders(t *testing.T) {
	opts := NewOptions().
		SetServers("tcp://a:1883", "tcp://b:1883").
		SetClientID("builder-test").
		SetCredentials("user", "pass").
		SetCleanStart(false).
		SetSessionExpiry(3600).
		SetKeepAlive(30 * time.Second).
		SetWill("status/gone", []byte("offline"), 1, true).
		SetAckTimeout(5 * time.Second).
		SetMaxInflight(10).
		SetEventQueueSize(64)

	if len(opts.Servers) != 2 {
		t.Errorf("expected 2 servers, got %d", len(opts.Servers))
	}
	if opts.ClientID != "builder-test" {
		t.Errorf("unexpected client ID %q", opts.ClientID)
	}
	if opts.Username != "user" || opts.Password != "pass" {
		t.Error("credentials not applied")
	}
	if opts.CleanStart {
		t.Error("clean start should be false")
	}
	if opts.SessionExpiry != 3600 {
		t.Errorf("unexpected session expiry %d", opts.SessionExpiry)
	}
	if opts.Will == nil || opts.Will.Topic != "status/gone" || !opts.Will.Retained {
		t.Errorf("unexpected will %+v", opts.Will)
	}
	if opts.MaxInflight != 10 || opts.EventQueueSize != 64 {
		t.Error("limits not applied")
	}
}

func TestOptionsValidate(t *testing.T) {
	opts := NewOptions()
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if opts.ClientID == "" {
		t.Error("Validate should generate a client ID")
	}
	if !strings.HasPrefix(opts.ClientID, "mqttcore-") {
		t.Errorf("generated ID should carry the package prefix, got %q", opts.ClientID)
	}
}

func TestOptionsValidateNoServers(t *testing.T) {
	opts := &Options{}
	if err := opts.Validate(); err != ErrNoServers {
		t.Errorf("expected ErrNoServers, got %v", err)
	}
}

func TestOptionsValidateRepairsLimits(t *testing.T) {
	opts := NewOptions().SetMaxInflight(-1).SetAckTimeout(-time.Second).SetEventQueueSize(-5)
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if opts.MaxInflight != DefaultMaxInflight {
		t.Errorf("negative max inflight should reset to default, got %d", opts.MaxInflight)
	}
	if opts.AckTimeout != DefaultAckTimeout {
		t.Errorf("negative ack timeout should reset to default, got %v", opts.AckTimeout)
	}
	if opts.EventQueueSize != 0 {
		t.Errorf("negative queue size should clamp to unbounded, got %d", opts.EventQueueSize)
	}
}

func TestOptionsValidateKeepsExplicitID(t *testing.T) {
	opts := NewOptions().SetClientID("fixed")
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if opts.ClientID != "fixed" {
		t.Errorf("explicit ID should survive validation, got %q", opts.ClientID)
	}
}
