// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/absmach/mqttcore/client"
	"github.com/absmach/mqttcore/storage/badger"
	"github.com/absmach/mqttcore/storage/memory"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if len(cfg.Client.Servers) != 1 || cfg.Client.Servers[0] != "localhost:1883" {
		t.Errorf("unexpected default servers: %v", cfg.Client.Servers)
	}
	if !cfg.Client.CleanStart {
		t.Error("clean start should default to true")
	}
	if cfg.Client.KeepAlive != client.DefaultKeepAlive {
		t.Errorf("expected keep alive %v, got %v", client.DefaultKeepAlive, cfg.Client.KeepAlive)
	}
	if cfg.Consumer.QueueSize != client.DefaultEventQueueSize {
		t.Errorf("expected queue size %d, got %d", client.DefaultEventQueueSize, cfg.Consumer.QueueSize)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("expected memory storage, got %s", cfg.Storage.Type)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "default config is valid",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "no servers",
			modify: func(c *Config) {
				c.Client.Servers = nil
			},
			wantErr: true,
		},
		{
			name: "negative max inflight",
			modify: func(c *Config) {
				c.Client.MaxInflight = -1
			},
			wantErr: true,
		},
		{
			name: "negative queue size",
			modify: func(c *Config) {
				c.Consumer.QueueSize = -1
			},
			wantErr: true,
		},
		{
			name: "unknown storage type",
			modify: func(c *Config) {
				c.Storage.Type = "redis"
			},
			wantErr: true,
		},
		{
			name: "badger without dir",
			modify: func(c *Config) {
				c.Storage.Type = "badger"
				c.Storage.BadgerDir = ""
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			modify: func(c *Config) {
				c.Log.Level = "verbose"
			},
			wantErr: true,
		},
		{
			name: "invalid log format",
			modify: func(c *Config) {
				c.Log.Format = "xml"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("missing file should yield defaults, got storage %s", cfg.Storage.Type)
	}

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load with empty filename failed: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Error("empty filename should yield defaults")
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
client:
  servers:
    - "tcp://broker:1883"
  client_id: "file-client"
  keep_alive: 30s
storage:
  type: badger
  badger_dir: "/tmp/test-badger"
log:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Client.ClientID != "file-client" {
		t.Errorf("expected client ID from file, got %q", cfg.Client.ClientID)
	}
	if cfg.Client.KeepAlive != 30*time.Second {
		t.Errorf("expected keep alive 30s, got %v", cfg.Client.KeepAlive)
	}
	if cfg.Storage.Type != "badger" || cfg.Storage.BadgerDir != "/tmp/test-badger" {
		t.Errorf("unexpected storage config: %+v", cfg.Storage)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}

	// Untouched sections keep their defaults.
	if cfg.Client.MaxInflight != client.DefaultMaxInflight {
		t.Errorf("max inflight should stay default, got %d", cfg.Client.MaxInflight)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("client: [not a map"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load should fail on malformed YAML")
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load should reject an invalid configuration")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Client.ClientID = "saved-client"
	cfg.Consumer.QueueSize = 42

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Client.ClientID != "saved-client" {
		t.Errorf("client ID did not round-trip, got %q", loaded.Client.ClientID)
	}
	if loaded.Consumer.QueueSize != 42 {
		t.Errorf("queue size did not round-trip, got %d", loaded.Consumer.QueueSize)
	}
}

func TestStoreSelection(t *testing.T) {
	cfg := Default()

	store, err := cfg.Store()
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if _, ok := store.(*memory.Store); !ok {
		t.Errorf("expected memory store, got %T", store)
	}

	cfg.Storage.Type = "badger"
	cfg.Storage.BadgerDir = t.TempDir()
	store, err = cfg.Store()
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if _, ok := store.(*badger.Store); !ok {
		t.Errorf("expected badger store, got %T", store)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := Default()
	cfg.Client.ClientID = "bridged"
	cfg.Client.Username = "u"
	cfg.Client.Password = "p"
	cfg.Consumer.QueueSize = 16

	opts, err := cfg.ClientOptions()
	if err != nil {
		t.Fatalf("ClientOptions failed: %v", err)
	}

	if opts.ClientID != "bridged" {
		t.Errorf("expected client ID bridged, got %q", opts.ClientID)
	}
	if opts.Username != "u" || opts.Password != "p" {
		t.Error("credentials not bridged")
	}
	if opts.EventQueueSize != 16 {
		t.Errorf("expected queue size 16, got %d", opts.EventQueueSize)
	}
	if opts.Store == nil {
		t.Error("store should be wired")
	}
	if opts.Logger == nil {
		t.Error("logger should be wired")
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("bridged options should validate: %v", err)
	}
}
