// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package config loads client configuration from YAML and turns it into
// ready-to-use client options, including the persistence backend and the
// structured logger.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/absmach/mqttcore/client"
	"github.com/absmach/mqttcore/storage"
	"github.com/absmach/mqttcore/storage/badger"
	"github.com/absmach/mqttcore/storage/memory"
)

// Config holds all configuration for the MQTT client core.
type Config struct {
	Client   ClientConfig   `yaml:"client"`
	Consumer ConsumerConfig `yaml:"consumer"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// ClientConfig holds connection and session settings.
type ClientConfig struct {
	Servers  []string `yaml:"servers"`
	ClientID string   `yaml:"client_id"` // Generated when empty
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`

	CleanStart    bool          `yaml:"clean_start"`
	SessionExpiry uint32        `yaml:"session_expiry"` // Seconds (MQTT 5.0)
	KeepAlive     time.Duration `yaml:"keep_alive"`

	AckTimeout  time.Duration `yaml:"ack_timeout"`
	MaxInflight int           `yaml:"max_inflight"`
}

// ConsumerConfig holds event queue settings.
type ConsumerConfig struct {
	// Queue capacity; 0 means unbounded, a positive bound back-pressures
	// the packet engine when the consumer falls behind.
	QueueSize int `yaml:"queue_size"`
}

// StorageConfig holds persistence backend configuration.
type StorageConfig struct {
	Type string `yaml:"type"` // memory, badger

	// BadgerDB settings
	BadgerDir  string        `yaml:"badger_dir"`
	GCInterval time.Duration `yaml:"gc_interval"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Client: ClientConfig{
			Servers:     []string{"localhost:1883"},
			CleanStart:  true,
			KeepAlive:   client.DefaultKeepAlive,
			AckTimeout:  client.DefaultAckTimeout,
			MaxInflight: client.DefaultMaxInflight,
		},
		Consumer: ConsumerConfig{
			QueueSize: client.DefaultEventQueueSize,
		},
		Storage: StorageConfig{
			Type:       "memory",
			BadgerDir:  "/tmp/mqttcore/data",
			GCInterval: 5 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration from a YAML file, layering it over the
// defaults. An empty filename or a missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Client.Servers) == 0 {
		return fmt.Errorf("client.servers cannot be empty")
	}
	if c.Client.MaxInflight < 0 {
		return fmt.Errorf("client.max_inflight cannot be negative")
	}
	if c.Client.KeepAlive < 0 {
		return fmt.Errorf("client.keep_alive cannot be negative")
	}
	if c.Consumer.QueueSize < 0 {
		return fmt.Errorf("consumer.queue_size cannot be negative")
	}

	validStorage := map[string]bool{"memory": true, "badger": true}
	if !validStorage[c.Storage.Type] {
		return fmt.Errorf("storage.type must be one of: memory, badger")
	}
	if c.Storage.Type == "badger" && c.Storage.BadgerDir == "" {
		return fmt.Errorf("storage.badger_dir required when storage.type is badger")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("log.format must be one of: text, json")
	}

	return nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ClientOptions builds client options from the configuration, wiring the
// selected storage backend and a logger per the log section.
func (c *Config) ClientOptions() (*client.Options, error) {
	store, err := c.Store()
	if err != nil {
		return nil, err
	}

	opts := client.NewOptions().
		SetServers(c.Client.Servers...).
		SetClientID(c.Client.ClientID).
		SetCredentials(c.Client.Username, c.Client.Password).
		SetCleanStart(c.Client.CleanStart).
		SetSessionExpiry(c.Client.SessionExpiry).
		SetKeepAlive(c.Client.KeepAlive).
		SetAckTimeout(c.Client.AckTimeout).
		SetMaxInflight(c.Client.MaxInflight).
		SetEventQueueSize(c.Consumer.QueueSize).
		SetStore(store).
		SetLogger(c.Logger())

	return opts, nil
}

// Store builds the configured persistence backend.
func (c *Config) Store() (storage.Store, error) {
	switch c.Storage.Type {
	case "memory":
		return memory.New(), nil
	case "badger":
		return badger.New(badger.Config{
			Dir:        c.Storage.BadgerDir,
			GCInterval: c.Storage.GCInterval,
		}), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
}

// Logger builds a slog logger per the log section.
func (c *Config) Logger() *slog.Logger {
	logLevel := slog.LevelInfo
	switch c.Log.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	var handler slog.Handler
	if c.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	}
	return slog.New(handler)
}
