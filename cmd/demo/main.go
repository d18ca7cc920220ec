// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Command demo wires the client core to the loopback engine and runs a
// small publish/consume round trip. It exists to exercise the whole stack
// end to end without a broker: configuration, persistence, subscription
// routing and the consumer event loop.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/absmach/mqttcore/client"
	"github.com/absmach/mqttcore/config"
	"github.com/absmach/mqttcore/queue"
	"github.com/absmach/mqttcore/testutil"
)

func main() {
	configFile := flag.String("config", "", "Path to configuration file")
	messages := flag.Int("messages", 10, "Number of messages to publish")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger()
	slog.SetDefault(logger)

	opts, err := cfg.ClientOptions()
	if err != nil {
		logger.Error("Failed to build client options", "error", err)
		os.Exit(1)
	}

	engine := testutil.NewLoopback()
	client, err := mqtt.New(opts, engine)
	if err != nil {
		logger.Error("Failed to create client", "error", err)
		os.Exit(1)
	}
	engine.Attach(client)

	events := client.StartConsuming()

	tok, err := client.Connect()
	if err != nil {
		logger.Error("Connect failed", "error", err)
		os.Exit(1)
	}
	if err := tok.WaitTimeout(opts.AckTimeout); err != nil {
		logger.Error("Connect did not complete", "error", err)
		os.Exit(1)
	}

	tok, err = client.Subscribe("demo/#", 1, nil)
	if err != nil {
		logger.Error("Subscribe failed", "error", err)
		os.Exit(1)
	}
	if err := tok.WaitTimeout(opts.AckTimeout); err != nil {
		logger.Error("Subscribe did not complete", "error", err)
		os.Exit(1)
	}

	// Consumer loop: runs until the event queue closes.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			ev, err := events.Get()
			if err == queue.ErrClosed {
				return
			}
			if err != nil {
				logger.Error("Event queue error", "error", err)
				return
			}
			switch ev.Kind() {
			case mqtt.EventMessage:
				msg := ev.MustMessage()
				logger.Info("Received message",
					"topic", msg.Topic,
					"payload", string(msg.Payload),
					"qos", msg.QoS)
			case mqtt.EventConnected:
				cause, _ := ev.Cause()
				logger.Info("Connected", "cause", cause)
			case mqtt.EventConnectionLost:
				cause, _ := ev.Cause()
				logger.Warn("Connection lost", "cause", cause)
			case mqtt.EventDisconnected:
				reason, _ := ev.MustDisconnected()
				logger.Info("Server disconnect", "reason", reason.String())
			}
		}
	}()

	for i := 0; i < *messages; i++ {
		payload := fmt.Sprintf("message %d at %s", i, time.Now().Format(time.RFC3339))
		tok, err := client.Publish("demo/loop", []byte(payload), 1, false)
		if err != nil {
			logger.Error("Publish failed", "error", err)
			break
		}
		if err := tok.WaitTimeout(opts.AckTimeout); err != nil {
			logger.Error("Publish did not complete", "error", err)
			break
		}
	}

	// Handle shutdown signals or finish after a short drain.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("Received signal, shutting down", "signal", sig.String())
	case <-time.After(500 * time.Millisecond):
	}

	if tok, err := client.Disconnect(mqtt.ReasonNormalDisconnection); err == nil {
		tok.WaitTimeout(opts.AckTimeout)
	}
	client.StopConsuming()
	<-done

	if err := client.Close(); err != nil {
		logger.Error("Close failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Demo complete")
}
