// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds OpenTelemetry metric instruments for the client core.
type Metrics struct {
	meter metric.Meter

	// Counters
	tokensCreated   metric.Int64Counter
	tokensCompleted metric.Int64Counter
	tokensFailed    metric.Int64Counter
	eventsEnqueued  metric.Int64Counter
	eventsDropped   metric.Int64Counter
	messagesRouted  metric.Int64Counter

	// UpDownCounters (gauges)
	tokensInflight metric.Int64UpDownCounter

	// Histograms
	tokenDuration metric.Float64Histogram
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		meter: otel.Meter("mqttcore/client"),
	}

	var err error

	m.tokensCreated, err = m.meter.Int64Counter(
		"mqtt.client.tokens.created.total",
		metric.WithDescription("Total completion tokens created"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokensCreated counter: %w", err)
	}

	m.tokensCompleted, err = m.meter.Int64Counter(
		"mqtt.client.tokens.completed.total",
		metric.WithDescription("Total completion tokens resolved successfully"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokensCompleted counter: %w", err)
	}

	m.tokensFailed, err = m.meter.Int64Counter(
		"mqtt.client.tokens.failed.total",
		metric.WithDescription("Total completion tokens resolved with an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokensFailed counter: %w", err)
	}

	m.eventsEnqueued, err = m.meter.Int64Counter(
		"mqtt.client.events.enqueued.total",
		metric.WithDescription("Total events delivered to the consumer queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create eventsEnqueued counter: %w", err)
	}

	m.eventsDropped, err = m.meter.Int64Counter(
		"mqtt.client.events.dropped.total",
		metric.WithDescription("Total events dropped because consuming was stopped"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create eventsDropped counter: %w", err)
	}

	m.messagesRouted, err = m.meter.Int64Counter(
		"mqtt.client.messages.routed.total",
		metric.WithDescription("Total inbound messages dispatched to subscription handlers"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create messagesRouted counter: %w", err)
	}

	m.tokensInflight, err = m.meter.Int64UpDownCounter(
		"mqtt.client.tokens.inflight",
		metric.WithDescription("Current number of outstanding completion tokens"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokensInflight gauge: %w", err)
	}

	m.tokenDuration, err = m.meter.Float64Histogram(
		"mqtt.client.token.duration.ms",
		metric.WithDescription("Token creation-to-resolution duration in milliseconds"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokenDuration histogram: %w", err)
	}

	return m, nil
}

// RecordTokenCreated records a new outstanding token.
func (m *Metrics) RecordTokenCreated(kind TokenKind) {
	ctx := context.Background()
	m.tokensCreated.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind.String()),
	))
	m.tokensInflight.Add(ctx, 1)
}

// RecordTokenSettled records a token resolution.
func (m *Metrics) RecordTokenSettled(kind TokenKind, failed bool, durationMs float64) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("kind", kind.String()))
	if failed {
		m.tokensFailed.Add(ctx, 1, attrs)
	} else {
		m.tokensCompleted.Add(ctx, 1, attrs)
	}
	m.tokensInflight.Add(ctx, -1)
	m.tokenDuration.Record(ctx, durationMs, attrs)
}

// RecordEventEnqueued records an event handed to the consumer queue.
func (m *Metrics) RecordEventEnqueued(kind EventKind) {
	m.eventsEnqueued.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", kind.String()),
	))
}

// RecordEventDropped records an event discarded because consuming stopped.
func (m *Metrics) RecordEventDropped(kind EventKind) {
	m.eventsDropped.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", kind.String()),
	))
}

// RecordMessageRouted records an inbound message dispatched to handlers.
func (m *Metrics) RecordMessageRouted(matches int) {
	m.messagesRouted.Add(context.Background(), 1, metric.WithAttributes(
		attribute.Int("matches", matches),
	))
}
