// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package events publishes lifecycle notifications to NATS
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/gcevm/vmctl/internal/core"
)

// Subject carries every lifecycle event
const Subject = "vmctl.lifecycle"

// Conn is the subset of *nats.Conn the publisher needs
type Conn interface {
	Publish(subject string, data []byte) error
	Drain() error
	Close()
	IsClosed() bool
}

// Publisher encodes lifecycle events as JSON and sends them on Subject
type Publisher struct {
	conn    Conn
	subject string
}

var _ core.EventPublisher = (*Publisher)(nil)

// Connect dials the NATS server at url
func Connect(url string) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name("vmctl"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return NewPublisher(nc, Subject), nil
}

// NewPublisher wraps an existing connection
func NewPublisher(conn Conn, subject string) *Publisher {
	return &Publisher{conn: conn, subject: subject}
}

// Publish implements core.EventPublisher
func (p *Publisher) Publish(ctx context.Context, event core.LifecycleEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.conn == nil || p.conn.IsClosed() {
		return fmt.Errorf("nats not connected")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	log.Debug().Str("subject", p.subject).Str("event", event.Action).Msg("Publishing lifecycle event")
	return p.conn.Publish(p.subject, payload)
}

// Close flushes pending messages and closes the connection
func (p *Publisher) Close() {
	if p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		log.Debug().Err(err).Msg("NATS drain failed")
	}
	p.conn.Close()
}

// Nop discards every event
type Nop struct{}

// Publish implements core.EventPublisher
func (Nop) Publish(context.Context, core.LifecycleEvent) error { return nil }
