// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package events

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcevm/vmctl/internal/core"
)

type fakeConn struct {
	subjects []string
	payloads [][]byte
	err      error
	closed   bool
	drained  bool
}

func (c *fakeConn) Publish(subject string, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.subjects = append(c.subjects, subject)
	c.payloads = append(c.payloads, data)
	return nil
}

func (c *fakeConn) Drain() error   { c.drained = true; return nil }
func (c *fakeConn) Close()         { c.closed = true }
func (c *fakeConn) IsClosed() bool { return c.closed }

func sampleEvent() core.LifecycleEvent {
	return core.LifecycleEvent{
		Action:  "vm.start",
		VMName:  "demo",
		Zone:    "us-west1-a",
		Project: "test-project",
		RunID:   "run-1",
		Time:    "2025-01-02T03:04:05Z",
	}
}

func TestPublishEncodesJSON(t *testing.T) {
	conn := &fakeConn{}
	p := NewPublisher(conn, Subject)

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))

	require.Len(t, conn.payloads, 1)
	assert.Equal(t, "vmctl.lifecycle", conn.subjects[0])
	assert.JSONEq(t, `{
		"event": "vm.start",
		"vm": "demo",
		"zone": "us-west1-a",
		"project": "test-project",
		"run_id": "run-1",
		"time": "2025-01-02T03:04:05Z"
	}`, string(conn.payloads[0]))
}

func TestPublishOmitsEmptyRunID(t *testing.T) {
	conn := &fakeConn{}
	event := sampleEvent()
	event.RunID = ""

	require.NoError(t, NewPublisher(conn, Subject).Publish(context.Background(), event))
	assert.NotContains(t, string(conn.payloads[0]), "run_id")
}

func TestPublishErrors(t *testing.T) {
	t.Run("connection error is returned", func(t *testing.T) {
		conn := &fakeConn{err: fmt.Errorf("slow consumer")}
		err := NewPublisher(conn, Subject).Publish(context.Background(), sampleEvent())
		assert.ErrorContains(t, err, "slow consumer")
	})

	t.Run("closed connection", func(t *testing.T) {
		conn := &fakeConn{closed: true}
		err := NewPublisher(conn, Subject).Publish(context.Background(), sampleEvent())
		assert.ErrorContains(t, err, "not connected")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		conn := &fakeConn{}
		err := NewPublisher(conn, Subject).Publish(ctx, sampleEvent())
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, conn.payloads)
	})
}

func TestCloseDrains(t *testing.T) {
	conn := &fakeConn{}
	NewPublisher(conn, Subject).Close()
	assert.True(t, conn.drained)
	assert.True(t, conn.closed)
}

func TestNop(t *testing.T) {
	var p core.EventPublisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), sampleEvent()))
}
