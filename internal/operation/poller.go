// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package operation waits for asynchronous remote operations to finish
package operation

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/gcevm/vmctl/internal/core"
	"github.com/gcevm/vmctl/internal/errors"
	"github.com/gcevm/vmctl/internal/logger"
	"github.com/gcevm/vmctl/internal/metrics"
)

// DefaultInterval is the pause between two status fetches
const DefaultInterval = 2 * time.Second

// Sleeper pauses for d or until ctx is done, whichever comes first
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the real Sleeper
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Poller fetches operation status until the operation is DONE
type Poller struct {
	api      core.OperationAPI
	reporter core.Reporter
	interval time.Duration
	sleep    Sleeper
	metrics  *metrics.Recorder
	tracer   trace.Tracer

	mu      sync.RWMutex
	project string
}

// Option configures a Poller
type Option func(*Poller)

// WithInterval overrides the pause between fetches
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithSleeper replaces the sleep function
func WithSleeper(s Sleeper) Option {
	return func(p *Poller) { p.sleep = s }
}

// WithMetrics records polls and wait durations
func WithMetrics(m *metrics.Recorder) Option {
	return func(p *Poller) { p.metrics = m }
}

// WithTracer wraps each wait in a span
func WithTracer(t trace.Tracer) Option {
	return func(p *Poller) {
		if t != nil {
			p.tracer = t
		}
	}
}

// NewPoller creates a poller for operations in project
func NewPoller(api core.OperationAPI, reporter core.Reporter, project string, opts ...Option) *Poller {
	p := &Poller{
		api:      api,
		reporter: reporter,
		project:  project,
		interval: DefaultInterval,
		sleep:    Sleep,
		tracer:   noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetProject changes the project operations are fetched from
func (p *Poller) SetProject(project string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.project = project
}

// Project returns the project operations are fetched from
func (p *Poller) Project() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.project
}

// Await blocks until op is DONE. It returns nil when the operation finished
// without error, a remote_operation_failed error carrying the provider
// detail when it finished with one, and an operation_failed or cancelled
// error when fetching fails or ctx ends first. There is no bound on the
// number of fetches; callers bound the wait through ctx.
func (p *Poller) Await(ctx context.Context, op core.Operation, label string) error {
	ctx, span := p.tracer.Start(ctx, "operation.await", trace.WithAttributes(
		attribute.String("operation.name", op.Name),
		attribute.String("operation.scope", string(op.Scope)),
		attribute.String("operation.label", label),
	))
	defer span.End()

	started := time.Now()
	defer func() { p.metrics.ObserveWait(label, time.Since(started)) }()

	p.reporter.Info("Waiting for %s to complete...", label)
	opLog := logger.FromContext(ctx).With().Str("operation", op.Name).Str("scope", string(op.Scope)).Logger()

	for {
		status, err := p.fetch(ctx, op)
		if err != nil {
			if ctx.Err() != nil {
				return p.cancelled(span, label, ctx.Err())
			}
			p.reporter.Error("%s failed: %v", label, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return errors.OperationFailed(label, err)
		}
		opLog.Debug().Str("status", string(status.Status)).Int("progress", status.Progress).Msg("Operation polled")

		if status.Done() {
			if status.Failed() {
				remoteErr := errors.RemoteOperation(label, status.Errors)
				p.reporter.Error("%s", remoteErr.Message)
				span.SetStatus(codes.Error, remoteErr.Message)
				return remoteErr
			}
			p.reporter.Success("%s completed successfully", label)
			span.SetStatus(codes.Ok, "")
			return nil
		}

		p.reporter.Info("%s in progress... (%d%%)", label, status.Progress)
		if err := p.sleep(ctx, p.interval); err != nil {
			return p.cancelled(span, label, err)
		}
	}
}

func (p *Poller) fetch(ctx context.Context, op core.Operation) (core.OperationStatus, error) {
	p.metrics.Poll(op.Scope)
	if op.Scope == core.GlobalScope {
		return p.api.GetGlobalOperation(ctx, p.Project(), op.Name)
	}
	return p.api.GetZoneOperation(ctx, p.Project(), op.Zone, op.Name)
}

func (p *Poller) cancelled(span trace.Span, label string, cause error) error {
	err := errors.Cancelled(label, cause)
	p.reporter.Error("%s", err.Error())
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
