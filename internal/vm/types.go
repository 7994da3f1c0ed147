// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package vm

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/gcevm/vmctl/internal/config"
	"github.com/gcevm/vmctl/internal/core"
	"github.com/gcevm/vmctl/internal/metrics"
	"github.com/gcevm/vmctl/internal/operation"
)

// Action names used for events, metrics and spans
const (
	ActionCreate  = "create"
	ActionStart   = "start"
	ActionStop    = "stop"
	ActionRestart = "restart"
	ActionDelete  = "delete"
)

// DefaultBootPause is how long start and restart wait for networking to come
// up before showing access information
const DefaultBootPause = 5 * time.Second

// MonitoringScopes are attached to the default service account when
// monitoring is enabled
var MonitoringScopes = []string{
	"https://www.googleapis.com/auth/monitoring.write",
	"https://www.googleapis.com/auth/logging.write",
}

// AccessInfoFunc displays how to reach the instance
type AccessInfoFunc func(ctx context.Context) error

// Options holds the optional collaborators of a Manager
type Options struct {
	// BootPause overrides DefaultBootPause
	BootPause time.Duration
	// Sleep replaces the pause implementation
	Sleep operation.Sleeper
	// AccessInfo runs after a successful start or restart
	AccessInfo AccessInfoFunc
	// Events receives one event per successful mutation
	Events core.EventPublisher
	// Metrics counts lifecycle actions by outcome
	Metrics *metrics.Recorder
	// Tracer wraps each action in a span
	Tracer trace.Tracer
	// Images overrides config.GlobalImageRegistry
	Images *config.ImageRegistry
	// Clock stamps lifecycle events
	Clock func() time.Time
	// RunID tags lifecycle events
	RunID string
}
