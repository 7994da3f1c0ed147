// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package testsupport

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gcevm/vmctl/internal/core"
)

// Report levels recorded by RecordingReporter
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarn    = "warn"
	LevelError   = "error"
)

// Entry is one recorded report
type Entry struct {
	Level   string
	Message string
}

var _ core.Reporter = (*RecordingReporter)(nil)

// RecordingReporter keeps every reported message in order
type RecordingReporter struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecordingReporter creates an empty recorder
func NewRecordingReporter() *RecordingReporter {
	return &RecordingReporter{}
}

func (r *RecordingReporter) add(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
}

// Info implements core.Reporter
func (r *RecordingReporter) Info(format string, args ...any) { r.add(LevelInfo, format, args...) }

// Success implements core.Reporter
func (r *RecordingReporter) Success(format string, args ...any) { r.add(LevelSuccess, format, args...) }

// Warn implements core.Reporter
func (r *RecordingReporter) Warn(format string, args ...any) { r.add(LevelWarn, format, args...) }

// Error implements core.Reporter
func (r *RecordingReporter) Error(format string, args ...any) { r.add(LevelError, format, args...) }

// Entries returns a copy of everything recorded so far
func (r *RecordingReporter) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Messages returns the messages recorded at level
func (r *RecordingReporter) Messages(level string) []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// HasMessage reports whether a message at level contains substr
func (r *RecordingReporter) HasMessage(level, substr string) bool {
	for _, msg := range r.Messages(level) {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

// RecordingPublisher keeps every published lifecycle event
type RecordingPublisher struct {
	mu     sync.Mutex
	events []core.LifecycleEvent
	// Err is returned from Publish when set
	Err error
}

var _ core.EventPublisher = (*RecordingPublisher)(nil)

// Publish implements core.EventPublisher
func (p *RecordingPublisher) Publish(_ context.Context, event core.LifecycleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.Err
}

// Actions returns the published event names in order
func (p *RecordingPublisher) Actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

// NoSleep is a sleeper that returns immediately unless ctx is done
func NoSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
