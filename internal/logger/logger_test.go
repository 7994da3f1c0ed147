// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package logger

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFileName(t *testing.T) {
	ts := time.Date(2025, 6, 24, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, "vm_management_20250624_090507.log", LogFileName(ts))
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in   LogLevel
		want zerolog.Level
	}{
		{LogDebug, zerolog.DebugLevel},
		{LogInfo, zerolog.InfoLevel},
		{LogWarn, zerolog.WarnLevel},
		{LogError, zerolog.ErrorLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tc := range testCases {
		t.Run(string(tc.in), func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLevel(tc.in))
		})
	}
}

func TestSetupCreatesRunLog(t *testing.T) {
	dir := t.TempDir()
	sink, err := Setup(Config{Level: LogInfo, Dir: dir, Format: "console", RunID: "run-1"})
	require.NoError(t, err)

	sink.Logger.Info().Msg("hello from the run log")
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(sink.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the run log")
	assert.Contains(t, string(data), "run_id=run-1")
}

func TestReporterMirrorsToLog(t *testing.T) {
	var console, file bytes.Buffer
	r := NewReporter(&console, New(&file, Config{Level: LogInfo, Format: "console"}))

	r.Info("creating %s", "demo")
	r.Success("created %s", "demo")
	r.Warn("instance %s already exists", "demo")
	r.Error("failed: %v", "boom")

	lines := strings.Split(strings.TrimSpace(console.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "[INFO] creating demo", lines[0])
	assert.Equal(t, "[SUCCESS] created demo", lines[1])
	assert.Equal(t, "[WARNING] instance demo already exists", lines[2])
	assert.Equal(t, "[ERROR] failed: boom", lines[3])

	logged := file.String()
	assert.Contains(t, logged, "SUCCESS: created demo")
	assert.Contains(t, logged, "WRN")
	assert.Contains(t, logged, "ERR")
}

func TestContextLogger(t *testing.T) {
	assert.Same(t, &log.Logger, FromContext(context.Background()))

	var buf bytes.Buffer
	ctx := WithContext(context.Background(), New(&buf, Config{Level: LogInfo, Format: "json"}))
	ctx, fieldLogger := WithField(ctx, "action", "start")

	fieldLogger.Info().Msg("from field logger")
	FromContext(ctx).Info().Msg("from context")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Contains(t, line, `"action":"start"`)
	}
}

func TestCallerInfo(t *testing.T) {
	var withCaller, without bytes.Buffer
	l := New(&withCaller, Config{Level: LogInfo, Format: "json", CallerInfo: true})
	l.Info().Msg("traced")
	l = New(&without, Config{Level: LogInfo, Format: "json"})
	l.Info().Msg("plain")

	assert.Contains(t, withCaller.String(), `"caller":`)
	assert.NotContains(t, without.String(), `"caller":`)
}
