// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupEnabledExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	provider, err := Setup(true, &buf, "run-42")
	require.NoError(t, err)

	_, span := provider.Tracer().Start(context.Background(), "vm.start")
	span.End()
	require.NoError(t, provider.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), `"Name":"vm.start"`)
	assert.Contains(t, buf.String(), "run-42")
}

func TestSetupDisabledIsNoop(t *testing.T) {
	var buf bytes.Buffer
	provider, err := Setup(false, &buf, "run-42")
	require.NoError(t, err)

	_, span := provider.Tracer().Start(context.Background(), "vm.stop")
	span.End()
	require.NoError(t, provider.Shutdown(context.Background()))

	assert.False(t, span.SpanContext().IsValid())
	assert.Empty(t, buf.String())
}
