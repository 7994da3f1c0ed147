// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcevm/vmctl/internal/core"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()

	r.Operation("start", OutcomeSuccess)
	r.Operation("start", OutcomeSuccess)
	r.Operation("stop", OutcomeNoop)
	r.Poll(core.ZoneScope)
	r.Poll(core.GlobalScope)
	r.Poll(core.ZoneScope)
	r.ObserveWait("instance start", 3*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.operations.WithLabelValues("start", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.operations.WithLabelValues("stop", OutcomeNoop)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.polls.WithLabelValues("zone")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.polls.WithLabelValues("global")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.wait))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Operation("create", OutcomeFailure)
		r.Poll(core.ZoneScope)
		r.ObserveWait("instance creation", time.Second)
	})
}

func TestRecordersAreIndependent(t *testing.T) {
	a := NewRecorder()
	b := NewRecorder()
	a.Operation("delete", OutcomeSuccess)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.operations.WithLabelValues("delete", OutcomeSuccess)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.operations.WithLabelValues("delete", OutcomeSuccess)))
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRecorder()
	r.Operation("restart", OutcomeSuccess)

	mux := http.NewServeMux()
	r.RegisterMetrics(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `vmctl_lifecycle_operations_total{action="restart",outcome="success"} 1`)
}
