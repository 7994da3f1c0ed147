// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package operation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcevm/vmctl/internal/core"
	"github.com/gcevm/vmctl/internal/errors"
	"github.com/gcevm/vmctl/internal/metrics"
	"github.com/gcevm/vmctl/internal/testsupport"
)

func running(progress int) core.OperationStatus {
	return core.OperationStatus{Status: core.OperationRunning, Progress: progress}
}

var done = core.OperationStatus{Status: core.OperationDone, Progress: 100}

func newTestPoller(api core.OperationAPI, reporter core.Reporter, opts ...Option) *Poller {
	opts = append([]Option{WithSleeper(testsupport.NoSleep)}, opts...)
	return NewPoller(api, reporter, testsupport.TestProject, opts...)
}

func TestAwaitReportsEveryNonTerminalStatus(t *testing.T) {
	testCases := []struct {
		name   string
		script []core.OperationStatus
	}{
		{"done immediately", []core.OperationStatus{done}},
		{"pending then done", []core.OperationStatus{{Status: core.OperationPending}, done}},
		{"several running", []core.OperationStatus{running(0), running(40), running(80), done}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api := testsupport.NewFakeCompute()
			reporter := testsupport.NewRecordingReporter()
			api.ScriptNext(tc.script...)
			op, err := api.StartInstance(context.Background(), testsupport.TestProject, "us-central1-a", "demo")
			require.NoError(t, err)

			err = newTestPoller(api, reporter).Await(context.Background(), op, "instance start")
			require.NoError(t, err)

			polls := api.Polls(op.Name)
			assert.Equal(t, len(tc.script), polls)

			info := reporter.Messages(testsupport.LevelInfo)
			require.Len(t, info, len(tc.script))
			assert.Equal(t, "Waiting for instance start to complete...", info[0])
			for i, status := range tc.script[:len(tc.script)-1] {
				assert.Equal(t, fmt.Sprintf("instance start in progress... (%d%%)", status.Progress), info[i+1])
			}
			assert.Equal(t, []string{"instance start completed successfully"}, reporter.Messages(testsupport.LevelSuccess))
		})
	}
}

func TestAwaitFailureCarriesProviderDetail(t *testing.T) {
	api := testsupport.NewFakeCompute()
	reporter := testsupport.NewRecordingReporter()
	api.ScriptNext(running(10), core.OperationStatus{
		Status: core.OperationDone,
		Errors: []string{"QUOTA_EXCEEDED: Quota 'CPUS' exceeded"},
	})
	op, err := api.InsertInstance(context.Background(), testsupport.TestProject, "us-central1-a", core.InstanceSpec{Name: "demo"})
	require.NoError(t, err)

	err = newTestPoller(api, reporter).Await(context.Background(), op, "instance creation")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeRemoteOperation))
	assert.Contains(t, err.Error(), "QUOTA_EXCEEDED")
	assert.True(t, reporter.HasMessage(testsupport.LevelError, "instance creation failed: QUOTA_EXCEEDED"))
	assert.Empty(t, reporter.Messages(testsupport.LevelSuccess))
	_, created := api.Instance("demo")
	assert.False(t, created)
}

func TestAwaitDispatchesByScope(t *testing.T) {
	api := testsupport.NewFakeCompute()
	reporter := testsupport.NewRecordingReporter()
	poller := newTestPoller(api, reporter)
	ctx := context.Background()

	zoneOp, err := api.StopInstance(ctx, testsupport.TestProject, "us-central1-a", "demo")
	require.NoError(t, err)
	require.NoError(t, poller.Await(ctx, zoneOp, "instance stop"))

	globalOp, err := api.InsertFirewall(ctx, testsupport.TestProject, core.FirewallRule{Name: "demo-allow-http"})
	require.NoError(t, err)
	require.NoError(t, poller.Await(ctx, globalOp, "firewall rule creation"))

	assert.Equal(t, 1, api.Count(testsupport.MethodGetZoneOperation))
	assert.Equal(t, 1, api.Count(testsupport.MethodGetGlobalOperation))
	assert.True(t, api.HasFirewall("demo-allow-http"))
}

func TestSetProjectDuringAwait(t *testing.T) {
	api := testsupport.NewFakeCompute()
	reporter := testsupport.NewRecordingReporter()
	poller := newTestPoller(api, reporter)
	api.ScriptNext(running(10), running(20), running(30), running(40), running(50), running(60), done)
	op, err := api.StartInstance(context.Background(), testsupport.TestProject, "us-central1-a", "demo")
	require.NoError(t, err)

	reloaded := make(chan struct{})
	go func() {
		defer close(reloaded)
		for i := 0; i < 20; i++ {
			poller.SetProject(fmt.Sprintf("project-%d", i))
		}
	}()

	require.NoError(t, poller.Await(context.Background(), op, "instance start"))
	<-reloaded
	assert.Equal(t, "project-19", poller.Project())
}

func TestAwaitFetchErrorFailsWait(t *testing.T) {
	api := testsupport.NewFakeCompute()
	reporter := testsupport.NewRecordingReporter()
	op, err := api.ResetInstance(context.Background(), testsupport.TestProject, "us-central1-a", "demo")
	require.NoError(t, err)
	api.Fail(testsupport.MethodGetZoneOperation, fmt.Errorf("connection reset"))

	err = newTestPoller(api, reporter).Await(context.Background(), op, "instance restart")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeOperationFailed))
	assert.True(t, reporter.HasMessage(testsupport.LevelError, "connection reset"))
}

func TestAwaitHonorsCancellation(t *testing.T) {
	api := testsupport.NewFakeCompute()
	reporter := testsupport.NewRecordingReporter()
	api.ScriptNext(running(5))
	op, err := api.DeleteInstance(context.Background(), testsupport.TestProject, "us-central1-a", "demo")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	polls := 0
	sleeper := func(ctx context.Context, _ time.Duration) error {
		polls++
		if polls == 3 {
			cancel()
		}
		return ctx.Err()
	}

	err = newTestPoller(api, reporter, WithSleeper(sleeper)).Await(ctx, op, "instance deletion")

	require.Error(t, err)
	assert.True(t, errors.IsCancelled(err))
	assert.Equal(t, 3, api.Polls(op.Name))
}

func TestAwaitHonorsDeadline(t *testing.T) {
	api := testsupport.NewFakeCompute()
	reporter := testsupport.NewRecordingReporter()
	api.ScriptNext(running(50))
	op, err := api.StopInstance(context.Background(), testsupport.TestProject, "us-central1-a", "demo")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	poller := NewPoller(api, reporter, testsupport.TestProject, WithInterval(5*time.Millisecond))
	err = poller.Await(ctx, op, "instance stop")

	require.Error(t, err)
	assert.True(t, errors.IsCancelled(err))
	assert.Greater(t, api.Polls(op.Name), 1)
}

func TestAwaitRecordsMetrics(t *testing.T) {
	api := testsupport.NewFakeCompute()
	reporter := testsupport.NewRecordingReporter()
	recorder := metrics.NewRecorder()
	api.ScriptNext(running(30), running(60), done)
	op, err := api.StartInstance(context.Background(), testsupport.TestProject, "us-central1-a", "demo")
	require.NoError(t, err)

	require.NoError(t, newTestPoller(api, reporter, WithMetrics(recorder)).Await(context.Background(), op, "instance start"))

	count, err := testutil.GatherAndCount(recorder.Registry(), "vmctl_operation_polls_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	count, err = testutil.GatherAndCount(recorder.Registry(), "vmctl_operation_wait_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSleepReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Sleep(ctx, time.Hour)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
