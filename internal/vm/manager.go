// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package vm

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/gcevm/vmctl/internal/config"
	"github.com/gcevm/vmctl/internal/core"
	"github.com/gcevm/vmctl/internal/errors"
	"github.com/gcevm/vmctl/internal/logger"
	"github.com/gcevm/vmctl/internal/metrics"
	"github.com/gcevm/vmctl/internal/operation"
)

// Manager handles the lifecycle of the configured instance
type Manager struct {
	api        core.ComputeAPI
	store      *config.Store
	reporter   core.Reporter
	poller     *operation.Poller
	images     *config.ImageRegistry
	bootPause  time.Duration
	sleep      operation.Sleeper
	accessInfo AccessInfoFunc
	events     core.EventPublisher
	metrics    *metrics.Recorder
	tracer     trace.Tracer
	clock      func() time.Time
	runID      string
}

// NewManager creates a manager acting on the instance described by store
func NewManager(api core.ComputeAPI, store *config.Store, reporter core.Reporter, poller *operation.Poller, opts Options) *Manager {
	m := &Manager{
		api:        api,
		store:      store,
		reporter:   reporter,
		poller:     poller,
		images:     opts.Images,
		bootPause:  opts.BootPause,
		sleep:      opts.Sleep,
		accessInfo: opts.AccessInfo,
		events:     opts.Events,
		metrics:    opts.Metrics,
		tracer:     opts.Tracer,
		clock:      opts.Clock,
		runID:      opts.RunID,
	}
	if m.images == nil {
		m.images = config.GlobalImageRegistry
	}
	if m.bootPause == 0 {
		m.bootPause = DefaultBootPause
	}
	if m.sleep == nil {
		m.sleep = operation.Sleep
	}
	if m.tracer == nil {
		m.tracer = noop.NewTracerProvider().Tracer("")
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	return m
}

// Create creates the instance unless it already exists. When HTTP is enabled
// the firewall rule is ensured first; it is not rolled back if the instance
// creation fails afterwards.
func (m *Manager) Create(ctx context.Context) (err error) {
	ctx, span := m.begin(ctx, ActionCreate)
	skipped := false
	defer func() { m.finish(ctx, span, ActionCreate, skipped, err) }()

	name := m.store.VMName()
	zone := m.store.Zone()
	project := m.store.ProjectID()

	m.reporter.Info("=== Creating VM Instance: %s ===", name)
	m.reporter.Info("Project: %s", project)
	m.reporter.Info("Zone: %s", zone)
	m.reporter.Info("Machine Type: %s", m.store.MachineType())
	m.reporter.Info("OS: %s", m.store.OSChoice())
	m.reporter.Info("Disk Size: %d GB", m.store.DiskSizeGB())
	m.reporter.Info("HTTP Server: %t", m.store.EnableHTTP())
	m.reporter.Info("Preemptible: %t", m.store.Preemptible())

	_, existence, err := m.lookup(ctx)
	switch existence {
	case core.Found:
		m.reporter.Warn("Instance %s already exists", name)
		skipped = true
		return nil
	case core.ExistenceUnknown:
		m.reporter.Error("Failed to check whether instance %s exists: %v", name, err)
		return errors.OperationFailed("check instance existence", err)
	}

	spec, err := BuildInstanceSpec(m.store, m.images)
	if err != nil {
		m.reporter.Error("Failed to build instance request: %v", err)
		return err
	}

	if m.store.EnableHTTP() {
		if err := m.ensureFirewall(ctx, project, name); err != nil {
			m.reporter.Error("Failed to create firewall rule")
			return err
		}
	}

	m.reporter.Info("Submitting instance creation request...")
	op, err := m.api.InsertInstance(ctx, project, zone, spec)
	if err != nil {
		m.reporter.Error("Failed to create instance: %v", err)
		return errors.OperationFailed("create instance", err)
	}
	if err := m.poller.Await(ctx, op, "instance creation"); err != nil {
		return err
	}
	m.reporter.Success("VM instance %s created successfully!", name)

	if m.store.InstanceState() == config.StateTerminated {
		m.reporter.Info("Stopping instance as per configuration...")
		if err := m.Stop(ctx); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("vm", name).Msg("Instance created but the configured stop failed")
		}
	}
	return nil
}

func (m *Manager) ensureFirewall(ctx context.Context, project, vmName string) error {
	rule := HTTPFirewallRule(vmName)

	_, err := m.api.GetFirewall(ctx, project, rule.Name)
	switch {
	case err == nil:
		m.reporter.Info("Firewall rule %s already exists", rule.Name)
		return nil
	case errors.IsNotFound(err):
	default:
		m.reporter.Warn("Could not check firewall rule %s, attempting to create it: %v", rule.Name, err)
	}

	m.reporter.Info("Creating firewall rule: %s", rule.Name)
	op, err := m.api.InsertFirewall(ctx, project, rule)
	if err != nil {
		m.reporter.Error("Failed to create firewall rule: %v", err)
		return errors.OperationFailed("create firewall rule", err)
	}
	if err := m.poller.Await(ctx, op, "firewall rule creation"); err != nil {
		return err
	}
	m.reporter.Success("Firewall rule %s created", rule.Name)
	return nil
}

// Start starts the instance unless it is already running, then records the
// RUNNING state and shows access information
func (m *Manager) Start(ctx context.Context) (err error) {
	ctx, span := m.begin(ctx, ActionStart)
	skipped := false
	defer func() { m.finish(ctx, span, ActionStart, skipped, err) }()

	name := m.store.VMName()
	status, err := m.requireInstance(ctx)
	if err != nil {
		return err
	}
	if status == core.Running {
		m.reporter.Warn("Instance %s is already running", name)
		skipped = true
		return nil
	}

	m.reporter.Info("Starting instance %s...", name)
	op, err := m.api.StartInstance(ctx, m.store.ProjectID(), m.store.Zone(), name)
	if err != nil {
		m.reporter.Error("Failed to start instance: %v", err)
		return errors.OperationFailed("start instance", err)
	}
	if err := m.poller.Await(ctx, op, "instance start"); err != nil {
		return err
	}
	m.reporter.Success("Instance %s started successfully!", name)

	m.store.Set(config.KeyInstanceState, config.StateRunning)
	m.save()
	m.afterBoot(ctx)
	return nil
}

// Stop stops the instance unless it is already stopped, then records the
// TERMINATED state
func (m *Manager) Stop(ctx context.Context) (err error) {
	ctx, span := m.begin(ctx, ActionStop)
	skipped := false
	defer func() { m.finish(ctx, span, ActionStop, skipped, err) }()

	name := m.store.VMName()
	status, err := m.requireInstance(ctx)
	if err != nil {
		return err
	}
	if status.IsStopped() {
		m.reporter.Warn("Instance %s is already stopped", name)
		skipped = true
		return nil
	}

	m.reporter.Info("Stopping instance %s...", name)
	op, err := m.api.StopInstance(ctx, m.store.ProjectID(), m.store.Zone(), name)
	if err != nil {
		m.reporter.Error("Failed to stop instance: %v", err)
		return errors.OperationFailed("stop instance", err)
	}
	if err := m.poller.Await(ctx, op, "instance stop"); err != nil {
		return err
	}
	m.reporter.Success("Instance %s stopped successfully!", name)

	m.store.Set(config.KeyInstanceState, config.StateTerminated)
	m.save()
	return nil
}

// Restart hard-resets the instance without checking its status first. The
// configuration is left untouched.
func (m *Manager) Restart(ctx context.Context) (err error) {
	ctx, span := m.begin(ctx, ActionRestart)
	defer func() { m.finish(ctx, span, ActionRestart, false, err) }()

	name := m.store.VMName()
	m.reporter.Info("Restarting instance %s...", name)
	op, err := m.api.ResetInstance(ctx, m.store.ProjectID(), m.store.Zone(), name)
	if err != nil {
		m.reporter.Error("Failed to restart instance: %v", err)
		return errors.OperationFailed("restart instance", err)
	}
	if err := m.poller.Await(ctx, op, "instance restart"); err != nil {
		return err
	}
	m.reporter.Success("Instance %s restarted successfully!", name)

	m.afterBoot(ctx)
	return nil
}

// Delete deletes the instance without checking that it exists first
func (m *Manager) Delete(ctx context.Context) (err error) {
	ctx, span := m.begin(ctx, ActionDelete)
	defer func() { m.finish(ctx, span, ActionDelete, false, err) }()

	name := m.store.VMName()
	m.reporter.Warn("Deleting instance %s...", name)
	op, err := m.api.DeleteInstance(ctx, m.store.ProjectID(), m.store.Zone(), name)
	if err != nil {
		m.reporter.Error("Failed to delete instance: %v", err)
		return errors.OperationFailed("delete instance", err)
	}
	if err := m.poller.Await(ctx, op, "instance deletion"); err != nil {
		return err
	}
	m.reporter.Success("Instance %s deleted successfully!", name)
	return nil
}

// Status fetches the current instance status. A missing instance yields
// core.NotFound with a nil error; any other failure yields
// core.ExistenceUnknown with the error.
func (m *Manager) Status(ctx context.Context) (core.InstanceStatus, core.Existence, error) {
	instance, existence, err := m.lookup(ctx)
	if existence != core.Found {
		return core.Unknown, existence, err
	}
	status, mapErr := GlobalStateMapper.Map(string(instance.Status))
	if mapErr != nil {
		logger.FromContext(ctx).Warn().Err(mapErr).Str("vm", instance.Name).Msg("Unmapped instance status")
	}
	return status, core.Found, nil
}

func (m *Manager) lookup(ctx context.Context) (*core.Instance, core.Existence, error) {
	instance, err := m.api.GetInstance(ctx, m.store.ProjectID(), m.store.Zone(), m.store.VMName())
	switch {
	case err == nil:
		return instance, core.Found, nil
	case errors.IsNotFound(err):
		return nil, core.NotFound, nil
	default:
		return nil, core.ExistenceUnknown, err
	}
}

// requireInstance returns the status of an instance that must exist
func (m *Manager) requireInstance(ctx context.Context) (core.InstanceStatus, error) {
	name := m.store.VMName()
	status, existence, err := m.Status(ctx)
	switch existence {
	case core.NotFound:
		m.reporter.Error("Instance %s not found", name)
		return status, errors.NotFound("instance", name)
	case core.ExistenceUnknown:
		m.reporter.Error("Failed to get instance status: %v", err)
		return status, errors.OperationFailed("get instance status", err)
	}
	return status, nil
}

// save persists the configuration; a failure is reported but not returned
func (m *Manager) save() {
	if err := m.store.Save(); err != nil {
		m.reporter.Error("Error saving config: %v", err)
		return
	}
	m.reporter.Success("Configuration saved to %s", m.store.Path())
}

// afterBoot waits for networking and shows access information
func (m *Manager) afterBoot(ctx context.Context) {
	if err := m.sleep(ctx, m.bootPause); err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("Boot pause interrupted, skipping access information")
		return
	}
	if m.accessInfo == nil {
		return
	}
	if err := m.accessInfo(ctx); err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("Access information unavailable")
	}
}

func (m *Manager) begin(ctx context.Context, action string) (context.Context, trace.Span) {
	ctx, _ = logger.WithField(ctx, "action", action)
	return m.tracer.Start(ctx, "vm."+action, trace.WithAttributes(
		attribute.String("vm.name", m.store.VMName()),
		attribute.String("vm.zone", m.store.Zone()),
	))
}

// finish counts the action, publishes an event for performed mutations and
// closes the span
func (m *Manager) finish(ctx context.Context, span trace.Span, action string, skipped bool, err error) {
	defer span.End()

	switch {
	case err != nil:
		m.metrics.Operation(action, metrics.OutcomeFailure)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.FromContext(ctx).Error().Err(err).Str("vm", m.store.VMName()).Msg("Lifecycle action failed")
		return
	case skipped:
		m.metrics.Operation(action, metrics.OutcomeNoop)
		span.SetAttributes(attribute.Bool("vm.noop", true))
		return
	}

	m.metrics.Operation(action, metrics.OutcomeSuccess)
	span.SetStatus(codes.Ok, "")
	if m.events == nil {
		return
	}
	event := core.LifecycleEvent{
		Action:  "vm." + action,
		VMName:  m.store.VMName(),
		Zone:    m.store.Zone(),
		Project: m.store.ProjectID(),
		RunID:   m.runID,
		Time:    m.clock().UTC().Format(time.RFC3339),
	}
	if err := m.events.Publish(context.WithoutCancel(ctx), event); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("event", event.Action).Msg("Failed to publish lifecycle event")
	}
}
