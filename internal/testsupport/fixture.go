// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package testsupport

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/gcevm/vmctl/internal/core"
	"github.com/gcevm/vmctl/internal/errors"
)

var _ core.ComputeAPI = (*FakeCompute)(nil)

// Method names accepted by FakeCompute.Fail and FakeCompute.Count
const (
	MethodGetInstance        = "GetInstance"
	MethodInsertInstance     = "InsertInstance"
	MethodStartInstance      = "StartInstance"
	MethodStopInstance       = "StopInstance"
	MethodResetInstance      = "ResetInstance"
	MethodDeleteInstance     = "DeleteInstance"
	MethodGetFirewall        = "GetFirewall"
	MethodInsertFirewall     = "InsertFirewall"
	MethodGetZoneOperation   = "GetZoneOperation"
	MethodGetGlobalOperation = "GetGlobalOperation"
)

type fakeOperation struct {
	op     core.Operation
	script []core.OperationStatus
	polls  int
	apply  func()
	done   bool
}

// FakeCompute is an in-memory compute provider. Mutations return operations
// whose statuses follow a script; the mutation takes effect once its
// operation is observed DONE without errors.
type FakeCompute struct {
	mu         sync.Mutex
	instances  map[string]*core.Instance
	firewalls  map[string]*core.FirewallRule
	operations map[string]*fakeOperation
	scripts    [][]core.OperationStatus
	failures   map[string]error
	calls      []string
	opSeq      int

	// InsertedSpecs records every instance creation request
	InsertedSpecs []core.InstanceSpec
	// InsertedRules records every firewall creation request
	InsertedRules []core.FirewallRule
	// Closed is set by Close
	Closed bool
}

// NewFakeCompute creates an empty fake provider
func NewFakeCompute() *FakeCompute {
	return &FakeCompute{
		instances:  make(map[string]*core.Instance),
		firewalls:  make(map[string]*core.FirewallRule),
		operations: make(map[string]*fakeOperation),
		failures:   make(map[string]error),
	}
}

// AddInstance seeds an existing instance
func (f *FakeCompute) AddInstance(instance core.Instance) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.instances[instance.Name] = &instance
}

// AddFirewall seeds an existing firewall rule
func (f *FakeCompute) AddFirewall(rule core.FirewallRule) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.firewalls[rule.Name] = &rule
}

// Instance returns a copy of the named instance
func (f *FakeCompute) Instance(name string) (core.Instance, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	instance, ok := f.instances[name]
	if !ok {
		return core.Instance{}, false
	}
	return *instance, true
}

// HasFirewall reports whether the named rule exists
func (f *FakeCompute) HasFirewall(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.firewalls[name]
	return ok
}

// Fail makes every call to method return err; a nil err clears it
func (f *FakeCompute) Fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, method)
		return
	}
	f.failures[method] = err
}

// ScriptNext queues the status sequence for the next operation created. The
// last status repeats once the script is exhausted. Operations created with no
// queued script complete on their first poll.
func (f *FakeCompute) ScriptNext(statuses ...core.OperationStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts = append(f.scripts, statuses)
}

// Calls returns the ordered call log, one "Method arg" entry per call
func (f *FakeCompute) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// Count returns how many times method was called
func (f *FakeCompute) Count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, call := range f.calls {
		if call == method || strings.HasPrefix(call, method+" ") {
			n++
		}
	}
	return n
}

// Polls returns how many times the named operation was fetched
func (f *FakeCompute) Polls(operation string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if op, ok := f.operations[operation]; ok {
		return op.polls
	}
	return 0
}

func (f *FakeCompute) record(method, arg string) error {
	f.calls = append(f.calls, method+" "+arg)
	return f.failures[method]
}

func (f *FakeCompute) newOperation(scope core.OperationScope, zone string, apply func()) core.Operation {
	f.opSeq++
	op := core.Operation{Name: fmt.Sprintf("operation-%d", f.opSeq), Scope: scope, Zone: zone}

	script := []core.OperationStatus{{Status: core.OperationDone, Progress: 100}}
	if len(f.scripts) > 0 {
		script = f.scripts[0]
		f.scripts = f.scripts[1:]
	}
	f.operations[op.Name] = &fakeOperation{op: op, script: script, apply: apply}
	return op
}

func (f *FakeCompute) observe(name string) (core.OperationStatus, error) {
	op, ok := f.operations[name]
	if !ok {
		return core.OperationStatus{}, errors.NotFound("operation", name)
	}
	idx := min(op.polls, len(op.script)-1)
	op.polls++
	status := op.script[idx]
	status.Name = name
	if status.Done() && !status.Failed() && !op.done {
		op.done = true
		if op.apply != nil {
			op.apply()
		}
	}
	return status, nil
}

func (f *FakeCompute) setStatus(name string, status core.InstanceStatus) func() {
	return func() {
		if instance, ok := f.instances[name]; ok {
			instance.Status = status
		}
	}
}

// GetInstance implements core.InstanceAPI
func (f *FakeCompute) GetInstance(_ context.Context, _, _, name string) (*core.Instance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(MethodGetInstance, name); err != nil {
		return nil, err
	}
	instance, ok := f.instances[name]
	if !ok {
		return nil, errors.NotFound("instance", name)
	}
	out := *instance
	return &out, nil
}

// InsertInstance implements core.InstanceAPI
func (f *FakeCompute) InsertInstance(_ context.Context, _, zone string, spec core.InstanceSpec) (core.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(MethodInsertInstance, spec.Name); err != nil {
		return core.Operation{}, err
	}
	f.InsertedSpecs = append(f.InsertedSpecs, spec)
	return f.newOperation(core.ZoneScope, zone, func() {
		f.instances[spec.Name] = &core.Instance{
			Name:        spec.Name,
			Status:      core.Running,
			MachineType: spec.MachineType,
			Zone:        "zones/" + zone,
			NetworkInterfaces: []core.NetworkInterface{{
				Network:         spec.Network.Network,
				InternalIP:      "10.128.0.2",
				ExternalIP:      "203.0.113.10",
				HasAccessConfig: len(spec.Network.AccessConfigs) > 0,
			}},
			Scheduling: spec.Scheduling,
			Labels:     spec.Labels,
		}
	}), nil
}

// StartInstance implements core.InstanceAPI
func (f *FakeCompute) StartInstance(_ context.Context, _, zone, name string) (core.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(MethodStartInstance, name); err != nil {
		return core.Operation{}, err
	}
	return f.newOperation(core.ZoneScope, zone, f.setStatus(name, core.Running)), nil
}

// StopInstance implements core.InstanceAPI
func (f *FakeCompute) StopInstance(_ context.Context, _, zone, name string) (core.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(MethodStopInstance, name); err != nil {
		return core.Operation{}, err
	}
	return f.newOperation(core.ZoneScope, zone, f.setStatus(name, core.Terminated)), nil
}

// ResetInstance implements core.InstanceAPI
func (f *FakeCompute) ResetInstance(_ context.Context, _, zone, name string) (core.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(MethodResetInstance, name); err != nil {
		return core.Operation{}, err
	}
	return f.newOperation(core.ZoneScope, zone, f.setStatus(name, core.Running)), nil
}

// DeleteInstance implements core.InstanceAPI
func (f *FakeCompute) DeleteInstance(_ context.Context, _, zone, name string) (core.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(MethodDeleteInstance, name); err != nil {
		return core.Operation{}, err
	}
	return f.newOperation(core.ZoneScope, zone, func() {
		delete(f.instances, name)
	}), nil
}

// GetFirewall implements core.FirewallAPI
func (f *FakeCompute) GetFirewall(_ context.Context, _, name string) (*core.FirewallRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(MethodGetFirewall, name); err != nil {
		return nil, err
	}
	rule, ok := f.firewalls[name]
	if !ok {
		return nil, errors.NotFound("firewall", name)
	}
	out := *rule
	return &out, nil
}

// InsertFirewall implements core.FirewallAPI
func (f *FakeCompute) InsertFirewall(_ context.Context, _ string, rule core.FirewallRule) (core.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(MethodInsertFirewall, rule.Name); err != nil {
		return core.Operation{}, err
	}
	f.InsertedRules = append(f.InsertedRules, rule)
	return f.newOperation(core.GlobalScope, "", func() {
		f.firewalls[rule.Name] = &rule
	}), nil
}

// GetZoneOperation implements core.OperationAPI
func (f *FakeCompute) GetZoneOperation(_ context.Context, _, _, name string) (core.OperationStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(MethodGetZoneOperation, name); err != nil {
		return core.OperationStatus{}, err
	}
	return f.observe(name)
}

// GetGlobalOperation implements core.OperationAPI
func (f *FakeCompute) GetGlobalOperation(_ context.Context, _, name string) (core.OperationStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(MethodGetGlobalOperation, name); err != nil {
		return core.OperationStatus{}, err
	}
	return f.observe(name)
}

// Close implements core.ComputeAPI
func (f *FakeCompute) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}
