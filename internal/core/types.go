// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package core provides the core types used throughout vmctl
package core

// InstanceStatus represents the status of a remote compute instance
type InstanceStatus string

const (
	// Provisioning indicates resources are being allocated for the instance
	Provisioning InstanceStatus = "PROVISIONING"
	// Staging indicates the instance is being prepared for first boot
	Staging InstanceStatus = "STAGING"
	// Running indicates the instance is booting or running
	Running InstanceStatus = "RUNNING"
	// Stopping indicates the instance is being stopped
	Stopping InstanceStatus = "STOPPING"
	// Stopped indicates the instance is stopped
	Stopped InstanceStatus = "STOPPED"
	// Suspending indicates the instance is being suspended
	Suspending InstanceStatus = "SUSPENDING"
	// Suspended indicates the instance is suspended
	Suspended InstanceStatus = "SUSPENDED"
	// Repairing indicates the provider is repairing the instance
	Repairing InstanceStatus = "REPAIRING"
	// Terminated indicates the instance is shut down
	Terminated InstanceStatus = "TERMINATED"
	// Unknown indicates the status could not be mapped
	Unknown InstanceStatus = "UNKNOWN"
)

// IsStopped reports whether the status counts as already stopped
func (s InstanceStatus) IsStopped() bool {
	return s == Stopped || s == Terminated
}

// Existence is the result of an explicit existence query
type Existence int

const (
	// ExistenceUnknown means the query failed and the answer is not known
	ExistenceUnknown Existence = iota
	// Found means the resource exists
	Found
	// NotFound means the provider reported the resource as absent
	NotFound
)

func (e Existence) String() string {
	switch e {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// OperationScope distinguishes zone-scoped from project-wide operations
type OperationScope string

const (
	// ZoneScope is an operation tied to a zone (instance operations)
	ZoneScope OperationScope = "zone"
	// GlobalScope is a project-wide operation (firewall operations)
	GlobalScope OperationScope = "global"
)

// Operation is a handle on an in-flight mutating request
type Operation struct {
	Name  string
	Scope OperationScope
	// Zone is set for zone-scoped operations
	Zone string
}

// OperationState is the lifecycle state of a remote operation
type OperationState string

const (
	// OperationPending means the operation has not started
	OperationPending OperationState = "PENDING"
	// OperationRunning means the operation is in progress
	OperationRunning OperationState = "RUNNING"
	// OperationDone means the operation reached its terminal state
	OperationDone OperationState = "DONE"
)

// OperationStatus is one observation of a remote operation
type OperationStatus struct {
	Name     string
	Status   OperationState
	Progress int
	// Errors holds "CODE: message" entries when the operation failed
	Errors []string
}

// Done reports whether the operation is terminal
func (s OperationStatus) Done() bool {
	return s.Status == OperationDone
}

// Failed reports whether the operation is terminal with an error attached
func (s OperationStatus) Failed() bool {
	return s.Done() && len(s.Errors) > 0
}
