// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package core provides the core interfaces for vmctl
package core

import "context"

// InstanceAPI is the instance resource surface of the compute provider.
// GetInstance returns an error satisfying errors.IsNotFound when the provider
// reports the instance as absent.
type InstanceAPI interface {
	// GetInstance fetches the current remote view of an instance
	GetInstance(ctx context.Context, project, zone, name string) (*Instance, error)

	// InsertInstance submits an instance creation request
	InsertInstance(ctx context.Context, project, zone string, spec InstanceSpec) (Operation, error)

	// StartInstance starts a stopped instance
	StartInstance(ctx context.Context, project, zone, name string) (Operation, error)

	// StopInstance stops a running instance
	StopInstance(ctx context.Context, project, zone, name string) (Operation, error)

	// ResetInstance hard-resets an instance
	ResetInstance(ctx context.Context, project, zone, name string) (Operation, error)

	// DeleteInstance deletes an instance
	DeleteInstance(ctx context.Context, project, zone, name string) (Operation, error)
}

// FirewallAPI is the firewall resource surface of the compute provider
type FirewallAPI interface {
	// GetFirewall fetches a firewall rule, not-found as for GetInstance
	GetFirewall(ctx context.Context, project, name string) (*FirewallRule, error)

	// InsertFirewall submits a firewall rule creation request
	InsertFirewall(ctx context.Context, project string, rule FirewallRule) (Operation, error)
}

// OperationAPI is the operation resource surface of the compute provider
type OperationAPI interface {
	// GetZoneOperation fetches the status of a zone-scoped operation
	GetZoneOperation(ctx context.Context, project, zone, name string) (OperationStatus, error)

	// GetGlobalOperation fetches the status of a project-wide operation
	GetGlobalOperation(ctx context.Context, project, name string) (OperationStatus, error)
}

// ComputeAPI is the full capability set handed to the lifecycle components
type ComputeAPI interface {
	InstanceAPI
	FirewallAPI
	OperationAPI

	// Close releases the underlying clients
	Close() error
}

// Reporter is the leveled message sink used by lifecycle components
type Reporter interface {
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// EventPublisher receives notifications about completed lifecycle actions
type EventPublisher interface {
	Publish(ctx context.Context, event LifecycleEvent) error
}

// LifecycleEvent describes a completed lifecycle action
type LifecycleEvent struct {
	Action  string `json:"event"`
	VMName  string `json:"vm"`
	Zone    string `json:"zone"`
	Project string `json:"project"`
	RunID   string `json:"run_id,omitempty"`
	Time    string `json:"time"`
}

// LifecycleController drives one configured instance through its lifecycle
type LifecycleController interface {
	Create(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Restart(ctx context.Context) error
	Delete(ctx context.Context) error
	// Status returns the instance status together with whether the instance
	// was found; the status is only meaningful when it was
	Status(ctx context.Context) (InstanceStatus, Existence, error)
}
