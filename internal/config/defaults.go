// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package config provides the instance configuration store, its defaults and
// the catalog of supported choices
package config

// Configuration document keys
const (
	KeyProjectID        = "project_id"
	KeyRegion           = "region"
	KeyZone             = "zone"
	KeyVMName           = "vm_name"
	KeyMachineType      = "machine_type"
	KeyOSChoice         = "os_choice"
	KeyDiskSize         = "disk_size"
	KeyEnableHTTPServer = "enable_http_server"
	KeyEnableMonitoring = "enable_monitoring"
	KeyInstanceState    = "instance_state"
	KeyAutoStart        = "auto_start"
	KeyAutoRestart      = "auto_restart"
	KeyPreemptible      = "preemptible"
	KeyTags             = "tags"
	KeyLabels           = "labels"
)

// PlaceholderProjectID is the default project value that asks vmctl to use
// the project detected from the ambient credentials
const PlaceholderProjectID = "your-gcp-project-id"

// Desired instance states
const (
	StateRunning    = "RUNNING"
	StateTerminated = "TERMINATED"
)

// Label and tag values vmctl stamps on the resources it manages
const (
	ManagedBy = "vmctl"
	HTTPTag   = "http-server"
)

// Defaults returns a fresh copy of the default configuration document
func Defaults() map[string]any {
	return map[string]any{
		KeyProjectID:        PlaceholderProjectID,
		KeyRegion:           "us-central1",
		KeyZone:             "",
		KeyVMName:           "vmctl-managed-vm",
		KeyMachineType:      "e2-micro",
		KeyOSChoice:         "ubuntu",
		KeyDiskSize:         20,
		KeyEnableHTTPServer: true,
		KeyEnableMonitoring: false,
		KeyInstanceState:    StateRunning,
		KeyAutoStart:        true,
		KeyAutoRestart:      true,
		KeyPreemptible:      false,
		KeyTags:             []any{"vmctl-managed", HTTPTag},
		KeyLabels: map[string]any{
			"created-by":  ManagedBy,
			"environment": "development",
		},
	}
}
