// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"strings"
)

// Format selects how views are written
type Format string

// Supported output formats
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates an output format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want text, json or yaml)", name)
	}
}

// StatusView is the rendered state of the remote instance
type StatusView struct {
	Name        string            `json:"name" yaml:"name"`
	Status      string            `json:"status" yaml:"status"`
	MachineType string            `json:"machine_type" yaml:"machine_type"`
	Zone        string            `json:"zone" yaml:"zone"`
	CPUPlatform string            `json:"cpu_platform" yaml:"cpu_platform"`
	InternalIP  string            `json:"internal_ip,omitempty" yaml:"internal_ip,omitempty"`
	ExternalIP  string            `json:"external_ip,omitempty" yaml:"external_ip,omitempty"`
	Preemptible bool              `json:"preemptible" yaml:"preemptible"`
	AutoRestart bool              `json:"auto_restart" yaml:"auto_restart"`
	Labels      map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`

	hasInterface    bool
	hasAccessConfig bool
}

// AccessView describes how to reach the instance
type AccessView struct {
	SSHCommand string `json:"ssh_command,omitempty" yaml:"ssh_command,omitempty"`
	ExternalIP string `json:"external_ip,omitempty" yaml:"external_ip,omitempty"`
	WebURL     string `json:"web_url,omitempty" yaml:"web_url,omitempty"`
}

// SummaryView is the local configuration plus the best-effort remote status
type SummaryView struct {
	VMName        string `json:"vm_name" yaml:"vm_name"`
	Project       string `json:"project" yaml:"project"`
	Zone          string `json:"zone" yaml:"zone"`
	MachineType   string `json:"machine_type" yaml:"machine_type"`
	OSChoice      string `json:"os_choice" yaml:"os_choice"`
	DiskSizeGB    int64  `json:"disk_size_gb" yaml:"disk_size_gb"`
	HTTPServer    bool   `json:"http_server" yaml:"http_server"`
	Monitoring    bool   `json:"monitoring" yaml:"monitoring"`
	InstanceState string `json:"instance_state" yaml:"instance_state"`
	Preemptible   bool   `json:"preemptible" yaml:"preemptible"`
	AutoRestart   bool   `json:"auto_restart" yaml:"auto_restart"`
	CurrentStatus string `json:"current_status,omitempty" yaml:"current_status,omitempty"`
}

// lastSegment returns the part of a resource URL after the final slash
func lastSegment(url string) string {
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
