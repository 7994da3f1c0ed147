// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package core

// NetworkInterface is the subset of a remote network interface vmctl reads
type NetworkInterface struct {
	Network    string `json:"network,omitempty" yaml:"network,omitempty"`
	InternalIP string `json:"internal_ip,omitempty" yaml:"internal_ip,omitempty"`
	ExternalIP string `json:"external_ip,omitempty" yaml:"external_ip,omitempty"`
	// HasAccessConfig is true when the interface carries a NAT access config,
	// with or without an allocated address
	HasAccessConfig bool `json:"has_access_config" yaml:"has_access_config"`
}

// Scheduling holds the scheduling policy of an instance
type Scheduling struct {
	Preemptible       bool   `json:"preemptible" yaml:"preemptible"`
	AutomaticRestart  bool   `json:"automatic_restart" yaml:"automatic_restart"`
	OnHostMaintenance string `json:"on_host_maintenance,omitempty" yaml:"on_host_maintenance,omitempty"`
}

// Instance is a fetched view of a remote instance
type Instance struct {
	Name              string             `json:"name" yaml:"name"`
	Status            InstanceStatus     `json:"status" yaml:"status"`
	MachineType       string             `json:"machine_type" yaml:"machine_type"`
	Zone              string             `json:"zone" yaml:"zone"`
	CPUPlatform       string             `json:"cpu_platform,omitempty" yaml:"cpu_platform,omitempty"`
	NetworkInterfaces []NetworkInterface `json:"network_interfaces,omitempty" yaml:"network_interfaces,omitempty"`
	Scheduling        Scheduling         `json:"scheduling" yaml:"scheduling"`
	Labels            map[string]string  `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// ExternalIP returns the NAT address of the first interface's first access
// config, and whether an access config exists at all
func (i *Instance) ExternalIP() (string, bool) {
	if i == nil || len(i.NetworkInterfaces) == 0 {
		return "", false
	}
	ni := i.NetworkInterfaces[0]
	return ni.ExternalIP, ni.HasAccessConfig
}

// BootDisk describes the boot disk created with an instance
type BootDisk struct {
	DeviceName  string
	SourceImage string
	SizeGB      int64
	DiskType    string
	AutoDelete  bool
}

// AccessConfig describes an external address attached to an interface
type AccessConfig struct {
	Name string
	Type string
}

// NetworkSpec describes the network interface of a new instance
type NetworkSpec struct {
	Network       string
	AccessConfigs []AccessConfig
}

// ServiceAccount is a service identity with OAuth scopes
type ServiceAccount struct {
	Email  string
	Scopes []string
}

// MetadataItem is one key/value metadata entry
type MetadataItem struct {
	Key   string
	Value string
}

// InstanceSpec is a provider-neutral instance creation request
type InstanceSpec struct {
	Name            string
	MachineType     string
	BootDisk        BootDisk
	Network         NetworkSpec
	Scheduling      Scheduling
	ServiceAccounts []ServiceAccount
	Metadata        []MetadataItem
	Tags            []string
	Labels          map[string]string
}

// MetadataValue returns the value for key and whether it is present
func (s InstanceSpec) MetadataValue(key string) (string, bool) {
	for _, item := range s.Metadata {
		if item.Key == key {
			return item.Value, true
		}
	}
	return "", false
}

// FirewallAllow is one protocol/ports allow entry
type FirewallAllow struct {
	Protocol string
	Ports    []string
}

// FirewallRule describes a project-wide firewall rule
type FirewallRule struct {
	Name         string
	Direction    string
	Priority     int32
	SourceRanges []string
	TargetTags   []string
	Allowed      []FirewallAllow
}
