// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cast"
)

// Typed accessors over the loosely typed JSON document. A value that cannot
// be coerced falls back to the default for its key; Validate reports it.

func (s *Store) stringValue(key string) string {
	if v, ok := s.Get(key); ok {
		if out, err := cast.ToStringE(v); err == nil {
			return out
		}
	}
	return cast.ToString(Defaults()[key])
}

func (s *Store) boolValue(key string) bool {
	if v, ok := s.Get(key); ok {
		if out, err := cast.ToBoolE(v); err == nil {
			return out
		}
	}
	return cast.ToBool(Defaults()[key])
}

func (s *Store) int64Value(key string) int64 {
	if v, ok := s.Get(key); ok {
		if out, err := cast.ToInt64E(v); err == nil {
			return out
		}
	}
	return cast.ToInt64(Defaults()[key])
}

// ProjectID returns the configured project identifier
func (s *Store) ProjectID() string { return s.stringValue(KeyProjectID) }

// Region returns the configured region
func (s *Store) Region() string { return s.stringValue(KeyRegion) }

// Zone returns the explicit zone, or "{region}-a" when none is set
func (s *Store) Zone() string {
	if zone := s.stringValue(KeyZone); zone != "" {
		return zone
	}
	return fmt.Sprintf("%s-a", s.Region())
}

// VMName returns the instance name
func (s *Store) VMName() string { return s.stringValue(KeyVMName) }

// MachineType returns the machine type name
func (s *Store) MachineType() string { return s.stringValue(KeyMachineType) }

// OSChoice returns the OS choice
func (s *Store) OSChoice() string { return s.stringValue(KeyOSChoice) }

// DiskSizeGB returns the boot disk size
func (s *Store) DiskSizeGB() int64 { return s.int64Value(KeyDiskSize) }

// EnableHTTP reports whether the HTTP server feature is on
func (s *Store) EnableHTTP() bool { return s.boolValue(KeyEnableHTTPServer) }

// EnableMonitoring reports whether monitoring scopes are attached
func (s *Store) EnableMonitoring() bool { return s.boolValue(KeyEnableMonitoring) }

// InstanceState returns the desired instance state
func (s *Store) InstanceState() string { return s.stringValue(KeyInstanceState) }

// AutoStart returns the auto-start flag
func (s *Store) AutoStart() bool { return s.boolValue(KeyAutoStart) }

// AutoRestart returns the auto-restart flag
func (s *Store) AutoRestart() bool { return s.boolValue(KeyAutoRestart) }

// Preemptible reports whether the instance is preemptible
func (s *Store) Preemptible() bool { return s.boolValue(KeyPreemptible) }

// Tags returns a copy of the configured network tags
func (s *Store) Tags() []string {
	if v, ok := s.Get(KeyTags); ok {
		if out, err := cast.ToStringSliceE(v); err == nil {
			return slices.Clone(out)
		}
	}
	return cast.ToStringSlice(Defaults()[KeyTags])
}

// Labels returns a copy of the configured labels
func (s *Store) Labels() map[string]string {
	if v, ok := s.Get(KeyLabels); ok {
		if out, err := cast.ToStringMapStringE(v); err == nil {
			return maps.Clone(out)
		}
	}
	return cast.ToStringMapString(Defaults()[KeyLabels])
}
