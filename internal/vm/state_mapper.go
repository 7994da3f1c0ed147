// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package vm

import (
	"fmt"
	"strings"

	"github.com/gcevm/vmctl/internal/core"
)

// StateMapper normalizes provider status strings into core.InstanceStatus
type StateMapper struct {
	states map[string]core.InstanceStatus
}

// NewStateMapper creates a new state mapper
func NewStateMapper() *StateMapper {
	mapper := &StateMapper{
		states: make(map[string]core.InstanceStatus),
	}
	mapper.registerDefaultMappings()
	return mapper
}

// registerDefaultMappings registers the Compute Engine instance statuses
func (m *StateMapper) registerDefaultMappings() {
	for _, status := range []core.InstanceStatus{
		core.Provisioning,
		core.Staging,
		core.Running,
		core.Stopping,
		core.Stopped,
		core.Suspending,
		core.Suspended,
		core.Repairing,
		core.Terminated,
	} {
		m.states[string(status)] = status
	}
}

// Map returns the status for raw, or core.Unknown with an error when raw is
// not a known status
func (m *StateMapper) Map(raw string) (core.InstanceStatus, error) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if status, ok := m.states[key]; ok {
		return status, nil
	}
	return core.Unknown, fmt.Errorf("unknown instance status: %q", raw)
}

// Global state mapper instance
var GlobalStateMapper = NewStateMapper()
