// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package vm

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gcevm/vmctl/internal/config"
	"github.com/gcevm/vmctl/internal/core"
	"github.com/gcevm/vmctl/internal/errors"
	"github.com/gcevm/vmctl/internal/startup"
)

// BuildInstanceSpec turns the configuration into an instance creation
// request. An OS choice missing from images is rejected as invalid input.
func BuildInstanceSpec(store *config.Store, images *config.ImageRegistry) (core.InstanceSpec, error) {
	project := store.ProjectID()
	zone := store.Zone()
	osChoice := store.OSChoice()

	image, err := images.Image(osChoice)
	if err != nil {
		return core.InstanceSpec{}, errors.InvalidInput(err.Error())
	}

	preemptible := store.Preemptible()
	onHostMaintenance := "MIGRATE"
	if preemptible {
		onHostMaintenance = "TERMINATE"
	}

	spec := core.InstanceSpec{
		Name:        store.VMName(),
		MachineType: fmt.Sprintf("zones/%s/machineTypes/%s", zone, store.MachineType()),
		BootDisk: core.BootDisk{
			DeviceName:  "boot-disk",
			SourceImage: image,
			SizeGB:      store.DiskSizeGB(),
			DiskType:    fmt.Sprintf("zones/%s/diskTypes/pd-standard", zone),
			AutoDelete:  true,
		},
		Network: core.NetworkSpec{
			Network: fmt.Sprintf("projects/%s/global/networks/default", project),
			AccessConfigs: []core.AccessConfig{
				{Name: "External NAT", Type: "ONE_TO_ONE_NAT"},
			},
		},
		Scheduling: core.Scheduling{
			Preemptible:       preemptible,
			AutomaticRestart:  store.AutoRestart() && !preemptible,
			OnHostMaintenance: onHostMaintenance,
		},
		Metadata: []core.MetadataItem{
			{Key: startup.MetadataKey, Value: startup.Generate(startup.ParamsFrom(store))},
			{Key: "enable-oslogin", Value: "true"},
		},
	}

	if store.EnableMonitoring() {
		spec.ServiceAccounts = []core.ServiceAccount{
			{Email: "default", Scopes: slices.Clone(MonitoringScopes)},
		}
	}

	spec.Tags = store.Tags()
	if store.EnableHTTP() && !slices.Contains(spec.Tags, config.HTTPTag) {
		spec.Tags = append(spec.Tags, config.HTTPTag)
	}

	spec.Labels = store.Labels()
	if spec.Labels == nil {
		spec.Labels = make(map[string]string)
	}
	spec.Labels["os-type"] = osChoice
	spec.Labels["managed-by"] = config.ManagedBy
	spec.Labels["instance-state"] = strings.ToLower(store.InstanceState())
	spec.Labels["preemptible"] = strconv.FormatBool(preemptible)

	return spec, nil
}

// FirewallName returns the HTTP firewall rule name for an instance
func FirewallName(vmName string) string {
	return vmName + "-allow-http"
}

// HTTPFirewallRule returns the rule opening web ports to instances carrying
// the HTTP tag
func HTTPFirewallRule(vmName string) core.FirewallRule {
	return core.FirewallRule{
		Name:         FirewallName(vmName),
		Direction:    "INGRESS",
		Priority:     1000,
		SourceRanges: []string{"0.0.0.0/0"},
		TargetTags:   []string{config.HTTPTag},
		Allowed: []core.FirewallAllow{
			{Protocol: "tcp", Ports: []string{"80", "443"}},
		},
	}
}
