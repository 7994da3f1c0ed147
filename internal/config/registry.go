// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"slices"
	"sync"
)

// OSImage maps an OS choice to its boot image
type OSImage struct {
	Name  string
	Image string
}

// DiskSizeRange is the recommended boot disk size range in GB
var DiskSizeRange = struct {
	Min int64
	Max int64
}{Min: 10, Max: 100}

// ImageRegistry manages the OS choices vmctl knows how to boot
type ImageRegistry struct {
	images []OSImage
	mutex  sync.RWMutex
}

var (
	// GlobalImageRegistry is the global OS image registry
	GlobalImageRegistry = NewImageRegistry()

	// MachineTypes lists the machine types offered by the config editor
	MachineTypes = []string{
		"f1-micro", "e2-micro", "e2-small", "e2-medium",
		"n1-standard-1", "n1-standard-2", "n2-standard-2",
	}

	// Regions lists the regions offered by the config editor
	Regions = []string{
		"us-central1", "us-east1", "us-west1", "us-west2",
		"europe-west1", "europe-west2", "asia-southeast1",
	}

	// States lists the desired instance states
	States = []string{StateRunning, StateTerminated}
)

// NewImageRegistry creates a registry holding the default images
func NewImageRegistry() *ImageRegistry {
	registry := &ImageRegistry{}
	registry.registerDefaultImages()
	return registry
}

func (r *ImageRegistry) registerDefaultImages() {
	r.Register("ubuntu", "projects/ubuntu-os-cloud/global/images/ubuntu-minimal-2504-plucky-amd64-v20250624")
	r.Register("debian", "projects/debian-cloud/global/images/family/debian-12")
	r.Register("centos", "projects/centos-cloud/global/images/family/centos-stream-9")
	r.Register("rhel", "projects/rhel-cloud/global/images/family/rhel-9")
}

// Register adds or replaces an OS choice
func (r *ImageRegistry) Register(name, image string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for i := range r.images {
		if r.images[i].Name == name {
			r.images[i].Image = image
			return
		}
	}
	r.images = append(r.images, OSImage{Name: name, Image: image})
}

// Image returns the boot image for an OS choice
func (r *ImageRegistry) Image(name string) (string, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	for _, img := range r.images {
		if img.Name == name {
			return img.Image, nil
		}
	}
	return "", fmt.Errorf("unknown OS choice %q", name)
}

// Names returns the OS choices in registration order
func (r *ImageRegistry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	names := make([]string, 0, len(r.images))
	for _, img := range r.images {
		names = append(names, img.Name)
	}
	return names
}

// Validate returns a warning for every value outside the catalog
func Validate(s *Store) []string {
	var warnings []string
	if !slices.Contains(Regions, s.Region()) {
		warnings = append(warnings, fmt.Sprintf("region %q is not in the supported list", s.Region()))
	}
	if !slices.Contains(MachineTypes, s.MachineType()) {
		warnings = append(warnings, fmt.Sprintf("machine type %q is not in the supported list", s.MachineType()))
	}
	if _, err := GlobalImageRegistry.Image(s.OSChoice()); err != nil {
		warnings = append(warnings, err.Error())
	}
	if size := s.DiskSizeGB(); size < DiskSizeRange.Min || size > DiskSizeRange.Max {
		warnings = append(warnings, fmt.Sprintf("disk size %d GB is outside %d-%d GB", size, DiskSizeRange.Min, DiskSizeRange.Max))
	}
	if !slices.Contains(States, s.InstanceState()) {
		warnings = append(warnings, fmt.Sprintf("instance state %q must be one of %v", s.InstanceState(), States))
	}
	return warnings
}
