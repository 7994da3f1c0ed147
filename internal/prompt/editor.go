// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package prompt implements the line-based configuration editor and the
// delete confirmation
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/gcevm/vmctl/internal/config"
	"github.com/gcevm/vmctl/internal/core"
	"github.com/gcevm/vmctl/internal/errors"
)

// Editor walks the user through every editable setting. An empty answer keeps
// the current value, and so does end of input.
type Editor struct {
	in       *bufio.Reader
	out      io.Writer
	reporter core.Reporter
	images   *config.ImageRegistry
}

// NewEditor creates an editor reading answers from in
func NewEditor(in io.Reader, out io.Writer, reporter core.Reporter, images *config.ImageRegistry) *Editor {
	if images == nil {
		images = config.GlobalImageRegistry
	}
	return &Editor{in: bufio.NewReader(in), out: out, reporter: reporter, images: images}
}

// Run edits store in place and saves it
func (e *Editor) Run(store *config.Store) error {
	fmt.Fprintln(e.out, "=== Interactive VM Configuration ===")

	if v := e.ask("Project ID [%s]: ", store.ProjectID()); v != "" {
		store.Set(config.KeyProjectID, v)
	}
	if v := e.ask("VM Name [%s]: ", store.VMName()); v != "" {
		store.Set(config.KeyVMName, v)
	}

	e.choice(store, config.KeyRegion, "Region", "regions", "region", config.Regions, store.Region())
	e.choice(store, config.KeyMachineType, "Machine Type", "machine types", "machine type", config.MachineTypes, store.MachineType())
	e.choice(store, config.KeyOSChoice, "Operating System", "OS", "OS choice", e.images.Names(), store.OSChoice())

	if v := e.ask("Disk Size GB (%d-%d) [%d]: ", config.DiskSizeRange.Min, config.DiskSizeRange.Max, store.DiskSizeGB()); v != "" {
		size, err := strconv.ParseInt(v, 10, 64)
		switch {
		case err != nil:
			e.reporter.Warn("Invalid disk size")
		case size < config.DiskSizeRange.Min || size > config.DiskSizeRange.Max:
			e.reporter.Warn("Disk size must be between %d-%d GB", config.DiskSizeRange.Min, config.DiskSizeRange.Max)
		default:
			store.Set(config.KeyDiskSize, size)
		}
	}

	e.toggle(store, config.KeyEnableHTTPServer, "Enable HTTP Server", store.EnableHTTP())
	e.toggle(store, config.KeyEnableMonitoring, "Enable Monitoring", store.EnableMonitoring())
	e.toggle(store, config.KeyPreemptible, "Use Preemptible Instance", store.Preemptible())

	fmt.Fprintf(e.out, "Available states: %s\n", strings.Join(config.States, ", "))
	if v := strings.ToUpper(e.ask("Instance State [%s]: ", store.InstanceState())); slices.Contains(config.States, v) {
		store.Set(config.KeyInstanceState, v)
	}

	if err := store.Save(); err != nil {
		e.reporter.Error("Error saving config: %v", err)
		return errors.OperationFailed("save configuration", err)
	}
	e.reporter.Success("Configuration saved!")
	return nil
}

func (e *Editor) choice(store *config.Store, key, label, plural, noun string, options []string, current string) {
	fmt.Fprintf(e.out, "Available %s: %s\n", plural, strings.Join(options, ", "))
	v := e.ask("%s [%s]: ", label, current)
	if v == "" {
		return
	}
	if !slices.Contains(options, v) {
		e.reporter.Warn("Invalid %s. Using %s", noun, current)
		return
	}
	store.Set(key, v)
}

func (e *Editor) toggle(store *config.Store, key, label string, current bool) {
	def := "n"
	if current {
		def = "y"
	}
	switch strings.ToLower(e.ask("%s (y/n) [%s]: ", label, def)) {
	case "y", "yes":
		store.Set(key, true)
	case "n", "no":
		store.Set(key, false)
	}
}

func (e *Editor) ask(format string, args ...any) string {
	fmt.Fprintf(e.out, format, args...)
	return readLine(e.in)
}

func readLine(r *bufio.Reader) string {
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

// ConfirmDelete asks for a yes/no answer and reports whether it was yes
func ConfirmDelete(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "Are you sure you want to delete the instance? (yes/no): ")
	return strings.EqualFold(readLine(bufio.NewReader(in)), "yes")
}
