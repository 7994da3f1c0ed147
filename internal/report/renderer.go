// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package report renders read-only views of the configured instance
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/gcevm/vmctl/internal/config"
	"github.com/gcevm/vmctl/internal/core"
	"github.com/gcevm/vmctl/internal/errors"
)

// Renderer writes status, access and summary views to out. Every view
// re-fetches the instance; nothing is cached.
type Renderer struct {
	out      io.Writer
	store    *config.Store
	api      core.InstanceAPI
	reporter core.Reporter
	format   Format
	heading  lipgloss.Style
}

// NewRenderer creates a renderer writing in the given format
func NewRenderer(out io.Writer, store *config.Store, api core.InstanceAPI, reporter core.Reporter, format Format) *Renderer {
	if format == "" {
		format = FormatText
	}
	return &Renderer{
		out:      out,
		store:    store,
		api:      api,
		reporter: reporter,
		format:   format,
		heading:  lipgloss.NewRenderer(out).NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
	}
}

func (r *Renderer) fetch(ctx context.Context) (*core.Instance, error) {
	return r.api.GetInstance(ctx, r.store.ProjectID(), r.store.Zone(), r.store.VMName())
}

// StatusView fetches the instance and builds its status view
func (r *Renderer) StatusView(ctx context.Context) (StatusView, error) {
	instance, err := r.fetch(ctx)
	if err != nil {
		return StatusView{}, err
	}

	view := StatusView{
		Name:        instance.Name,
		Status:      string(instance.Status),
		MachineType: lastSegment(instance.MachineType),
		Zone:        lastSegment(instance.Zone),
		CPUPlatform: instance.CPUPlatform,
		Preemptible: instance.Scheduling.Preemptible,
		AutoRestart: instance.Scheduling.AutomaticRestart,
		Labels:      maps.Clone(instance.Labels),
	}
	if view.CPUPlatform == "" {
		view.CPUPlatform = "N/A"
	}
	if len(instance.NetworkInterfaces) > 0 {
		ni := instance.NetworkInterfaces[0]
		view.hasInterface = true
		view.InternalIP = ni.InternalIP
		view.hasAccessConfig = ni.HasAccessConfig
		view.ExternalIP = ni.ExternalIP
	}
	return view, nil
}

// Status renders the current state of the instance
func (r *Renderer) Status(ctx context.Context) error {
	view, err := r.StatusView(ctx)
	if err != nil {
		r.reporter.Error("Failed to get instance details: %v", err)
		return errors.OperationFailed("get instance details", err)
	}
	if r.format != FormatText {
		return r.encode(view)
	}

	r.title("=== Instance Status ===")
	r.line("Name: %s", view.Name)
	r.line("Status: %s", view.Status)
	r.line("Machine Type: %s", view.MachineType)
	r.line("Zone: %s", view.Zone)
	r.line("CPU Platform: %s", view.CPUPlatform)
	if view.hasInterface {
		r.line("Internal IP: %s", view.InternalIP)
		if view.hasAccessConfig {
			r.line("External IP: %s", view.ExternalIP)
		}
	}
	r.line("Preemptible: %t", view.Preemptible)
	r.line("Auto Restart: %t", view.AutoRestart)
	if len(view.Labels) > 0 {
		r.line("Labels:")
		for _, key := range slices.Sorted(maps.Keys(view.Labels)) {
			r.line("  %s: %s", key, view.Labels[key])
		}
	}
	return nil
}

// AccessView fetches the instance and builds its access view. The view is
// empty when the instance has no external access config.
func (r *Renderer) AccessView(ctx context.Context) (AccessView, error) {
	instance, err := r.fetch(ctx)
	if err != nil {
		return AccessView{}, err
	}

	ip, ok := instance.ExternalIP()
	if !ok {
		return AccessView{}, nil
	}
	view := AccessView{
		SSHCommand: fmt.Sprintf("gcloud compute ssh %s --zone=%s --project=%s",
			r.store.VMName(), r.store.Zone(), r.store.ProjectID()),
		ExternalIP: ip,
	}
	if r.store.EnableHTTP() {
		view.WebURL = "http://" + ip
	}
	return view, nil
}

// AccessInfo renders how to connect to the instance
func (r *Renderer) AccessInfo(ctx context.Context) error {
	view, err := r.AccessView(ctx)
	if err != nil {
		r.reporter.Error("Failed to get access information: %v", err)
		return errors.OperationFailed("get access information", err)
	}
	if r.format != FormatText {
		return r.encode(view)
	}

	r.title("=== Access Information ===")
	if view.SSHCommand == "" {
		return nil
	}
	r.line("SSH Command:")
	r.line("  %s", view.SSHCommand)
	r.line("External IP: %s", view.ExternalIP)
	if view.WebURL != "" {
		r.line("Web URL: %s", view.WebURL)
	}
	return nil
}

// SummaryView builds the summary view. A missing instance leaves
// CurrentStatus empty; any other lookup failure is reported as a warning.
func (r *Renderer) SummaryView(ctx context.Context) SummaryView {
	view := SummaryView{
		VMName:        r.store.VMName(),
		Project:       r.store.ProjectID(),
		Zone:          r.store.Zone(),
		MachineType:   r.store.MachineType(),
		OSChoice:      r.store.OSChoice(),
		DiskSizeGB:    r.store.DiskSizeGB(),
		HTTPServer:    r.store.EnableHTTP(),
		Monitoring:    r.store.EnableMonitoring(),
		InstanceState: r.store.InstanceState(),
		Preemptible:   r.store.Preemptible(),
		AutoRestart:   r.store.AutoRestart(),
	}

	instance, err := r.fetch(ctx)
	switch {
	case err == nil:
		view.CurrentStatus = string(instance.Status)
	case errors.IsNotFound(err):
	default:
		r.reporter.Warn("Could not get current instance status: %v", err)
	}
	return view
}

// Summary renders the local configuration and the current remote status
func (r *Renderer) Summary(ctx context.Context) error {
	view := r.SummaryView(ctx)
	if r.format != FormatText {
		return r.encode(view)
	}

	r.title("=== Deployment Summary ===")
	r.line("VM Name: %s", view.VMName)
	r.line("Project: %s", view.Project)
	r.line("Zone: %s", view.Zone)
	r.line("Machine Type: %s", view.MachineType)
	r.line("OS Choice: %s", view.OSChoice)
	r.line("Disk Size: %d GB", view.DiskSizeGB)
	r.line("HTTP Server: %t", view.HTTPServer)
	r.line("Monitoring: %t", view.Monitoring)
	r.line("Instance State: %s", view.InstanceState)
	r.line("Preemptible: %t", view.Preemptible)
	r.line("Auto Restart: %t", view.AutoRestart)
	if view.CurrentStatus != "" {
		r.line("Current Status: %s", view.CurrentStatus)
	}
	return nil
}

func (r *Renderer) title(text string) {
	fmt.Fprintln(r.out, r.heading.Render(text))
}

func (r *Renderer) line(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

func (r *Renderer) encode(v any) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", r.format)
	}
}
