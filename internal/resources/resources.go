// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package resources exposes the configuration, the generated startup script
// and the run log as read-only MCP resources
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/gcevm/vmctl/internal/config"
	"github.com/gcevm/vmctl/internal/startup"
)

// Resource URIs
const (
	ConfigURI        = "vmctl://config"
	StartupScriptURI = "vmctl://startup-script"
	LogURI           = "vmctl://log"
)

// Resource pairs a resource with its read handler
type Resource struct {
	Resource mcp.Resource
	Handler  server.ResourceHandlerFunc
}

// Provider builds the resources for one configuration store
type Provider struct {
	store   *config.Store
	logPath string
}

// NewProvider creates a provider; logPath may be empty when logging to stderr
func NewProvider(store *config.Store, logPath string) *Provider {
	return &Provider{store: store, logPath: logPath}
}

// Resources returns every available resource
func (p *Provider) Resources() []Resource {
	out := []Resource{
		{
			Resource: mcp.NewResource(ConfigURI, "VM Configuration",
				mcp.WithResourceDescription("Current instance configuration document"),
				mcp.WithMIMEType("application/json")),
			Handler: p.readConfig,
		},
		{
			Resource: mcp.NewResource(StartupScriptURI, "Startup Script",
				mcp.WithResourceDescription("Startup script generated from the current configuration"),
				mcp.WithMIMEType("text/x-shellscript")),
			Handler: p.readStartupScript,
		},
	}
	if p.logPath != "" {
		out = append(out, Resource{
			Resource: mcp.NewResource(LogURI, "Run Log",
				mcp.WithResourceDescription("Log file of the running vmctl process"),
				mcp.WithMIMEType("text/plain")),
			Handler: p.readLog,
		})
	}
	return out
}

// RegisterResources adds every resource to srv
func (p *Provider) RegisterResources(srv *server.MCPServer) {
	resources := p.Resources()
	for _, r := range resources {
		srv.AddResource(r.Resource, r.Handler)
	}
	log.Info().Int("resources", len(resources)).Msg("MCP resources registered")
}

func (p *Provider) readConfig(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(p.store.Document(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return text(request, "application/json", string(data)), nil
}

func (p *Provider) readStartupScript(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return text(request, "text/x-shellscript", startup.Generate(startup.ParamsFrom(p.store))), nil
}

func (p *Provider) readLog(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := os.ReadFile(p.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	return text(request, "text/plain", string(data)), nil
}

func text(request mcp.ReadResourceRequest, mimeType, body string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: mimeType,
			Text:     body,
		},
	}
}
