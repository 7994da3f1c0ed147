// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package handlers exposes the lifecycle operations as MCP tools
package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/gcevm/vmctl/internal/core"
	"github.com/gcevm/vmctl/internal/report"
)

// Views is the read side used by the status, info and summary tools
type Views interface {
	StatusView(ctx context.Context) (report.StatusView, error)
	AccessView(ctx context.Context) (report.AccessView, error)
	SummaryView(ctx context.Context) report.SummaryView
}

// Registry builds the MCP tools for one configured instance. Tool calls run
// one at a time since they share the instance and its configuration.
type Registry struct {
	lifecycle core.LifecycleController
	views     Views
	responses *ResponseHelper
	timeout   time.Duration
	mu        sync.Mutex
}

// NewRegistry creates a tool registry over the given controller and views
func NewRegistry(lifecycle core.LifecycleController, views Views) *Registry {
	return &Registry{
		lifecycle: lifecycle,
		views:     views,
		responses: NewResponseHelper(),
	}
}

// SetCallTimeout bounds every tool call by d; zero means no bound
func (r *Registry) SetCallTimeout(d time.Duration) {
	r.timeout = d
}

// acquire serializes the call and applies the call timeout
func (r *Registry) acquire(ctx context.Context) (context.Context, func()) {
	r.mu.Lock()
	if r.timeout <= 0 {
		return ctx, r.mu.Unlock
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	return ctx, func() {
		cancel()
		r.mu.Unlock()
	}
}

// Tools returns every tool with its handler
func (r *Registry) Tools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("vm_create",
				mcp.WithDescription("Create the configured VM instance, its HTTP firewall rule and startup script")),
			Handler: r.mutation("create", r.lifecycle.Create),
		},
		{
			Tool: mcp.NewTool("vm_start",
				mcp.WithDescription("Start the configured VM instance")),
			Handler: r.mutation("start", r.lifecycle.Start),
		},
		{
			Tool: mcp.NewTool("vm_stop",
				mcp.WithDescription("Stop the configured VM instance")),
			Handler: r.mutation("stop", r.lifecycle.Stop),
		},
		{
			Tool: mcp.NewTool("vm_restart",
				mcp.WithDescription("Reset the configured VM instance")),
			Handler: r.mutation("restart", r.lifecycle.Restart),
		},
		{
			Tool: mcp.NewTool("vm_delete",
				mcp.WithDescription("Delete the configured VM instance"),
				mcp.WithBoolean("confirm",
					mcp.Required(),
					mcp.Description("Must be true to delete the instance"))),
			Handler: r.handleDelete,
		},
		{
			Tool: mcp.NewTool("vm_status",
				mcp.WithDescription("Get the current status of the configured VM instance")),
			Handler: r.handleStatus,
		},
		{
			Tool: mcp.NewTool("vm_info",
				mcp.WithDescription("Get SSH and web access information for the configured VM instance")),
			Handler: r.handleInfo,
		},
		{
			Tool: mcp.NewTool("vm_summary",
				mcp.WithDescription("Get the deployment summary of the configured VM instance")),
			Handler: r.handleSummary,
		},
	}
}

// RegisterAllTools adds every tool to srv
func (r *Registry) RegisterAllTools(srv *server.MCPServer) {
	tools := r.Tools()
	srv.AddTools(tools...)
	log.Info().Int("tools", len(tools)).Msg("MCP tools registered")
}

func (r *Registry) mutation(action string, run func(context.Context) error) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, release := r.acquire(ctx)
		defer release()

		if err := run(ctx); err != nil {
			log.Error().Err(err).Str("action", action).Msg("Tool call failed")
			return OperationError(action, err), nil
		}
		return r.responses.MarshalSuccessResponse(r.responses.ActionResponse(action, r.currentStatus(ctx)))
	}
}

func (r *Registry) currentStatus(ctx context.Context) string {
	status, existence, err := r.lifecycle.Status(ctx)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("Could not get current instance status")
		return string(core.Unknown)
	case existence == core.NotFound:
		return "NOT_FOUND"
	default:
		return string(status)
	}
}

func (r *Registry) handleDelete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !request.GetBool("confirm", false) {
		return RequiredConfirmationError("delete"), nil
	}
	return r.mutation("delete", r.lifecycle.Delete)(ctx, request)
}

func (r *Registry) handleStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, release := r.acquire(ctx)
	defer release()

	view, err := r.views.StatusView(ctx)
	if err != nil {
		return OperationError("status", err), nil
	}
	return r.responses.MarshalView(view)
}

func (r *Registry) handleInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, release := r.acquire(ctx)
	defer release()

	view, err := r.views.AccessView(ctx)
	if err != nil {
		return OperationError("info", err), nil
	}
	return r.responses.MarshalView(view)
}

func (r *Registry) handleSummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, release := r.acquire(ctx)
	defer release()

	return r.responses.MarshalView(r.views.SummaryView(ctx))
}
