// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package server runs the MCP stdio server for one configured instance
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/gcevm/vmctl/internal/config"
	"github.com/gcevm/vmctl/internal/core"
	"github.com/gcevm/vmctl/internal/handlers"
	"github.com/gcevm/vmctl/internal/metrics"
	"github.com/gcevm/vmctl/internal/resources"
)

// Options wires the server to the lifecycle components
type Options struct {
	Name      string
	Version   string
	Lifecycle core.LifecycleController
	Views     handlers.Views
	Store     *config.Store
	Reporter  core.Reporter
	Metrics   *metrics.Recorder
	// MetricsAddr enables the /metrics listener when set
	MetricsAddr string
	// LogPath is exposed as a resource when set
	LogPath string
	// OnReload runs after every successful configuration reload
	OnReload func()
	// CallTimeout bounds each tool call when set
	CallTimeout time.Duration
}

// Server manages the MCP server instance
type Server struct {
	mcpServer   *server.MCPServer
	store       *config.Store
	reporter    core.Reporter
	metrics     *metrics.Recorder
	metricsAddr string
	onReloaded  func()
	doneCh      chan struct{}
}

// NewServer creates the MCP server and registers every tool
func NewServer(opts Options) *Server {
	if opts.Name == "" {
		opts.Name = "vmctl"
	}
	mcpServer := server.NewMCPServer(opts.Name, opts.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, false))
	registry := handlers.NewRegistry(opts.Lifecycle, opts.Views)
	registry.SetCallTimeout(opts.CallTimeout)
	registry.RegisterAllTools(mcpServer)
	if opts.Store != nil {
		resources.NewProvider(opts.Store, opts.LogPath).RegisterResources(mcpServer)
	}

	return &Server{
		mcpServer:   mcpServer,
		store:       opts.Store,
		reporter:    opts.Reporter,
		metrics:     opts.Metrics,
		metricsAddr: opts.MetricsAddr,
		onReloaded:  opts.OnReload,
		doneCh:      make(chan struct{}),
	}
}

// MCPServer returns the underlying MCP server
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Run serves MCP on in/out until ctx is done or the input closes
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	defer close(s.doneCh)

	if s.store != nil {
		if err := s.store.Watch(ctx, s.onReload); err != nil {
			log.Warn().Err(err).Msg("Config watcher disabled")
		}
	}

	if s.metricsAddr != "" && s.metrics != nil {
		httpServer := s.startMetrics()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Error stopping metrics server")
			}
		}()
	}

	log.Info().Msg("vmctl MCP server started")
	err := server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		err = nil
	}
	log.Info().Msg("vmctl MCP server stopped")
	return err
}

// Done returns a channel that's closed when Run has returned
func (s *Server) Done() <-chan struct{} {
	return s.doneCh
}

func (s *Server) onReload(err error) {
	if err != nil {
		s.reporter.Error("Error reloading config: %v", err)
		return
	}
	if s.onReloaded != nil {
		s.onReloaded()
	}
	s.reporter.Info("Configuration reloaded from %s", s.store.Path())
	for _, warning := range config.Validate(s.store) {
		s.reporter.Warn("%s", warning)
	}
}

func (s *Server) startMetrics() *http.Server {
	mux := http.NewServeMux()
	s.metrics.RegisterMetrics(mux)

	httpServer := &http.Server{
		Addr:              s.metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", s.metricsAddr).Msg("Metrics server error")
		}
	}()
	log.Info().Str("addr", s.metricsAddr).Msg("Serving metrics")
	return httpServer
}
