// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gcevm/vmctl/internal/config"
	"github.com/gcevm/vmctl/internal/errors"
	"github.com/gcevm/vmctl/internal/server"
)

func (a *App) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lifecycle operations as MCP tools over stdio",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().String("metrics-addr", "", "serve prometheus metrics on this address")
	_ = a.v.BindPFlag(config.SettingMetricsAddr, cmd.Flags().Lookup("metrics-addr"))

	// --timeout bounds each tool call rather than the whole session
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
			return errors.InvalidInput("--interactive cannot be combined with serve")
		}
		srv := server.NewServer(server.Options{
			Version:     a.deps.Version,
			Lifecycle:   a.manager,
			Views:       a.renderer,
			Store:       a.store,
			Reporter:    a.reporter,
			Metrics:     a.metrics,
			MetricsAddr: a.v.GetString(config.SettingMetricsAddr),
			LogPath:     a.sink.Path,
			OnReload:    a.onConfigReload,
			CallTimeout: a.settings.Timeout,
		})
		return srv.Run(cmd.Context(), a.deps.In, a.deps.Out)
	}
	return cmd
}

// onConfigReload keeps the resolved project after the file changed on disk
func (a *App) onConfigReload() {
	if err := a.resolveProject(); err != nil {
		log.Error().Err(err).Msg("Reloaded configuration has no usable project")
		return
	}
	a.poller.SetProject(a.store.ProjectID())
}
