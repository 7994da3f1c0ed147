// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func (a *App) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current state of the instance",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context) error {
			return a.renderer.Status(ctx)
		}),
	}
}

func (a *App) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show how to connect to the instance",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context) error {
			return a.renderer.AccessInfo(ctx)
		}),
	}
}

func (a *App) summaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the deployment summary",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context) error {
			return a.renderer.Summary(ctx)
		}),
	}
}
