// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gcevm/vmctl/internal/prompt"
)

func (a *App) createCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create the configured instance",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context) error {
			if err := a.manager.Create(ctx); err != nil {
				return err
			}
			if err := a.renderer.Summary(ctx); err != nil {
				return err
			}
			return a.renderer.AccessInfo(ctx)
		}),
	}
}

func (a *App) startCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the configured instance",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context) error {
			return a.manager.Start(ctx)
		}),
	}
}

func (a *App) stopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the configured instance",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context) error {
			return a.manager.Stop(ctx)
		}),
	}
}

func (a *App) restartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Reset the configured instance",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context) error {
			return a.manager.Restart(ctx)
		}),
	}
}

func (a *App) deleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the configured instance after confirmation",
		Args:  cobra.NoArgs,
	}
	yes := cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	cmd.RunE = a.run(func(ctx context.Context) error {
		if !*yes && !prompt.ConfirmDelete(a.deps.In, a.deps.Out) {
			a.reporter.Info("Deletion cancelled")
			return nil
		}
		return a.manager.Delete(ctx)
	})
	return cmd
}
