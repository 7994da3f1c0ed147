// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gcevm/vmctl/internal/config"
	"github.com/gcevm/vmctl/internal/prompt"
)

func (a *App) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Edit the configuration interactively",
		Args:  cobra.NoArgs,
	}
	validate := cmd.Flags().Bool("validate", false, "only check the configuration against the supported choices")
	cmd.RunE = a.run(func(ctx context.Context) error {
		if *validate {
			a.validate()
			return nil
		}
		return a.runEditor(ctx)
	})
	return cmd
}

func (a *App) runEditor(ctx context.Context) error {
	editor := prompt.NewEditor(a.deps.In, a.deps.Out, a.reporter, nil)
	if err := editor.Run(a.store); err != nil {
		return err
	}
	// the project may have been switched back to the placeholder
	if err := a.resolveProject(); err != nil {
		return err
	}
	a.poller.SetProject(a.store.ProjectID())
	return a.renderer.Summary(ctx)
}

func (a *App) validate() {
	warnings := config.Validate(a.store)
	for _, warning := range warnings {
		a.reporter.Warn("%s", warning)
	}
	if len(warnings) == 0 {
		a.reporter.Success("Configuration %s is valid", a.store.Path())
	}
}
