// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the vmctl command line
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gcevm/vmctl/internal/config"
	"github.com/gcevm/vmctl/internal/core"
	"github.com/gcevm/vmctl/internal/errors"
	"github.com/gcevm/vmctl/internal/events"
	"github.com/gcevm/vmctl/internal/gce"
	"github.com/gcevm/vmctl/internal/logger"
	"github.com/gcevm/vmctl/internal/metrics"
	"github.com/gcevm/vmctl/internal/operation"
	"github.com/gcevm/vmctl/internal/report"
	"github.com/gcevm/vmctl/internal/telemetry"
	"github.com/gcevm/vmctl/internal/vm"
)

// ConnectFunc opens the compute API and returns the project detected from
// the ambient credentials, which may be empty
type ConnectFunc func(ctx context.Context) (core.ComputeAPI, string, error)

// Deps are the process-level collaborators of the command line
type Deps struct {
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
	Version string
	// Connect defaults to Application Default Credentials
	Connect ConnectFunc
	// Sleep replaces the poll and boot pause implementation
	Sleep operation.Sleeper
}

// ConnectGCE opens the Compute Engine REST clients
func ConnectGCE(ctx context.Context) (core.ComputeAPI, string, error) {
	client, project, err := gce.Connect(ctx)
	if err != nil {
		return nil, "", err
	}
	return client, project, nil
}

// App holds everything one invocation wires together
type App struct {
	deps     Deps
	v        *viper.Viper
	root     *cobra.Command
	settings config.Settings
	runID    string
	console  io.Writer

	sink            *logger.Sink
	reporter        *logger.Reporter
	store           *config.Store
	api             core.ComputeAPI
	detectedProject string
	poller          *operation.Poller
	manager         *vm.Manager
	renderer        *report.Renderer
	metrics         *metrics.Recorder
	tracing         *telemetry.Provider
	events          core.EventPublisher
	closeEvents     func()
}

// New builds the command tree
func New(deps Deps) *App {
	if deps.In == nil {
		deps.In = os.Stdin
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.Err == nil {
		deps.Err = os.Stderr
	}
	if deps.Connect == nil {
		deps.Connect = ConnectGCE
	}

	a := &App{deps: deps, v: config.NewViper()}
	a.root = &cobra.Command{
		Use:   "vmctl",
		Short: "Manage the lifecycle of one Compute Engine VM",
		Long: `vmctl creates, starts, stops, restarts and deletes a single Compute Engine
instance described by a JSON configuration file, and reports its status,
access information and deployment summary.`,
		Version:           deps.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	a.root.SetIn(deps.In)
	a.root.SetOut(deps.Out)
	a.root.SetErr(deps.Err)

	flags := a.root.PersistentFlags()
	flags.String("config", config.DefaultConfigFile, "configuration file path")
	flags.Bool("interactive", false, "interactive configuration mode")
	flags.StringP("output", "o", "text", "output format for status, info and summary: text, json or yaml")
	flags.Duration("timeout", 0, "bound on each command including operation waits (0 waits indefinitely)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-dir", ".", "directory for the per-run log file")
	a.bind(config.SettingConfigFile, "config")
	a.bind(config.SettingOutput, "output")
	a.bind(config.SettingTimeout, "timeout")
	a.bind(config.SettingLogLevel, "log-level")
	a.bind(config.SettingLogDir, "log-dir")

	a.root.AddCommand(
		a.createCommand(),
		a.startCommand(),
		a.stopCommand(),
		a.restartCommand(),
		a.deleteCommand(),
		a.statusCommand(),
		a.infoCommand(),
		a.summaryCommand(),
		a.configCommand(),
		a.serveCommand(),
	)
	return a
}

func (a *App) bind(key, flag string) {
	_ = a.v.BindPFlag(key, a.root.PersistentFlags().Lookup(flag))
}

// Command returns the root command
func (a *App) Command() *cobra.Command {
	return a.root
}

// Execute runs vmctl with the process arguments
func Execute(ctx context.Context, version string) error {
	app := New(Deps{Version: version})
	defer app.Close()
	return app.Command().ExecuteContext(ctx)
}

// setup runs before every command. It opens the log and the configuration
// and connects the compute API; a connection failure aborts the command.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a.settings = config.LoadSettings(a.v)
	a.runID = uuid.NewString()

	level := logger.LogLevel(a.settings.LogLevel)
	sink, err := logger.Setup(logger.Config{
		Level:      level,
		Dir:        a.settings.LogDir,
		Format:     "console",
		RunID:      a.runID,
		CallerInfo: level == logger.LogDebug,
	})
	if err != nil {
		return err
	}
	a.sink = sink
	ctx = logger.WithContext(ctx, sink.Logger)
	cmd.SetContext(ctx)

	// serve owns stdout for the MCP protocol
	console := a.deps.Out
	if cmd.Name() == "serve" {
		console = a.deps.Err
	}
	a.console = console
	a.reporter = logger.NewReporter(console, sink.Logger)
	if sink.Path != "" {
		a.reporter.Info("Logging to %s", sink.Path)
	}

	format, err := report.ParseFormat(a.settings.Output)
	if err != nil {
		return errors.InvalidInput(err.Error())
	}

	a.store, err = config.Load(a.settings.ConfigFile)
	if err != nil {
		a.reporter.Error("Error loading config: %v", err)
	}
	if a.store.Created() {
		a.reporter.Success("Created default config file: %s", a.store.Path())
	}

	a.tracing, err = telemetry.Setup(a.settings.TraceEnabled, a.deps.Err, a.runID)
	if err != nil {
		log.Warn().Err(err).Msg("Tracing disabled")
		a.tracing = telemetry.Noop()
	}
	a.metrics = metrics.NewRecorder()
	a.setupEvents()

	if err := a.connect(ctx); err != nil {
		return err
	}

	sleepOpts := []operation.Option{
		operation.WithInterval(a.settings.PollInterval),
		operation.WithMetrics(a.metrics),
		operation.WithTracer(a.tracing.Tracer()),
	}
	if a.deps.Sleep != nil {
		sleepOpts = append(sleepOpts, operation.WithSleeper(a.deps.Sleep))
	}
	a.poller = operation.NewPoller(a.api, a.reporter, a.store.ProjectID(), sleepOpts...)

	a.renderer = report.NewRenderer(a.console, a.store, a.api, a.reporter, format)
	a.manager = vm.NewManager(a.api, a.store, a.reporter, a.poller, vm.Options{
		BootPause:  a.settings.BootPause,
		Sleep:      a.deps.Sleep,
		AccessInfo: a.renderer.AccessInfo,
		Events:     a.events,
		Metrics:    a.metrics,
		Tracer:     a.tracing.Tracer(),
		RunID:      a.runID,
	})
	log.Info().Str("command", cmd.Name()).Str("config", a.store.Path()).Msg("vmctl initialized")
	return nil
}

func (a *App) setupEvents() {
	a.events = events.Nop{}
	if a.settings.NATSURL == "" {
		return
	}
	publisher, err := events.Connect(a.settings.NATSURL)
	if err != nil {
		a.reporter.Warn("Lifecycle events disabled: %v", err)
		return
	}
	a.events = publisher
	a.closeEvents = publisher.Close
}

// connect opens the compute API and resolves the placeholder project
func (a *App) connect(ctx context.Context) error {
	api, detected, err := a.deps.Connect(ctx)
	if err != nil {
		a.reporter.Error("Failed to initialize GCP clients: %v", err)
		a.reporter.Error("Make sure you have authenticated with: gcloud auth application-default login")
		return err
	}
	a.api = api
	a.detectedProject = detected
	if err := a.resolveProject(); err != nil {
		return err
	}
	a.reporter.Success("GCP clients initialized successfully")
	return nil
}

func (a *App) resolveProject() error {
	if a.store.ProjectID() != config.PlaceholderProjectID {
		return nil
	}
	if a.detectedProject == "" {
		a.reporter.Error("Please set project_id in config file")
		return errors.Config("project_id is not set and no project was detected", nil)
	}
	a.store.Set(config.KeyProjectID, a.detectedProject)
	a.reporter.Info("Using detected project: %s", a.detectedProject)
	return nil
}

// run bounds fn by the configured timeout. --interactive on any command
// runs the configuration editor instead.
func (a *App) run(fn func(ctx context.Context) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if a.settings.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, a.settings.Timeout)
			defer cancel()
		}
		interactive, _ := cmd.Flags().GetBool("interactive")
		if interactive {
			return a.runEditor(ctx)
		}
		return fn(ctx)
	}
}

// Close releases everything setup opened
func (a *App) Close() {
	if a.closeEvents != nil {
		a.closeEvents()
	}
	if a.tracing != nil {
		if err := a.tracing.Shutdown(context.Background()); err != nil {
			log.Debug().Err(err).Msg("Tracer shutdown failed")
		}
	}
	if a.api != nil {
		if err := a.api.Close(); err != nil {
			log.Debug().Err(err).Msg("Closing compute clients failed")
		}
	}
	if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			fmt.Fprintf(a.deps.Err, "failed to close log file: %v\n", err)
		}
	}
}
