package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/resultstodb/internal/config"
	"github.com/JonMunkholm/resultstodb/internal/core"
	"github.com/JonMunkholm/resultstodb/internal/core/formats"
	"github.com/JonMunkholm/resultstodb/internal/database"
	"github.com/JonMunkholm/resultstodb/internal/logging"
	"github.com/JonMunkholm/resultstodb/internal/metrics"
	"github.com/spf13/cobra"
)

const cmdName = "resultstodb"

var errNoInput = errors.New("nothing to import: pass --packetfile and/or --permfile")

// importDB is what the app needs from a database connection.
type importDB interface {
	core.Database
	Close()
}

type connectFunc func(ctx context.Context, uri string, cfg database.PoolConfig) (importDB, error)

func connectPostgres(ctx context.Context, uri string, cfg database.PoolConfig) (importDB, error) {
	m, err := database.Connect(ctx, uri, cfg)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// App represents the application.
type App struct {
	cmd    *cobra.Command
	config appConfig

	connect connectFunc
	clock   func() time.Time

	results []*core.ImportResult
}

// appConfig holds the command line settings.
type appConfig struct {
	CredentialsPath string
	PacketFile      string
	PermFile        string
	DryRun          bool
	Verbose         bool
	SkippedReport   bool
	MetricsFile     string
}

type appOption func(*App)

func withConnect(fn connectFunc) appOption {
	return func(a *App) { a.connect = fn }
}

func withClock(now func() time.Time) appOption {
	return func(a *App) { a.clock = now }
}

// New creates a new App instance with default values.
func New(opts ...appOption) *App {
	a := App{
		connect: connectPostgres,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(&a)
	}

	a.cmd = &cobra.Command{
		Use:   cmdName + " DBCREDS",
		Short: "Load traffic analysis results into the results database",
		Long: `Load the packet and permission logs written by the traffic analysis tool
into the results database.

DBCREDS is an INI file with a [Database] section holding host, database,
user and password. Every app/version in the logs must already be registered
as a release.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if a.config.PacketFile == "" && a.config.PermFile == "" {
				return errNoInput
			}
			// Command parsing has been successful. Returns to not print usage anymore.
			a.cmd.SilenceUsage = true
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a.config.CredentialsPath = args[0]
			return a.run(cmd.Context())
		},
	}
	a.cmd.CompletionOptions.HiddenDefaultCmd = true

	installRootCmd(&a)
	installFormatsCmd(&a)

	return &a
}

func installRootCmd(app *App) {
	cmd := app.cmd

	cmd.Flags().StringVar(&app.config.PacketFile, "packetfile", "", "packet log to import into transmissions")
	cmd.Flags().StringVar(&app.config.PermFile, "permfile", "", "permission log to import into permissions")
	cmd.Flags().BoolVar(&app.config.DryRun, "test", false, "validate and resolve releases without inserting anything")
	cmd.Flags().BoolVarP(&app.config.Verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().BoolVar(&app.config.SkippedReport, "skipped-report", false, `write skipped rows to "<input> - skipped.csv"`)
	cmd.Flags().StringVar(&app.config.MetricsFile, "metrics-file", "", "write run metrics to this file in Prometheus text format")

	for _, name := range []string{"packetfile", "permfile", "metrics-file"} {
		if err := cmd.MarkFlagFilename(name); err != nil {
			panic(fmt.Errorf("failed to mark %s flag as filename: %w", name, err))
		}
	}
}

func installFormatsCmd(app *App) {
	app.cmd.AddCommand(&cobra.Command{
		Use:   "formats",
		Short: "List the supported input formats and their columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, f := range core.All() {
				fmt.Fprintf(w, "%s (%s): %s\n", f.Info.Label, f.Info.Kind, f.Info.Description)
				for i, spec := range f.FieldSpecs {
					fmt.Fprintf(w, "  %2d  %s\n", i+1, spec)
				}
			}
			return nil
		},
	})
}

// Run executes the command with ctx, returning an error if any.
func (a *App) Run(ctx context.Context) error {
	return a.cmd.ExecuteContext(ctx)
}

// UsageError returns if the error is a command parsing or runtime one.
func (a *App) UsageError() bool {
	return !a.cmd.SilenceUsage
}

// Results returns the tally of every file imported by the last run, in order.
func (a *App) Results() []*core.ImportResult {
	return a.results
}

func (a *App) run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.SetupWriter(a.cmd.ErrOrStderr(), logging.EffectiveLevel(cfg.Logging.Level, a.config.Verbose), cfg.Logging.Format)
	slog.Debug("got app config", "config", cfg.String(), "flags", a.config)

	creds, err := config.LoadCredentials(a.config.CredentialsPath)
	if err != nil {
		return err
	}
	slog.Debug("loaded credentials", "credentials", creds.String())

	db, err := a.connect(ctx, creds.URI(), database.PoolConfig{
		MaxConns:       cfg.Database.MaxConns,
		MinConns:       cfg.Database.MinConns,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		QueryTimeout:   cfg.Database.QueryTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	recorder := metrics.New()
	im := core.NewImporter(db,
		core.WithClock(a.clock),
		core.WithRecorder(recorder),
		core.WithContextCheckInterval(cfg.Import.ContextCheckInterval),
		core.WithSkippedReport(a.config.SkippedReport || cfg.Import.SkippedReport),
	)

	metricsFile := a.config.MetricsFile
	if metricsFile == "" {
		metricsFile = cfg.Metrics.TextfilePath
	}
	if metricsFile != "" {
		defer func() {
			if werr := recorder.WriteTextfile(metricsFile); werr != nil {
				slog.Warn("failed to write metrics file", "path", metricsFile, "error", werr)
			}
		}()
	}

	jobs := []struct {
		path string
		kind string
	}{
		{a.config.PacketFile, formats.KindTransmissions},
		{a.config.PermFile, formats.KindPermissions},
	}

	a.results = nil
	for _, job := range jobs {
		if job.path == "" {
			continue
		}
		res, err := im.Run(ctx, job.path, formats.MustGet(job.kind), a.config.DryRun)
		a.results = append(a.results, res)
		if err != nil {
			return fmt.Errorf("%s import failed: %w", job.kind, err)
		}
	}

	return nil
}
