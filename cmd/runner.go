package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/musicpref/internal/services"
	"github.com/desertthunder/musicpref/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	db     *sql.DB
	prefs  *services.PreferenceService
	logger *log.Logger
	output io.Writer

	logFile io.Closer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil DB is opened from the configured database path on first use.
type RunnerOpts struct {
	Config *shared.Config
	DB     *sql.DB
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		db:     opts.DB,
		logger: opts.Logger,
		output: opts.Output,
	}
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "musicpref",
		Usage:   "Store and manage user music preferences",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load MUSICPREF_* overrides from this file",
				Value: ".env",
			},
		},
		Before:   r.loadConfig,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, prefsCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reads --config when the file exists, applies MUSICPREF_* overrides and
// configures logging.
func (r *Runner) loadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")

	config, err := shared.LoadConfig(path)
	switch {
	case err == nil:
		r.config = config
	case errors.Is(err, shared.ErrMissingConfig):
		r.logger.Debug("config file not found, using defaults", "path", path)
	default:
		return ctx, err
	}

	if err := shared.LoadEnvFile(cmd.String("env-file")); err != nil {
		return ctx, err
	}
	if err := r.config.ApplyEnv(); err != nil {
		return ctx, err
	}

	if r.config.Logging.File != "" && r.logFile == nil {
		w := shared.NewRotatingWriter(r.config.Logging)
		r.logger.SetOutput(w)
		r.logFile = w
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(r.config.Logging.Level))
	return ctx, nil
}

// database opens the configured database once and returns it.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	r.db = db
	return db, nil
}

// service returns the preference service over a migrated database.
func (r *Runner) service(ctx context.Context) (*services.PreferenceService, error) {
	if r.prefs != nil {
		return r.prefs, nil
	}

	db, err := r.database()
	if err != nil {
		return nil, err
	}

	if applied, err := shared.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	} else if applied > 0 {
		r.logger.Debug("applied migrations", "count", applied)
	}

	r.prefs = services.NewPreferenceService(db, r.logger)
	return r.prefs, nil
}

// Close releases the database handle and the log file, if any.
func (r *Runner) Close() error {
	var errs []error
	if r.db != nil {
		errs = append(errs, r.db.Close())
		r.db, r.prefs = nil, nil
	}
	if r.logFile != nil {
		errs = append(errs, r.logFile.Close())
		r.logFile = nil
	}
	return errors.Join(errs...)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
