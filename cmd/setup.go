package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/musicpref/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase creates the config file when missing, runs migrations and seeds an empty database.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else if config, err := shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load created config, using defaults", "error", err)
		} else {
			r.config = config
			r.writePlain("✓ Created config file %s\n", configPath)
		}
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := r.database()
	if err != nil {
		return err
	}

	r.logger.Info("running database migrations")
	applied, err := shared.RunMigrations(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.writePlain("✓ Applied %d migration(s) to %s\n", applied, r.config.Database.Path)

	if !r.config.Seed.Enabled {
		return nil
	}

	prefs, err := r.service(ctx)
	if err != nil {
		return err
	}

	seeded, err := prefs.Seed(ctx)
	if err != nil {
		return err
	}
	if seeded {
		r.writePlain("✓ Seeded example music preference\n")
	}

	return nil
}

// SetupRollback rolls back the most recent migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	version, err := shared.RollbackMigration(ctx, db)
	if err != nil {
		return err
	}

	r.logger.Info("rolled back migration", "version", version)
	return r.writePlain("✓ Rolled back migration %04d\n", version)
}
