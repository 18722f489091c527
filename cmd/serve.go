package main

import (
	"context"

	"github.com/desertthunder/musicpref/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the JSON API until the process is interrupted.
//
// An empty database is seeded first when seeding is enabled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}

	prefs, err := r.service(ctx)
	if err != nil {
		return err
	}

	if r.config.Seed.Enabled {
		if _, err := prefs.Seed(ctx); err != nil {
			return err
		}
	}

	router := server.NewRouter(prefs, r.logger, cfg)
	return server.Serve(ctx, cfg.Addr(), router, r.logger)
}
