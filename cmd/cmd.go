// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles database setup operations.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the config file if missing, run migrations and seed an empty database",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// preferenceFlags are the optional descriptive fields shared by upsert.
func preferenceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "platform", Usage: "Music platform"},
		&cli.StringFlag{Name: "learn", Usage: "How new music is discovered"},
		&cli.StringFlag{Name: "frequency", Usage: "Listening frequency"},
		&cli.StringFlag{Name: "era", Usage: "Favorite era"},
		&cli.StringFlag{Name: "aspect", Usage: "Most important aspect of a song"},
	}
}

// prefsCommand handles music preference operations
func prefsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "prefs",
		Aliases: []string{"p"},
		Usage:   "Music preference operations",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List stored music preferences",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (csv, markdown, text)",
					},
					&cli.StringFlag{
						Name:  "platform",
						Usage: "Only records using this music platform",
					},
					&cli.StringFlag{
						Name:  "favorite",
						Usage: "Only records with this favorite",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of records to return",
					},
				},
				Action: r.PrefsList,
			},
			{
				Name:  "show",
				Usage: "Show one music preference",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "uid"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PrefsShow,
			},
			{
				Name:  "upsert",
				Usage: "Create a music preference or overwrite the one with the same uid",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "uid",
						Usage:    "Unique user identifier",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Display name",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "favorite",
						Usage: "Favorite song or artist (repeatable)",
					},
				}, preferenceFlags()...),
				Action: r.PrefsUpsert,
			},
			{
				Name:  "update",
				Usage: "Apply a JSON object of fields to a music preference",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "uid"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON fields to apply",
						Required: true,
					},
				},
				Action: r.PrefsUpdate,
			},
			{
				Name:  "favorite",
				Usage: "Manage a music preference's favorites",
				Commands: []*cli.Command{
					{
						Name:  "add",
						Usage: "Add a favorite",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "uid"},
							&cli.StringArg{Name: "item"},
						},
						Action: r.PrefsFavoriteAdd,
					},
					{
						Name:    "remove",
						Aliases: []string{"rm"},
						Usage:   "Remove a favorite",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "uid"},
							&cli.StringArg{Name: "item"},
						},
						Action: r.PrefsFavoriteRemove,
					},
				},
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Permanently delete a music preference",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "uid"},
				},
				Action: r.PrefsDelete,
			},
			{
				Name:  "restore",
				Usage: "Restore music preferences from a JSON array file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Action: r.PrefsRestore,
			},
			{
				Name:  "export",
				Usage: "Export all music preferences (format from extension: .json, .csv, .md, .txt)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Action: r.PrefsExport,
			},
			{
				Name:   "seed",
				Usage:  "Insert the example record into an empty database",
				Action: r.PrefsSeed,
			},
		},
	}
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the music preference JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (overrides config)",
			},
		},
		Action: r.Serve,
	}
}
