// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// searchCommand handles catalog search operations
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "search",
		Aliases: []string{"s"},
		Usage:   "Search the Spotify catalog for tracks",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of tracks to return (1-20)",
				Value:   5,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: txt, json, csv, markdown",
				Value:   "txt",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write results to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "analyze",
				Usage: "Fetch audio features for every result",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.Search,
	}
}

// featuresCommand handles audio feature analysis
func featuresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "features",
		Aliases: []string{"feat"},
		Usage:   "Fetch audio features for tracks",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: txt, json, csv, markdown",
				Value:   "txt",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write features to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.Features,
		Commands: []*cli.Command{
			{
				Name:  "bulk",
				Usage: "Export audio features for many tracks concurrently",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "Output directory for exported files",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent workers (max 10)",
						Value: 5,
					},
					&cli.FloatFlag{
						Name:  "rate-limit",
						Usage: "API requests per second",
						Value: 5.0,
					},
				},
				Action: r.FeaturesBulk,
			},
		},
	}
}

// apiCommand handles direct Spotify Web API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct Spotify Web API calls",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET against the Spotify Web API, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize via browser and save the token to config",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show which credentials are configured",
				Action: r.AuthStatus,
			},
		},
	}
}

// cacheCommand handles inspection of locally cached catalog data
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect locally cached tracks",
		Commands: []*cli.Command{
			{
				Name:  "tracks",
				Usage: "List cached tracks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Filter by artist (substring match)",
					},
					&cli.StringFlag{
						Name:  "isrc",
						Usage: "Filter by ISRC",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.CacheTracks,
			},
		},
	}
}

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive track discovery.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for track discovery",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of tracks to show (1-20)",
				Value:   10,
			},
		},
		Action: r.TUI,
	}
}
