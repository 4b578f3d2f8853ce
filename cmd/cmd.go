// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles setup operations for the database and library.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:  "seed",
				Usage: "Load a music library from a JSON file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupSeed,
			},
		},
	}
}

// serveCommand starts the queue HTTP server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the play queue HTTP server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides the configured host:port",
			},
		},
		Action: r.Serve,
	}
}

// queueCommand groups client operations against a running server.
func queueCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "queue",
		Aliases: []string{"q"},
		Usage:   "Play queue operations",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Display the queue in natural order",
				Flags: []cli.Flag{
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
				Action: r.QueueShow,
			},
			{
				Name:      "add",
				Usage:     "Append tracks to the queue by id",
				ArgsUsage: "<track-id> [track-id...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Replace the queue instead of appending",
					},
				},
				Action: r.QueueAdd,
			},
			{
				Name:  "album",
				Usage: "Enqueue an album in disc/track order",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Replace the queue instead of appending",
					},
				},
				Action: r.QueueAddAlbum,
			},
			{
				Name:  "playlist",
				Usage: "Enqueue a playlist in playlist order",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Replace the queue instead of appending",
					},
				},
				Action: r.QueueAddPlaylist,
			},
			{
				Name:  "artist",
				Usage: "Enqueue an artist's catalog",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Replace the queue instead of appending",
					},
				},
				Action: r.QueueAddArtist,
			},
			{
				Name:  "remove",
				Usage: "Remove a queue entry by its id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.QueueRemove,
			},
			{
				Name:  "move",
				Usage: "Move a queue entry to a new position",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "position",
						Aliases:  []string{"p"},
						Usage:    "Target position (0-based)",
						Required: true,
					},
				},
				Action: r.QueueMove,
			},
			{
				Name:   "clear",
				Usage:  "Remove every entry from the queue",
				Action: r.QueueClear,
			},
			{
				Name:  "play",
				Usage: "Jump the playhead to a play-order index",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "index",
						Aliases:  []string{"i"},
						Usage:    "Play-order index (0-based)",
						Required: true,
					},
				},
				Action: r.QueuePlay,
			},
			{
				Name:   "next",
				Usage:  "Advance the playhead",
				Action: r.QueueNext,
			},
			{
				Name:    "previous",
				Aliases: []string{"prev"},
				Usage:   "Step the playhead backward",
				Action:  r.QueuePrevious,
			},
			{
				Name:  "shuffle",
				Usage: "Toggle shuffle mode (on/off)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "state"},
				},
				Action: r.QueueShuffle,
			},
			{
				Name:  "repeat",
				Usage: "Set the repeat mode (off/one/all)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "mode"},
				},
				Action: r.QueueRepeat,
			},
			{
				Name:  "play-next",
				Usage: "Insert a track immediately after the current one",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.QueuePlayNext,
			},
			{
				Name:  "enqueue",
				Usage: "Append a track to the tail of the queue",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.QueueEnqueue,
			},
			{
				Name:  "upcoming",
				Usage: "Show the next tracks in play order",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of entries",
						Value: 10,
					},
				},
				Action: r.QueueUpcoming,
			},
			{
				Name:  "history",
				Usage: "Show previously played tracks in play order",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of entries",
						Value: 10,
					},
				},
				Action: r.QueueHistory,
			},
			{
				Name:  "export",
				Usage: "Export the queue to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, m3u, text",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.QueueExport,
			},
		},
	}
}

// apiCommand handles direct API calls to the queue server
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the queue server",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the queue server, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
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
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
			{
				Name:   "health",
				Usage:  "Check server health (calls /health)",
				Action: r.APIHealth,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive queue management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI queue browser",
		Action:  r.TUI,
	}
}
