// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// listFlags are the filter/sort/page controls shared by list and export.
func listFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "search",
			Aliases: []string{"s"},
			Usage:   "Title substring to search for",
		},
		&cli.StringFlag{
			Name:    "user",
			Aliases: []string{"u"},
			Usage:   "Only show movies added by users matching this text",
		},
		&cli.StringSliceFlag{
			Name:  "users",
			Usage: "Only show movies added by these exact usernames",
		},
		&cli.BoolFlag{
			Name:  "exclude",
			Usage: "Invert --users: hide the listed usernames instead",
		},
		&cli.StringFlag{
			Name:  "content",
			Usage: "Content filter: all, flagged or unflagged",
			Value: "all",
		},
		&cli.StringFlag{
			Name:  "sort",
			Usage: "Sort field: date, title, user or rating",
		},
		&cli.BoolFlag{
			Name:  "reverse",
			Usage: "Reverse the sort order",
		},
		&cli.IntFlag{
			Name:  "page-size",
			Usage: "Movies per page (0 disables paging)",
		},
		&cli.IntFlag{
			Name:  "watched-page",
			Usage: "Zero-based page of the watched list",
		},
		&cli.IntFlag{
			Name:  "upcoming-page",
			Usage: "Zero-based page of the upcoming list",
		},
	}
}

// moviesCommand handles watchlist operations
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "Browse and manage the shared watchlist",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the watchlist grouped by status",
				Flags: append(listFlags(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				),
				Action: r.MoviesList,
			},
			{
				Name:  "add",
				Usage: "Submit a movie by its IMDb or Letterboxd URL",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "url",
					},
				},
				Action: r.MoviesAdd,
			},
			{
				Name:  "set-status",
				Usage: "Set a movie's status (admin only)",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "status",
						Usage:    "Target status: watched, upcoming or streaming",
						Required: true,
					},
				},
				Action: r.MoviesSetStatus,
			},
			{
				Name:  "discard",
				Usage: "Remove a movie from the watchlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.MoviesDiscard,
			},
			{
				Name:  "flag",
				Usage: "Toggle a movie's content flag",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.MoviesFlag,
			},
			{
				Name:   "users",
				Usage:  "List the users movies are attributed to",
				Action: r.MoviesUsers,
			},
			{
				Name:  "export",
				Usage: "Export the watchlist to CSV, Markdown or plain text",
				Flags: append(listFlags(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown or text",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file or directory path",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Document title for Markdown and text exports",
						Value: "MovieNite",
					},
					&cli.BoolFlag{
						Name:  "poster",
						Usage: "Download a poster image for Markdown exports",
					},
				),
				Action: r.MoviesExport,
			},
		},
	}
}

// authCommand handles session management against the backend
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Open the Discord login page in a browser",
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Invalidate the current session",
				Action: r.AuthLogout,
			},
			{
				Name:  "import",
				Usage: "Import a session cookie from a browser cURL command",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
				},
				Action: r.AuthImport,
			},
			{
				Name:  "token",
				Usage: "Store a session token directly",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "token",
					},
				},
				Action: r.AuthToken,
			},
		},
	}
}

// prefsCommand handles persisted display preferences
func prefsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "prefs",
		Usage: "Show and change persisted display preferences",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show current preferences",
				Action: r.PrefsShow,
			},
			{
				Name:  "set",
				Usage: "Set a preference (view-type, sort-field, sort-reverse, page-size, theme)",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "key",
					},
					&cli.StringArg{
						Name: "value",
					},
				},
				Action: r.PrefsSet,
			},
		},
	}
}

// watchCommand follows the server's event stream from the terminal
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "watch",
		Usage:  "Follow realtime watchlist changes until interrupted",
		Action: r.Watch,
	}
}

// setupCommand handles setup operations for config and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file and local database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// tuiCommand returns the top-level TUI command for interactive watchlist browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive watchlist browser",
		Action:  r.TUI,
	}
}
