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

// setupCommand handles database initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize database and run migrations",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.SetupDatabase,
	}
}

// serveCommand starts the HTTP API server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// authCommand handles OAuth2 helper operations.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Spotify OAuth2 helpers",
		Commands: []*cli.Command{
			{
				Name:  "url",
				Usage: "Print the Spotify authorization URL",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the URL in the default browser",
					},
				},
				Action: r.AuthURL,
			},
		},
	}
}

// accountsCommand handles stored account queries.
func accountsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "accounts",
		Aliases: []string{"acc"},
		Usage:   "Inspect stored accounts",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all registered accounts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AccountsList,
			},
			{
				Name:  "search",
				Usage: "Search accounts by Spotify ID or email substring",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AccountsSearch,
			},
		},
	}
}

// suggestCommand ranks candidate connections for an account.
func suggestCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "suggest",
		Usage: "Rank other accounts by shared top artists",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Suggest,
	}
}

// compareCommand builds a pairwise taste comparison.
func compareCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "compare",
		Usage: "Compare the listening taste of two accounts",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
			&cli.StringArg{
				Name: "other",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.StringFlag{
				Name:    "export",
				Aliases: []string{"o"},
				Usage:   "Write CSV and Markdown exports with this base filename",
			},
		},
		Action: r.Compare,
	}
}

// connectCommand creates a mutual link between two accounts.
func connectCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "connect",
		Usage: "Create a mutual connection between two accounts",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
			&cli.StringArg{
				Name: "other",
			},
		},
		Action: r.Connect,
	}
}

// linkedCommand lists an account's connections.
func linkedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "linked",
		Usage: "List accounts connected to the given account",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Linked,
	}
}

// profileCommand composes the compact public profile for an account.
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show an account's top artist and track",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Action: r.Profile,
	}
}
