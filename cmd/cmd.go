// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"

	"github.com/Lesmash/spotify-playlist-creator/internal/formatter"
)

// app returns the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "journey",
		Usage:   "Turn a mood description into a Spotify playlist journey",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:    "backend-url",
				Usage:   "Override the backend base URL",
				Sources: cli.EnvVars("JOURNEY_BACKEND_URL"),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before:   r.Init,
		Commands: r.register(),
	}
}

// tokenFlags are accepted by every command that needs a signed-in session.
func tokenFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "Access token from a previous login",
			Sources: cli.EnvVars("JOURNEY_ACCESS_TOKEN"),
		},
		&cli.StringFlag{
			Name:  "redirect",
			Usage: "Redirect URL copied from the browser after login (…#access_token=...)",
		},
	}
}

// setupCommand handles setup operations for config and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml if missing, initialize the database and run migrations",
		Action: r.SetupDatabase,
	}
}

// loginCommand runs the browser login round trip.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in with Spotify through the backend",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "print-token",
				Usage: "Print the captured access token for use with --token",
			},
		},
		Action: r.Login,
	}
}

// statusCommand checks the backend's health endpoint.
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Check whether the backend is running",
		Action: r.Status,
	}
}

func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show profile, top artists and top tracks",
		Flags: append(tokenFlags(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		),
		Action: r.Profile,
	}
}

func createCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "create",
		Aliases:   []string{"new"},
		Usage:     "Create a music journey from a mood description",
		ArgsUsage: "<prompt>",
		Flags: append(tokenFlags(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, markdown, csv, json)",
				Value:   string(formatter.FormatText),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the journey to a file instead of stdout",
			},
			&cli.IntFlag{
				Name:  "template",
				Usage: "Use example prompt N (1-based) when no prompt is given",
			},
		),
		Action: r.Create,
	}
}

// historyCommand handles the recent prompt history
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Recent journey prompts",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent prompts, newest first",
				Flags: append(tokenFlags(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				),
				Action: r.HistoryList,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a history entry",
				ArgsUsage: "<id>",
				Flags:     tokenFlags(),
				Action:    r.HistoryDelete,
			},
			{
				Name:      "reuse",
				Usage:     "Print a previous prompt",
				ArgsUsage: "<id>",
				Flags: append(tokenFlags(),
					&cli.BoolFlag{
						Name:  "copy",
						Usage: "Copy the prompt to the clipboard",
					},
				),
				Action: r.HistoryReuse,
			},
		},
	}
}

func themeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "theme",
		Usage:     "Show or change the color theme",
		ArgsUsage: "[light|dark|toggle]",
		Action:    r.Theme,
	}
}

// apiCommand handles raw backend calls for debugging
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the backend, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
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
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal client",
		Flags: append(tokenFlags(),
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI owns the terminal",
				Value: "./tmp/journey-tui.log",
			},
		),
		Action: r.TUI,
	}
}
