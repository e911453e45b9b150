// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes the configuration file and sheet backend
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the configuration file and initialize the sheet backend",
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

// runCommand performs a full fetch, classify and reconcile pass
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Fetch new playlist videos, classify them and update the sheet",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "date",
				Aliases: []string{"d"},
				Usage:   "Only keep videos published on or after this date (YYYY-MM-DD)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Compute the merge without writing the sheet",
			},
		},
		Action: r.RunPipeline,
	}
}

// queryCommand fetches and matches videos for a single game
func queryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Fetch playlist videos matching one game category",
		ArgsUsage: "<game>",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "game",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "date",
				Aliases: []string{"d"},
				Usage:   "Only keep videos published on or after this date (YYYY-MM-DD)",
			},
			&cli.BoolFlag{
				Name:  "review",
				Usage: "Review matches interactively before appending",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Append new matches to the sheet without review",
			},
		},
		Action: r.Query,
	}
}

// statsCommand summarizes the persisted sheet
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Summarize the video sheet",
		Action: r.Stats,
	}
}

// exportCommand writes the sheet to a CSV file
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the video sheet to CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path",
			},
		},
		Action: r.Export,
	}
}
