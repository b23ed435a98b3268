// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

const defaultConfigPath = "config.toml"

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "Path to configuration file",
	Value:   defaultConfigPath,
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:    "youtube",
				Aliases: []string{"yt"},
				Usage:   "Authenticate with YouTube using OAuth2",
				Flags:   []cli.Flag{configFlag},
				Action:  r.AuthYouTube,
			},
			{
				Name:   "status",
				Usage:  "Check stored YouTube token state",
				Action: r.AuthStatus,
			},
		},
	}
}

// enrichCommand handles artist enrichment operations
func enrichCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "enrich",
		Usage: "Enrich artist names from all configured sources",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Enrich a list of artist names",
				Arguments: []cli.Argument{
					&cli.StringArgs{Name: "names", Min: 0, Max: -1},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Read artist names from a file, one per line",
					},
					&cli.StringFlag{
						Name:  "playlist",
						Usage: "Import artist names from a YouTube playlist URL or ID",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the enriched records to a JSON file",
					},
					&cli.BoolFlag{
						Name:  "no-cache",
						Usage: "Skip the local enrichment cache",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.EnrichRun,
			},
			{
				Name:  "import",
				Usage: "Extract artist names from a YouTube playlist without enriching",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.EnrichImport,
			},
			{
				Name:  "export",
				Usage: "Export an enriched dataset to every requested format",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to a JSON record array",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "formats",
						Usage: "Formats to write (json, csv, sql, markdown)",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "Directory for export files",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Base filename for exports",
						Value: "artists",
					},
					&cli.StringFlag{
						Name:  "dialect",
						Usage: "SQL dialect (sqlite, postgres, mysql, oracle)",
						Value: "sqlite",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Rows per INSERT statement",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export workers",
					},
					&cli.BoolFlag{
						Name:  "images",
						Usage: "Download artist thumbnails referenced in records",
					},
				},
				Action: r.EnrichExport,
			},
		},
	}
}

// transformCommand handles dataset reshaping operations
func transformCommand(r *Runner) *cli.Command {
	inputFlag := &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "Path to a JSON record array",
		Required: true,
	}
	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path",
	}

	return &cli.Command{
		Name:    "transform",
		Aliases: []string{"tf"},
		Usage:   "Analyze and reshape JSON datasets",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "Discover the field schema of a record array",
				Flags: []cli.Flag{
					inputFlag,
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TransformAnalyze,
			},
			{
				Name:   "select",
				Usage:  "Interactively pick fields to keep and write the projection",
				Flags:  []cli.Flag{inputFlag, outputFlag},
				Action: r.TransformSelect,
			},
			{
				Name:  "dedupe",
				Usage: "Remove structurally duplicate records",
				Flags: []cli.Flag{
					inputFlag,
					outputFlag,
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the dedupe report as raw JSON",
					},
				},
				Action: r.TransformDedupe,
			},
			{
				Name:  "merge",
				Usage: "Merge multiple record arrays into one",
				Arguments: []cli.Argument{
					&cli.StringArgs{Name: "inputs", Min: 1, Max: -1},
				},
				Flags: []cli.Flag{
					outputFlag,
					&cli.StringFlag{
						Name:  "strategy",
						Usage: "Merge strategy (append, merge, replace)",
						Value: "append",
					},
					&cli.StringFlag{
						Name:  "resolution",
						Usage: "Conflict resolution for the merge strategy (keep_first, keep_last, combine)",
					},
				},
				Action: r.TransformMerge,
			},
			{
				Name:  "convert",
				Usage: "Convert a record array to CSV, SQL, or Markdown",
				Flags: []cli.Flag{
					inputFlag,
					outputFlag,
					&cli.StringFlag{
						Name:     "format",
						Usage:    "Target format (csv, sql, markdown, json)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "table",
						Usage: "Table name for SQL output",
						Value: "artists",
					},
					&cli.StringFlag{
						Name:  "dialect",
						Usage: "SQL dialect (sqlite, postgres, mysql, oracle)",
						Value: "sqlite",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Rows per INSERT statement",
					},
				},
				Action: r.TransformConvert,
			},
		},
	}
}

// artistsCommand handles persisted artist records
func artistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artists",
		Usage: "Manage locally persisted artist records",
		Commands: []*cli.Command{
			{
				Name:  "save",
				Usage: "Persist enriched records to the local database",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to a JSON record array",
						Required: true,
					},
				},
				Action: r.ArtistsSave,
			},
			{
				Name:  "list",
				Usage: "List persisted artists",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:  "country",
						Usage: "Filter by ISO country code",
					},
					&cli.StringFlag{
						Name:  "genre",
						Usage: "Filter by genre",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ArtistsList,
			},
		},
	}
}

// cacheCommand handles the enrichment cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and manage the enrichment cache",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached enrichment payloads",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:  "source",
						Usage: "Filter by source (musicbrainz, audiodb, youtube)",
					},
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Filter by artist name",
					},
				},
				Action: r.CacheList,
			},
			{
				Name:   "clear",
				Usage:  "Remove all cached enrichment payloads",
				Flags:  []cli.Flag{configFlag},
				Action: r.CacheClear,
			},
		},
	}
}

// apiCommand handles direct API calls against the upstream sources
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the upstream sources",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET against a source, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "service",
						Usage: "Source to call (musicbrainz, audiodb, youtube)",
						Value: "musicbrainz",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "dump",
				Usage: "Probe every source endpoint and report reachability",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save dump to api_dump.json",
					},
				},
				Action: r.APIDump,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive field selection.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for field selection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Path to a JSON record array",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path for the projection",
			},
		},
		Action: r.TUI,
	}
}
