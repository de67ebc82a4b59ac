package main

import (
	"github.com/urfave/cli/v3"
)

var version = "dev"

// App returns the root command.
func App() *cli.Command {
	return &cli.Command{
		Name:    "sra-dispatch",
		Version: version,
		Usage:   "Balance sequencing-run downloads across compute nodes by disk burden",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to JSON or YAML config file",
				Sources: cli.EnvVars("SRAD_CONFIG_PATH"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("SRAD_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (console, json)",
				Value:   "console",
				Sources: cli.EnvVars("SRAD_LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "Write Prometheus metrics in textfile-collector format to this path",
				Sources: cli.EnvVars("SRAD_METRICS_FILE"),
			},
		},
		Commands: []*cli.Command{
			balanceCmd(),
			planCmd(),
			normalizeCmd(),
		},
	}
}
