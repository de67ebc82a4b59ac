package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	dispatch "github.com/William-Gardner-Biotech/SRA-Dispatch"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/internal/logging"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/internal/metrics"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/types"
)

// newLogger builds the logger selected by --log-format and --log-level.
func newLogger(cmd *cli.Command) types.Logger {
	level := cmd.String("log-level")
	if cmd.String("log-format") == "json" {
		return logging.NewSlogJSON(level)
	}

	out := cmd.Root().ErrWriter
	if out == nil {
		out = os.Stderr
	}

	return logging.NewConsole(out, level)
}

// loadConfig reads --config and overlays the environment.
func loadConfig(cmd *cli.Command) (*dispatch.Config, error) {
	cfg, err := dispatch.LoadConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// withMetrics runs fn with a Prometheus collector on a private registry and,
// when --metrics-file is set, writes the registry there afterwards, even if
// fn failed.
func withMetrics(cmd *cli.Command, log types.Logger, fn func(types.MetricsCollector) error) error {
	path := cmd.String("metrics-file")
	if path == "" {
		return fn(metrics.NewNop())
	}

	reg := prometheus.NewRegistry()
	runErr := fn(metrics.NewPrometheus(reg, ""))

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		log.Error("failed to write metrics file", "path", path, "error", err)
		if runErr == nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	return runErr
}
