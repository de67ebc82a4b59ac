package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/urfave/cli/v3"

	dispatch "github.com/William-Gardner-Biotech/SRA-Dispatch"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/partition"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/source"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/types"
)

const defaultKVBucket = "sra-partitions"

func balanceCmd() *cli.Command {
	return &cli.Command{
		Name:  "balance",
		Usage: "Balance a metadata table into node groups and write the submit file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "table",
				Aliases: []string{"t"},
				Usage:   "Tab-separated metadata table (overrides files.metadata_table)",
			},
			&cli.StringFlag{
				Name:    "nats-url",
				Usage:   "Also mirror groups into a JetStream KV bucket on this server",
				Sources: cli.EnvVars("SRAD_NATS_URL"),
			},
			&cli.StringFlag{
				Name:    "kv-bucket",
				Usage:   "KV bucket for mirrored groups",
				Value:   defaultKVBucket,
				Sources: cli.EnvVars("SRAD_KV_BUCKET"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := newLogger(cmd)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if v := cmd.String("table"); v != "" {
				cfg.Files.MetadataTable = v
			}

			var writer types.PartitionWriter = dispatch.NewDirWriter(cfg)
			if url := cmd.String("nats-url"); url != "" {
				nc, err := nats.Connect(url, nats.Name("sra-dispatch"), nats.Timeout(5*time.Second))
				if err != nil {
					return fmt.Errorf("connect to NATS: %w", err)
				}
				defer nc.Close()

				js, err := jetstream.New(nc)
				if err != nil {
					return fmt.Errorf("create JetStream context: %w", err)
				}
				writer = partition.NewMulti(writer, partition.NewKV(js, cmd.String("kv-bucket")))
				log.Info("mirroring groups to KV", "url", url, "bucket", cmd.String("kv-bucket"))
			}

			src := source.NewTable(cfg.Files.MetadataTable, source.WithLogger(log))

			return withMetrics(cmd, log, func(m types.MetricsCollector) error {
				d, err := dispatch.NewDispatcher(cfg, src, writer,
					dispatch.WithLogger(log), dispatch.WithMetrics(m))
				if err != nil {
					return err
				}

				res, err := d.Run(ctx)
				if errors.Is(err, dispatch.ErrTooFewSubmissions) {
					return cli.Exit(fmt.Sprintf("%v\nrun the accessions in %s locally", err, res.FallbackPath), 2)
				}
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.Root().Writer, "%d groups, %d CPUs per node, submit file %s\n",
					len(res.Groups), res.Plan.CPUPerNode, res.SubmitFilePath)

				return nil
			})
		},
	}
}
