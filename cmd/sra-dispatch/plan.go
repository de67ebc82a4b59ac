package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/balancer"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/partition"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/size"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/source"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/types"
)

// planReport is the YAML document printed by the plan command.
type planReport struct {
	Items       int                `yaml:"items"`
	DiskPerNode string             `yaml:"disk_per_node"`
	Plan        types.ResourcePlan `yaml:"plan"`
	Groups      []planGroup        `yaml:"groups"`
}

type planGroup struct {
	Index   int      `yaml:"index"`
	Weight  string   `yaml:"weight"`
	Members []string `yaml:"members"`
}

func planCmd() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Dry run: balance a metadata table in memory and print the plan",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "table",
				Aliases: []string{"t"},
				Usage:   "Tab-separated metadata table (overrides files.metadata_table)",
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

			items, err := source.NewTable(cfg.Files.MetadataTable, source.WithLogger(log)).ListItems(ctx)
			if err != nil {
				return err
			}

			return withMetrics(cmd, log, func(m types.MetricsCollector) error {
				b, err := balancer.New(partition.NewMemory(), balancer.WithLogger(log), balancer.WithMetrics(m))
				if err != nil {
					return err
				}

				plan, groups, err := b.Balance(items, cfg.ProcessConfigs.MaxCPURequest, cfg.ProcessConfigs.CPUPerNode)
				if err != nil {
					return err
				}

				report := planReport{
					Items:       len(items),
					DiskPerNode: size.Format(plan.DiskPerNode),
					Plan:        plan,
				}
				for _, g := range groups {
					report.Groups = append(report.Groups, planGroup{
						Index:   g.Index,
						Weight:  size.Format(g.AccumulatedWeight),
						Members: g.Members,
					})
				}

				enc := yaml.NewEncoder(cmd.Root().Writer)
				enc.SetIndent(2)
				if err := enc.Encode(report); err != nil {
					return fmt.Errorf("encode plan: %w", err)
				}

				return enc.Close()
			})
		},
	}
}
