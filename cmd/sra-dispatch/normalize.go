package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/size"
)

func normalizeCmd() *cli.Command {
	return &cli.Command{
		Name:      "normalize",
		Usage:     "Print the canonical size and disk requirement of each argument",
		ArgsUsage: "SIZE [SIZE...]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() == 0 {
				return cli.Exit("at least one size is required", 1)
			}

			n := size.NewNormalizer(size.WithLogger(newLogger(cmd)))

			tw := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INPUT\tMB\tDISK_MB\tDISK")
			for _, raw := range cmd.Args().Slice() {
				disk := n.DiskRequirement(raw)
				mb := disk / size.DiskMultiplier
				fmt.Fprintf(tw, "%s\t%g\t%g\t%s\n", raw, mb, disk, size.Format(disk))
			}

			return tw.Flush()
		},
	}
}
