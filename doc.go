// Package dispatch plans batch downloads of sequencing runs across a pool of
// compute nodes.
//
// A run list from an archive query is split into groups of roughly equal
// disk burden, one group per node, while the total CPU request stays inside a
// budget. The groups are persisted for the job scheduler together with a
// merged run config and an HTCondor submit description.
//
// # Quick Start
//
//	cfg, err := dispatch.LoadConfig("config/config.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	src := source.NewTable(cfg.Files.MetadataTable)
//	d, err := dispatch.NewDispatcher(cfg, src, dispatch.NewDirWriter(cfg))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := d.Run(ctx)
//	if errors.Is(err, dispatch.ErrTooFewSubmissions) {
//	    // res.FallbackPath lists every accession for a local run
//	}
//
// # Balancing
//
// Each item's disk requirement is its normalized size (megabytes) times 20,
// the decompression factor. The node count is max_cpu_request / cpu_per_node
// and the per-node threshold is the total requirement over the node count,
// raised in 1 GB steps until the largest item fits. Groups are filled greedily
// from both ends of the size-sorted list: the largest remaining item seeds a
// group, then the smallest remaining items join while the group stays below
// the threshold. When the nodes outnumber the groups at least two to one,
// every node gets twice the base CPU request.
//
// # Packages
//
//   - size: size normalization and formatting
//   - balancer: the node balancer
//   - partition: PartitionWriter implementations (directory, NATS KV, memory)
//   - source: ItemSource implementations (static list, metadata table)
//   - submit: HTCondor submit description builder
//
// # Configuration
//
// Config mirrors the JSON layout consumed by downstream jobs. LoadConfig reads
// JSON or YAML and overlays SRAD_-prefixed environment variables.
package dispatch
