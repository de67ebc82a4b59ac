// Package balancer distributes download items across compute nodes.
//
// The NodeBalancer computes a per-node disk threshold from the total disk
// requirement and the node budget, packs items into groups bounded by that
// threshold, persists each group through a types.PartitionWriter, and derives
// the CPU request per node from the number of groups produced.
//
// # Packing
//
// Items are sorted once by disk requirement, largest first, and consumed from
// both ends. Each group is seeded with the largest remaining item and topped up
// with the smallest remaining items while its total stays strictly below the
// threshold. Large items therefore end up sharing nodes with many small ones,
// which evens out per-node totals.
//
// # Threshold adjustment
//
// When a single item is larger than total/nodes, no group could ever hold it
// under the threshold. The threshold is raised in 1 GB steps until the largest
// item fits, at the cost of less evenly filled groups.
//
// # Example
//
//	w := partition.NewDir("sras_to_process", "sra_queue.txt")
//	b, _ := balancer.New(w)
//	plan, groups, err := b.Balance(items, cfg.Process.MaxCPURequest, cfg.Process.CPUPerNode)
package balancer
