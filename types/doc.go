// Package types provides core type definitions and interfaces for sra-dispatch.
//
// This package contains the types shared by the balancer, the partition writers,
// the item sources and the root dispatch package. Keeping them here lets the
// implementation packages depend on each other's contracts without importing the
// root package.
//
// Key types:
//   - Item: A download unit (run accession) with its raw and derived size
//   - Group: A bin of items assigned to one compute node
//   - ResourcePlan: Node count, per-node disk threshold and CPU allocation
//   - PartitionWriter: Persists groups and the group index
//   - ItemSource: Supplies the items to balance
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types
