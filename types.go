package dispatch

import "github.com/William-Gardner-Biotech/SRA-Dispatch/types"

// Re-export types from the types package.
//
// Implementation packages (balancer, partition, source) depend on types
// rather than on the root package, which keeps the import graph acyclic while
// callers still get dispatch.Item, dispatch.Logger and friends.
type (
	Item         = types.Item
	Group        = types.Group
	ResourcePlan = types.ResourcePlan
)

// Re-export interfaces from the types package for convenience.
type (
	ItemSource       = types.ItemSource
	PartitionWriter  = types.PartitionWriter
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)
