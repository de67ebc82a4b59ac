package balancer

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/internal/logger"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/internal/metrics"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/size"
	"github.com/William-Gardner-Biotech/SRA-Dispatch/types"
)

// DefaultIncrement is the step applied to the per-node disk threshold while
// the largest item still exceeds it: 1 GB in megabytes.
const DefaultIncrement = size.GB

// NodeBalancer partitions items into groups of roughly equal disk burden.
type NodeBalancer struct {
	writer         types.PartitionWriter
	diskMultiplier float64
	increment      float64
	logger         types.Logger
	metrics        types.BalancerMetrics
}

// Option configures a NodeBalancer.
type Option func(*NodeBalancer)

// WithLogger sets the logger. Logging never changes balancing outcomes.
func WithLogger(l types.Logger) Option {
	return func(b *NodeBalancer) {
		b.logger = l
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m types.BalancerMetrics) Option {
	return func(b *NodeBalancer) {
		b.metrics = m
	}
}

// WithDiskMultiplier overrides the expansion factor applied to normalized sizes.
//
// A multiplier of 1 treats raw sizes as disk requirements directly, which is
// handy when the source already reports expanded sizes.
func WithDiskMultiplier(m float64) Option {
	return func(b *NodeBalancer) {
		b.diskMultiplier = m
	}
}

// WithIncrement overrides the overflow-adjustment step (megabytes, must be > 0).
func WithIncrement(inc float64) Option {
	return func(b *NodeBalancer) {
		b.increment = inc
	}
}

// New creates a NodeBalancer that persists groups through writer.
//
// Parameters:
//   - writer: Destination for group lists and the group index
//   - opts: Optional configuration (WithLogger, WithMetrics, WithDiskMultiplier, WithIncrement)
//
// Returns:
//   - *NodeBalancer: Balancer ready for use
//   - error: types.ErrWriterRequired if writer is nil
//
// Example:
//
//	w := partition.NewDir("sras_to_process", "sra_queue.txt")
//	b, err := balancer.New(w, balancer.WithLogger(log))
//	plan, groups, err := b.Balance(items, 64, 4)
func New(writer types.PartitionWriter, opts ...Option) (*NodeBalancer, error) {
	if writer == nil {
		return nil, types.ErrWriterRequired
	}

	b := &NodeBalancer{
		writer:         writer,
		diskMultiplier: size.DiskMultiplier,
		increment:      DefaultIncrement,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	b.logger = logger.OrNop(b.logger)
	if b.metrics == nil {
		b.metrics = metrics.NewNop()
	}
	if b.diskMultiplier < 0 {
		b.diskMultiplier = size.DiskMultiplier
	}
	if b.increment <= 0 {
		b.increment = DefaultIncrement
	}

	return b, nil
}

// Balance partitions items across the node budget and persists the groups.
//
// The algorithm:
//  1. Compute each item's disk requirement (normalized size x multiplier)
//  2. Derive node count from the CPU budget; fail before any I/O if < 1
//  3. disk_per_node = total requirement / node count
//  4. Raise disk_per_node by the increment until no single item exceeds it
//  5. Greedy two-ended packing: seed each group with the largest remaining
//     item, then add the smallest remaining items while the total stays
//     strictly below disk_per_node
//  6. Write every group in closing order, then the index
//  7. Double CPU per node when there are at least twice as many nodes as groups
//
// A group counts as empty while its accumulated weight is zero: items without
// a usable size never close a group on their own.
//
// The last remaining item joins the open group (or forms its own group when
// none is open), so every input item lands in exactly one written group. That
// final group is the only one allowed to reach or exceed disk_per_node through
// a non-seed addition.
//
// Parameters:
//   - items: Items to balance; ID and RawSize are read, DiskRequirement is recomputed
//   - maxCPUBudget: Total CPUs that may be requested across all nodes
//   - cpuPerNodeBase: CPUs requested per node before reallocation
//
// Returns:
//   - types.ResourcePlan: Node count, disk threshold and CPU allocation
//   - []types.Group: Written groups in closing order
//   - error: Wraps types.ErrInvalidNodeBudget or types.ErrPartitionWrite
func (b *NodeBalancer) Balance(items []types.Item, maxCPUBudget, cpuPerNodeBase int) (types.ResourcePlan, []types.Group, error) {
	start := time.Now()

	nodes, err := NodeCount(maxCPUBudget, cpuPerNodeBase)
	if err != nil {
		return types.ResourcePlan{}, nil, err
	}
	b.logger.Info("nodes", "node_count", nodes, "max_cpu_request", maxCPUBudget, "cpu_per_node", cpuPerNodeBase)

	weighted := b.weigh(items)
	b.metrics.RecordItemCount(len(weighted))

	threshold, adjustments := b.threshold(weighted, nodes)

	if err := b.writer.Reset(); err != nil {
		return types.ResourcePlan{}, nil, fmt.Errorf("%w: reset: %w", types.ErrPartitionWrite, err)
	}

	groups, err := b.pack(weighted, threshold)
	if err != nil {
		return types.ResourcePlan{}, nil, err
	}

	refs := make([]string, len(groups))
	for i, g := range groups {
		refs[i] = g.Ref
	}
	if err := b.writer.WriteIndex(refs); err != nil {
		return types.ResourcePlan{}, nil, fmt.Errorf("%w: index: %w", types.ErrPartitionWrite, err)
	}

	plan := types.ResourcePlan{
		NodeCount:   nodes,
		DiskPerNode: threshold,
		CPUPerNode:  PlanCPU(nodes, len(groups), cpuPerNodeBase),
		Adjustments: adjustments,
		Fingerprint: Fingerprint(groups),
	}

	b.logger.Info("balancing complete",
		"groups", len(groups),
		"disk_per_node", size.Format(plan.DiskPerNode),
		"cpu_per_node", plan.CPUPerNode,
		"fingerprint", fmt.Sprintf("%016x", plan.Fingerprint))
	b.metrics.RecordPlan(plan)
	b.metrics.RecordBalanceDuration(time.Since(start).Seconds())

	return plan, groups, nil
}

// weigh copies items with DiskRequirement computed from RawSize.
func (b *NodeBalancer) weigh(items []types.Item) []types.Item {
	out := make([]types.Item, len(items))
	for i, it := range items {
		mb, err := size.Parse(it.RawSize)
		if err != nil {
			b.logger.Warn("unexpected size format", "id", it.ID, "raw", it.RawSize, "error", err)
			b.metrics.RecordMalformedSize()
			mb = 0
		}

		it.DiskRequirement = mb * b.diskMultiplier
		out[i] = it
	}

	return out
}

// threshold computes disk_per_node and applies the overflow adjustment.
func (b *NodeBalancer) threshold(items []types.Item, nodes int) (float64, int) {
	if len(items) == 0 {
		return 0, 0
	}

	var total float64
	maxReq, minReq := items[0].DiskRequirement, items[0].DiskRequirement
	for _, it := range items {
		total += it.DiskRequirement
		maxReq = max(maxReq, it.DiskRequirement)
		minReq = min(minReq, it.DiskRequirement)
	}

	perNode := total / float64(nodes)
	b.logger.Info("disk requirements",
		"max", size.Format(maxReq),
		"min", size.Format(minReq),
		"average_per_node", size.Format(perNode))

	adjustments := 0
	for maxReq > perNode {
		perNode += b.increment
		adjustments++
		b.logger.Warn("largest item exceeds per-node disk, raising threshold",
			"increment", size.Format(b.increment),
			"disk_per_node", size.Format(perNode))
		b.metrics.RecordThresholdAdjustment()
	}

	return perNode, adjustments
}

// pack runs the greedy two-ended packing and writes each group as it closes.
func (b *NodeBalancer) pack(items []types.Item, threshold float64) ([]types.Group, error) {
	dq := newDeque(sortDescending(items))

	var groups []types.Group
	current := types.Group{Index: 1}

	closeGroup := func() error {
		ref, err := b.writer.WriteGroup(current.Index, current.Members)
		if err != nil {
			return fmt.Errorf("%w: group %d: %w", types.ErrPartitionWrite, current.Index, err)
		}
		current.Ref = ref
		groups = append(groups, current)

		b.logger.Debug("group closed",
			"group", current.Index,
			"members", current.Len(),
			"weight", size.Format(current.AccumulatedWeight))
		b.metrics.RecordGroupClosed(current.AccumulatedWeight, current.Len())

		current = types.Group{Index: current.Index + 1}

		return nil
	}

	for dq.Len() > 0 {
		if dq.Len() == 1 {
			last := dq.PopFront()
			current.Members = append(current.Members, last.ID)
			current.AccumulatedWeight += last.DiskRequirement
			b.logger.Debug("leftover item joins open group", "group", current.Index, "id", last.ID)

			break
		}

		// empty means weightless: zero-size items keep seeding the same group
		if current.AccumulatedWeight == 0 {
			seed := dq.PopFront()
			current.Members = append(current.Members, seed.ID)
			current.AccumulatedWeight = seed.DiskRequirement

			continue
		}

		if current.AccumulatedWeight+dq.Back().DiskRequirement < threshold {
			small := dq.PopBack()
			current.Members = append(current.Members, small.ID)
			current.AccumulatedWeight += small.DiskRequirement

			continue
		}

		if err := closeGroup(); err != nil {
			return nil, err
		}
	}

	if current.Len() > 0 {
		if err := closeGroup(); err != nil {
			return nil, err
		}
	}

	return groups, nil
}

// sortDescending returns a copy of items ordered by disk requirement, largest
// first. Ties keep input order.
func sortDescending(items []types.Item) []types.Item {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b types.Item) int {
		return cmp.Compare(b.DiskRequirement, a.DiskRequirement)
	})

	return sorted
}

// NodeCount returns floor(maxCPUBudget / cpuPerNodeBase).
//
// Returns:
//   - int: Number of nodes (>= 1)
//   - error: Wraps types.ErrInvalidNodeBudget when the budget allows no node
func NodeCount(maxCPUBudget, cpuPerNodeBase int) (int, error) {
	if cpuPerNodeBase <= 0 {
		return 0, fmt.Errorf("%w: cpu_per_node must be > 0, got %d", types.ErrInvalidNodeBudget, cpuPerNodeBase)
	}

	nodes := maxCPUBudget / cpuPerNodeBase
	if nodes < 1 {
		return 0, fmt.Errorf("%w: max_cpu_request %d / cpu_per_node %d yields %d nodes",
			types.ErrInvalidNodeBudget, maxCPUBudget, cpuPerNodeBase, nodes)
	}

	return nodes, nil
}

// PlanCPU reallocates spare CPU: when the node budget is at least twice the
// number of groups produced, each node gets double the base CPU request.
//
// A group count of zero leaves the base unchanged.
func PlanCPU(nodeCount, groupCount, cpuPerNodeBase int) int {
	if groupCount <= 0 {
		return cpuPerNodeBase
	}
	if nodeCount/groupCount >= 2 {
		return 2 * cpuPerNodeBase
	}

	return cpuPerNodeBase
}
