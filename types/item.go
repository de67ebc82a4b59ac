package types

import "strings"

// Item represents a single downloadable unit of work.
//
// RawSize is whatever the item source reported (a number, a string with an
// optional GB/MB/KB suffix, or nil). DiskRequirement is derived by the balancer
// from RawSize and is expressed in the canonical unit (megabytes).
type Item struct {
	// ID is the run accession (e.g., "SRR12345678").
	ID string `json:"id" yaml:"id"`

	// RawSize is the size as reported by the source.
	RawSize any `json:"raw_size" yaml:"raw_size"`

	// DiskRequirement is the normalized size multiplied by the decompression factor.
	DiskRequirement float64 `json:"disk_requirement" yaml:"disk_requirement"`
}

// Group is a bin of items assigned to one compute node.
type Group struct {
	// Index is the 1-based closing order of the group.
	Index int `json:"index" yaml:"index"`

	// Members holds item IDs in insertion order.
	Members []string `json:"members" yaml:"members"`

	// AccumulatedWeight is the sum of the members' disk requirements.
	AccumulatedWeight float64 `json:"accumulated_weight" yaml:"accumulated_weight"`

	// Ref is the reference returned by the PartitionWriter for this group
	// (a file path, a KV key, ...). Empty until the group is written.
	Ref string `json:"ref,omitempty" yaml:"ref,omitempty"`
}

// Len returns the number of members in the group.
func (g Group) Len() int {
	return len(g.Members)
}

// Contents returns the newline-delimited member list as persisted by writers.
//
// Returns:
//   - string: Member IDs joined with "\n" ("" for an empty group)
func (g Group) Contents() string {
	return strings.Join(g.Members, "\n")
}

// ResourcePlan is the resource configuration derived from a balancing run.
//
// It is consumed by the submit file builder and merged back into the run
// configuration for downstream jobs.
type ResourcePlan struct {
	// NodeCount is floor(max_cpu_request / cpu_per_node_base).
	NodeCount int `json:"node_count" yaml:"node_count"`

	// DiskPerNode is the per-node disk threshold in megabytes, after overflow adjustment.
	DiskPerNode float64 `json:"disk_per_node" yaml:"disk_per_node"`

	// CPUPerNode is the CPU request per node after reallocation.
	CPUPerNode int `json:"cpu_per_node" yaml:"cpu_per_node"`

	// Adjustments counts how many increments the overflow loop applied to DiskPerNode.
	Adjustments int `json:"adjustments" yaml:"adjustments"`

	// Fingerprint is a stable hash of the ordered group memberships.
	Fingerprint uint64 `json:"fingerprint" yaml:"fingerprint"`
}
