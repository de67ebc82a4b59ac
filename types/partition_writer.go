package types

// PartitionWriter persists the output of a balancing run.
//
// Implementations target a single storage location:
//   - Dir: a folder of group files plus an index file on local disk
//   - KV: a NATS JetStream KeyValue bucket
//   - Memory: an in-process store for tests
//
// The balancer calls Reset once, then WriteGroup for each closed group in
// closing order, then WriteIndex with the references WriteGroup returned.
// Concurrent balancing runs must use distinct storage locations.
type PartitionWriter interface {
	// Reset removes any prior partition output and prepares an empty container.
	//
	// Must be idempotent and succeed when nothing exists yet.
	//
	// Returns:
	//   - error: Storage error (nil on success)
	Reset() error

	// WriteGroup persists one newline-delimited list of item IDs.
	//
	// Parameters:
	//   - index: 1-based group index
	//   - memberIDs: Item IDs in insertion order
	//
	// Returns:
	//   - string: Reference under which the group can be found later
	//   - error: Storage error (nil on success)
	WriteGroup(index int, memberIDs []string) (string, error)

	// WriteIndex persists a newline-delimited list of group references.
	//
	// Parameters:
	//   - refs: Group references in the order they were written
	//
	// Returns:
	//   - error: Storage error (nil on success)
	WriteIndex(refs []string) error
}
