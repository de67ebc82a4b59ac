// Package partition provides types.PartitionWriter implementations.
//
// The package includes:
//
//   - Dir: group files in a folder plus an index file on local disk
//   - KV: a NATS JetStream KeyValue bucket
//   - Memory: in-process storage for tests and dry runs
//
// Custom writers can be implemented by satisfying the types.PartitionWriter interface.
package partition
