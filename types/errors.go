package types

import "errors"

// Sentinel errors for sra-dispatch.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// External errors are wrapped with context using fmt.Errorf("%s: %w", msg, err).

// Dispatch errors - Public API errors returned by the pipeline.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSourceRequired is returned when the item source is nil.
	ErrSourceRequired = errors.New("item source is required")

	// ErrWriterRequired is returned when the partition writer is nil.
	ErrWriterRequired = errors.New("partition writer is required")

	// ErrTooFewSubmissions is returned when the item count is below the balancing minimum.
	ErrTooFewSubmissions = errors.New("too few submissions to balance")
)

// Balancer errors - Errors returned by the node balancer.
var (
	// ErrInvalidNodeBudget is returned when max CPU / CPU per node yields fewer than one node.
	ErrInvalidNodeBudget = errors.New("invalid node budget")

	// ErrNoItems is returned when an operation requires at least one item.
	ErrNoItems = errors.New("no items to balance")

	// ErrPartitionWrite is returned when persisting groups or the index fails.
	ErrPartitionWrite = errors.New("failed to write partition output")
)

// Size errors - Errors returned by size parsing.
var (
	// ErrMalformedSize is returned by strict size parsing for unrecognized input.
	ErrMalformedSize = errors.New("malformed size")
)
