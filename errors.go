package dispatch

import (
	"errors"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/types"
)

// Sentinel errors returned by the Dispatcher. Check them with errors.Is.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrSourceRequired is returned when the item source is nil.
	ErrSourceRequired = types.ErrSourceRequired

	// ErrWriterRequired is returned when the partition writer is nil.
	ErrWriterRequired = types.ErrWriterRequired

	// ErrTooFewSubmissions is returned when the run list is below
	// minimum_submissions_for_balancing. The fallback list has been written.
	ErrTooFewSubmissions = types.ErrTooFewSubmissions

	// ErrNoItems is returned when the source yields nothing to balance.
	ErrNoItems = types.ErrNoItems

	// ErrInvalidNodeBudget is returned when max_cpu_request / cpu_per_node < 1.
	ErrInvalidNodeBudget = types.ErrInvalidNodeBudget

	// ErrPartitionWrite is returned when persisting groups or the index fails.
	ErrPartitionWrite = types.ErrPartitionWrite

	// ErrOutputExists is returned on CHTC runs when the results directory already exists.
	ErrOutputExists = errors.New("output results directory already exists")
)
