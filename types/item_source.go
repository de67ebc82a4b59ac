package types

import "context"

// ItemSource provides the list of items to balance.
//
// Implementations can read various backends:
//   - Table: a delimited metadata dump with accession and size columns
//   - Static: fixed list for testing
//   - Custom: any query against an archive search service
type ItemSource interface {
	// ListItems returns all items for the current run.
	//
	// The returned items carry ID and RawSize; DiskRequirement is filled in
	// by the balancer.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//
	// Returns:
	//   - []Item: Items in source order
	//   - error: Read error (nil on success)
	ListItems(ctx context.Context) ([]Item, error)
}
