package source

import (
	"context"
	"sync"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/types"
)

// Static implements an item source with a fixed list of items.
type Static struct {
	mu    sync.RWMutex
	items []types.Item
}

var _ types.ItemSource = (*Static)(nil)

// NewStatic creates a new static item source.
//
// Useful for tests and for callers that already hold the run list in memory.
//
// Parameters:
//   - items: Fixed list of items (ID and RawSize)
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	src := source.NewStatic([]types.Item{
//	    {ID: "SRR1000001", RawSize: "2GB"},
//	    {ID: "SRR1000002", RawSize: 512},
//	})
//	d, err := dispatch.NewDispatcher(&cfg, src, partition.NewMemory())
func NewStatic(items []types.Item) *Static {
	return &Static{
		items: items,
	}
}

// ListItems returns a copy of the static item list.
//
// Returns:
//   - []types.Item: The fixed list of items
//   - error: ctx.Err() when the context is already done, nil otherwise
func (s *Static) ListItems(ctx context.Context) ([]types.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]types.Item, len(s.items))
	copy(result, s.items)

	return result, nil
}

// Update replaces the item list.
//
// Parameters:
//   - items: New list of items
func (s *Static) Update(items []types.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]types.Item, len(items))
	copy(s.items, items)
}
