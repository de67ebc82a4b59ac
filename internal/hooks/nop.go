package hooks

import (
	"context"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, []types.Group) error      = (*NopHooks)(nil).OnGroupsWritten
	_ func(context.Context, types.ResourcePlan) error = (*NopHooks)(nil).OnPlanReady
	_ func(context.Context, error) error              = (*NopHooks)(nil).OnError
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnGroupsWritten: h.OnGroupsWritten,
		OnPlanReady:     h.OnPlanReady,
		OnError:         h.OnError,
	}
}

// OrNop returns a copy of h with every unset callback replaced by a no-op.
// A nil h yields NewNop().
func OrNop(h *types.Hooks) types.Hooks {
	out := NewNop()
	if h == nil {
		return out
	}
	if h.OnGroupsWritten != nil {
		out.OnGroupsWritten = h.OnGroupsWritten
	}
	if h.OnPlanReady != nil {
		out.OnPlanReady = h.OnPlanReady
	}
	if h.OnError != nil {
		out.OnError = h.OnError
	}

	return out
}

// OnGroupsWritten is a no-op implementation.
func (h *NopHooks) OnGroupsWritten(ctx context.Context, groups []types.Group) error {
	return nil
}

// OnPlanReady is a no-op implementation.
func (h *NopHooks) OnPlanReady(ctx context.Context, plan types.ResourcePlan) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(ctx context.Context, err error) error {
	return nil
}
