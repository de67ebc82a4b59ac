package types

import "context"

// Hooks defines callbacks for dispatch pipeline events.
//
// All hooks are optional. They run synchronously on the dispatch goroutine,
// and hook errors are logged but don't fail the run.
//
// Example:
//
//	hooks := &dispatch.Hooks{
//	    OnPlanReady: func(ctx context.Context, plan dispatch.ResourcePlan) error {
//	        return notify(ctx, plan)
//	    },
//	}
type Hooks struct {
	// OnGroupsWritten is called after every group and the index have been persisted.
	OnGroupsWritten func(ctx context.Context, groups []Group) error

	// OnPlanReady is called after the resource plan has been merged into the run config.
	OnPlanReady func(ctx context.Context, plan ResourcePlan) error

	// OnError is called when the pipeline fails.
	OnError func(ctx context.Context, err error) error
}
