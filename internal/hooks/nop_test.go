package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/types"
)

func TestNewNop(t *testing.T) {
	hooks := NewNop()

	require.NotNil(t, hooks.OnGroupsWritten)
	require.NotNil(t, hooks.OnPlanReady)
	require.NotNil(t, hooks.OnError)

	ctx := context.Background()
	require.NoError(t, hooks.OnGroupsWritten(ctx, []types.Group{{Index: 1, Members: []string{"SRR1"}}}))
	require.NoError(t, hooks.OnPlanReady(ctx, types.ResourcePlan{NodeCount: 2}))
	require.NoError(t, hooks.OnError(ctx, context.Canceled))
}

func TestOrNop(t *testing.T) {
	t.Run("nil hooks", func(t *testing.T) {
		h := OrNop(nil)
		require.NotNil(t, h.OnGroupsWritten)
		require.NotNil(t, h.OnPlanReady)
		require.NotNil(t, h.OnError)
	})

	t.Run("partial hooks keep the set callbacks", func(t *testing.T) {
		errBoom := errors.New("boom")
		var seen types.ResourcePlan

		h := OrNop(&types.Hooks{
			OnPlanReady: func(_ context.Context, plan types.ResourcePlan) error {
				seen = plan
				return errBoom
			},
		})

		require.NoError(t, h.OnGroupsWritten(context.Background(), nil))
		require.ErrorIs(t, h.OnPlanReady(context.Background(), types.ResourcePlan{CPUPerNode: 8}), errBoom)
		require.Equal(t, 8, seen.CPUPerNode)
		require.NoError(t, h.OnError(context.Background(), errBoom))
	})
}
