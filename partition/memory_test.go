package partition

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Reset())

	members := []string{"SRR1", "SRR2"}
	ref, err := m.WriteGroup(1, members)
	require.NoError(t, err)
	require.Equal(t, "group-1", ref)

	// stored members are a copy
	members[0] = "mutated"
	got, ok := m.Group(1)
	require.True(t, ok)
	require.Equal(t, []string{"SRR1", "SRR2"}, got)

	require.NoError(t, m.WriteIndex([]string{ref}))
	require.Equal(t, []string{"group-1"}, m.Index())
	require.Equal(t, 1, m.Len())

	require.NoError(t, m.Reset())
	require.Equal(t, 0, m.Len())
	require.Nil(t, m.Index())
	require.Equal(t, 2, m.Resets())
}

func TestMemory_ConcurrentReaders(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Reset())

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			_, err := m.WriteGroup(idx, []string{"SRR"})
			require.NoError(t, err)
		}(i)
		go func(idx int) {
			defer wg.Done()
			_, _ = m.Group(idx)
			_ = m.Index()
		}(i)
	}
	wg.Wait()

	require.Equal(t, 20, m.Len())
}
