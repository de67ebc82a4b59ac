package partition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDir_WritesGroupsAndIndex(t *testing.T) {
	root := t.TempDir()
	folder := filepath.Join(root, "sras_to_process")
	index := filepath.Join(root, "sra_queue.txt")
	w := NewDir(folder, index)

	require.NoError(t, w.Reset())

	ref1, err := w.WriteGroup(1, []string{"SRR1", "SRR4"})
	require.NoError(t, err)
	ref2, err := w.WriteGroup(2, []string{"SRR2", "SRR3"})
	require.NoError(t, err)
	require.NoError(t, w.WriteIndex([]string{ref1, ref2}))

	require.Equal(t, filepath.Join(folder, "SRA_set_1"), ref1)

	data, err := os.ReadFile(ref1)
	require.NoError(t, err)
	require.Equal(t, "SRR1\nSRR4", string(data))

	data, err = os.ReadFile(index)
	require.NoError(t, err)
	require.Equal(t, ref1+"\n"+ref2, string(data))
}

func TestDir_Reset(t *testing.T) {
	t.Run("safe when nothing exists", func(t *testing.T) {
		root := t.TempDir()
		w := NewDir(filepath.Join(root, "groups"), filepath.Join(root, "nested", "queue.txt"))

		require.NoError(t, w.Reset())
		require.NoError(t, w.Reset())

		info, err := os.Stat(w.Folder())
		require.NoError(t, err)
		require.True(t, info.IsDir())
	})

	t.Run("clears stale output", func(t *testing.T) {
		root := t.TempDir()
		w := NewDir(filepath.Join(root, "groups"), filepath.Join(root, "queue.txt"))

		require.NoError(t, w.Reset())
		stale, err := w.WriteGroup(7, []string{"SRR_OLD"})
		require.NoError(t, err)
		require.NoError(t, w.WriteIndex([]string{stale}))

		require.NoError(t, w.Reset())

		entries, err := os.ReadDir(w.Folder())
		require.NoError(t, err)
		require.Empty(t, entries)

		_, err = os.Stat(w.IndexPath())
		require.True(t, os.IsNotExist(err))
	})

	t.Run("requires both locations", func(t *testing.T) {
		require.Error(t, NewDir("", "queue.txt").Reset())
		require.Error(t, NewDir("groups", "").Reset())
	})
}

func TestDir_GroupPrefix(t *testing.T) {
	root := t.TempDir()
	w := NewDir(root+"/out", root+"/queue.txt", WithGroupPrefix("batch-"))
	require.NoError(t, w.Reset())

	ref, err := w.WriteGroup(3, []string{"ERR9"})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "out", "batch-3"), ref)
}
