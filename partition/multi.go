package partition

import (
	"fmt"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/types"
)

// Multi fans partition output out to several writers.
//
// The first writer is the primary: its references are the ones returned and
// passed to every writer's WriteIndex, so the index always names groups the
// way the primary stores them. Writers are called in order and the first
// error stops the operation.
type Multi struct {
	writers []types.PartitionWriter
}

var _ types.PartitionWriter = (*Multi)(nil)

// NewMulti creates a fan-out writer. Nil writers are skipped.
//
// Example:
//
//	w := partition.NewMulti(
//	    partition.NewDir("sras_to_process", "sra_queue.txt"),
//	    partition.NewKV(js, "sra-partitions"),
//	)
func NewMulti(primary types.PartitionWriter, mirrors ...types.PartitionWriter) *Multi {
	m := &Multi{}
	for _, w := range append([]types.PartitionWriter{primary}, mirrors...) {
		if w != nil {
			m.writers = append(m.writers, w)
		}
	}

	return m
}

// Reset resets every writer.
func (m *Multi) Reset() error {
	for i, w := range m.writers {
		if err := w.Reset(); err != nil {
			return fmt.Errorf("writer %d: %w", i, err)
		}
	}

	return nil
}

// WriteGroup writes the group to every writer and returns the primary's reference.
func (m *Multi) WriteGroup(index int, memberIDs []string) (string, error) {
	var primary string
	for i, w := range m.writers {
		ref, err := w.WriteGroup(index, memberIDs)
		if err != nil {
			return "", fmt.Errorf("writer %d: %w", i, err)
		}
		if i == 0 {
			primary = ref
		}
	}

	return primary, nil
}

// WriteIndex writes refs to every writer.
func (m *Multi) WriteIndex(refs []string) error {
	for i, w := range m.writers {
		if err := w.WriteIndex(refs); err != nil {
			return fmt.Errorf("writer %d: %w", i, err)
		}
	}

	return nil
}
