package partition

import (
	"strconv"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/types"
)

// Memory keeps partition output in process.
//
// Groups are readable while a run is in progress; reads and writes are safe
// for concurrent use.
type Memory struct {
	groups *xsync.Map[int, []string]

	mu     sync.RWMutex
	index  []string
	resets int
}

var _ types.PartitionWriter = (*Memory)(nil)

// NewMemory creates an empty in-memory writer.
func NewMemory() *Memory {
	return &Memory{groups: xsync.NewMap[int, []string]()}
}

// Reset drops all stored groups and the index.
func (m *Memory) Reset() error {
	m.groups.Clear()

	m.mu.Lock()
	m.index = nil
	m.resets++
	m.mu.Unlock()

	return nil
}

// WriteGroup stores a copy of memberIDs and returns "group-<index>".
func (m *Memory) WriteGroup(index int, memberIDs []string) (string, error) {
	members := make([]string, len(memberIDs))
	copy(members, memberIDs)
	m.groups.Store(index, members)

	return "group-" + strconv.Itoa(index), nil
}

// WriteIndex stores a copy of refs.
func (m *Memory) WriteIndex(refs []string) error {
	index := make([]string, len(refs))
	copy(index, refs)

	m.mu.Lock()
	m.index = index
	m.mu.Unlock()

	return nil
}

// Group returns the members stored for index.
func (m *Memory) Group(index int) ([]string, bool) {
	return m.groups.Load(index)
}

// Len returns the number of stored groups.
func (m *Memory) Len() int {
	return m.groups.Size()
}

// Index returns the last index written (nil before WriteIndex).
func (m *Memory) Index() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.index
}

// Resets returns how many times Reset was called.
func (m *Memory) Resets() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.resets
}
