package balancer

import "github.com/William-Gardner-Biotech/SRA-Dispatch/types"

// deque is a double-ended view over a slice that is only ever consumed from
// both ends; head and tail move inward and nothing is copied.
type deque struct {
	items      []types.Item
	head, tail int // tail is exclusive
}

func newDeque(items []types.Item) *deque {
	return &deque{items: items, tail: len(items)}
}

func (d *deque) Len() int {
	return d.tail - d.head
}

func (d *deque) Front() types.Item {
	return d.items[d.head]
}

func (d *deque) Back() types.Item {
	return d.items[d.tail-1]
}

func (d *deque) PopFront() types.Item {
	it := d.items[d.head]
	d.head++

	return it
}

func (d *deque) PopBack() types.Item {
	d.tail--

	return d.items[d.tail]
}
