package pathfind

import "container/heap"

// openItem is one cell waiting in the open set.
type openItem struct {
	cell  Coord
	f     float64
	seq   uint64 // insertion order; breaks f ties in favour of the earliest
	index int
}

type openQueue []*openItem

func (q openQueue) Len() int { return len(q) }
func (q openQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}
func (q openQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *openQueue) Push(x any) {
	item := x.(*openItem)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *openQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	item.index = -1
	return item
}

// openSet is a min-heap on (f, seq) plus a membership index.
// A cell keeps its sequence number while it stays in the set, so the pick
// order matches a linear scan over cells in the order they were added.
type openSet struct {
	queue   openQueue
	members map[Coord]*openItem
	nextSeq uint64
}

func newOpenSet() *openSet {
	return &openSet{members: make(map[Coord]*openItem)}
}

func (s *openSet) Len() int { return len(s.queue) }

// upsert inserts cell or lowers its f in place.
func (s *openSet) upsert(cell Coord, f float64) {
	if item, ok := s.members[cell]; ok {
		item.f = f
		heap.Fix(&s.queue, item.index)
		return
	}
	item := &openItem{cell: cell, f: f, seq: s.nextSeq}
	s.nextSeq++
	s.members[cell] = item
	heap.Push(&s.queue, item)
}

// popMin removes and returns the cell with the lowest f.
func (s *openSet) popMin() Coord {
	item := heap.Pop(&s.queue).(*openItem)
	delete(s.members, item.cell)
	return item.cell
}

func (s *openSet) contains(cell Coord) bool {
	_, ok := s.members[cell]
	return ok
}
