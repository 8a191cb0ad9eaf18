package catalog

// Queue is a FIFO of catalog ids that ignores repeats.
type Queue struct {
	items []int
	seen  map[int]bool
	idx   int // current read position
}

// NewQueue creates a Queue holding ids in order, minus repeats.
func NewQueue(ids ...int) *Queue {
	q := &Queue{seen: make(map[int]bool)}
	for _, id := range ids {
		q.Add(id)
	}
	return q
}

// Add enqueues an id if it hasn't been seen before.
func (q *Queue) Add(id int) {
	if q.seen[id] {
		return
	}
	q.seen[id] = true
	q.items = append(q.items, id)
}

// HasNext returns true if there are unprocessed ids.
func (q *Queue) HasNext() bool {
	return q.idx < len(q.items)
}

// Next returns the next unprocessed id and advances the pointer.
func (q *Queue) Next() int {
	id := q.items[q.idx]
	q.idx++
	return id
}

// Len returns the number of unique ids queued.
func (q *Queue) Len() int {
	return len(q.items)
}

// All returns every queued id in order.
func (q *Queue) All() []int {
	return q.items
}
