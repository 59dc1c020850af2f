package data

// DefaultQueueCapacity is the number of ids kept before the oldest is evicted
const DefaultQueueCapacity = 200

// SignalQueue keeps signal ids in arrival order with a fixed capacity.
// It is not safe for concurrent use; the owning service serializes access.
type SignalQueue struct {
	ids      []string
	capacity int
}

// NewSignalQueue creates an empty queue; capacity below 1 falls back to DefaultQueueCapacity
func NewSignalQueue(capacity int) *SignalQueue {
	if capacity < 1 {
		capacity = DefaultQueueCapacity
	}
	return &SignalQueue{
		ids:      make([]string, 0, capacity),
		capacity: capacity,
	}
}

// Capacity returns the maximum queue length
func (q *SignalQueue) Capacity() int {
	return q.capacity
}

// Enqueue appends id to the tail. When the queue overflows the head is
// dropped and returned so the caller can purge its store record.
func (q *SignalQueue) Enqueue(id string) (string, bool) {
	q.ids = append(q.ids, id)
	if len(q.ids) <= q.capacity {
		return "", false
	}

	evicted := q.ids[0]
	q.ids[0] = ""
	q.ids = q.ids[1:]
	return evicted, true
}

// PeekFront returns the head id without removing it
func (q *SignalQueue) PeekFront() (string, bool) {
	if len(q.ids) == 0 {
		return "", false
	}
	return q.ids[0], true
}

// PopFront removes and returns the head id
func (q *SignalQueue) PopFront() (string, bool) {
	if len(q.ids) == 0 {
		return "", false
	}
	id := q.ids[0]
	q.ids[0] = ""
	q.ids = q.ids[1:]
	return id, true
}

// Remove deletes id wherever it sits; it reports whether id was present
func (q *SignalQueue) Remove(id string) bool {
	for i, queued := range q.ids {
		if queued == id {
			q.ids = append(q.ids[:i], q.ids[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of queued ids
func (q *SignalQueue) Len() int {
	return len(q.ids)
}

// IDs returns a copy of the queued ids, head first
func (q *SignalQueue) IDs() []string {
	result := make([]string, len(q.ids))
	copy(result, q.ids)
	return result
}
