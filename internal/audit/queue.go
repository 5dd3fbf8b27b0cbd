package audit

import "sync"

// Queue is a bounded thread-safe FIFO. Send never blocks; items that do not
// fit are dropped and counted.
type Queue[T any] struct {
	mu     sync.Mutex
	buf    []T
	head   int
	count  int
	closed bool
	ready  chan struct{}

	// Stats
	totalSent    int64
	totalDropped int64
	maxDepth     int
}

// NewQueue creates a queue holding at most capacity items.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{
		buf:   make([]T, capacity),
		ready: make(chan struct{}, 1),
	}
}

// Send enqueues an item. Returns false if the queue is full or closed.
func (q *Queue[T]) Send(item T) bool {
	q.mu.Lock()
	if q.closed || q.count == len(q.buf) {
		q.totalDropped++
		q.mu.Unlock()
		return false
	}

	q.buf[(q.head+q.count)%len(q.buf)] = item
	q.count++
	q.totalSent++
	if q.count > q.maxDepth {
		q.maxDepth = q.count
	}
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return true
}

// TryReceive removes the oldest item without blocking.
func (q *Queue[T]) TryReceive() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.count == 0 {
		return zero, false
	}
	item := q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return item, true
}

// DrainTo removes up to max items in FIFO order.
func (q *Queue[T]) DrainTo(max int) []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := q.count
	if max > 0 && n > max {
		n = max
	}
	out := make([]T, n)
	var zero T
	for i := 0; i < n; i++ {
		out[i] = q.buf[q.head]
		q.buf[q.head] = zero
		q.head = (q.head + 1) % len(q.buf)
	}
	q.count -= n
	return out
}

// Ready signals that items may be available. It is edge-triggered: a single
// signal can stand for many sends.
func (q *Queue[T]) Ready() <-chan struct{} {
	return q.ready
}

// Close stops accepting items. Queued items remain receivable.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Stats returns queue statistics.
func (q *Queue[T]) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStats{
		Depth:    q.count,
		Capacity: len(q.buf),
		MaxDepth: q.maxDepth,
		Sent:     q.totalSent,
		Dropped:  q.totalDropped,
	}
}

// QueueStats contains queue statistics.
type QueueStats struct {
	Depth    int
	Capacity int
	MaxDepth int
	Sent     int64
	Dropped  int64
}
