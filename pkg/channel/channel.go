// Package channel provides the unidirectional message queues wiring
// the pipeline together. Each queue is FIFO, unbounded and shared by
// exactly one producer and one consumer component. The pipeline is
// single-threaded and pull-driven, so there is no locking and no
// blocking: a consumer pops at most one message per driver step.
package channel

// Queue is an ordered FIFO of messages.
type Queue[T any] struct {
	items []T
}

// New returns an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends a message to the tail.
func (q *Queue[T]) Push(v T) {
	q.items = append(q.items, v)
}

// TryPop removes and returns the head message, or reports false when
// the queue is empty.
func (q *Queue[T]) TryPop() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return v, true
}

// Len returns the number of pending messages.
func (q *Queue[T]) Len() int {
	return len(q.items)
}
