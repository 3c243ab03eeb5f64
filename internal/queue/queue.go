// Package queue defines the capability-segregated views of the bounded FIFO.
// The producer is handed only the put side and the consumer only the take
// side; one concrete queue type implements both. The monitor gets the
// narrowest view of all, a read-only emptiness probe.
package queue

// Putter is the producer-side capability: write access plus the non-blocking
// fullness query and the reset operation. A Putter cannot observe or remove
// queue contents.
type Putter[T any] interface {
	// Put appends a value, suspending the caller while the queue is full.
	Put(T)

	// IsFull reports whether the queue is at capacity. Non-blocking.
	IsFull() bool

	// Reset empties the queue. Only valid while no put or take is in
	// flight and no task is suspended on the queue.
	Reset()
}

// Taker is the consumer-side capability: read access plus the non-blocking
// occupancy queries. A Taker cannot write.
type Taker[T any] interface {
	// Take removes and returns the oldest value, suspending the caller
	// while the queue is empty.
	Take() T

	// IsEmpty reports whether the queue holds no values. Non-blocking.
	IsEmpty() bool

	// Size returns the current occupancy. Non-blocking.
	Size() int
}

// Emptier is the monitor-side capability: it can ask whether the queue has
// drained and nothing else.
type Emptier interface {
	IsEmpty() bool
}
