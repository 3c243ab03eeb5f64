// Package fifo provides the bounded blocking queue at the center of the
// pipeline model: a fixed-capacity ring buffer whose put and take suspend the
// calling task on the scheduler's events instead of busy-polling, and which
// keeps running occupancy statistics for the shutdown report.
package fifo

import (
	"time"

	"github.com/i5heu/GoFifoSim/internal/queue"
	"github.com/i5heu/GoFifoSim/internal/sim"
)

// Fifo is a fixed-capacity ring buffer with blocking Put/Take. It is built for
// single-producer/single-consumer use under the cooperative scheduler: all
// mutation happens inside one uninterrupted segment between suspension points,
// so the scheduler itself serializes access and no lock is needed.
type Fifo[T any] struct {
	sched    *sim.Scheduler
	buf      []T
	capacity int
	head     int
	tail     int
	count    int

	// Occupancy bookkeeping, captured on every successful take.
	takes        uint64
	occupancySum uint64
	maxOccupancy int
	lastTakeAt   time.Duration

	notFull  *sim.Event // signaled by Take
	notEmpty *sim.Event // signaled by Put
}

var (
	_ queue.Putter[int] = (*Fifo[int])(nil)
	_ queue.Taker[int]  = (*Fifo[int])(nil)
	_ queue.Emptier     = (*Fifo[int])(nil)
)

// New creates a Fifo with the given capacity. Capacities below 1 are raised
// to 1 so the buffer always has at least one slot.
func New[T any](s *sim.Scheduler, capacity int) *Fifo[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Fifo[T]{
		sched:    s,
		buf:      make([]T, capacity),
		capacity: capacity,
		notFull:  s.NewEvent(),
		notEmpty: s.NewEvent(),
	}
}

// Put appends v, suspending the calling task while the queue is full. Fullness
// is re-checked after every wake; a wake only signals that a take happened,
// not that room is still available by the time this task runs again.
func (q *Fifo[T]) Put(v T) {
	for q.count == q.capacity {
		q.notFull.Wait()
	}
	q.buf[q.tail] = v
	q.tail = (q.tail + 1) % q.capacity
	q.count++
	q.notEmpty.Notify()
}

// Take removes and returns the oldest value, suspending the calling task while
// the queue is empty. Statistics are captured before removal: the recorded
// occupancy is what the consumer actually observed, not the post-removal
// state. Swapping that order would change the reported average fill depth.
func (q *Fifo[T]) Take() T {
	for q.count == 0 {
		q.notEmpty.Wait()
	}

	q.occupancySum += uint64(q.count)
	if q.count > q.maxOccupancy {
		q.maxOccupancy = q.count
	}
	q.takes++
	q.lastTakeAt = q.sched.Now()

	v := q.buf[q.head]
	var zero T
	q.buf[q.head] = zero
	q.head = (q.head + 1) % q.capacity
	q.count--
	q.notFull.Notify()
	return v
}

// Size returns the current occupancy.
func (q *Fifo[T]) Size() int { return q.count }

// IsEmpty reports whether the queue holds no values.
func (q *Fifo[T]) IsEmpty() bool { return q.count == 0 }

// IsFull reports whether the queue is at capacity.
func (q *Fifo[T]) IsFull() bool { return q.count == q.capacity }

// Capacity returns the fixed capacity set at creation.
func (q *Fifo[T]) Capacity() int { return q.capacity }

// Reset empties the queue. Precondition: no put or take is in flight and no
// task is suspended on this queue. Calling it otherwise is undefined; the
// queue does not detect the violation. Statistics are not cleared.
func (q *Fifo[T]) Reset() {
	var zero T
	for i := range q.buf {
		q.buf[i] = zero
	}
	q.count = 0
	q.head = 0
	q.tail = 0
}

// Stats is the occupancy and timing summary computed at shutdown.
type Stats struct {
	Capacity         int
	AvgFillDepth     float64
	MaxFillDepth     int
	TotalTransferred uint64
	TotalElapsed     time.Duration
	AvgPerItem       time.Duration
}

// FinalizeStats computes the shutdown summary. It is meant to be called once
// by the orchestrating shutdown path after all tasks have stopped. When no
// take ever completed the averages are reported as zero rather than dividing
// by zero.
func (q *Fifo[T]) FinalizeStats() Stats {
	st := Stats{
		Capacity:         q.capacity,
		MaxFillDepth:     q.maxOccupancy,
		TotalTransferred: q.takes,
		TotalElapsed:     q.lastTakeAt,
	}
	if q.takes == 0 {
		return st
	}
	st.AvgFillDepth = float64(q.occupancySum) / float64(q.takes)
	st.AvgPerItem = q.lastTakeAt / time.Duration(q.takes)
	return st
}
