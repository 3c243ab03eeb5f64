// Package sim implements a cooperative virtual-time scheduler.
//
// Tasks never execute in parallel: exactly one task runs between suspension
// points (Sleep, Event.Wait), so state that is only touched between suspension
// points needs no locking. The clock is purely logical; it advances only when
// every task is suspended, jumping directly to the earliest pending wake.
package sim

import (
	"fmt"
	"sort"
	"time"
)

type taskState int

const (
	stateReady taskState = iota
	stateRunning
	stateWaiting  // parked on an Event
	stateSleeping // parked on a timer
	stateDone
)

type task struct {
	name   string
	state  taskState
	resume chan struct{}
}

type timer struct {
	wake time.Duration
	seq  uint64
	t    *task
}

// killed is the panic value used to unwind tasks that are still parked when
// the run ends.
type killed struct{}

// Scheduler owns the virtual clock and the task set. It is not safe for use
// from multiple OS threads; all access must come from the goroutine calling
// Run or from a task it is currently executing.
type Scheduler struct {
	now      time.Duration
	tasks    []*task
	runnable []*task
	timers   []timer
	seq      uint64
	yield    chan struct{}
	current  *task
	stopping bool
	killing  bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{yield: make(chan struct{})}
}

// Now returns the current simulated time.
func (s *Scheduler) Now() time.Duration { return s.now }

// Spawn registers fn as a task. The task does not start until Run.
func (s *Scheduler) Spawn(name string, fn func()) {
	t := &task{name: name, resume: make(chan struct{})}
	s.tasks = append(s.tasks, t)
	s.runnable = append(s.runnable, t)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(killed); !ok {
					panic(r)
				}
			}
			t.state = stateDone
			s.yield <- struct{}{}
		}()
		<-t.resume
		if s.killing {
			panic(killed{})
		}
		fn()
	}()
}

// Run executes tasks until no ready or timed work remains, or until Stop is
// called. Tasks still parked at that point (a consumer blocked on an empty
// queue has no counterpart left) are unwound so their goroutines exit.
// Returns the final simulated time.
func (s *Scheduler) Run() time.Duration {
	for {
		for len(s.runnable) > 0 && !s.stopping {
			t := s.runnable[0]
			s.runnable = s.runnable[1:]
			t.state = stateRunning
			s.current = t
			t.resume <- struct{}{}
			<-s.yield
		}
		s.current = nil
		if s.stopping || len(s.timers) == 0 {
			break
		}
		s.fireNextTimers()
	}
	s.unwind()
	return s.now
}

// Stop ends the run after the currently executing task next suspends or
// returns. Safe to call from within a task.
func (s *Scheduler) Stop() { s.stopping = true }

// Sleep suspends the calling task for d of simulated time.
func (s *Scheduler) Sleep(d time.Duration) {
	t := s.mustCurrent("Sleep")
	if d < 0 {
		d = 0
	}
	s.seq++
	s.timers = append(s.timers, timer{wake: s.now + d, seq: s.seq, t: t})
	t.state = stateSleeping
	s.park(t)
	t.state = stateRunning
}

// fireNextTimers advances the clock to the earliest pending wake and makes
// every task due at that instant runnable, in the order the timers were set.
func (s *Scheduler) fireNextTimers() {
	next := s.timers[0].wake
	for _, tm := range s.timers[1:] {
		if tm.wake < next {
			next = tm.wake
		}
	}
	s.now = next

	var due []timer
	rest := s.timers[:0]
	for _, tm := range s.timers {
		if tm.wake == next {
			due = append(due, tm)
		} else {
			rest = append(rest, tm)
		}
	}
	s.timers = rest

	sort.Slice(due, func(i, j int) bool { return due[i].seq < due[j].seq })
	for _, tm := range due {
		tm.t.state = stateReady
		s.runnable = append(s.runnable, tm.t)
	}
}

// park hands control back to the scheduler loop and blocks until resumed.
func (s *Scheduler) park(t *task) {
	s.yield <- struct{}{}
	<-t.resume
	if s.killing {
		panic(killed{})
	}
}

// unwind resumes every parked task with the kill flag set so its goroutine
// unwinds and exits.
func (s *Scheduler) unwind() {
	s.killing = true
	for _, t := range s.tasks {
		if t.state == stateDone {
			continue
		}
		t.resume <- struct{}{}
		<-s.yield
	}
	s.timers = nil
	s.runnable = nil
}

func (s *Scheduler) mustCurrent(op string) *task {
	if s.current == nil {
		panic(fmt.Sprintf("sim: %s called outside a running task", op))
	}
	return s.current
}

// Event is a wake-up point between tasks. Wait parks the calling task until
// another task calls Notify. A Notify with no waiters is lost, so waiters must
// re-check their condition after resuming.
type Event struct {
	s       *Scheduler
	waiters []*task
}

func (s *Scheduler) NewEvent() *Event { return &Event{s: s} }

// Wait suspends the calling task until the next Notify.
func (e *Event) Wait() {
	t := e.s.mustCurrent("Event.Wait")
	e.waiters = append(e.waiters, t)
	t.state = stateWaiting
	e.s.park(t)
	t.state = stateRunning
}

// Notify makes every waiting task runnable at the current simulated time.
func (e *Event) Notify() {
	for _, t := range e.waiters {
		t.state = stateReady
		e.s.runnable = append(e.s.runnable, t)
	}
	e.waiters = e.waiters[:0]
}
