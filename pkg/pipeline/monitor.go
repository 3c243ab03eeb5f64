package pipeline

import (
	"log/slog"
	"time"

	"github.com/i5heu/GoFifoSim/internal/queue"
	"github.com/i5heu/GoFifoSim/internal/sim"
)

// Monitor watches for the full drain of the pipeline in two phases: first an
// event-driven wait for the producer's completion flag, then a polled wait for
// the queue to be empty. Polling is deliberate in the second phase: emptiness
// is not an event source in this design, so the queue could briefly refill and
// drain between polls without being observed. That is a documented accuracy
// limit, not a bug.
type Monitor struct {
	sched       *sim.Scheduler
	done        *sim.Signal[bool]
	probe       queue.Emptier
	poll        time.Duration
	stopOnDrain bool
	log         *slog.Logger

	// OnDrain, when set, is invoked exactly once with the simulated time at
	// which the drain was confirmed.
	OnDrain func(at time.Duration)

	drained   bool
	drainedAt time.Duration
}

func NewMonitor(s *sim.Scheduler, done *sim.Signal[bool], probe queue.Emptier, poll time.Duration, stopOnDrain bool, log *slog.Logger) *Monitor {
	return &Monitor{
		sched:       s,
		done:        done,
		probe:       probe,
		poll:        poll,
		stopOnDrain: stopOnDrain,
		log:         log,
	}
}

// Run is the monitor task body. The completion flag only needs eventual
// visibility, so the flag is re-read after every wake.
func (m *Monitor) Run() {
	for !m.done.Read() {
		m.done.WaitChanged()
	}
	m.log.Debug("producer completion observed", "at", m.sched.Now())

	for !m.probe.IsEmpty() {
		m.sched.Sleep(m.poll)
	}

	m.drained = true
	m.drainedAt = m.sched.Now()
	if m.OnDrain != nil {
		m.OnDrain(m.drainedAt)
	}
	if m.stopOnDrain {
		m.sched.Stop()
	}
}

// Drained reports whether the monitor confirmed a full drain.
func (m *Monitor) Drained() bool { return m.drained }

// DrainedAt returns the simulated time at which the drain was confirmed.
// Only meaningful once Drained reports true.
func (m *Monitor) DrainedAt() time.Duration { return m.drainedAt }
