// Package pipeline contains the three tasks of the model: a bursty producer,
// a fixed-rate consumer, and the drain monitor. Each task depends only on the
// narrow queue capability it needs.
package pipeline

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/i5heu/GoFifoSim/internal/queue"
	"github.com/i5heu/GoFifoSim/internal/sim"
)

// Producer emits a fixed total quota of values in randomly sized bursts
// separated by a fixed pacing delay. Values restart at 1 for every burst, so
// they are not globally unique. When the quota is exhausted the producer
// raises its completion flag exactly once and terminates.
type Producer struct {
	sched    *sim.Scheduler
	out      queue.Putter[int]
	done     *sim.Signal[bool]
	rng      *rand.Rand
	quota    int
	burstMax int
	pace     time.Duration
	log      *slog.Logger
}

// NewProducer wires a producer to the put side of a queue. The random source
// is injected so burst sequences are reproducible in tests. burstMax is the
// inclusive upper bound of the burst length; values below 1 are raised to 1.
func NewProducer(s *sim.Scheduler, out queue.Putter[int], done *sim.Signal[bool], rng *rand.Rand, quota, burstMax int, pace time.Duration, log *slog.Logger) *Producer {
	if burstMax < 1 {
		burstMax = 1
	}
	if quota < 1 {
		quota = 1
	}
	return &Producer{
		sched:    s,
		out:      out,
		done:     done,
		rng:      rng,
		quota:    quota,
		burstMax: burstMax,
		pace:     pace,
		log:      log,
	}
}

// Run is the producer task body. Bursts are drawn uniformly from
// [1, burstMax] and clamped to the remaining quota, so the total number of
// puts equals the quota exactly. Every Put may suspend on a full queue; the
// pacing delay between bursts is a true suspension point.
func (p *Producer) Run() {
	remaining := p.quota
	for {
		n := 1 + p.rng.Intn(p.burstMax)
		if n > remaining {
			n = remaining
		}
		for pd := 1; pd <= n; pd++ {
			p.out.Put(pd)
		}
		remaining -= n
		if remaining <= 0 {
			p.done.Write(true)
			p.log.Debug("producer finished", "quota", p.quota, "at", p.sched.Now())
			return
		}
		p.sched.Sleep(p.pace)
	}
}
