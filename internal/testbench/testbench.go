// Package testbench wires a complete simulation run: queue, producer,
// consumer, and monitor on one cooperative scheduler. Both the CLI and the
// sweep harness go through Run, as do the end-to-end tests.
package testbench

import (
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/i5heu/GoFifoSim/internal/sim"
	"github.com/i5heu/GoFifoSim/pkg/config"
	"github.com/i5heu/GoFifoSim/pkg/fifo"
	"github.com/i5heu/GoFifoSim/pkg/pipeline"
)

// Report summarizes one finished run.
type Report struct {
	// Stats is the queue's shutdown summary.
	Stats fifo.Stats

	// Drained reports whether the monitor confirmed the full drain.
	Drained bool

	// DrainedAt is the simulated time of the drain confirmation.
	DrainedAt time.Duration

	// SimEnd is the simulated time at which the run ended.
	SimEnd time.Duration
}

// Run executes one simulation to completion and finalizes the statistics
// after all tasks have stopped. The run ends when no scheduled activity
// remains, or at drain confirmation when cfg.StopOnDrain is set. onDrain,
// when non-nil, is the monitor's one-shot completion report.
func Run(cfg config.Config, log *slog.Logger, onDrain func(at time.Duration)) Report {
	cfg.Clamp()
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := sim.NewScheduler()
	q := fifo.New[int](s, cfg.Capacity)
	done := sim.NewSignal(s, false)
	rng := rand.New(rand.NewSource(cfg.Seed))

	prod := pipeline.NewProducer(s, q, done, rng, cfg.Quota, cfg.BurstMax, cfg.Pace, log)
	cons := pipeline.NewConsumer(s, q, cfg.Service, log)
	mon := pipeline.NewMonitor(s, done, q, cfg.Poll, cfg.StopOnDrain, log)
	mon.OnDrain = onDrain

	s.Spawn("producer", prod.Run)
	s.Spawn("consumer", cons.Run)
	s.Spawn("monitor", mon.Run)

	end := s.Run()

	return Report{
		Stats:     q.FinalizeStats(),
		Drained:   mon.Drained(),
		DrainedAt: mon.DrainedAt(),
		SimEnd:    end,
	}
}
