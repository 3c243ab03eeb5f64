package pipeline

import (
	"log/slog"
	"time"

	"github.com/i5heu/GoFifoSim/internal/queue"
	"github.com/i5heu/GoFifoSim/internal/sim"
)

// Consumer repeatedly takes one value and pauses for a fixed service delay.
// It has no termination condition of its own: once the producer is done and
// the queue drains, the consumer parks on an empty queue forever and is torn
// down when the run ends.
type Consumer struct {
	sched   *sim.Scheduler
	in      queue.Taker[int]
	service time.Duration
	log     *slog.Logger
}

func NewConsumer(s *sim.Scheduler, in queue.Taker[int], service time.Duration, log *slog.Logger) *Consumer {
	return &Consumer{sched: s, in: in, service: service, log: log}
}

// Run is the consumer task body.
func (c *Consumer) Run() {
	for {
		v := c.in.Take()
		c.log.Debug("consumer took item",
			"value", v,
			"occupancy", c.in.Size(),
			"at", c.sched.Now())
		c.sched.Sleep(c.service)
	}
}
