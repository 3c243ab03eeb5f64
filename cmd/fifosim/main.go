// Command fifosim runs one producer/consumer simulation and prints the drain
// report and queue statistics.
//
// Usage:
//
//	fifosim [flags] [capacity]
//
// The optional positional argument is the queue capacity (default 10).
// Non-numeric or out-of-range input is silently defaulted or clamped to
// [1, 100000]; bad configuration never fails a run.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/lmittmann/tint"

	"github.com/i5heu/GoFifoSim/internal/testbench"
	"github.com/i5heu/GoFifoSim/pkg/config"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML run configuration")
	quota := flag.Int("quota", 0, "Total number of items to produce (0 = config default)")
	burstMax := flag.Int("burst", 0, "Inclusive upper bound of a burst length (0 = config default)")
	pace := flag.Duration("pace", -1, "Producer delay between bursts, simulated (-1 = config default)")
	service := flag.Duration("service", -1, "Consumer delay per item, simulated (-1 = config default)")
	poll := flag.Duration("poll", -1, "Monitor drain-poll interval, simulated (-1 = config default)")
	seed := flag.Int64("seed", 0, "Random seed for burst sizing (0 = config default)")
	stopOnDrain := flag.Bool("stop-on-drain", false, "End the run as soon as the monitor confirms the drain")
	verbose := flag.Bool("v", false, "Enable per-item debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			// Bad configuration is clamped or defaulted, never fatal.
			logger.Warn("using defaults", "err", err)
		} else {
			cfg = loaded
		}
	}

	if *quota > 0 {
		cfg.Quota = *quota
	}
	if *burstMax > 0 {
		cfg.BurstMax = *burstMax
	}
	if *pace >= 0 {
		cfg.Pace = *pace
	}
	if *service >= 0 {
		cfg.Service = *service
	}
	if *poll >= 0 {
		cfg.Poll = *poll
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *stopOnDrain {
		cfg.StopOnDrain = true
	}
	cfg.Capacity = parseCapacity(flag.Arg(0), cfg.Capacity)
	cfg.Clamp()

	fmt.Printf("fifo size: %d\n", cfg.Capacity)

	report := testbench.Run(cfg, logger, func(at time.Duration) {
		fmt.Printf("Monitor: producer done and fifo empty at %v\n", at)
	})

	printStats(report)
}

// parseCapacity interprets the positional capacity argument. Empty or
// non-numeric input falls back to def; out-of-range values are clamped.
func parseCapacity(arg string, def int) int {
	if arg == "" {
		return def
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return def
	}
	if n < config.MinCapacity {
		return config.MinCapacity
	}
	if n > config.MaxCapacity {
		return config.MaxCapacity
	}
	return n
}

func printStats(r testbench.Report) {
	st := r.Stats
	fmt.Println()
	fmt.Printf("fifo size is: %d\n", st.Capacity)
	fmt.Printf("Average fifo fill depth: %.3f\n", st.AvgFillDepth)
	fmt.Printf("Average transfer time per item: %v\n", st.AvgPerItem)
	fmt.Printf("Total items transferred: %d\n", st.TotalTransferred)
	fmt.Printf("Total time: %v\n", st.TotalElapsed)
}
