// Command bench sweeps the simulation across queue capacities and records how
// fill depth and per-item latency respond. Each capacity is run for several
// iterations with distinct seeds; sessions are appended to a JSON report file
// that cmd/buildGraph turns into graphs.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/i5heu/GoFifoSim/internal/testbench"
	"github.com/i5heu/GoFifoSim/pkg/config"
)

// BenchmarkResult holds the outcome of one simulation run.
type BenchmarkResult struct {
	Capacity         int     `json:"capacity"`
	Quota            int     `json:"quota"`
	BurstMax         int     `json:"burst_max"`
	Seed             int64   `json:"seed"`
	TotalTransferred uint64  `json:"total_transferred"`
	AvgFillDepth     float64 `json:"avg_fill_depth"`
	MaxFillDepth     int     `json:"max_fill_depth"`
	DrainTime        string  `json:"drain_time"`     // simulated, e.g. "1.0462ms"
	TotalSimTime     string  `json:"total_sim_time"` // simulated time of last take
	NsPerItem        float64 `json:"ns_per_item"`    // simulated ns per transferred item
	Timestamp        int64   `json:"timestamp"`
	GoVersion        string  `json:"go_version"`
}

// SystemInfo holds host information for the session record.
type SystemInfo struct {
	NumCPU      int     `json:"num_cpu"`
	CPUModel    string  `json:"cpu_model,omitempty"`
	CPUSpeedMHz float64 `json:"cpu_speed_mhz,omitempty"`
	GOARCH      string  `json:"go_arch"`
	TotalMemory uint64  `json:"total_memory_bytes,omitempty"`
}

// FullReport represents a complete sweep session.
type FullReport struct {
	SessionTime string            `json:"session_time"`
	SystemInfo  SystemInfo        `json:"system_info"`
	Benchmarks  []BenchmarkResult `json:"benchmarks"`
}

func main() {
	iterations := flag.Int("iter", 5, "Number of runs per capacity, each with its own seed")
	capacitiesFlag := flag.String("capacities", "1,2,5,10,20,50,100,1000", "Comma-separated queue capacities to sweep")
	quota := flag.Int("quota", 10000, "Items produced per run")
	burstMax := flag.Int("burst", 19, "Inclusive upper bound of a burst length")
	seedBase := flag.Int64("seed", 1, "Base seed; iteration i runs with seed+i")
	jsonExport := flag.Bool("json", false, "Append results to the JSON report file")
	jsonFile := flag.String("jsonfile", "sweep-results.json", "Path of the JSON report file")
	markdownTable := flag.Bool("markdown-table", false, "Output a markdown table from the JSON report file and exit")
	progressFlag := flag.Bool("progress", false, "Display a progress bar")
	flag.Parse()

	if *markdownTable {
		outputMarkdownTable(*jsonFile)
		return
	}

	capacities, err := parseCapacities(*capacitiesFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -capacities: %v\n", err)
		os.Exit(1)
	}

	totalRuns := len(capacities) * (*iterations)
	var bar *progressbar.ProgressBar
	if *progressFlag {
		bar = progressbar.NewOptions(totalRuns,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("sweep"),
			progressbar.OptionShowCount(),
		)
	}

	var results []BenchmarkResult
	for _, capacity := range capacities {
		fmt.Printf("\n=============================\n")
		fmt.Printf("capacity = %d\n", capacity)
		fmt.Printf("=============================\n")

		for i := 0; i < *iterations; i++ {
			cfg := config.Default()
			cfg.Capacity = capacity
			cfg.Quota = *quota
			cfg.BurstMax = *burstMax
			cfg.Seed = *seedBase + int64(i)
			cfg.Clamp()

			rep := testbench.Run(cfg, nil, nil)
			st := rep.Stats

			fmt.Printf("  seed=%d => transferred=%d, avg_depth=%.3f, max_depth=%d, drain=%v, total=%v\n",
				cfg.Seed, st.TotalTransferred, st.AvgFillDepth, st.MaxFillDepth, rep.DrainedAt, st.TotalElapsed)

			results = append(results, BenchmarkResult{
				Capacity:         cfg.Capacity,
				Quota:            cfg.Quota,
				BurstMax:         cfg.BurstMax,
				Seed:             cfg.Seed,
				TotalTransferred: st.TotalTransferred,
				AvgFillDepth:     st.AvgFillDepth,
				MaxFillDepth:     st.MaxFillDepth,
				DrainTime:        rep.DrainedAt.String(),
				TotalSimTime:     st.TotalElapsed.String(),
				NsPerItem:        float64(st.AvgPerItem.Nanoseconds()),
				Timestamp:        time.Now().Unix(),
				GoVersion:        runtime.Version(),
			})

			if bar != nil {
				bar.Add(1)
			}
		}
	}
	if bar != nil {
		fmt.Fprintln(os.Stderr)
	}

	session := FullReport{
		SessionTime: time.Now().Format(time.RFC3339),
		SystemInfo:  gatherSystemInfo(),
		Benchmarks:  results,
	}

	if *jsonExport {
		if err := appendSession(*jsonFile, session); err != nil {
			fmt.Fprintln(os.Stderr, "Error writing JSON report:", err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote results to %s\n", *jsonFile)
	}
}

// parseCapacities splits the -capacities flag and clamps each entry into the
// accepted capacity range.
func parseCapacities(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("capacity %q: %w", part, err)
		}
		if n < config.MinCapacity {
			n = config.MinCapacity
		}
		if n > config.MaxCapacity {
			n = config.MaxCapacity
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no capacities given")
	}
	return out, nil
}

// appendSession appends the session to the existing report file, keeping
// earlier sessions intact.
func appendSession(filename string, session FullReport) error {
	var previous []FullReport
	if data, err := os.ReadFile(filename); err == nil && len(data) > 0 {
		json.Unmarshal(data, &previous)
	}
	updated := append(previous, session)
	data, err := json.MarshalIndent(updated, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// outputMarkdownTable loads the JSON report file and prints per-capacity
// averages of the last session as a markdown table.
func outputMarkdownTable(jsonFile string) {
	data, err := os.ReadFile(jsonFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading JSON file %q: %v\n", jsonFile, err)
		os.Exit(1)
	}
	var sessions []FullReport
	if err := json.Unmarshal(data, &sessions); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshalling JSON: %v\n", err)
		os.Exit(1)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(os.Stderr, "No sessions found in JSON.")
		os.Exit(1)
	}
	lastSession := sessions[len(sessions)-1]

	type agg struct {
		runs      int
		avgDepth  float64
		nsPerItem float64
		maxDepth  int
	}
	byCapacity := make(map[int]*agg)
	for _, b := range lastSession.Benchmarks {
		a, ok := byCapacity[b.Capacity]
		if !ok {
			a = &agg{}
			byCapacity[b.Capacity] = a
		}
		a.runs++
		a.avgDepth += b.AvgFillDepth
		a.nsPerItem += b.NsPerItem
		if b.MaxFillDepth > a.maxDepth {
			a.maxDepth = b.MaxFillDepth
		}
	}

	var capacities []int
	for c := range byCapacity {
		capacities = append(capacities, c)
	}
	sort.Ints(capacities)

	fmt.Println("## Last Session Sweep Summary")
	fmt.Println()
	fmt.Println("| Capacity | Runs | Avg Fill Depth | Max Fill Depth | Sim ns/item |")
	fmt.Println("|----------|------|----------------|----------------|-------------|")
	for _, c := range capacities {
		a := byCapacity[c]
		fmt.Printf("| %8d | %4d | %14.3f | %14d | %11.1f |\n",
			c, a.runs, a.avgDepth/float64(a.runs), a.maxDepth, a.nsPerItem/float64(a.runs))
	}
}

// gatherSystemInfo collects basic CPU and memory details for the session
// record.
func gatherSystemInfo() SystemInfo {
	var cpuModel string
	var cpuSpeed float64
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		cpuModel = infos[0].ModelName
		cpuSpeed = infos[0].Mhz
	}

	var totalMemory uint64
	if vm, err := mem.VirtualMemory(); err == nil {
		totalMemory = vm.Total
	}

	return SystemInfo{
		NumCPU:      runtime.NumCPU(),
		CPUModel:    cpuModel,
		CPUSpeedMHz: cpuSpeed,
		GOARCH:      runtime.GOARCH,
		TotalMemory: totalMemory,
	}
}
