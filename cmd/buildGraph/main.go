// Command buildGraph renders graphs from the JSON report file produced by
// cmd/bench: average fill depth and simulated time per item, each against
// queue capacity.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"os"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// BenchmarkResult mirrors the sweep result schema of cmd/bench.
type BenchmarkResult struct {
	Capacity         int     `json:"capacity"`
	Quota            int     `json:"quota"`
	BurstMax         int     `json:"burst_max"`
	Seed             int64   `json:"seed"`
	TotalTransferred uint64  `json:"total_transferred"`
	AvgFillDepth     float64 `json:"avg_fill_depth"`
	MaxFillDepth     int     `json:"max_fill_depth"`
	DrainTime        string  `json:"drain_time"`
	TotalSimTime     string  `json:"total_sim_time"`
	NsPerItem        float64 `json:"ns_per_item"`
	Timestamp        int64   `json:"timestamp"`
	GoVersion        string  `json:"go_version"`
}

// FullReport represents one sweep session.
type FullReport struct {
	SessionTime string            `json:"session_time"`
	Benchmarks  []BenchmarkResult `json:"benchmarks"`
}

// capacityStats holds min, median, and max of one metric at one capacity.
type capacityStats struct {
	x      float64 // category index on the X axis
	orig   int     // capacity value
	min    float64
	median float64
	max    float64
}

// statsPoints implements XYer and YErrorer so we can plot lines + error bars.
type statsPoints []capacityStats

func (s statsPoints) Len() int                { return len(s) }
func (s statsPoints) XY(i int) (x, y float64) { return s[i].x, s[i].median }
func (s statsPoints) YError(i int) (low, high float64) {
	return s[i].median - s[i].min, s[i].max - s[i].median
}

// categoryTicks implements a categorical X axis: 0,1,2,... => capacity labels.
type categoryTicks struct {
	positions []float64
	labels    []string
}

func (ct categoryTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for i, pos := range ct.positions {
		if pos >= min && pos <= max {
			ticks = append(ticks, plot.Tick{Value: pos, Label: ct.labels[i]})
		}
	}
	return ticks
}

func main() {
	jsonFile := flag.String("jsonfile", "sweep-results.json", "Path to JSON file containing sweep sessions")
	outputPrefix := flag.String("out", "sweep_graph", "Output graph image filename prefix")
	flag.Parse()

	data, err := os.ReadFile(*jsonFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading JSON file: %v\n", err)
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

	// Collect metric samples per capacity across all sessions.
	depthByCapacity := make(map[int][]float64)
	latencyByCapacity := make(map[int][]float64)
	for _, session := range sessions {
		for _, b := range session.Benchmarks {
			depthByCapacity[b.Capacity] = append(depthByCapacity[b.Capacity], b.AvgFillDepth)
			latencyByCapacity[b.Capacity] = append(latencyByCapacity[b.Capacity], b.NsPerItem)
		}
	}

	graphs := []struct {
		name    string
		yLabel  string
		samples map[int][]float64
	}{
		{"filldepth", "Average Fill Depth (items)", depthByCapacity},
		{"latency", "Simulated Time per Item (ns)", latencyByCapacity},
	}

	for _, g := range graphs {
		filename := fmt.Sprintf("%s_%s.png", *outputPrefix, g.name)
		if err := renderGraph(filename, g.yLabel, g.samples); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering %s: %v\n", filename, err)
			continue
		}
		fmt.Printf("Graph saved to %s\n", filename)
	}
}

// renderGraph plots min/median/max of one metric against capacity.
func renderGraph(filename, yLabel string, samples map[int][]float64) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs. Queue Capacity", yLabel)
	p.X.Label.Text = "Queue Capacity"
	p.Y.Label.Text = yLabel

	// Dark theme.
	p.BackgroundColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	p.Title.TextStyle.Color = white
	p.X.Label.TextStyle.Color = white
	p.Y.Label.TextStyle.Color = white
	p.X.Color = white
	p.Y.Color = white
	p.X.Tick.Label.Color = white
	p.Y.Tick.Label.Color = white

	p.Add(plotter.NewGrid())

	stats := buildStats(samples)
	if len(stats) == 0 {
		return fmt.Errorf("no data points")
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].orig < stats[j].orig })

	var positions []float64
	var labels []string
	for i := range stats {
		stats[i].x = float64(i)
		positions = append(positions, float64(i))
		labels = append(labels, strconv.Itoa(stats[i].orig))
	}
	p.X.Tick.Marker = categoryTicks{positions: positions, labels: labels}

	sp := statsPoints(stats)

	line, err := plotter.NewLine(sp)
	if err != nil {
		return err
	}
	line.Color = color.RGBA{R: 110, G: 190, B: 255, A: 255}

	points, err := plotter.NewScatter(sp)
	if err != nil {
		return err
	}
	points.GlyphStyle.Radius = vg.Points(4)
	points.Color = line.Color
	points.Shape = draw.CircleGlyph{}

	yErrBars, err := plotter.NewYErrorBars(sp)
	if err != nil {
		return err
	}
	yErrBars.Color = line.Color

	p.Add(line, points, yErrBars)

	return p.Save(12*vg.Inch, 9*vg.Inch, filename)
}

// buildStats computes min, median, and max per capacity.
func buildStats(samples map[int][]float64) []capacityStats {
	var out []capacityStats
	for capacity, vals := range samples {
		if len(vals) == 0 {
			continue
		}
		sort.Float64s(vals)
		out = append(out, capacityStats{
			orig:   capacity,
			min:    vals[0],
			median: median(vals),
			max:    vals[len(vals)-1],
		})
	}
	return out
}

func median(sorted []float64) float64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return 0.5 * (sorted[mid-1] + sorted[mid])
}
