// Package config holds the knobs of a simulation run. Invalid values are
// clamped into range rather than rejected; a run never fails on bad
// configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Capacity bounds accepted at startup. Out-of-range input is silently clamped.
const (
	MinCapacity = 1
	MaxCapacity = 100000
)

// Config describes one simulation run. All durations are simulated time.
type Config struct {
	// Capacity is the fixed queue capacity, clamped to [MinCapacity, MaxCapacity].
	Capacity int `yaml:"capacity"`

	// Quota is the total number of items the producer emits.
	Quota int `yaml:"quota"`

	// BurstMax is the inclusive upper bound of a burst length.
	BurstMax int `yaml:"burst_max"`

	// Pace is the producer's delay between bursts.
	Pace time.Duration `yaml:"pace"`

	// Service is the consumer's delay after each take.
	Service time.Duration `yaml:"service"`

	// Poll is the monitor's drain-check interval.
	Poll time.Duration `yaml:"poll"`

	// Seed feeds the producer's random source, making burst sequences
	// reproducible.
	Seed int64 `yaml:"seed"`

	// StopOnDrain ends the run as soon as the monitor confirms the drain
	// instead of letting scheduled activity exhaust itself.
	StopOnDrain bool `yaml:"stop_on_drain"`
}

// Default returns the run configuration matching the reference model:
// capacity 10, quota 10000, bursts of 1 to 19 items, 1000ns pacing, 100ns
// service time, and a 100ns drain poll.
func Default() Config {
	return Config{
		Capacity:    10,
		Quota:       10000,
		BurstMax:    19,
		Pace:        1000 * time.Nanosecond,
		Service:     100 * time.Nanosecond,
		Poll:        100 * time.Nanosecond,
		Seed:        1,
		StopOnDrain: false,
	}
}

// Clamp forces every field into its valid range, replacing nonsensical values
// with defaults. It never reports an error.
func (c *Config) Clamp() {
	d := Default()
	if c.Capacity < MinCapacity {
		if c.Capacity == 0 {
			c.Capacity = d.Capacity
		} else {
			c.Capacity = MinCapacity
		}
	}
	if c.Capacity > MaxCapacity {
		c.Capacity = MaxCapacity
	}
	if c.Quota < 1 {
		c.Quota = d.Quota
	}
	if c.BurstMax < 1 {
		c.BurstMax = d.BurstMax
	}
	if c.Pace < 0 {
		c.Pace = d.Pace
	}
	if c.Service < 0 {
		c.Service = d.Service
	}
	if c.Poll <= 0 {
		c.Poll = d.Poll
	}
}

// UnmarshalYAML decodes a run configuration, leaving fields absent from the
// document untouched. Durations are written as Go duration strings ("1000ns",
// "2us").
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type raw struct {
		Capacity    *int    `yaml:"capacity"`
		Quota       *int    `yaml:"quota"`
		BurstMax    *int    `yaml:"burst_max"`
		Pace        *string `yaml:"pace"`
		Service     *string `yaml:"service"`
		Poll        *string `yaml:"poll"`
		Seed        *int64  `yaml:"seed"`
		StopOnDrain *bool   `yaml:"stop_on_drain"`
	}
	var r raw
	if err := value.Decode(&r); err != nil {
		return err
	}
	if r.Capacity != nil {
		c.Capacity = *r.Capacity
	}
	if r.Quota != nil {
		c.Quota = *r.Quota
	}
	if r.BurstMax != nil {
		c.BurstMax = *r.BurstMax
	}
	if r.Seed != nil {
		c.Seed = *r.Seed
	}
	if r.StopOnDrain != nil {
		c.StopOnDrain = *r.StopOnDrain
	}
	for _, f := range []struct {
		name string
		src  *string
		dst  *time.Duration
	}{
		{"pace", r.Pace, &c.Pace},
		{"service", r.Service, &c.Service},
		{"poll", r.Poll, &c.Poll},
	} {
		if f.src == nil {
			continue
		}
		d, err := time.ParseDuration(*f.src)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = d
	}
	return nil
}

// Load reads a YAML run configuration. Fields absent from the file keep their
// defaults, and the result is clamped.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parsing config %q: %w", path, err)
	}
	c.Clamp()
	return c, nil
}
