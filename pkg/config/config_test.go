package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesReferenceModel(t *testing.T) {
	c := Default()

	assert.Equal(t, 10, c.Capacity)
	assert.Equal(t, 10000, c.Quota)
	assert.Equal(t, 19, c.BurstMax)
	assert.Equal(t, 1000*time.Nanosecond, c.Pace)
	assert.Equal(t, 100*time.Nanosecond, c.Service)
	assert.Equal(t, 100*time.Nanosecond, c.Poll)
	assert.Equal(t, int64(1), c.Seed)
	assert.False(t, c.StopOnDrain)
}

func TestClampCapacity(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"zero falls back to default", 0, 10},
		{"negative raised to minimum", -5, MinCapacity},
		{"above maximum lowered", 250000, MaxCapacity},
		{"minimum kept", 1, 1},
		{"maximum kept", MaxCapacity, MaxCapacity},
		{"in range untouched", 42, 42},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			c.Capacity = tc.in
			c.Clamp()
			assert.Equal(t, tc.want, c.Capacity)
		})
	}
}

func TestClampReplacesNonsensicalValues(t *testing.T) {
	c := Config{
		Capacity: 5,
		Quota:    -1,
		BurstMax: 0,
		Pace:     -time.Nanosecond,
		Service:  -time.Nanosecond,
		Poll:     0,
	}
	c.Clamp()

	d := Default()
	assert.Equal(t, 5, c.Capacity)
	assert.Equal(t, d.Quota, c.Quota)
	assert.Equal(t, d.BurstMax, c.BurstMax)
	assert.Equal(t, d.Pace, c.Pace)
	assert.Equal(t, d.Service, c.Service)
	assert.Equal(t, d.Poll, c.Poll)
}

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	body := []byte("capacity: 25\nquota: 500\nburst_max: 7\npace: 2us\nseed: 9\nstop_on_drain: true\n")
	require.NoError(t, os.WriteFile(path, body, 0644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25, c.Capacity)
	assert.Equal(t, 500, c.Quota)
	assert.Equal(t, 7, c.BurstMax)
	assert.Equal(t, 2*time.Microsecond, c.Pace)
	assert.Equal(t, int64(9), c.Seed)
	assert.True(t, c.StopOnDrain)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, 100*time.Nanosecond, c.Service)
	assert.Equal(t, 100*time.Nanosecond, c.Poll)
}

func TestLoadClampsFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacity: 999999\n"), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, MaxCapacity, c.Capacity)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadMalformedFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacity: [not a number\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}
