package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gravsim/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Frames: []sim.Frame{
			{Time: 0, Energy: -7.6e28, Px: []float64{0, 3.844e8}, Py: []float64{0, 0}, Pz: []float64{0, 0}},
			{Time: 60, Energy: -7.6e28, Px: []float64{1, 3.844e8}, Py: []float64{0, 61320}, Pz: []float64{0, 0}},
		},
		StepsTaken:  1,
		EnergyDrift: 2.5e-12,
		Metrics:     map[string]float64{"energy_drift": 2.5e-12},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	cfg := sim.DefaultConfig()
	runID, err := store.Save("earth_moon", cfg, sampleResult())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	meta, err := store.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "earth_moon", meta.Scenario)
	assert.Equal(t, "rk4", meta.Integrator)
	assert.Equal(t, 2, meta.Bodies)
	assert.Equal(t, 1, meta.StepsTaken)
	assert.InEpsilon(t, 2.5e-12, meta.EnergyDrift, 1e-9)

	frames, err := store.LoadFrames(runID)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, 60.0, frames[1].Time)
	assert.Equal(t, 61320.0, frames[1].Py[1])
}

func TestListRuns(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	cfg := sim.DefaultConfig()
	_, err := store.Save("earth_moon", cfg, sampleResult())
	require.NoError(t, err)

	runs, err := store.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "earth_moon", runs[0].Scenario)
}

func TestListEmptyBase(t *testing.T) {
	store := New("/nonexistent/gravsim-test")
	runs, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestLoadUnknownRun(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Init())

	_, err := store.Load("missing_123")
	assert.Error(t, err)
}
