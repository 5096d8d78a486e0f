package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	cfg := DefaultConfig()
	cfg.Scenario = ""
	cfg.Integrator = "dopri54"
	cfg.Adaptive = true
	cfg.Bodies = []BodyConfig{
		{Pos: [3]float64{0, 0, 0}, Vel: [3]float64{0, 0, 0}, Mass: 5.97217e24},
		{Pos: [3]float64{3.844e8, 0, 0}, Vel: [3]float64{0, 1022, 0}, Mass: 7.342e22},
	}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dopri54", loaded.Integrator)
	require.Len(t, loaded.Bodies, 2)
	assert.Equal(t, 1022.0, loaded.Bodies[1].Vel[1])
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenario: earth_moon\nintegrator: leapfrog\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "leapfrog", cfg.Integrator)
	assert.Equal(t, DefaultDt, cfg.Dt)
	assert.Equal(t, DefaultDuration, cfg.Duration)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/run.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"zero dt", func(c *Config) { c.Dt = 0 }, false},
		{"negative duration", func(c *Config) { c.Duration = -10 }, false},
		{"adaptive needs tolerance", func(c *Config) { c.Adaptive = true; c.Tolerance = 0 }, false},
		{"negative softening", func(c *Config) { c.Softening = -1 }, false},
		{"zero mass body", func(c *Config) { c.Bodies = []BodyConfig{{Mass: 0}} }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestBuildSystem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bodies = []BodyConfig{
		{Pos: [3]float64{1, 2, 3}, Vel: [3]float64{4, 5, 6}, Mass: 7},
	}

	s := cfg.BuildSystem()
	require.Equal(t, 1, s.Count)
	assert.Equal(t, 1.0, s.Px[0])
	assert.Equal(t, 5.0, s.Vy[0])
	assert.Equal(t, 7.0, s.Mass[0])
}

func TestPresets(t *testing.T) {
	cfg := GetPreset("earth_moon", "adaptive")
	require.NotNil(t, cfg)
	assert.True(t, cfg.Adaptive)
	assert.NoError(t, cfg.Validate())

	assert.Nil(t, GetPreset("earth_moon", "bogus"))
	assert.Nil(t, GetPreset("bogus", "day"))

	names := ListPresets("solar_system")
	assert.Contains(t, names, "year")
}

func TestAllPresetsValid(t *testing.T) {
	for scenario, group := range Presets {
		for name := range group {
			cfg := GetPreset(scenario, name)
			require.NotNil(t, cfg)
			assert.NoErrorf(t, cfg.Validate(), "%s/%s", scenario, name)
		}
	}
}
