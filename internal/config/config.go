// Package config loads run configuration from YAML files and named
// presets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/body"
)

const (
	DefaultDt        = 60.0
	DefaultDuration  = 86400.0
	DefaultTolerance = 1e-9
)

// Config describes one simulation run: either a named scenario or an
// inline body list, plus integrator settings.
type Config struct {
	Scenario   string       `yaml:"scenario,omitempty"`
	Bodies     []BodyConfig `yaml:"bodies,omitempty"`
	Integrator string       `yaml:"integrator"`
	Dt         float64      `yaml:"dt"`
	Duration   float64      `yaml:"duration"`
	Tolerance  float64      `yaml:"tolerance"`
	Softening  float64      `yaml:"softening"`
	Adaptive   bool         `yaml:"adaptive"`
}

// BodyConfig is one inline body: position and velocity triples plus mass.
type BodyConfig struct {
	Pos  [3]float64 `yaml:"pos"`
	Vel  [3]float64 `yaml:"vel"`
	Mass float64    `yaml:"mass"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:   "earth_moon",
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Tolerance:  DefaultTolerance,
	}
}

// Load reads path and unmarshals it over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks parameter ranges; the numeric core accepts anything,
// so validation happens here at the configuration boundary.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %g", c.Duration)
	}
	if c.Adaptive && c.Tolerance <= 0 {
		return fmt.Errorf("config: tolerance must be positive, got %g", c.Tolerance)
	}
	if c.Softening < 0 {
		return fmt.Errorf("config: softening must be non-negative, got %g", c.Softening)
	}
	for i, b := range c.Bodies {
		if b.Mass <= 0 {
			return fmt.Errorf("config: body %d mass must be positive, got %g", i, b.Mass)
		}
	}
	return nil
}

// BuildSystem constructs a system from the inline body list. Named
// scenarios are resolved by the caller through the scenario package.
func (c *Config) BuildSystem() *body.System {
	s := body.New()
	s.Reserve(len(c.Bodies))
	for _, b := range c.Bodies {
		s.AddBody(
			body.Vec3{X: b.Pos[0], Y: b.Pos[1], Z: b.Pos[2]},
			body.Vec3{X: b.Vel[0], Y: b.Vel[1], Z: b.Vel[2]},
			b.Mass,
		)
	}
	return s
}
