package config

// Presets are ready-made run configurations per scenario.
var Presets = map[string]map[string]*Config{
	"earth_moon": {
		"day": {
			Scenario: "earth_moon", Integrator: "rk4", Dt: 60, Duration: 86400,
		},
		"month": {
			Scenario: "earth_moon", Integrator: "leapfrog", Dt: 300, Duration: 30 * 86400,
		},
		"adaptive": {
			Scenario: "earth_moon", Integrator: "dopri54", Adaptive: true,
			Dt: 60, Duration: 30 * 86400, Tolerance: 1e-9,
		},
	},
	"solar_system": {
		"year": {
			Scenario: "solar_system", Integrator: "leapfrog", Dt: 3600, Duration: 365.25 * 86400,
		},
		"decade": {
			Scenario: "solar_system", Integrator: "leapfrog", Dt: 6 * 3600, Duration: 10 * 365.25 * 86400,
		},
	},
	"circular": {
		"period": {
			Scenario: "circular", Integrator: "dopri54", Adaptive: true,
			Dt: 24.0, Duration: 24324.0, Tolerance: 1e-9,
		},
	},
	"hohmann": {
		"transfer": {
			Scenario: "hohmann", Integrator: "rk4", Dt: 22350.0, Duration: 2.235e7,
		},
	},
}

// GetPreset returns the named preset for a scenario, or nil.
func GetPreset(scenario, name string) *Config {
	group, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := group[name]
	if !ok {
		return nil
	}
	out := *cfg
	if out.Dt == 0 {
		out.Dt = DefaultDt
	}
	if out.Tolerance == 0 {
		out.Tolerance = DefaultTolerance
	}
	return &out
}

// ListPresets returns the preset names for a scenario.
func ListPresets(scenario string) []string {
	group, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	return names
}
