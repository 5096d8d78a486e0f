package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/scenario"
)

func TestRK4EnergyConservation(t *testing.T) {
	s := scenario.EarthMoon()
	integ := NewRK4()

	e0 := s.TotalEnergy()
	for i := 0; i < 1440; i++ {
		integ.Step(s, 60.0)
	}
	e1 := s.TotalEnergy()

	drift := math.Abs(e1-e0) / math.Abs(e0)
	if drift > 1e-4 {
		t.Errorf("energy drift %e exceeds 1e-4", drift)
	}
}

func TestRK4AngularMomentumConservation(t *testing.T) {
	s := scenario.EarthMoon()
	integ := NewRK4()

	l0 := s.AngularMomentum().Magnitude()
	for i := 0; i < 1000; i++ {
		integ.Step(s, 0.1)
	}
	l1 := s.AngularMomentum().Magnitude()

	drift := math.Abs(l1-l0) / l0
	if drift > 1e-6 {
		t.Errorf("angular momentum drift %e exceeds 1e-6", drift)
	}
}

func TestRK4AdvancesTime(t *testing.T) {
	s := scenario.EarthMoon()
	integ := NewRK4()

	for i := 0; i < 10; i++ {
		integ.Step(s, 60.0)
	}
	if math.Abs(s.Time-600.0) > 1e-9 {
		t.Errorf("time = %g, want 600", s.Time)
	}
}

func TestRK4SingleBodyDrifts(t *testing.T) {
	s := scenario.EarthMoon()
	s.Reset()
	s.AddBody(vec(0, 0, 0), vec(3, 0, 0), 1.0)

	integ := NewRK4()
	integ.Step(s, 2.0)

	if math.Abs(s.Px[0]-6.0) > 1e-12 {
		t.Errorf("free body at x=%g, want 6", s.Px[0])
	}
	if s.Vx[0] != 3.0 {
		t.Errorf("free body velocity changed: %g", s.Vx[0])
	}
}

func TestRK4ScratchSurvivesResize(t *testing.T) {
	s := scenario.EarthMoon()
	integ := NewRK4()
	integ.Step(s, 60.0)

	// Appending a body resizes the workspace on the next step.
	s.AddBody(vec(1e9, 0, 0), vec(0, 500, 0), 1e3)
	integ.Step(s, 60.0)

	if !s.IsValid() {
		t.Error("state invalid after workspace resize")
	}
}
