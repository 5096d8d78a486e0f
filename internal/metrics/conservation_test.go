package metrics

import (
	"testing"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/scenario"
)

func TestEnergyDriftZeroWhenUnchanged(t *testing.T) {
	s := scenario.EarthMoon()
	m := NewEnergyDrift()

	m.Observe(s)
	m.Observe(s)

	if m.Value() != 0 {
		t.Errorf("drift on unchanged system = %g, want 0", m.Value())
	}
}

func TestEnergyDriftTracksMaximum(t *testing.T) {
	s := scenario.EarthMoon()
	m := NewEnergyDrift()
	m.Observe(s)

	// Doubling the Moon's speed changes kinetic energy.
	s.Vy[1] *= 2
	m.Observe(s)
	peak := m.Value()
	if peak <= 0 {
		t.Fatal("expected nonzero drift after velocity change")
	}

	// Reverting does not lower the recorded maximum.
	s.Vy[1] /= 2
	m.Observe(s)
	if m.Value() != peak {
		t.Errorf("maximum not retained: %g vs %g", m.Value(), peak)
	}
}

func TestEnergyDriftReset(t *testing.T) {
	s := scenario.EarthMoon()
	m := NewEnergyDrift()
	m.Observe(s)
	s.Vy[1] *= 2
	m.Observe(s)

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("value after reset = %g, want 0", m.Value())
	}
}

func TestAngularMomentumDrift(t *testing.T) {
	s := scenario.EarthMoon()
	m := NewAngularMomentumDrift()
	m.Observe(s)

	if m.Value() != 0 {
		t.Errorf("initial drift = %g, want 0", m.Value())
	}

	s.Vy[1] *= 1.5
	m.Observe(s)
	if m.Value() <= 0 {
		t.Error("expected nonzero drift after tangential velocity change")
	}
}

func TestAngularMomentumDriftZeroInitial(t *testing.T) {
	// A single body at rest has zero angular momentum; drift must stay
	// defined (no division by zero).
	s := body.New()
	s.AddBody(body.Vec3{}, body.Vec3{}, 1.0)

	m := NewAngularMomentumDrift()
	m.Observe(s)
	m.Observe(s)

	if m.Value() != 0 {
		t.Errorf("drift = %g, want 0", m.Value())
	}
}
