package scenario

import (
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/constants"
	"github.com/san-kum/gravsim/internal/integrators"
)

func TestBuildKnownNames(t *testing.T) {
	for _, name := range Names() {
		s, err := Build(name)
		if err != nil {
			t.Errorf("Build(%q): %v", name, err)
			continue
		}
		if s.Count < 2 {
			t.Errorf("scenario %q has %d bodies", name, s.Count)
		}
	}
}

func TestBuildUnknownName(t *testing.T) {
	if _, err := Build("klemperer_rosette"); err == nil {
		t.Error("expected error for unknown scenario")
	}
}

func TestEarthMoon(t *testing.T) {
	s := EarthMoon()
	if s.Count != 2 {
		t.Fatalf("count = %d, want 2", s.Count)
	}
	if s.Mass[0] != constants.MassEarth || s.Mass[1] != constants.MassMoon {
		t.Error("wrong masses")
	}
	if s.Px[1] != 3.844e8 || s.Vy[1] != 1022.0 {
		t.Error("wrong moon orbit parameters")
	}
}

func TestCircularOrbitIsCircular(t *testing.T) {
	s, period := CircularOrbit(1e12, 1000.0)

	// v² = GM/r for a circular orbit.
	v2 := s.Vy[1] * s.Vy[1]
	want := constants.G * 1e12 / 1000.0
	if math.Abs(v2-want) > 1e-9*want {
		t.Errorf("v² = %g, want %g", v2, want)
	}

	wantPeriod := 2 * math.Pi * 1000.0 / math.Sqrt(want)
	if math.Abs(period-wantPeriod) > 1e-9*wantPeriod {
		t.Errorf("period = %g, want %g", period, wantPeriod)
	}
}

func TestInnerSolarSystemOrbits(t *testing.T) {
	s := InnerSolarSystem()
	if s.Count != 5 {
		t.Fatalf("count = %d, want 5", s.Count)
	}
	// Every planet is on a circular orbit around the Sun.
	for i := 1; i < s.Count; i++ {
		r := s.Px[i]
		v := s.Vy[i]
		want := math.Sqrt(constants.MuSun / r)
		if math.Abs(v-want) > 1e-9*want {
			t.Errorf("body %d: v = %g, want %g", i, v, want)
		}
	}
}

func TestHohmannTransferReachesTargetRadius(t *testing.T) {
	r1 := constants.AU
	r2 := 1.524 * constants.AU
	s, transferTime := HohmannTransfer(r1, r2)

	integ := integrators.NewRK4()
	dt := transferTime / 1000
	for i := 0; i < 1000; i++ {
		integ.Step(s, dt)
	}

	finalR := math.Sqrt(s.Px[1]*s.Px[1] + s.Py[1]*s.Py[1])
	relErr := math.Abs(finalR-r2) / r2
	if relErr > 0.005 {
		t.Errorf("arrival radius %.3e, want %.3e (rel err %.4f)", finalR, r2, relErr)
	}
}
