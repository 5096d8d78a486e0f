// Package scenario builds ready-to-run gravitational systems.
package scenario

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/constants"
)

// EarthMoon returns Earth at rest at the origin with the Moon on a
// circular orbit at its mean distance.
func EarthMoon() *body.System {
	s := body.New()
	s.Reserve(2)
	s.AddBody(body.Vec3{}, body.Vec3{}, constants.MassEarth)
	s.AddBody(
		body.Vec3{X: 3.844e8},
		body.Vec3{Y: 1022.0},
		constants.MassMoon,
	)
	return s
}

// Inner planets: mass [kg] and mean orbital radius [AU]. Mercury and
// Venus values are from the IAU nominal set; Earth and Mars reuse the
// constants table.
var innerPlanets = []struct {
	name   string
	mass   float64
	radius float64
}{
	{"mercury", 3.3011e23, 0.387},
	{"venus", 4.8675e24, 0.723},
	{"earth", constants.MassEarth, 1.0},
	{"mars", constants.MassMars, 1.524},
}

// InnerSolarSystem returns the Sun plus the four inner planets on
// coplanar circular orbits.
func InnerSolarSystem() *body.System {
	s := body.New()
	s.Reserve(1 + len(innerPlanets))
	s.AddBody(body.Vec3{}, body.Vec3{}, constants.MassSun)
	for _, p := range innerPlanets {
		r := p.radius * constants.AU
		v := math.Sqrt(constants.MuSun / r)
		s.AddBody(body.Vec3{X: r}, body.Vec3{Y: v}, p.mass)
	}
	return s
}

// CircularOrbit returns a central body of mass m at rest plus a unit-mass
// satellite on a circular orbit of the given radius, along with the
// orbital period.
func CircularOrbit(m, radius float64) (*body.System, float64) {
	mu := constants.G * m
	v := math.Sqrt(mu / radius)
	period := 2 * math.Pi * radius / v

	s := body.New()
	s.Reserve(2)
	s.AddBody(body.Vec3{}, body.Vec3{}, m)
	s.AddBody(body.Vec3{X: radius}, body.Vec3{Y: v}, 1.0)
	return s, period
}

// HohmannTransfer returns a Sun-mass central body with a spacecraft at
// periapsis of a transfer ellipse from circular radius r1 to r2, along
// with the transfer time (half the transfer-orbit period). After that
// time the spacecraft is at apoapsis, at distance r2.
func HohmannTransfer(r1, r2 float64) (*body.System, float64) {
	aTransfer := (r1 + r2) / 2
	vTransfer := math.Sqrt(constants.MuSun * (2/r1 - 1/aTransfer))
	transferTime := math.Pi * math.Sqrt(aTransfer*aTransfer*aTransfer/constants.MuSun)

	s := body.New()
	s.Reserve(2)
	s.AddBody(body.Vec3{}, body.Vec3{}, constants.MassSun)
	s.AddBody(body.Vec3{X: r1}, body.Vec3{Y: vTransfer}, 1000.0)
	return s, transferTime
}

var builders = map[string]func() *body.System{
	"earth_moon":   EarthMoon,
	"solar_system": InnerSolarSystem,
	"circular": func() *body.System {
		s, _ := CircularOrbit(1e12, 1000.0)
		return s
	},
	"hohmann": func() *body.System {
		s, _ := HohmannTransfer(constants.AU, 1.524*constants.AU)
		return s
	},
}

// Build returns the named scenario or an error listing the known names.
func Build(name string) (*body.System, error) {
	b, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s (available: %v)", name, Names())
	}
	return b(), nil
}

// Names lists the built-in scenarios in sorted order.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
