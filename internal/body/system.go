package body

import (
	"math"

	"github.com/san-kum/gravsim/internal/constants"
)

// Vec3 is a convenience value for passing positions and velocities
// across the API boundary. Internal storage stays component-wise.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) MagnitudeSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// System is the SoA state of all bodies. The acceleration slices are
// scratch: valid only immediately after a gravity kernel invocation.
type System struct {
	// Position components [m]
	Px, Py, Pz []float64

	// Velocity components [m/s]
	Vx, Vy, Vz []float64

	// Acceleration scratch [m/s²]
	Ax, Ay, Az []float64

	// Mass [kg], strictly positive by caller contract
	Mass []float64

	// Body count
	Count int

	// Simulation time [s], advanced only by accepted integrator steps
	Time float64
}

func New() *System {
	return &System{}
}

// Reserve pre-allocates capacity for n bodies.
func (s *System) Reserve(n int) {
	s.Px = grow(s.Px, n)
	s.Py = grow(s.Py, n)
	s.Pz = grow(s.Pz, n)
	s.Vx = grow(s.Vx, n)
	s.Vy = grow(s.Vy, n)
	s.Vz = grow(s.Vz, n)
	s.Ax = grow(s.Ax, n)
	s.Ay = grow(s.Ay, n)
	s.Az = grow(s.Az, n)
	s.Mass = grow(s.Mass, n)
}

func grow(buf []float64, n int) []float64 {
	if cap(buf) >= n {
		return buf
	}
	out := make([]float64, len(buf), n)
	copy(out, buf)
	return out
}

// AddBody appends a body and returns its index. Indices are stable for
// the lifetime of the system; bodies are never removed individually.
func (s *System) AddBody(pos, vel Vec3, mass float64) int {
	s.Px = append(s.Px, pos.X)
	s.Py = append(s.Py, pos.Y)
	s.Pz = append(s.Pz, pos.Z)
	s.Vx = append(s.Vx, vel.X)
	s.Vy = append(s.Vy, vel.Y)
	s.Vz = append(s.Vz, vel.Z)
	s.Ax = append(s.Ax, 0)
	s.Ay = append(s.Ay, 0)
	s.Az = append(s.Az, 0)
	s.Mass = append(s.Mass, mass)
	idx := s.Count
	s.Count++
	return idx
}

// Reset removes all bodies and rewinds time to zero.
func (s *System) Reset() {
	s.Px = s.Px[:0]
	s.Py = s.Py[:0]
	s.Pz = s.Pz[:0]
	s.Vx = s.Vx[:0]
	s.Vy = s.Vy[:0]
	s.Vz = s.Vz[:0]
	s.Ax = s.Ax[:0]
	s.Ay = s.Ay[:0]
	s.Az = s.Az[:0]
	s.Mass = s.Mass[:0]
	s.Count = 0
	s.Time = 0
}

// Clone returns a deep copy sharing no storage with s.
func (s *System) Clone() *System {
	c := &System{Count: s.Count, Time: s.Time}
	c.Px = append(c.Px, s.Px...)
	c.Py = append(c.Py, s.Py...)
	c.Pz = append(c.Pz, s.Pz...)
	c.Vx = append(c.Vx, s.Vx...)
	c.Vy = append(c.Vy, s.Vy...)
	c.Vz = append(c.Vz, s.Vz...)
	c.Ax = append(c.Ax, s.Ax...)
	c.Ay = append(c.Ay, s.Ay...)
	c.Az = append(c.Az, s.Az...)
	c.Mass = append(c.Mass, s.Mass...)
	return c
}

// Position returns the position of body i.
func (s *System) Position(i int) Vec3 {
	return Vec3{s.Px[i], s.Py[i], s.Pz[i]}
}

// Velocity returns the velocity of body i.
func (s *System) Velocity(i int) Vec3 {
	return Vec3{s.Vx[i], s.Vy[i], s.Vz[i]}
}

// KineticEnergy computes total kinetic energy [J]. O(n).
func (s *System) KineticEnergy() float64 {
	ke := 0.0
	for i := 0; i < s.Count; i++ {
		v2 := s.Vx[i]*s.Vx[i] + s.Vy[i]*s.Vy[i] + s.Vz[i]*s.Vz[i]
		ke += 0.5 * s.Mass[i] * v2
	}
	return ke
}

// PotentialEnergy computes total gravitational potential energy [J]. O(n²).
func (s *System) PotentialEnergy() float64 {
	pe := 0.0
	for i := 0; i < s.Count; i++ {
		for j := i + 1; j < s.Count; j++ {
			dx := s.Px[j] - s.Px[i]
			dy := s.Py[j] - s.Py[i]
			dz := s.Pz[j] - s.Pz[i]
			r := math.Sqrt(dx*dx + dy*dy + dz*dz)
			pe -= constants.G * s.Mass[i] * s.Mass[j] / r
		}
	}
	return pe
}

// TotalEnergy is kinetic plus potential energy [J].
func (s *System) TotalEnergy() float64 {
	return s.KineticEnergy() + s.PotentialEnergy()
}

// Momentum computes total linear momentum [kg·m/s].
func (s *System) Momentum() Vec3 {
	var p Vec3
	for i := 0; i < s.Count; i++ {
		p.X += s.Mass[i] * s.Vx[i]
		p.Y += s.Mass[i] * s.Vy[i]
		p.Z += s.Mass[i] * s.Vz[i]
	}
	return p
}

// AngularMomentum computes total angular momentum L = Σ m·(r × v)
// about the origin [kg·m²/s].
func (s *System) AngularMomentum() Vec3 {
	var l Vec3
	for i := 0; i < s.Count; i++ {
		l.X += s.Mass[i] * (s.Py[i]*s.Vz[i] - s.Pz[i]*s.Vy[i])
		l.Y += s.Mass[i] * (s.Pz[i]*s.Vx[i] - s.Px[i]*s.Vz[i])
		l.Z += s.Mass[i] * (s.Px[i]*s.Vy[i] - s.Py[i]*s.Vx[i])
	}
	return l
}

// IsValid reports whether every stored component is finite.
func (s *System) IsValid() bool {
	for i := 0; i < s.Count; i++ {
		if !finite(s.Px[i]) || !finite(s.Py[i]) || !finite(s.Pz[i]) ||
			!finite(s.Vx[i]) || !finite(s.Vy[i]) || !finite(s.Vz[i]) {
			return false
		}
	}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
