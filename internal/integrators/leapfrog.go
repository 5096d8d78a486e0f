package integrators

import (
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
)

// Leapfrog is the symplectic kick-drift-kick integrator. The time-symmetric
// update bounds long-term energy error to an oscillation around the true
// value instead of a secular drift.
//
// The first half-kick uses the accelerations currently stored in the
// system, so the caller must run the gravity kernel once before the first
// Step. Every Step leaves accelerations valid for the next one, so no
// extra kernel call is needed between repeated steps.
type Leapfrog struct {
	Softening float64
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

// Prime computes the accelerations the first half-kick depends on.
func (l *Leapfrog) Prime(s *body.System) {
	gravity.AccelerationsSoftened(s, l.Softening)
}

// Step advances s by one KDK step of size dt.
func (l *Leapfrog) Step(s *body.System, dt float64) {
	n := s.Count
	halfDt := 0.5 * dt

	for i := 0; i < n; i++ {
		s.Vx[i] += halfDt * s.Ax[i]
		s.Vy[i] += halfDt * s.Ay[i]
		s.Vz[i] += halfDt * s.Az[i]
	}

	for i := 0; i < n; i++ {
		s.Px[i] += dt * s.Vx[i]
		s.Py[i] += dt * s.Vy[i]
		s.Pz[i] += dt * s.Vz[i]
	}

	gravity.AccelerationsSoftened(s, l.Softening)

	for i := 0; i < n; i++ {
		s.Vx[i] += halfDt * s.Ax[i]
		s.Vy[i] += halfDt * s.Ay[i]
		s.Vz[i] += halfDt * s.Az[i]
	}

	s.Time += dt
}
