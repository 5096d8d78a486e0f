package integrators

import (
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
)

// RK4 is the fixed-step classical 4th-order Runge-Kutta integrator.
// Each Step makes four gravity kernel calls and advances time
// unconditionally; stability depends on the caller's choice of dt.
//
// The instance owns its scratch buffers and must not be shared between
// systems being advanced concurrently.
type RK4 struct {
	Softening float64

	saved          snapshot
	k1, k2, k3, k4 stage
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	r.saved.resize(n)
	r.k1.resize(n)
	r.k2.resize(n)
	r.k3.resize(n)
	r.k4.resize(n)
}

// Step advances s by one RK4 step of size dt.
func (r *RK4) Step(s *body.System, dt float64) {
	n := s.Count
	r.ensureScratch(n)
	r.saved.save(s)

	// k1 = f(y)
	gravity.AccelerationsSoftened(s, r.Softening)
	r.k1.record(s)

	// k2 = f(y + dt/2·k1)
	r.trial(s, dt*0.5, &r.k1)
	gravity.AccelerationsSoftened(s, r.Softening)
	r.k2.record(s)

	// k3 = f(y + dt/2·k2)
	r.trial(s, dt*0.5, &r.k2)
	gravity.AccelerationsSoftened(s, r.Softening)
	r.k3.record(s)

	// k4 = f(y + dt·k3)
	r.trial(s, dt, &r.k3)
	gravity.AccelerationsSoftened(s, r.Softening)
	r.k4.record(s)

	// y' = y + dt/6·(k1 + 2k2 + 2k3 + k4), relative to the saved state
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		s.Px[i] = r.saved.px[i] + dt6*(r.k1.px[i]+2*r.k2.px[i]+2*r.k3.px[i]+r.k4.px[i])
		s.Py[i] = r.saved.py[i] + dt6*(r.k1.py[i]+2*r.k2.py[i]+2*r.k3.py[i]+r.k4.py[i])
		s.Pz[i] = r.saved.pz[i] + dt6*(r.k1.pz[i]+2*r.k2.pz[i]+2*r.k3.pz[i]+r.k4.pz[i])
		s.Vx[i] = r.saved.vx[i] + dt6*(r.k1.vx[i]+2*r.k2.vx[i]+2*r.k3.vx[i]+r.k4.vx[i])
		s.Vy[i] = r.saved.vy[i] + dt6*(r.k1.vy[i]+2*r.k2.vy[i]+2*r.k3.vy[i]+r.k4.vy[i])
		s.Vz[i] = r.saved.vz[i] + dt6*(r.k1.vz[i]+2*r.k2.vz[i]+2*r.k3.vz[i]+r.k4.vz[i])
	}

	s.Time += dt
}

// trial rebuilds the state of s as saved + h·k.
func (r *RK4) trial(s *body.System, h float64, k *stage) {
	n := s.Count
	for i := 0; i < n; i++ {
		s.Px[i] = r.saved.px[i] + h*k.px[i]
		s.Py[i] = r.saved.py[i] + h*k.py[i]
		s.Pz[i] = r.saved.pz[i] + h*k.pz[i]
		s.Vx[i] = r.saved.vx[i] + h*k.vx[i]
		s.Vy[i] = r.saved.vy[i] + h*k.vy[i]
		s.Vz[i] = r.saved.vz[i] + h*k.vz[i]
	}
}
