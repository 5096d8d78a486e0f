package integrators

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
)

// DefaultTolerance is the local-error tolerance used when none is supplied.
const DefaultTolerance = 1e-9

// Dormand-Prince 5(4) coefficients. The a71..a76 row equals the 5th-order
// weights, so the stage-7 trial state is the accepted solution and its
// derivative is reusable as the next step's first stage (FSAL).
var (
	a21 = 1.0 / 5.0
	a31 = 3.0 / 40.0
	a32 = 9.0 / 40.0
	a41 = 44.0 / 45.0
	a42 = -56.0 / 15.0
	a43 = 32.0 / 9.0
	a51 = 19372.0 / 6561.0
	a52 = -25360.0 / 2187.0
	a53 = 64448.0 / 6561.0
	a54 = -212.0 / 729.0
	a61 = 9017.0 / 3168.0
	a62 = -355.0 / 33.0
	a63 = 46732.0 / 5247.0
	a64 = 49.0 / 176.0
	a65 = -5103.0 / 18656.0
	a71 = 35.0 / 384.0
	a73 = 500.0 / 1113.0
	a74 = 125.0 / 192.0
	a75 = -2187.0 / 6784.0
	a76 = 11.0 / 84.0

	// 5th-order minus 4th-order weights, for the embedded error estimate
	e1 = 71.0 / 57600.0
	e3 = -71.0 / 16695.0
	e4 = 71.0 / 1920.0
	e5 = -17253.0 / 339200.0
	e6 = 22.0 / 525.0
	e7 = -1.0 / 40.0
)

// errFloor keeps the tolerance ratio defined when the error estimate is
// exactly zero.
const errFloor = 1e-30

// StepResult describes one attempted adaptive step: the time increment
// actually applied (zero if rejected), the increment recommended for the
// next attempt, and the normalized local error estimate achieved.
type StepResult struct {
	DtUsed      float64
	DtNext      float64
	ErrEstimate float64
}

// Accepted reports whether the attempt advanced the system.
func (r StepResult) Accepted() bool { return r.DtUsed > 0 }

// Dopri54 is the adaptive embedded Dormand-Prince 5th/4th order
// integrator. Each attempt makes seven gravity kernel calls; a rejected
// attempt restores position and velocity to their exact pre-step values
// and leaves time untouched.
type Dopri54 struct {
	Softening float64

	safety   float64
	minScale float64
	maxScale float64

	saved                      snapshot
	k1, k2, k3, k4, k5, k6, k7 stage
}

func NewDopri54() *Dopri54 {
	return &Dopri54{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 5.0,
	}
}

func (d *Dopri54) ensureScratch(n int) {
	d.saved.resize(n)
	d.k1.resize(n)
	d.k2.resize(n)
	d.k3.resize(n)
	d.k4.resize(n)
	d.k5.resize(n)
	d.k6.resize(n)
	d.k7.resize(n)
}

// Step advances s by exactly dt, taking the 5th-order solution without
// an error check. Use StepAdaptive for controlled-accuracy stepping.
func (d *Dopri54) Step(s *body.System, dt float64) {
	d.StepAdaptive(s, dt, math.Inf(1))
}

// StepAdaptive attempts one step of size dt against tolerance tol.
// On acceptance s holds the 5th-order state and time advances by dt; on
// rejection s is bit-identical to its pre-call state. The returned
// DtNext is a usable size for the next attempt in either case.
func (d *Dopri54) StepAdaptive(s *body.System, dt, tol float64) StepResult {
	n := s.Count
	d.ensureScratch(n)
	d.saved.save(s)
	sn := &d.saved

	// Stage 1 at the current state
	gravity.AccelerationsSoftened(s, d.Softening)
	d.k1.record(s)

	// Stage 2
	for i := 0; i < n; i++ {
		s.Px[i] = sn.px[i] + dt*a21*d.k1.px[i]
		s.Py[i] = sn.py[i] + dt*a21*d.k1.py[i]
		s.Pz[i] = sn.pz[i] + dt*a21*d.k1.pz[i]
		s.Vx[i] = sn.vx[i] + dt*a21*d.k1.vx[i]
		s.Vy[i] = sn.vy[i] + dt*a21*d.k1.vy[i]
		s.Vz[i] = sn.vz[i] + dt*a21*d.k1.vz[i]
	}
	gravity.AccelerationsSoftened(s, d.Softening)
	d.k2.record(s)

	// Stage 3
	for i := 0; i < n; i++ {
		s.Px[i] = sn.px[i] + dt*(a31*d.k1.px[i]+a32*d.k2.px[i])
		s.Py[i] = sn.py[i] + dt*(a31*d.k1.py[i]+a32*d.k2.py[i])
		s.Pz[i] = sn.pz[i] + dt*(a31*d.k1.pz[i]+a32*d.k2.pz[i])
		s.Vx[i] = sn.vx[i] + dt*(a31*d.k1.vx[i]+a32*d.k2.vx[i])
		s.Vy[i] = sn.vy[i] + dt*(a31*d.k1.vy[i]+a32*d.k2.vy[i])
		s.Vz[i] = sn.vz[i] + dt*(a31*d.k1.vz[i]+a32*d.k2.vz[i])
	}
	gravity.AccelerationsSoftened(s, d.Softening)
	d.k3.record(s)

	// Stage 4
	for i := 0; i < n; i++ {
		s.Px[i] = sn.px[i] + dt*(a41*d.k1.px[i]+a42*d.k2.px[i]+a43*d.k3.px[i])
		s.Py[i] = sn.py[i] + dt*(a41*d.k1.py[i]+a42*d.k2.py[i]+a43*d.k3.py[i])
		s.Pz[i] = sn.pz[i] + dt*(a41*d.k1.pz[i]+a42*d.k2.pz[i]+a43*d.k3.pz[i])
		s.Vx[i] = sn.vx[i] + dt*(a41*d.k1.vx[i]+a42*d.k2.vx[i]+a43*d.k3.vx[i])
		s.Vy[i] = sn.vy[i] + dt*(a41*d.k1.vy[i]+a42*d.k2.vy[i]+a43*d.k3.vy[i])
		s.Vz[i] = sn.vz[i] + dt*(a41*d.k1.vz[i]+a42*d.k2.vz[i]+a43*d.k3.vz[i])
	}
	gravity.AccelerationsSoftened(s, d.Softening)
	d.k4.record(s)

	// Stage 5
	for i := 0; i < n; i++ {
		s.Px[i] = sn.px[i] + dt*(a51*d.k1.px[i]+a52*d.k2.px[i]+a53*d.k3.px[i]+a54*d.k4.px[i])
		s.Py[i] = sn.py[i] + dt*(a51*d.k1.py[i]+a52*d.k2.py[i]+a53*d.k3.py[i]+a54*d.k4.py[i])
		s.Pz[i] = sn.pz[i] + dt*(a51*d.k1.pz[i]+a52*d.k2.pz[i]+a53*d.k3.pz[i]+a54*d.k4.pz[i])
		s.Vx[i] = sn.vx[i] + dt*(a51*d.k1.vx[i]+a52*d.k2.vx[i]+a53*d.k3.vx[i]+a54*d.k4.vx[i])
		s.Vy[i] = sn.vy[i] + dt*(a51*d.k1.vy[i]+a52*d.k2.vy[i]+a53*d.k3.vy[i]+a54*d.k4.vy[i])
		s.Vz[i] = sn.vz[i] + dt*(a51*d.k1.vz[i]+a52*d.k2.vz[i]+a53*d.k3.vz[i]+a54*d.k4.vz[i])
	}
	gravity.AccelerationsSoftened(s, d.Softening)
	d.k5.record(s)

	// Stage 6
	for i := 0; i < n; i++ {
		s.Px[i] = sn.px[i] + dt*(a61*d.k1.px[i]+a62*d.k2.px[i]+a63*d.k3.px[i]+a64*d.k4.px[i]+a65*d.k5.px[i])
		s.Py[i] = sn.py[i] + dt*(a61*d.k1.py[i]+a62*d.k2.py[i]+a63*d.k3.py[i]+a64*d.k4.py[i]+a65*d.k5.py[i])
		s.Pz[i] = sn.pz[i] + dt*(a61*d.k1.pz[i]+a62*d.k2.pz[i]+a63*d.k3.pz[i]+a64*d.k4.pz[i]+a65*d.k5.pz[i])
		s.Vx[i] = sn.vx[i] + dt*(a61*d.k1.vx[i]+a62*d.k2.vx[i]+a63*d.k3.vx[i]+a64*d.k4.vx[i]+a65*d.k5.vx[i])
		s.Vy[i] = sn.vy[i] + dt*(a61*d.k1.vy[i]+a62*d.k2.vy[i]+a63*d.k3.vy[i]+a64*d.k4.vy[i]+a65*d.k5.vy[i])
		s.Vz[i] = sn.vz[i] + dt*(a61*d.k1.vz[i]+a62*d.k2.vz[i]+a63*d.k3.vz[i]+a64*d.k4.vz[i]+a65*d.k5.vz[i])
	}
	gravity.AccelerationsSoftened(s, d.Softening)
	d.k6.record(s)

	// Stage 7: the trial state is the 5th-order solution itself
	for i := 0; i < n; i++ {
		s.Px[i] = sn.px[i] + dt*(a71*d.k1.px[i]+a73*d.k3.px[i]+a74*d.k4.px[i]+a75*d.k5.px[i]+a76*d.k6.px[i])
		s.Py[i] = sn.py[i] + dt*(a71*d.k1.py[i]+a73*d.k3.py[i]+a74*d.k4.py[i]+a75*d.k5.py[i]+a76*d.k6.py[i])
		s.Pz[i] = sn.pz[i] + dt*(a71*d.k1.pz[i]+a73*d.k3.pz[i]+a74*d.k4.pz[i]+a75*d.k5.pz[i]+a76*d.k6.pz[i])
		s.Vx[i] = sn.vx[i] + dt*(a71*d.k1.vx[i]+a73*d.k3.vx[i]+a74*d.k4.vx[i]+a75*d.k5.vx[i]+a76*d.k6.vx[i])
		s.Vy[i] = sn.vy[i] + dt*(a71*d.k1.vy[i]+a73*d.k3.vy[i]+a74*d.k4.vy[i]+a75*d.k5.vy[i]+a76*d.k6.vy[i])
		s.Vz[i] = sn.vz[i] + dt*(a71*d.k1.vz[i]+a73*d.k3.vz[i]+a74*d.k4.vz[i]+a75*d.k5.vz[i]+a76*d.k6.vz[i])
	}
	gravity.AccelerationsSoftened(s, d.Softening)
	d.k7.record(s)

	// Normalized error: per body, the magnitude of the 5th-minus-4th
	// order difference vector for the position and velocity triples,
	// each scaled by the new state magnitude clamped to >= 1.
	maxErr := 0.0
	for i := 0; i < n; i++ {
		epx := dt * (e1*d.k1.px[i] + e3*d.k3.px[i] + e4*d.k4.px[i] + e5*d.k5.px[i] + e6*d.k6.px[i] + e7*d.k7.px[i])
		epy := dt * (e1*d.k1.py[i] + e3*d.k3.py[i] + e4*d.k4.py[i] + e5*d.k5.py[i] + e6*d.k6.py[i] + e7*d.k7.py[i])
		epz := dt * (e1*d.k1.pz[i] + e3*d.k3.pz[i] + e4*d.k4.pz[i] + e5*d.k5.pz[i] + e6*d.k6.pz[i] + e7*d.k7.pz[i])
		evx := dt * (e1*d.k1.vx[i] + e3*d.k3.vx[i] + e4*d.k4.vx[i] + e5*d.k5.vx[i] + e6*d.k6.vx[i] + e7*d.k7.vx[i])
		evy := dt * (e1*d.k1.vy[i] + e3*d.k3.vy[i] + e4*d.k4.vy[i] + e5*d.k5.vy[i] + e6*d.k6.vy[i] + e7*d.k7.vy[i])
		evz := dt * (e1*d.k1.vz[i] + e3*d.k3.vz[i] + e4*d.k4.vz[i] + e5*d.k5.vz[i] + e6*d.k6.vz[i] + e7*d.k7.vz[i])

		errP := math.Sqrt(epx*epx + epy*epy + epz*epz)
		errV := math.Sqrt(evx*evx + evy*evy + evz*evz)

		scaleP := math.Max(1.0, math.Sqrt(s.Px[i]*s.Px[i]+s.Py[i]*s.Py[i]+s.Pz[i]*s.Pz[i]))
		scaleV := math.Max(1.0, math.Sqrt(s.Vx[i]*s.Vx[i]+s.Vy[i]*s.Vy[i]+s.Vz[i]*s.Vz[i]))

		maxErr = math.Max(maxErr, errP/scaleP)
		maxErr = math.Max(maxErr, errV/scaleV)
	}

	scale := d.safety * math.Pow(tol/(maxErr+errFloor), 0.2)
	scale = math.Min(math.Max(scale, d.minScale), d.maxScale)
	dtNext := dt * scale

	if maxErr > tol {
		d.saved.restore(s)
		return StepResult{DtUsed: 0, DtNext: dtNext, ErrEstimate: maxErr}
	}

	s.Time += dt
	return StepResult{DtUsed: dt, DtNext: dtNext, ErrEstimate: maxErr}
}
