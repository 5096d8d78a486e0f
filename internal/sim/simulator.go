// Package sim orchestrates simulation runs over a body.System: integrator
// selection, the stepping loop, conservation metrics and trajectory
// sampling. The numerical kernels live in internal/gravity and
// internal/integrators; this layer adds control flow, logging and
// cancellation around them.
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/integrators"
)

// Stepper advances a system by one fixed increment.
type Stepper interface {
	Step(s *body.System, dt float64)
}

// AdaptiveStepper additionally supports error-controlled stepping with
// rejection.
type AdaptiveStepper interface {
	Stepper
	StepAdaptive(s *body.System, dt, tol float64) integrators.StepResult
}

// primer is implemented by integrators that need accelerations computed
// before their first step.
type primer interface {
	Prime(s *body.System)
}

// Metric observes the system after every accepted step and reduces the
// run to a single value.
type Metric interface {
	Name() string
	Observe(s *body.System)
	Value() float64
	Reset()
}

// Observer receives the system after every accepted step.
type Observer interface {
	OnStep(s *body.System)
}

// Config controls a single run.
type Config struct {
	Integrator  string  // "rk4", "dopri54" or "leapfrog"
	Dt          float64 // initial/fixed step size [s]
	Duration    float64 // total simulated time [s]
	Tolerance   float64 // local error tolerance (adaptive only)
	Softening   float64 // force-kernel softening length [m]
	Adaptive    bool
	SampleEvery int // record a frame every n accepted steps (0 = every step)

	// ValidateState aborts the run when the state diverges to NaN/Inf.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Integrator:    "rk4",
		Dt:            60.0,
		Duration:      86400.0,
		Tolerance:     integrators.DefaultTolerance,
		SampleEvery:   1,
		ValidateState: true,
	}
}

// maxRejections bounds consecutive adaptive rejections before the run is
// declared stalled.
const maxRejections = 64

// Frame is one sampled trajectory point.
type Frame struct {
	Time       float64
	Energy     float64
	Px, Py, Pz []float64
}

// Result summarizes a completed (or aborted) run.
type Result struct {
	Frames        []Frame
	StepsTaken    int
	StepsRejected int
	EnergyDrift   float64
	Metrics       map[string]float64
}

// NewStepper builds the named integrator with the given softening.
func NewStepper(name string, softening float64) (Stepper, error) {
	switch name {
	case "rk4":
		integ := integrators.NewRK4()
		integ.Softening = softening
		return integ, nil
	case "dopri54", "adaptive":
		integ := integrators.NewDopri54()
		integ.Softening = softening
		return integ, nil
	case "leapfrog":
		integ := integrators.NewLeapfrog()
		integ.Softening = softening
		return integ, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownIntegrator, name)
	}
}

// Simulator drives one system with one stepper. Not safe for concurrent
// use; run independent systems through independent Simulators.
type Simulator struct {
	stepper   Stepper
	metrics   []Metric
	observers []Observer
}

func New(stepper Stepper) *Simulator {
	return &Simulator{stepper: stepper}
}

func (sm *Simulator) AddMetric(m Metric)     { sm.metrics = append(sm.metrics, m) }
func (sm *Simulator) AddObserver(o Observer) { sm.observers = append(sm.observers, o) }

// Run advances s by cfg.Duration of simulated time, mutating it in place.
// The partial Result is returned alongside any error.
func (sm *Simulator) Run(ctx context.Context, s *body.System, cfg Config) (*Result, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	for _, m := range sm.metrics {
		m.Reset()
	}
	if p, ok := sm.stepper.(primer); ok {
		p.Prime(s)
	}

	result := &Result{Metrics: make(map[string]float64)}
	stride := cfg.SampleEvery
	if stride <= 0 {
		stride = 1
	}

	initialEnergy := s.TotalEnergy()
	end := s.Time + cfg.Duration
	dt := cfg.Dt
	rejections := 0

	sm.record(result, s)

	for s.Time < end {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if cfg.Adaptive {
			adaptive, ok := sm.stepper.(AdaptiveStepper)
			if !ok {
				return nil, fmt.Errorf("integrator %q does not support adaptive stepping", cfg.Integrator)
			}
			if remaining := end - s.Time; dt > remaining {
				dt = remaining
			}
			res := adaptive.StepAdaptive(s, dt, cfg.Tolerance)
			if !res.Accepted() {
				result.StepsRejected++
				rejections++
				logrus.Debugf("step rejected at t=%.4f: err=%.3e, retrying with dt=%.4e", s.Time, res.ErrEstimate, res.DtNext)
				if rejections >= maxRejections {
					return result, &StepError{Step: result.StepsTaken, Time: s.Time, Wrapped: ErrStepStalled}
				}
				dt = res.DtNext
				continue
			}
			rejections = 0
			dt = res.DtNext
		} else {
			step := dt
			if remaining := end - s.Time; step > remaining {
				step = remaining
			}
			sm.stepper.Step(s, step)
		}

		result.StepsTaken++

		if cfg.ValidateState && !s.IsValid() {
			return result, &StepError{Step: result.StepsTaken, Time: s.Time, Wrapped: ErrInvalidState}
		}

		for _, m := range sm.metrics {
			m.Observe(s)
		}
		for _, o := range sm.observers {
			o.OnStep(s)
		}
		if result.StepsTaken%stride == 0 {
			sm.record(result, s)
		}
	}

	finalEnergy := s.TotalEnergy()
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}
	for _, m := range sm.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	logrus.WithFields(logrus.Fields{
		"steps":    result.StepsTaken,
		"rejected": result.StepsRejected,
		"drift":    result.EnergyDrift,
	}).Debug("run complete")

	return result, nil
}

func (sm *Simulator) record(result *Result, s *body.System) {
	f := Frame{
		Time:   s.Time,
		Energy: s.TotalEnergy(),
		Px:     append([]float64(nil), s.Px...),
		Py:     append([]float64(nil), s.Py...),
		Pz:     append([]float64(nil), s.Pz...),
	}
	result.Frames = append(result.Frames, f)
}

func validate(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping, got %g", cfg.Tolerance)
	}
	return nil
}
