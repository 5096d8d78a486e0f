package sim

import (
	"context"
	"sync"

	"github.com/san-kum/gravsim/internal/body"
)

// Ensemble advances independent copies of a system concurrently, one
// goroutine per run. Each run gets its own cloned system and its own
// integrator instance, so no scratch buffers or state are shared — the
// natural unit of parallelism for the single-writer engine.
type Ensemble struct {
	integrator string
	softening  float64
	numRuns    int
}

func NewEnsemble(integrator string, softening float64, numRuns int) *Ensemble {
	return &Ensemble{integrator: integrator, softening: softening, numRuns: numRuns}
}

// Run executes numRuns simulations of clones of base. The perturb hook,
// if non-nil, is applied to each clone before its run (e.g. to vary
// initial conditions across the ensemble).
func (e *Ensemble) Run(ctx context.Context, base *body.System, cfg Config, perturb func(run int, s *body.System)) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(run int) {
			defer wg.Done()

			s := base.Clone()
			if perturb != nil {
				perturb(run, s)
			}

			stepper, err := NewStepper(e.integrator, e.softening)
			if err != nil {
				errs[run] = err
				return
			}
			results[run], errs[run] = New(stepper).Run(ctx, s, cfg)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
