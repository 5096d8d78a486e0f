// Package gravity implements the pairwise Newtonian force kernel.
package gravity

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/constants"
)

// Accelerations overwrites the acceleration buffers of s with the
// gravitational acceleration on each body, with zero softening.
func Accelerations(s *body.System) {
	AccelerationsSoftened(s, 0)
}

// AccelerationsSoftened computes a_i = G·Σ m_j·(r_j−r_i)/(|r_j−r_i|²+ε²)^1.5
// for every body. Each call is a full recompute; position, velocity, mass
// and time are untouched. O(n²) time, no allocations.
//
// The softening length bounds the force magnitude as two bodies approach
// coincidence; with zero softening, coincident bodies produce non-finite
// accelerations (accepted degenerate behavior).
func AccelerationsSoftened(s *body.System, softening float64) {
	n := s.Count
	eps2 := softening * softening

	for i := 0; i < n; i++ {
		s.Ax[i] = 0
		s.Ay[i] = 0
		s.Az[i] = 0
	}

	// Unordered pairs only; the j-side contribution is the exact
	// negation of the i-side one (Newton's third law).
	for i := 0; i < n; i++ {
		pxi, pyi, pzi := s.Px[i], s.Py[i], s.Pz[i]
		mi := s.Mass[i]

		axi, ayi, azi := 0.0, 0.0, 0.0

		for j := i + 1; j < n; j++ {
			dx := s.Px[j] - pxi
			dy := s.Py[j] - pyi
			dz := s.Pz[j] - pzi

			dist2 := dx*dx + dy*dy + dz*dz + eps2
			invDist3 := 1.0 / (dist2 * math.Sqrt(dist2))

			fx := constants.G * dx * invDist3
			fy := constants.G * dy * invDist3
			fz := constants.G * dz * invDist3

			mj := s.Mass[j]
			axi += fx * mj
			ayi += fy * mj
			azi += fz * mj

			s.Ax[j] -= fx * mi
			s.Ay[j] -= fy * mi
			s.Az[j] -= fz * mi
		}

		s.Ax[i] += axi
		s.Ay[i] += ayi
		s.Az[i] += azi
	}
}
