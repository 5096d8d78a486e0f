package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
)

// ringSystem places n equal bodies on a ring with tangential velocity,
// a stable deterministic benchmark workload.
func ringSystem(n int) *body.System {
	s := body.New()
	s.Reserve(n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		s.AddBody(
			body.Vec3{X: 1e7 * math.Cos(angle), Y: 1e7 * math.Sin(angle)},
			body.Vec3{X: -500 * math.Sin(angle), Y: 500 * math.Cos(angle)},
			1e20,
		)
	}
	return s
}

func BenchmarkGravity32(b *testing.B) {
	s := ringSystem(32)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gravity.Accelerations(s)
	}
}

func BenchmarkGravity256(b *testing.B) {
	s := ringSystem(256)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gravity.Accelerations(s)
	}
}

func BenchmarkRK4_32(b *testing.B) {
	s := ringSystem(32)
	integ := NewRK4()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(s, 0.1)
	}
}

func BenchmarkDopri54_32(b *testing.B) {
	s := ringSystem(32)
	integ := NewDopri54()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.StepAdaptive(s, 0.1, DefaultTolerance)
	}
}

func BenchmarkLeapfrog_32(b *testing.B) {
	s := ringSystem(32)
	integ := NewLeapfrog()
	integ.Prime(s)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(s, 0.1)
	}
}
