package body_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/constants"
)

var _ = Describe("System", func() {
	var s *body.System

	BeforeEach(func() {
		s = body.New()
	})

	Describe("AddBody", func() {
		It("assigns sequential stable indices", func() {
			Expect(s.AddBody(body.Vec3{}, body.Vec3{}, 1)).To(Equal(0))
			Expect(s.AddBody(body.Vec3{}, body.Vec3{}, 1)).To(Equal(1))
			Expect(s.AddBody(body.Vec3{}, body.Vec3{}, 1)).To(Equal(2))
			Expect(s.Count).To(Equal(3))
		})

		It("round-trips position, velocity and mass exactly", func() {
			idx := s.AddBody(body.Vec3{X: 1.5, Y: -2.25, Z: 3.125}, body.Vec3{X: -4, Y: 5, Z: -6}, 7.5)

			Expect(s.Position(idx)).To(Equal(body.Vec3{X: 1.5, Y: -2.25, Z: 3.125}))
			Expect(s.Velocity(idx)).To(Equal(body.Vec3{X: -4, Y: 5, Z: -6}))
			Expect(s.Mass[idx]).To(Equal(7.5))
		})

		It("keeps all component slices the same length", func() {
			for i := 0; i < 5; i++ {
				s.AddBody(body.Vec3{X: float64(i)}, body.Vec3{}, 1)
			}
			Expect(s.Px).To(HaveLen(5))
			Expect(s.Vz).To(HaveLen(5))
			Expect(s.Az).To(HaveLen(5))
			Expect(s.Mass).To(HaveLen(5))
		})

		It("starts new bodies with zero acceleration", func() {
			idx := s.AddBody(body.Vec3{X: 1}, body.Vec3{Y: 2}, 3)
			Expect(s.Ax[idx]).To(BeZero())
			Expect(s.Ay[idx]).To(BeZero())
			Expect(s.Az[idx]).To(BeZero())
		})
	})

	Describe("Reset", func() {
		It("clears bodies and rewinds time regardless of prior state", func() {
			s.AddBody(body.Vec3{X: 1}, body.Vec3{}, 2)
			s.AddBody(body.Vec3{X: 3}, body.Vec3{}, 4)
			s.Time = 99.5

			s.Reset()

			Expect(s.Count).To(BeZero())
			Expect(s.Time).To(BeZero())
			Expect(s.Px).To(BeEmpty())
			Expect(s.Mass).To(BeEmpty())
		})

		It("allows reuse after reset", func() {
			s.AddBody(body.Vec3{X: 1}, body.Vec3{}, 2)
			s.Reset()
			Expect(s.AddBody(body.Vec3{X: 5}, body.Vec3{}, 6)).To(Equal(0))
			Expect(s.Px[0]).To(Equal(5.0))
		})
	})

	Describe("Reserve", func() {
		It("does not change the observable state", func() {
			s.AddBody(body.Vec3{X: 1}, body.Vec3{}, 2)
			s.Reserve(100)
			Expect(s.Count).To(Equal(1))
			Expect(s.Px[0]).To(Equal(1.0))
		})
	})

	Describe("diagnostics", func() {
		BeforeEach(func() {
			// Earth at rest, Moon at mean distance with tangential velocity.
			s.AddBody(body.Vec3{}, body.Vec3{}, constants.MassEarth)
			s.AddBody(body.Vec3{X: 3.844e8}, body.Vec3{Y: 1022}, constants.MassMoon)
		})

		It("computes kinetic energy", func() {
			want := 0.5 * constants.MassMoon * 1022 * 1022
			Expect(s.KineticEnergy()).To(BeNumerically("~", want, 1e-6*want))
		})

		It("computes potential energy", func() {
			want := -constants.G * constants.MassEarth * constants.MassMoon / 3.844e8
			Expect(s.PotentialEnergy()).To(BeNumerically("~", want, 1e-6*math.Abs(want)))
		})

		It("sums total energy", func() {
			Expect(s.TotalEnergy()).To(Equal(s.KineticEnergy() + s.PotentialEnergy()))
		})

		It("computes linear momentum", func() {
			p := s.Momentum()
			Expect(p.X).To(BeZero())
			Expect(p.Y).To(Equal(constants.MassMoon * 1022))
		})

		It("computes angular momentum about the origin", func() {
			l := s.AngularMomentum()
			Expect(l.X).To(BeZero())
			Expect(l.Y).To(BeZero())
			want := constants.MassMoon * 3.844e8 * 1022
			Expect(l.Z).To(BeNumerically("~", want, 1e-6*want))
		})
	})

	Describe("Clone", func() {
		It("copies all state and shares no storage", func() {
			s.AddBody(body.Vec3{X: 1}, body.Vec3{Y: 2}, 3)
			s.Time = 10

			c := s.Clone()
			c.Px[0] = 99
			c.Time = 0

			Expect(s.Px[0]).To(Equal(1.0))
			Expect(s.Time).To(Equal(10.0))
			Expect(c.Count).To(Equal(1))
		})
	})

	Describe("IsValid", func() {
		It("accepts finite states", func() {
			s.AddBody(body.Vec3{X: 1e30}, body.Vec3{X: -1e30}, 1)
			Expect(s.IsValid()).To(BeTrue())
		})

		It("rejects NaN and Inf components", func() {
			s.AddBody(body.Vec3{}, body.Vec3{}, 1)
			s.Vy[0] = math.NaN()
			Expect(s.IsValid()).To(BeFalse())

			s.Vy[0] = 0
			s.Pz[0] = math.Inf(1)
			Expect(s.IsValid()).To(BeFalse())
		})
	})
})

var _ = Describe("Vec3", func() {
	It("computes magnitudes", func() {
		v := body.Vec3{X: 3, Y: 4, Z: 0}
		Expect(v.Magnitude()).To(Equal(5.0))
		Expect(v.MagnitudeSquared()).To(Equal(25.0))
	})
})
