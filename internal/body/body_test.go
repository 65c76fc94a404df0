package body_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rigidmc/internal/body"
)

var _ = Describe("Body", func() {
	var b *body.Body

	BeforeEach(func() {
		b = body.New(2, 3.0, -1.5, 0.25)
	})

	Describe("construction", func() {
		It("starts with a stale cache and zeroed statistics", func() {
			Expect(b.CacheState()).To(Equal(body.Stale))
			Expect(b.Stats).To(Equal(body.MoveStats{}))
			Expect(b.Type).To(Equal(2))
			Expect(b.X()).To(Equal(3.0))
			Expect(b.Y()).To(Equal(-1.5))
		})

		It("normalizes the initial orientation", func() {
			Expect(body.New(0, 0, 0, -math.Pi/2).Orientation()).To(BeNumerically("~", 1.5*math.Pi, 1e-12))
			Expect(body.New(0, 0, 0, body.TwoPi).Orientation()).To(BeNumerically("~", 0, 1e-12))
		})

		It("builds empty bodies with the invalid type", func() {
			e := body.Empty()
			Expect(e.Type).To(Equal(body.InvalidType))
			Expect(e.IsValidType()).To(BeFalse())
			Expect(e.Pos().X).To(BeZero())
		})
	})

	Describe("energy cache", func() {
		It("panics when read before any SetEnergy", func() {
			Expect(func() { b.Energy() }).To(PanicWith(body.ErrStaleEnergy))
			_, err := b.CachedEnergy()
			Expect(err).To(MatchError(body.ErrStaleEnergy))
		})

		It("returns exactly the stored value until the pose changes", func() {
			Expect(b.SetEnergy(-4.125)).To(Equal(-4.125))
			Expect(b.Energy()).To(Equal(-4.125))
			Expect(b.Energy()).To(Equal(-4.125))

			b.Move(0.1, 0)
			Expect(func() { b.Energy() }).To(PanicWith(body.ErrStaleEnergy))

			b.SetEnergy(1)
			b.Rotate(0.3)
			Expect(b.CacheState()).To(Equal(body.Stale))
		})

		It("is not touched by Expand", func() {
			b.SetEnergy(7)
			b.Expand(2)
			Expect(b.Energy()).To(Equal(7.0))
			Expect(b.X()).To(Equal(6.0))
			Expect(b.Y()).To(Equal(-3.0))
			Expect(b.Orientation()).To(Equal(0.25))

			b.Invalidate()
			Expect(b.CacheState()).To(Equal(body.Stale))
		})
	})

	Describe("Rotate", func() {
		DescribeTable("keeps the orientation in [0, 2π)",
			func(angle float64) {
				b.Rotate(angle)
				Expect(b.Orientation()).To(BeNumerically(">=", 0))
				Expect(b.Orientation()).To(BeNumerically("<", body.TwoPi))
			},
			Entry("zero", 0.0),
			Entry("small positive", 0.5),
			Entry("small negative", -0.5),
			Entry("exactly minus the current angle", -0.25),
			Entry("several turns", 7*body.TwoPi+0.1),
			Entry("several negative turns", -11*body.TwoPi-0.1),
			Entry("huge", 1e9),
			Entry("huge negative", -1e12),
		)

		It("is idempotent under full turns", func() {
			start := b.Orientation()
			for i := 0; i < 50; i++ {
				b.Rotate(body.TwoPi)
			}
			Expect(b.Orientation()).To(BeNumerically("~", start, 1e-9))
		})

		It("panics on non-finite angles", func() {
			Expect(func() { b.Rotate(math.NaN()) }).To(PanicWith(body.ErrNonFiniteAngle))
			Expect(func() { b.Rotate(math.Inf(-1)) }).To(PanicWith(body.ErrNonFiniteAngle))
		})
	})

	Describe("Move", func() {
		It("is undone by the opposite move", func() {
			moves := [][2]float64{{0.5, -0.25}, {1e3, 1e-3}, {-7.75, 3.125}}
			for _, m := range moves {
				x, y := b.X(), b.Y()
				b.Move(m[0], m[1])
				b.Move(-m[0], -m[1])
				Expect(b.X()).To(BeNumerically("~", x, 1e-9))
				Expect(b.Y()).To(BeNumerically("~", y, 1e-9))
			}
		})
	})

	Describe("copying", func() {
		It("copies pose, type and statistics but resets the cache", func() {
			b.Stats = body.MoveStats{Accepted: 3, Rejected: 1, Rotations: 2, Translations: 2, MaxStep: 0.4}
			b.SetEnergy(12)

			c := b.Clone()
			Expect(c.Type).To(Equal(b.Type))
			Expect(c.Pos()).To(Equal(b.Pos()))
			Expect(c.Orientation()).To(Equal(b.Orientation()))
			Expect(c.Stats).To(Equal(b.Stats))
			Expect(c.CacheState()).To(Equal(body.Stale))
			Expect(b.Energy()).To(Equal(12.0))

			c.Move(1, 1)
			Expect(b.X()).To(Equal(3.0))
		})

		It("Assign overwrites in place", func() {
			dst := body.Empty()
			dst.SetEnergy(3)
			dst.Assign(b)
			Expect(dst.Type).To(Equal(2))
			Expect(dst.CacheState()).To(Equal(body.Stale))
		})
	})

	Describe("Distance", func() {
		const w, h = 20.0, 10.0

		pairs := [][2]*body.Body{
			{body.New(0, 0, 0, 0), body.New(0, 3, 4, 0)},
			{body.New(0, 1, 1, 0), body.New(0, 19, 9, 1)},
			{body.New(0, 4.5, 2, 0), body.New(1, 2, 7.5, 2)},
			{body.New(0, -3, 2, 0), body.New(1, 12, -4, 0)},
		}

		It("is symmetric for every boundary setting", func() {
			for _, p := range pairs {
				for _, periodic := range []bool{false, true} {
					Expect(p[0].Distance(p[1], w, h, periodic)).
						To(BeNumerically("~", p[1].Distance(p[0], w, h, periodic), 1e-12))
				}
			}
		})

		It("is the plain Euclidean distance without periodicity", func() {
			for _, p := range pairs {
				want := p[0].Pos().Sub(p[1].Pos()).Norm()
				Expect(p[0].Distance(p[1], w, h, false)).To(BeNumerically("~", want, 1e-12))
			}
		})

		It("never exceeds the plain distance with periodicity", func() {
			for _, p := range pairs {
				Expect(p[0].Distance(p[1], w, h, true)).
					To(BeNumerically("<=", p[0].Distance(p[1], w, h, false)))
			}
		})

		It("uses the nearest image across the edges", func() {
			a := body.New(0, 1, 1, 0)
			c := body.New(0, 19, 9, 0)
			Expect(a.Distance(c, w, h, true)).To(BeNumerically("~", math.Hypot(2, 2), 1e-12))
			Expect(body.New(0, 0, 0, 0).Distance(body.New(0, 3, 4, 0), w, h, true)).To(BeNumerically("~", 5, 1e-12))
		})
	})

	Describe("MoveStats", func() {
		It("reports the acceptance ratio", func() {
			Expect(body.MoveStats{}.AcceptanceRatio()).To(BeZero())
			s := body.MoveStats{Accepted: 3, Rejected: 1}
			Expect(s.Trials()).To(Equal(4))
			Expect(s.AcceptanceRatio()).To(Equal(0.75))
		})
	})
})
