package controller_test

import (
	"context"
	"math"
	"math/big"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/stepctl/internal/controller"
	"github.com/san-kum/stepctl/internal/equations"
	"github.com/san-kum/stepctl/internal/report"
	"github.com/san-kum/stepctl/internal/solver"
	"github.com/san-kum/stepctl/internal/symbolic"
)

func deadbeat3() controller.Structure {
	return controller.Structure{
		Order:           3,
		AdaptivityExtra: 1,
		StepsizeFilter:  1,
		PolePlacements:  []float64{0, 0, 0},
	}
}

func exactValue(a solver.Assignment, p symbolic.Param) string {
	r, ok := a.Get(p).Rat()
	Expect(ok).To(BeTrue(), "%s is %s", p.Name(), a.Get(p).Kind())
	return symbolic.RatString(r)
}

func byName(d *controller.Design, name string) symbolic.Param {
	for _, p := range d.Registry.Params() {
		if p.Name() == name {
			return p
		}
	}
	Fail("no parameter " + name)
	return symbolic.Param{}
}

var _ = Describe("Structure", func() {
	It("rejects both filters before anything else", func() {
		s := controller.Structure{Order: 0, StepsizeFilter: 1, ErrorFilter: 1}
		Expect(s.Validate()).To(MatchError(controller.ErrFilterConflict))
	})

	DescribeTable("invalid structures",
		func(s controller.Structure) {
			Expect(s.Validate()).To(MatchError(controller.ErrInvalidStructure))
		},
		Entry("zero order", controller.Structure{Order: 0}),
		Entry("negative adaptivity", controller.Structure{Order: 2, AdaptivityExtra: -1}),
		Entry("denominator over-constrained", controller.Structure{Order: 2, AdaptivityExtra: 1, ErrorFilter: 1}),
		Entry("numerator over-constrained", controller.Structure{Order: 1, StepsizeFilter: 1}),
		Entry("too many placements", controller.Structure{Order: 1, PolePlacements: []float64{0, 0}}),
	)

	It("counts free roots", func() {
		s := deadbeat3()
		Expect(s.Validate()).To(Succeed())
		Expect(s.DenominatorRoots()).To(Equal(1))
		Expect(s.NumeratorRoots()).To(Equal(1))
		Expect(s.FreePoles()).To(Equal(0))
	})
})

var _ = Describe("Constructor", func() {
	var (
		ctx context.Context
		c   *controller.Constructor
	)

	BeforeEach(func() {
		ctx = context.Background()
		c = controller.New()
	})

	Describe("Build", func() {
		It("aborts on a filter conflict without building equations", func() {
			s := deadbeat3()
			s.ErrorFilter = 1
			d, err := c.Build(s)
			Expect(err).To(MatchError(controller.ErrFilterConflict))
			Expect(d).To(BeNil())
		})

		It("derives n, n and n+1 equations", func() {
			d, err := c.Build(deadbeat3())
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Families).To(HaveLen(3))
			Expect(d.Families[0].Name).To(Equal(controller.FamilyDenominator))
			Expect(d.Families[0].Equations).To(HaveLen(3))
			Expect(d.Families[1].Equations).To(HaveLen(3))
			Expect(d.Families[2].Equations).To(HaveLen(4))
			Expect(d.Equations()).To(HaveLen(10))
		})

		It("merges exactly the free symbols of the equations", func() {
			d, err := c.Build(deadbeat3())
			Expect(err).NotTo(HaveOccurred())

			free := map[int]bool{}
			for _, eq := range d.Equations() {
				for _, v := range eq.Vars() {
					free[v] = true
				}
			}
			Expect(d.Unknowns).To(HaveLen(len(free)))
			names := []string{}
			for _, p := range d.Unknowns {
				Expect(free).To(HaveKey(p.ID))
				names = append(names, p.Name())
			}
			Expect(names).To(Equal([]string{
				"Qzero1", "c", "Pzero1", "kbeta1", "kbeta2", "kbeta3", "alpha2", "alpha3",
			}))
		})

		It("returns kbeta followed by alpha without alpha1", func() {
			d, err := c.Build(deadbeat3())
			Expect(err).NotTo(HaveOccurred())
			names := []string{}
			for _, p := range d.Parameters {
				names = append(names, p.Name())
			}
			Expect(names).To(Equal([]string{"kbeta1", "kbeta2", "kbeta3", "alpha2", "alpha3"}))
		})

		It("forms Q and P", func() {
			d, err := c.Build(deadbeat3())
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Q.Format(d.Registry)).To(Equal("x^2 + x*alpha2 + alpha3"))
			Expect(d.P.Format(d.Registry)).To(Equal("x^2*kbeta1 + x*kbeta2 + kbeta3"))
		})

		It("derives the same equations by probing when the bound suffices", func() {
			basis, err := c.Build(deadbeat3())
			Expect(err).NotTo(HaveOccurred())
			probe, err := controller.New(controller.WithDerivation(equations.ModeProbe)).Build(deadbeat3())
			Expect(err).NotTo(HaveOccurred())

			be, pe := basis.Equations(), probe.Equations()
			Expect(pe).To(HaveLen(len(be)))
			for i := range be {
				Expect(pe[i].Equal(be[i])).To(BeTrue(), "equation %d", i)
			}
		})
	})

	Describe("Construct", func() {
		It("solves the third-order deadbeat example exactly", func() {
			d, err := c.Construct(ctx, deadbeat3())
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Solution.Empty()).To(BeFalse())

			first, ok := d.Solution.First()
			Expect(ok).To(BeTrue())
			Expect(first.AllNumeric(d.Parameters)).To(BeTrue())

			want := map[string]string{
				"kbeta1": "5/4",
				"kbeta2": "1/2",
				"kbeta3": "-3/4",
				"alpha2": "-1/4",
				"alpha3": "-3/4",
				"c":      "5/4",
				"Pzero1": "3/5",
				"Qzero1": "-3/4",
			}
			for name, v := range want {
				Expect(exactValue(first, byName(d, name))).To(Equal(v), name)
			}
		})

		It("solves the pole-placed PI controller", func() {
			d, err := c.Construct(ctx, controller.Structure{
				Order:           2,
				AdaptivityExtra: 1,
				PolePlacements:  []float64{0, 0},
			})
			Expect(err).NotTo(HaveOccurred())
			first, ok := d.Solution.First()
			Expect(ok).To(BeTrue())
			Expect(exactValue(first, byName(d, "kbeta1"))).To(Equal("2"))
			Expect(exactValue(first, byName(d, "kbeta2"))).To(Equal("-1"))
			Expect(exactValue(first, byName(d, "alpha2"))).To(Equal("-1"))
			Expect(exactValue(first, byName(d, "Pzero1"))).To(Equal("1/2"))
		})

		It("branches over irrational numerator zeros", func() {
			d, err := c.Construct(ctx, controller.Structure{
				Order:           3,
				AdaptivityExtra: 1,
				ErrorFilter:     1,
				PolePlacements:  []float64{0, 0, 0},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Solution.Branches).To(HaveLen(2))

			first, _ := d.Solution.First()
			Expect(first.AllNumeric(d.Parameters)).To(BeTrue())
			Expect(exactValue(first, byName(d, "kbeta1"))).To(Equal("1"))
			Expect(exactValue(first, byName(d, "kbeta3"))).To(Equal("-1"))
			Expect(exactValue(first, byName(d, "alpha3"))).To(Equal("-1"))

			z1, ok := first.Get(byName(d, "Pzero1")).Float()
			Expect(ok).To(BeTrue())
			z2, _ := first.Get(byName(d, "Pzero2")).Float()
			Expect(z1 + z2).To(BeNumerically("~", -1, 1e-9))
			Expect(z1 * z2).To(BeNumerically("~", -1, 1e-9))
			Expect(math.Abs(z1 - z2)).To(BeNumerically("~", math.Sqrt(5), 1e-9))
		})

		It("expresses a free pole through the controller parameters", func() {
			d, err := c.Construct(ctx, controller.Structure{
				Order:           2,
				AdaptivityExtra: 1,
				PolePlacements:  []float64{0},
			})
			Expect(err).NotTo(HaveOccurred())
			first, ok := d.Solution.First()
			Expect(ok).To(BeTrue())
			Expect(first.AllNumeric(d.Parameters)).To(BeFalse())
			Expect(exactValue(first, byName(d, "alpha2"))).To(Equal("-1"))
			Expect(exactValue(first, byName(d, "kbeta2"))).To(Equal("-1"))
			Expect(first.Get(byName(d, "kbeta1")).Kind()).To(Equal(solver.Unresolved))

			pole := first.Get(byName(d, "pole1"))
			Expect(pole.Kind()).To(Equal(solver.Symbolic))
			Expect(pole.Format(d.Registry)).To(Equal("-kbeta1 + 2"))
		})

		DescribeTable("keeps real parameters when auxiliary zeros are complex",
			func(s controller.Structure, want map[string]string, char []float64) {
				d, err := c.Construct(ctx, s)
				Expect(err).NotTo(HaveOccurred())
				Expect(d.Solution.Branches).To(HaveLen(1))

				first, _ := d.Solution.First()
				Expect(first.AllNumeric(d.Parameters)).To(BeTrue())
				for name, v := range want {
					Expect(exactValue(first, byName(d, name))).To(Equal(v), name)
				}
				for _, p := range d.Registry.Params() {
					if p.Role == symbolic.RolePZero {
						Expect(first.Get(p).Kind()).To(Equal(solver.Unresolved), p.Name())
					}
				}

				v, ok := report.Classify(d.Solution, d.Parameters, s.Order)
				Expect(ok).To(BeTrue())
				Expect(v.Inside).To(BeTrue())
				Expect(v.Coefficients).To(HaveLen(len(char)))
				for i := range char {
					Expect(v.Coefficients[i]).To(BeNumerically("~", char[i], 1e-12), "coefficient %d", i)
				}
			},
			Entry("fourth-order deadbeat with a step-size filter",
				controller.Structure{Order: 4, AdaptivityExtra: 2, StepsizeFilter: 1, PolePlacements: []float64{0, 0, 0, 0}},
				map[string]string{
					"kbeta1": "17/8", "kbeta2": "-3/8", "kbeta3": "-13/8", "kbeta4": "7/8",
					"alpha2": "-9/8", "alpha3": "-3/4", "alpha4": "7/8",
					"c": "17/8", "Qzero1": "-7/8",
				},
				[]float64{1, 0, 0, 0, 0}),
			Entry("third order with distinct placements",
				controller.Structure{Order: 3, AdaptivityExtra: 2, PolePlacements: []float64{0.2, 0.4, 0.6}},
				map[string]string{
					"kbeta1": "9/5", "kbeta2": "-64/25", "kbeta3": "119/125",
					"alpha2": "-2", "alpha3": "1",
				},
				[]float64{1, -1.2, 0.44, -0.048}),
		)

		It("places distinct poles where asked", func() {
			d, err := c.Construct(ctx, controller.Structure{
				Order:           3,
				AdaptivityExtra: 2,
				PolePlacements:  []float64{0.2, 0.4, 0.6},
			})
			Expect(err).NotTo(HaveOccurred())
			v, ok := report.Classify(d.Solution, d.Parameters, 3)
			Expect(ok).To(BeTrue())
			Expect(v.Zeros).To(HaveLen(3))
			for i, want := range []float64{0.2, 0.4, 0.6} {
				Expect(real(v.Zeros[i])).To(BeNumerically("~", want, 1e-9))
				Expect(imag(v.Zeros[i])).To(BeNumerically("~", 0, 1e-9))
			}
		})

		It("writes underdetermined parameters in terms of the free one", func() {
			d, err := c.Construct(ctx, controller.Structure{Order: 2, PolePlacements: []float64{0, 0}})
			Expect(err).NotTo(HaveOccurred())
			first, ok := d.Solution.First()
			Expect(ok).To(BeTrue())

			k1 := first.Get(byName(d, "kbeta1"))
			Expect(k1.Kind()).To(Equal(solver.Symbolic))
			Expect(k1.Format(d.Registry)).To(Equal("-alpha2 + 1"))
			k2 := first.Get(byName(d, "kbeta2"))
			Expect(k2.Kind()).To(Equal(solver.Symbolic))
			Expect(k2.Format(d.Registry)).To(Equal("alpha2"))
			Expect(first.Get(byName(d, "alpha2")).Kind()).To(Equal(solver.Unresolved))
		})

		It("does not let an unsolvable zero hide the other parameters", func() {
			d, err := c.Construct(ctx, controller.Structure{
				Order:           3,
				AdaptivityExtra: 1,
				PolePlacements:  []float64{0.3, 0.3, 0.3},
			})
			Expect(err).NotTo(HaveOccurred())
			first, ok := d.Solution.First()
			Expect(ok).To(BeTrue())
			for _, name := range []string{"kbeta1", "kbeta2", "kbeta3", "alpha2"} {
				Expect(first.Get(byName(d, name)).Kind()).To(Equal(solver.Symbolic), name)
			}
			Expect(first.Get(byName(d, "alpha3")).Kind()).To(Equal(solver.Unresolved))
		})

		It("drops branches that miss the equations", func() {
			d, err := c.Construct(ctx, deadbeat3())
			Expect(err).NotTo(HaveOccurred())
			good, _ := d.Solution.First()

			bad := solver.Assignment{}
			for id, v := range good {
				bad[id] = v
			}
			bad[byName(d, "kbeta1").ID] = solver.ExactValue(big.NewRat(1, 1))

			kept := c.Verify(d, []solver.Assignment{bad, good})
			Expect(kept).To(HaveLen(1))
			Expect(exactValue(kept[0], byName(d, "kbeta1"))).To(Equal("5/4"))
		})

		It("keeps exact rationals for fractional placements", func() {
			d, err := c.Construct(ctx, controller.Structure{
				Order:           2,
				AdaptivityExtra: 1,
				PolePlacements:  []float64{0.5, 0.5},
			})
			Expect(err).NotTo(HaveOccurred())
			first, ok := d.Solution.First()
			Expect(ok).To(BeTrue())
			r, exact := first.Get(byName(d, "kbeta2")).Rat()
			Expect(exact).To(BeTrue())
			Expect(r.Cmp(big.NewRat(-3, 4))).To(Equal(0))
		})

		It("reports cancellation as an error", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := c.Construct(cancelled, controller.Structure{
				Order:           3,
				AdaptivityExtra: 1,
				ErrorFilter:     1,
				PolePlacements:  []float64{0, 0, 0},
			})
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})
