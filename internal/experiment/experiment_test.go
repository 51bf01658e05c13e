package experiment_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/contlab/internal/contin"
	"github.com/san-kum/contlab/internal/experiment"
)

func traceConfig() contin.Config {
	cfg := contin.DefaultConfig()
	cfg.InitialStepSize = 0.1
	cfg.MaxStepSize = 0.25
	cfg.MaxSteps = 20
	return cfg
}

var _ = Describe("Registry", func() {
	It("lists the built-in problems", func() {
		r := experiment.NewRegistry()
		Expect(r.List()).To(Equal([]string{"bratu", "fold", "linear", "pitchfork"}))
	})

	It("rejects unknown problem names", func() {
		r := experiment.NewRegistry()
		_, err := r.Get("lorenz")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Experiment", func() {
	var registry *experiment.Registry

	BeforeEach(func() {
		registry = experiment.NewRegistry()
	})

	It("traces the linear branch u = lambda", func() {
		exp := experiment.New(experiment.Config{Problem: "linear", Continuation: traceConfig()})
		p, err := registry.Get("linear")
		Expect(err).NotTo(HaveOccurred())
		Expect(exp.Setup(p)).To(Succeed())

		res, err := exp.Run(func(k int, lambda float64, u contin.State) {
			Expect(u[0]).To(BeNumerically("~", lambda, 1e-10))
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Stats.Accepted).To(Equal(21))
		Expect(res.Stats.Rejected).To(BeZero())
	})

	It("lands exactly on every milestone before passing it", func() {
		cfg := traceConfig()
		cfg.InitialStepSize = 0.3
		cfg.MaxSteps = 100
		cfg.Milestones = []float64{0.5, 1.0}

		exp := experiment.New(experiment.Config{Problem: "linear", Continuation: cfg})
		p, _ := registry.Get("linear")
		Expect(exp.Setup(p)).To(Succeed())

		var lambdas []float64
		res, err := exp.Run(func(k int, lambda float64, u contin.State) {
			lambdas = append(lambdas, lambda)
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(lambdas).To(ContainElement(0.5))
		for _, l := range lambdas {
			if l == 0.5 {
				break
			}
			Expect(l).To(BeNumerically("<", 0.5), "0.5 must be hit before any larger lambda")
		}
		Expect(lambdas[len(lambdas)-1]).To(Equal(1.0))
		Expect(res.Stats.FinalLambda).To(Equal(1.0))
	})

	It("is deterministic across identical runs", func() {
		run := func() []float64 {
			exp := experiment.New(experiment.Config{Problem: "pitchfork", Continuation: traceConfig()})
			p, _ := registry.Get("pitchfork")
			Expect(exp.Setup(p)).To(Succeed())

			var out []float64
			_, err := exp.Run(func(k int, lambda float64, u contin.State) {
				out = append(out, lambda, u[0])
			})
			Expect(err).NotTo(HaveOccurred())
			return out
		}
		Expect(run()).To(Equal(run()))
	})

	It("applies tunable parameter overrides", func() {
		exp := experiment.New(experiment.Config{
			Problem:      "fold",
			Params:       map[string]float64{"a": 4.0},
			Continuation: traceConfig(),
		})
		p, _ := registry.Get("fold")
		Expect(exp.Setup(p)).To(Succeed())
		Expect(p.(contin.Tunable).GetParams()).To(HaveKeyWithValue("a", 4.0))
	})

	It("rejects overrides for unknown parameters", func() {
		exp := experiment.New(experiment.Config{
			Problem:      "fold",
			Params:       map[string]float64{"b": 1.0},
			Continuation: traceConfig(),
		})
		p, _ := registry.Get("fold")
		Expect(exp.Setup(p)).NotTo(Succeed())
	})

	It("stalls against a fold instead of passing it", func() {
		cfg := traceConfig()
		cfg.InitialStepSize = 0.2
		cfg.MaxStepSize = 0.2
		cfg.MinStepSize = 1e-8
		cfg.MaxSteps = 500

		exp := experiment.New(experiment.Config{Problem: "fold", Continuation: cfg})
		p, _ := registry.Get("fold")
		Expect(exp.Setup(p)).To(Succeed())

		res, err := exp.Run(nil)
		Expect(err).To(MatchError(contin.ErrStepTooSmall))
		Expect(res.Stats.FinalLambda).To(BeNumerically("<=", 1.0))
		Expect(res.Stats.Rejected).To(BeNumerically(">", 0))
	})
})
