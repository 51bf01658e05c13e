package problems

import (
	"math"
	"testing"

	"github.com/san-kum/contlab/internal/contin"
	"github.com/san-kum/contlab/internal/newton"
)

func TestBratuTrivialSolution(t *testing.T) {
	p := NewBratu(10)
	r := p.Residual(p.DefaultState(), 0.0)
	if r.Norm() != 0 {
		t.Errorf("u = 0 is not a root at lambda = 0: norm %g", r.Norm())
	}
}

func TestBratuJacobianSolve(t *testing.T) {
	// Verify the Thomas solve against the residual's own linearization:
	// J x = rhs should imply F(u + eps*x) - F(u) ~ eps*rhs.
	p := NewBratu(20)
	lambda := 1.0

	u := make(contin.State, p.N)
	for i := range u {
		x := float64(i+1) * p.h
		u[i] = 0.3 * x * (1 - x)
	}
	rhs := make(contin.State, p.N)
	for i := range rhs {
		rhs[i] = math.Sin(float64(i))
	}

	x := p.SolveJacobian(u, lambda, rhs)

	const eps = 1e-7
	f0 := p.Residual(u, lambda)
	f1 := p.Residual(u.AXPY(eps, x), lambda)

	for i := range rhs {
		got := (f1[i] - f0[i]) / eps
		if math.Abs(got-rhs[i]) > 1e-3*math.Max(1, math.Abs(rhs[i])) {
			t.Fatalf("component %d: J x = %g, want %g", i, got, rhs[i])
		}
	}
}

func TestBratuNewtonSolveAtFixedLambda(t *testing.T) {
	p := NewBratu(30)
	lambda := 1.0

	res, err := newton.Solve(
		func(u []float64) []float64 { return p.Residual(u, lambda) },
		func(u, rhs []float64) []float64 { return p.SolveJacobian(u, lambda, rhs) },
		func(r []float64) float64 { return p.Norm(r) },
		p.DefaultState(),
		newton.Options{Tol: 1e-10, MaxIter: 10},
	)
	if err != nil {
		t.Fatalf("newton failed: %v", err)
	}

	// The solution is positive, symmetric, and peaks mid-domain.
	u := contin.State(res.U)
	mid := p.N / 2
	for i, v := range u {
		if v < 0 {
			t.Errorf("u[%d] = %g negative", i, v)
		}
		if v > u[mid]+1e-8 {
			t.Errorf("u[%d] = %g exceeds midpoint %g", i, v, u[mid])
		}
	}
	for i := 0; i < p.N/2; i++ {
		j := p.N - 1 - i
		if math.Abs(u[i]-u[j]) > 1e-8 {
			t.Errorf("asymmetry at %d/%d: %g vs %g", i, j, u[i], u[j])
		}
	}
}

func TestBratuContinuationStallsAtFold(t *testing.T) {
	// Natural continuation cannot pass the fold near lambda = 3.514; with
	// a step floor configured the trace must stop just below it.
	p := NewBratu(30)
	cfg := contin.DefaultConfig()
	cfg.InitialStepSize = 0.5
	cfg.MaxStepSize = 0.5
	cfg.MinStepSize = 1e-6
	cfg.MaxSteps = 200
	cfg.NewtonTol = 1e-10

	res, err := contin.Natural(p, p.DefaultState(), 0.0, func(int, float64, contin.State) {}, cfg)
	if err == nil {
		t.Fatal("expected the trace to stall at the fold")
	}

	final := res.Stats.FinalLambda
	if final < 3.0 || final > 3.6 {
		t.Errorf("trace stopped at lambda = %g, expected just below the fold near 3.51", final)
	}
}
