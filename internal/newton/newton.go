// Package newton implements a damped-free Newton iteration for vector
// root-finding. The linear solve is supplied by the caller as an oracle,
// so the package never sees a Jacobian matrix; an approximate or iterative
// solve works as well as an exact factorization.
package newton

import "fmt"

// ResidualFunc evaluates F(u).
type ResidualFunc func(u []float64) []float64

// LinearSolveFunc solves J(u) x = rhs at the current iterate.
type LinearSolveFunc func(u, rhs []float64) []float64

// NormFunc maps a residual to a nonnegative convergence measure.
type NormFunc func(r []float64) float64

// Reporter receives the residual norm before each convergence check.
// It is diagnostic only.
type Reporter func(iteration int, norm float64)

// Options controls a single solve.
type Options struct {
	Tol     float64
	MaxIter int
	Report  Reporter
}

// Result is a successful solve.
type Result struct {
	U []float64
	// Iterations is the exact number of corrections applied. The first
	// convergence check happens before any correction, so a converged
	// starting point reports 0.
	Iterations int
}

// ConvergenceError reports an exhausted iteration budget. It is expected
// and recoverable: the continuation driver inspects it to back off.
type ConvergenceError struct {
	Iterations int
	Norm       float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("newton: no convergence after %d iterations (residual norm %.3e)", e.Iterations, e.Norm)
}

// Solve drives the residual to zero starting from u0. u0 is copied, never
// mutated. On success the returned Result owns its state vector.
func Solve(f ResidualFunc, linSolve LinearSolveFunc, norm NormFunc, u0 []float64, opts Options) (*Result, error) {
	u := make([]float64, len(u0))
	copy(u, u0)

	fu := f(u)
	nrm := norm(fu)
	if opts.Report != nil {
		opts.Report(0, nrm)
	}

	// NaN compares false against the tolerance, so the loop condition must
	// express "not converged" rather than "norm too large". A NaN residual
	// then burns the budget and fails instead of passing as converged.
	k := 0
	for !(nrm < opts.Tol) {
		if k >= opts.MaxIter {
			return nil, &ConvergenceError{Iterations: k, Norm: nrm}
		}

		rhs := make([]float64, len(fu))
		for i, v := range fu {
			rhs[i] = -v
		}
		du := linSolve(u, rhs)
		for i := range u {
			u[i] += du[i]
		}

		fu = f(u)
		nrm = norm(fu)
		k++
		if opts.Report != nil {
			opts.Report(k, nrm)
		}
	}

	return &Result{U: u, Iterations: k}, nil
}
