// Package contin implements natural-parameter continuation: tracing the
// solution curve of F(u, lambda) = 0 by repeatedly nudging lambda forward,
// correcting with Newton's method, and adapting the step size to how hard
// the corrector had to work.
//
// Natural continuation moves lambda forward only and cannot pass turning
// points; that limitation is accepted here. No arclength variant and no
// bifurcation detection.
package contin

import (
	"fmt"

	"github.com/san-kum/contlab/internal/newton"
)

// Result holds everything a completed trace produced.
type Result struct {
	Branch Branch
	Stats  Stats
}

// Natural traces the branch of F(u, lambda) = 0 through (u0, lambda0).
//
// The corrector invariant: at the top of every continuation step the stored
// (u, lambda) pair is a converged root. It is established by the initial
// solve and preserved because the pair only advances together after a
// successful correction.
//
// The callback is invoked synchronously once per accepted step, including
// step 0 at lambda0, before the next step is predicted. A corrector failure
// at lambda0 is fatal; at any later step it halves the step size and
// retries from the last accepted point.
func Natural(problem Problem, u0 State, lambda0 float64, callback Callback, cfg Config) (*Result, error) {
	if err := validate(problem, cfg); err != nil {
		return nil, err
	}
	milestones, err := newMilestoneCursor(cfg.Milestones)
	if err != nil {
		return nil, err
	}
	if callback == nil {
		callback = func(int, float64, State) {}
	}

	res := &Result{}
	lambda := lambda0

	sol, err := correct(problem, u0, lambda, cfg)
	if err != nil {
		report(cfg, "no convergence for initial step at lambda=%g", lambda)
		return nil, fmt.Errorf("%w at lambda=%g: %w", ErrInitialSolve, lambda, err)
	}
	u := State(sol.U)
	if !u.IsValid() {
		return nil, fmt.Errorf("%w at lambda=%g", ErrInvalidState, lambda)
	}

	k := 0
	res.accept(Point{Step: k, Lambda: lambda, U: u.Clone(), NewtonIters: sol.Iterations, StepSize: cfg.InitialStepSize})
	callback(k, lambda, u)
	k++

	stepSize := cfg.InitialStepSize

	for {
		if k > cfg.MaxSteps {
			break
		}

		report(cfg, "step %d: lambda %.3e + %.3e -> %.3e", k, lambda, stepSize, lambda+stepSize)

		// Predictor
		trial := milestones.clamp(lambda + stepSize)
		guess := u
		if cfg.FirstOrderPredictor {
			guess = tangentGuess(problem, u, lambda, trial)
		}

		// Corrector
		sol, err := correct(problem, guess, trial, cfg)
		if err != nil {
			report(cfg, "no convergence for lambda=%g", trial)
			res.Stats.Rejected++
			stepSize /= 2
			if cfg.MinStepSize > 0 && stepSize < cfg.MinStepSize {
				res.Stats.FinalStepSize = stepSize
				res.Stats.FinalLambda = lambda
				return res, fmt.Errorf("%w: %.3e < %.3e near lambda=%g", ErrStepTooSmall, stepSize, cfg.MinStepSize, trial)
			}
			continue
		}

		u = State(sol.U)
		lambda = trial
		if !u.IsValid() {
			return res, fmt.Errorf("%w at lambda=%g", ErrInvalidState, lambda)
		}

		res.accept(Point{Step: k, Lambda: lambda, U: u.Clone(), NewtonIters: sol.Iterations, StepSize: stepSize})
		callback(k, lambda, u)
		k++

		if milestones.active() && lambda == milestones.current() {
			if milestones.advance() {
				break
			}
			// A clamped step says nothing about the natural step size,
			// so leave it alone.
			continue
		}

		stepSize = growStep(stepSize, sol.Iterations, cfg)
	}

	res.Stats.FinalStepSize = stepSize
	res.Stats.FinalLambda = lambda
	return res, nil
}

func (r *Result) accept(p Point) {
	r.Branch.Points = append(r.Branch.Points, p)
	r.Stats.Accepted++
	r.Stats.NewtonIters += p.NewtonIters
}

func correct(problem Problem, guess State, lambda float64, cfg Config) (*newton.Result, error) {
	var rep newton.Reporter
	if cfg.Report != nil {
		rep = func(k int, nrm float64) { cfg.Report("||F(u)|| = %e", nrm) }
	}
	return newton.Solve(
		func(u []float64) []float64 { return problem.Residual(u, lambda) },
		func(u, rhs []float64) []float64 { return problem.SolveJacobian(u, lambda, rhs) },
		func(r []float64) float64 { return problem.Norm(r) },
		guess,
		newton.Options{Tol: cfg.NewtonTol, MaxIter: cfg.MaxNewtonIters, Report: rep},
	)
}

// tangentGuess extrapolates the previous solution along the curve tangent:
// u + dlambda * J^{-1}(u, trial) (-dF/dlambda).
func tangentGuess(problem Problem, u State, lambda, trial float64) State {
	deriv := problem.(ParamDeriver).ResidualParamDeriv(u, trial)
	dudl := problem.SolveJacobian(u, trial, deriv.Scale(-1))
	return u.AXPY(trial-lambda, dudl)
}

// growStep enlarges the step after a cheap corrector run. The growth is
// quadratic in the unused fraction of the iteration budget. A budget of 1
// leaves no slack to measure, so it falls back to the fixed multiplier
// 1 + aggressiveness.
func growStep(stepSize float64, itersUsed int, cfg Config) float64 {
	slack := 1.0
	if cfg.MaxNewtonIters > 1 {
		slack = float64(cfg.MaxNewtonIters-itersUsed) / float64(cfg.MaxNewtonIters-1)
	}
	stepSize *= 1 + cfg.Aggressiveness*slack*slack
	if stepSize > cfg.MaxStepSize {
		stepSize = cfg.MaxStepSize
	}
	return stepSize
}

func validate(problem Problem, cfg Config) error {
	if cfg.InitialStepSize <= 0 {
		return fmt.Errorf("%w: initial step size must be positive, got %g", ErrBadConfig, cfg.InitialStepSize)
	}
	if cfg.MaxStepSize <= 0 {
		return fmt.Errorf("%w: max step size must be positive, got %g", ErrBadConfig, cfg.MaxStepSize)
	}
	if cfg.NewtonTol <= 0 {
		return fmt.Errorf("%w: newton tolerance must be positive, got %g", ErrBadConfig, cfg.NewtonTol)
	}
	if cfg.MaxNewtonIters < 1 {
		return fmt.Errorf("%w: newton iteration budget must be at least 1, got %d", ErrBadConfig, cfg.MaxNewtonIters)
	}
	if cfg.Aggressiveness < 0 {
		return fmt.Errorf("%w: aggressiveness must be nonnegative, got %g", ErrBadConfig, cfg.Aggressiveness)
	}
	if cfg.MaxSteps < 0 {
		return fmt.Errorf("%w: max steps must be nonnegative, got %d", ErrBadConfig, cfg.MaxSteps)
	}
	if cfg.FirstOrderPredictor {
		if _, ok := problem.(ParamDeriver); !ok {
			return fmt.Errorf("%w: first-order predictor needs a problem with ResidualParamDeriv", ErrBadConfig)
		}
	}
	return nil
}

func report(cfg Config, format string, args ...any) {
	if cfg.Report != nil {
		cfg.Report(format, args...)
	}
}
