package contin

import "errors"

// Domain errors for continuation traces.
var (
	// ErrInitialSolve indicates the corrector failed at the starting
	// point. There is no fallback guess to back off to, so this is fatal.
	ErrInitialSolve = errors.New("contin: no convergence for initial point")

	// ErrStepTooSmall indicates backoff halved the step below the
	// configured floor.
	ErrStepTooSmall = errors.New("contin: step size below minimum")

	// ErrBadConfig indicates an invalid configuration value.
	ErrBadConfig = errors.New("contin: invalid configuration")

	// ErrBadMilestones indicates a milestone sequence that is not
	// strictly increasing.
	ErrBadMilestones = errors.New("contin: milestones must be strictly increasing")

	// ErrInvalidState indicates NaN or Inf in an accepted solution.
	ErrInvalidState = errors.New("contin: invalid state (NaN or Inf detected)")
)
