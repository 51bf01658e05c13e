package contin

import "math"

// State is a solution vector on the continuation curve.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// AXPY returns s + a*x.
func (s State) AXPY(a float64, x State) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] + a*x[i]
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// Problem defines the parameterized system F(u, lambda) = 0 being traced.
// All methods are pure functions of their arguments; the driver imposes no
// state model on implementations.
type Problem interface {
	// Residual evaluates F(u, lambda).
	Residual(u State, lambda float64) State

	// SolveJacobian solves J(u, lambda) x = rhs. The solve is an oracle:
	// it may be an exact factorization or an approximate iterative solve.
	SolveJacobian(u State, lambda float64, rhs State) State

	// Norm maps a residual to the scalar the corrector converges on.
	Norm(r State) float64
}

// ParamDeriver is implemented by problems that can supply dF/dlambda.
// It is required only when the first-order predictor is enabled.
type ParamDeriver interface {
	ResidualParamDeriv(u State, lambda float64) State
}

// Tunable is implemented by problems with runtime-adjustable coefficients.
type Tunable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Callback receives every accepted continuation point, in order, exactly
// once per step. It runs synchronously: step N is reported before step
// N+1 is predicted. The state slice must not be mutated; copy it to keep it.
type Callback func(step int, lambda float64, u State)

// Config collects every continuation option explicitly; there are no
// hidden defaults inside the driver.
type Config struct {
	// InitialStepSize is the first lambda increment.
	InitialStepSize float64
	// MaxStepSize caps step growth.
	MaxStepSize float64
	// MinStepSize is the backoff floor. Halving below it aborts the
	// trace with ErrStepTooSmall. Zero disables the floor.
	MinStepSize float64
	// Aggressiveness scales step growth after cheap corrector runs.
	Aggressiveness float64
	// MaxNewtonIters is the corrector iteration budget per step.
	MaxNewtonIters int
	// NewtonTol is the corrector tolerance.
	NewtonTol float64
	// MaxSteps bounds the number of accepted continuation steps.
	MaxSteps int
	// FirstOrderPredictor extrapolates along the curve tangent instead
	// of reusing the previous solution as the initial guess.
	FirstOrderPredictor bool
	// Milestones are parameter values the trace must land on exactly.
	// Strictly increasing. Reaching the last one terminates the trace.
	Milestones []float64
	// Report, when set, receives per-iteration residual norms and
	// per-step transitions. Diagnostic only.
	Report ProgressFunc
}

// ProgressFunc receives diagnostic driver output.
type ProgressFunc func(format string, args ...any)

// DefaultConfig mirrors the conventional continuation settings.
func DefaultConfig() Config {
	return Config{
		InitialStepSize:     1e-1,
		MaxStepSize:         math.Inf(1),
		MinStepSize:         1e-14,
		Aggressiveness:      2.0,
		MaxNewtonIters:      5,
		NewtonTol:           1e-12,
		MaxSteps:            math.MaxInt,
		FirstOrderPredictor: true,
	}
}

// Point is one accepted continuation step.
type Point struct {
	Step        int
	Lambda      float64
	U           State
	NewtonIters int
	StepSize    float64
}

// Branch is the accepted-point history of a trace.
type Branch struct {
	Points []Point
}

func (b *Branch) Lambdas() []float64 {
	out := make([]float64, len(b.Points))
	for i, p := range b.Points {
		out[i] = p.Lambda
	}
	return out
}

func (b *Branch) Norms() []float64 {
	out := make([]float64, len(b.Points))
	for i, p := range b.Points {
		out[i] = p.U.Norm()
	}
	return out
}

// Stats summarizes a trace.
type Stats struct {
	Accepted      int
	Rejected      int
	NewtonIters   int
	FinalStepSize float64
	FinalLambda   float64
}
