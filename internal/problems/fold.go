package problems

import (
	"fmt"
	"math"

	"github.com/san-kum/contlab/internal/contin"
)

// Fold is the scalar problem F(u, lambda) = u^2 + lambda - A. The upper
// branch u = sqrt(A - lambda) turns around at lambda = A, where the
// Jacobian 2u degenerates. Useful for exercising step backoff: natural
// continuation stalls against the fold with ever-smaller steps.
type Fold struct {
	A float64
}

func NewFold() *Fold {
	return &Fold{A: 1.0}
}

func (p *Fold) Residual(u contin.State, lambda float64) contin.State {
	return contin.State{u[0]*u[0] + lambda - p.A}
}

func (p *Fold) SolveJacobian(u contin.State, lambda float64, rhs contin.State) contin.State {
	return contin.State{rhs[0] / (2 * u[0])}
}

func (p *Fold) Norm(r contin.State) float64 { return math.Abs(r[0]) }

func (p *Fold) ResidualParamDeriv(u contin.State, lambda float64) contin.State {
	return contin.State{1.0}
}

func (p *Fold) DefaultState() contin.State { return contin.State{math.Sqrt(p.A)} }
func (p *Fold) DefaultLambda() float64     { return 0.0 }

func (p *Fold) GetParams() map[string]float64 {
	return map[string]float64{"a": p.A}
}

func (p *Fold) SetParam(name string, value float64) error {
	switch name {
	case "a":
		p.A = value
	default:
		return fmt.Errorf("fold: unknown parameter %q", name)
	}
	return nil
}
