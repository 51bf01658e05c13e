package problems

import (
	"fmt"
	"math"

	"github.com/san-kum/contlab/internal/contin"
)

// Pitchfork is the scalar problem F(u, lambda) = lambda*u - u^3 + Mu.
// A nonzero imperfection Mu breaks the symmetric pitchfork into a smooth
// branch that natural continuation can follow through lambda = 0.
type Pitchfork struct {
	Mu float64
}

func NewPitchfork() *Pitchfork {
	return &Pitchfork{Mu: 0.01}
}

func (p *Pitchfork) Residual(u contin.State, lambda float64) contin.State {
	return contin.State{lambda*u[0] - u[0]*u[0]*u[0] + p.Mu}
}

func (p *Pitchfork) SolveJacobian(u contin.State, lambda float64, rhs contin.State) contin.State {
	return contin.State{rhs[0] / (lambda - 3*u[0]*u[0])}
}

func (p *Pitchfork) Norm(r contin.State) float64 { return math.Abs(r[0]) }

func (p *Pitchfork) ResidualParamDeriv(u contin.State, lambda float64) contin.State {
	return contin.State{u[0]}
}

// DefaultState starts on the stable branch for DefaultLambda.
func (p *Pitchfork) DefaultState() contin.State { return contin.State{math.Cbrt(p.Mu)} }
func (p *Pitchfork) DefaultLambda() float64     { return 0.0 }

func (p *Pitchfork) GetParams() map[string]float64 {
	return map[string]float64{"mu": p.Mu}
}

func (p *Pitchfork) SetParam(name string, value float64) error {
	switch name {
	case "mu":
		p.Mu = value
	default:
		return fmt.Errorf("pitchfork: unknown parameter %q", name)
	}
	return nil
}
