package problems

import "github.com/san-kum/contlab/internal/contin"

// Model is a problem bundled with default starting data, so the registry
// can trace it without caller-supplied initial conditions.
type Model interface {
	contin.Problem
	DefaultState() contin.State
	DefaultLambda() float64
}

// Linear is F(u, lambda) = u - lambda*c. The branch is the straight line
// u = lambda*c and the Jacobian is the identity.
type Linear struct {
	C contin.State
}

func NewLinear(dim int) *Linear {
	c := make(contin.State, dim)
	for i := range c {
		c[i] = 1.0
	}
	return &Linear{C: c}
}

func (p *Linear) Residual(u contin.State, lambda float64) contin.State {
	r := make(contin.State, len(u))
	for i := range u {
		r[i] = u[i] - lambda*p.C[i]
	}
	return r
}

func (p *Linear) SolveJacobian(u contin.State, lambda float64, rhs contin.State) contin.State {
	return rhs.Clone()
}

func (p *Linear) Norm(r contin.State) float64 { return r.Norm() }

func (p *Linear) ResidualParamDeriv(u contin.State, lambda float64) contin.State {
	return p.C.Scale(-1)
}

func (p *Linear) DefaultState() contin.State { return make(contin.State, len(p.C)) }
func (p *Linear) DefaultLambda() float64     { return 0.0 }
