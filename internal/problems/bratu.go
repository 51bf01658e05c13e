package problems

import (
	"fmt"
	"math"

	"github.com/san-kum/contlab/internal/contin"
)

// Bratu is the 1-D Gelfand-Bratu problem
//
//	u'' + lambda*exp(u) = 0,  u(0) = u(1) = 0
//
// discretized with second-order central differences on N interior grid
// points. The lower branch exists up to the fold near lambda = 3.514; the
// standard nontrivial target for natural continuation.
type Bratu struct {
	N int
	h float64
}

func NewBratu(n int) *Bratu {
	return &Bratu{N: n, h: 1.0 / float64(n+1)}
}

func (p *Bratu) Residual(u contin.State, lambda float64) contin.State {
	r := make(contin.State, p.N)
	h2 := p.h * p.h
	for i := 0; i < p.N; i++ {
		left, right := 0.0, 0.0
		if i > 0 {
			left = u[i-1]
		}
		if i < p.N-1 {
			right = u[i+1]
		}
		r[i] = (left-2*u[i]+right)/h2 + lambda*math.Exp(u[i])
	}
	return r
}

// SolveJacobian solves the tridiagonal linearized system with the Thomas
// algorithm. The diagonal is -2/h^2 + lambda*exp(u_i), the off-diagonals
// are 1/h^2.
func (p *Bratu) SolveJacobian(u contin.State, lambda float64, rhs contin.State) contin.State {
	n := p.N
	h2 := p.h * p.h
	off := 1.0 / h2

	diag := make([]float64, n)
	for i := 0; i < n; i++ {
		diag[i] = -2.0/h2 + lambda*math.Exp(u[i])
	}

	// Forward sweep.
	cPrime := make([]float64, n)
	dPrime := make([]float64, n)
	cPrime[0] = off / diag[0]
	dPrime[0] = rhs[0] / diag[0]
	for i := 1; i < n; i++ {
		denom := diag[i] - off*cPrime[i-1]
		if i < n-1 {
			cPrime[i] = off / denom
		}
		dPrime[i] = (rhs[i] - off*dPrime[i-1]) / denom
	}

	// Back substitution.
	x := make(contin.State, n)
	x[n-1] = dPrime[n-1]
	for i := n - 2; i >= 0; i-- {
		x[i] = dPrime[i] - cPrime[i]*x[i+1]
	}
	return x
}

func (p *Bratu) Norm(r contin.State) float64 { return r.Norm() }

func (p *Bratu) ResidualParamDeriv(u contin.State, lambda float64) contin.State {
	d := make(contin.State, p.N)
	for i := range d {
		d[i] = math.Exp(u[i])
	}
	return d
}

// DefaultState is the trivial solution at lambda = 0.
func (p *Bratu) DefaultState() contin.State { return make(contin.State, p.N) }
func (p *Bratu) DefaultLambda() float64     { return 0.0 }

func (p *Bratu) GetParams() map[string]float64 {
	return map[string]float64{"n": float64(p.N)}
}

func (p *Bratu) SetParam(name string, value float64) error {
	switch name {
	case "n":
		if value < 1 {
			return fmt.Errorf("bratu: grid size must be positive, got %g", value)
		}
		p.N = int(value)
		p.h = 1.0 / float64(p.N+1)
	default:
		return fmt.Errorf("bratu: unknown parameter %q", name)
	}
	return nil
}
