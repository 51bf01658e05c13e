package experiment

import (
	"fmt"

	"github.com/san-kum/contlab/internal/contin"
	"github.com/san-kum/contlab/internal/problems"
)

// Config names a problem and the continuation settings used to trace it.
type Config struct {
	Problem      string
	Params       map[string]float64
	Lambda0      *float64
	InitState    []float64
	Continuation contin.Config
}

// Experiment binds a configured problem to the continuation driver and
// collects the traced branch.
type Experiment struct {
	cfg     Config
	problem problems.Model
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(p problems.Model) error {
	if tunable, ok := p.(contin.Tunable); ok {
		for name, value := range e.cfg.Params {
			if err := tunable.SetParam(name, value); err != nil {
				return err
			}
		}
	} else if len(e.cfg.Params) > 0 {
		return fmt.Errorf("problem %s has no tunable parameters", e.cfg.Problem)
	}
	e.problem = p
	return nil
}

// Run traces the branch, forwarding each accepted point to the observer
// when one is given.
func (e *Experiment) Run(observer contin.Callback) (*contin.Result, error) {
	if e.problem == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	u0 := e.problem.DefaultState()
	if e.cfg.InitState != nil {
		u0 = contin.State(e.cfg.InitState).Clone()
	}
	lambda0 := e.problem.DefaultLambda()
	if e.cfg.Lambda0 != nil {
		lambda0 = *e.cfg.Lambda0
	}

	cb := observer
	if cb == nil {
		cb = func(int, float64, contin.State) {}
	}

	return contin.Natural(e.problem, u0, lambda0, cb, e.cfg.Continuation)
}

// Problem returns the configured problem instance.
func (e *Experiment) Problem() problems.Model { return e.problem }
