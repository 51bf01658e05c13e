package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/contlab/internal/problems"
)

type Registry struct {
	problems map[string]func() problems.Model
}

func NewRegistry() *Registry {
	r := &Registry{
		problems: make(map[string]func() problems.Model),
	}

	r.problems["linear"] = func() problems.Model { return problems.NewLinear(1) }
	r.problems["fold"] = func() problems.Model { return problems.NewFold() }
	r.problems["pitchfork"] = func() problems.Model { return problems.NewPitchfork() }
	r.problems["bratu"] = func() problems.Model { return problems.NewBratu(50) }

	return r
}

func (r *Registry) Get(name string) (problems.Model, error) {
	fn, ok := r.problems[name]
	if !ok {
		return nil, fmt.Errorf("unknown problem: %s", name)
	}
	return fn(), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.problems))
	for name := range r.problems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
