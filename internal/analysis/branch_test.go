package analysis

import (
	"strings"
	"testing"

	"github.com/san-kum/contlab/internal/contin"
)

func branchWithSteps(stepSizes []float64) *contin.Branch {
	b := &contin.Branch{}
	lambda := 0.0
	for i, s := range stepSizes {
		lambda += s
		b.Points = append(b.Points, contin.Point{
			Step:     i,
			Lambda:   lambda,
			U:        contin.State{lambda},
			StepSize: s,
		})
	}
	return b
}

func TestStepCollapse(t *testing.T) {
	healthy := branchWithSteps([]float64{0.1, 0.2, 0.25, 0.25})
	if collapsed, _ := StepCollapse(healthy); collapsed {
		t.Error("healthy branch reported as collapsed")
	}

	stalled := branchWithSteps([]float64{0.1, 0.2, 0.1, 0.05, 0.01, 0.001, 1e-5})
	collapsed, ratio := StepCollapse(stalled)
	if !collapsed {
		t.Error("stalled branch not reported as collapsed")
	}
	if ratio > 1.0/64.0 {
		t.Errorf("ratio %g not collapsed", ratio)
	}
}

func TestTurningPointEstimate(t *testing.T) {
	stalled := branchWithSteps([]float64{0.2, 0.2, 0.1, 0.01, 1e-6})
	lambda, ok := TurningPointEstimate(stalled)
	if !ok {
		t.Fatal("expected a turning point estimate")
	}
	last := stalled.Points[len(stalled.Points)-1].Lambda
	if lambda < last {
		t.Errorf("estimate %g below last accepted lambda %g", lambda, last)
	}

	if _, ok := TurningPointEstimate(branchWithSteps([]float64{0.1, 0.1})); ok {
		t.Error("estimate produced for a healthy branch")
	}
}

func TestSlope(t *testing.T) {
	// ||u|| = 2*lambda has slope 2 everywhere.
	b := &contin.Branch{}
	for i := 0; i < 5; i++ {
		l := 0.1 * float64(i)
		b.Points = append(b.Points, contin.Point{Step: i, Lambda: l, U: contin.State{2 * l}})
	}
	if got := Slope(b); got < 1.99 || got > 2.01 {
		t.Errorf("slope: got %g, want 2", got)
	}

	if got := Slope(&contin.Branch{}); got != 0 {
		t.Errorf("empty branch slope: got %g", got)
	}
}

func TestBranchToASCII(t *testing.T) {
	b := branchWithSteps([]float64{0.1, 0.1, 0.1, 0.1})
	out := BranchToASCII(b, 40, 10)

	if out == "" {
		t.Fatal("empty canvas")
	}
	if !strings.Contains(out, "*") {
		t.Error("no points plotted")
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Errorf("expected 10 rows, got %d", len(lines))
	}

	if got := BranchToASCII(&contin.Branch{}, 40, 10); got != "" {
		t.Errorf("empty branch should render nothing, got %q", got)
	}
}
