package config

import "sort"

var Presets = map[string]map[string]*Config{
	"bratu": {
		"lower": {
			Problem: "bratu",
			Continuation: Continuation{
				StepSize: 0.1, MaxStepSize: 0.25, MinStepSize: 1e-8,
				Aggressiveness: 2.0, MaxNewtonIters: 8, NewtonTol: 1e-10,
				MaxSteps: 200, Predictor: "first",
			},
		},
		"to-fold": {
			Problem: "bratu",
			Continuation: Continuation{
				StepSize: 0.5, MaxStepSize: 0.5, MinStepSize: 1e-6,
				Aggressiveness: 2.0, MaxNewtonIters: 5, NewtonTol: 1e-10,
				MaxSteps: 500, Predictor: "first",
			},
		},
	},
	"fold": {
		"stall": {
			Problem: "fold",
			Continuation: Continuation{
				StepSize: 0.2, MaxStepSize: 0.2, MinStepSize: 1e-8,
				Aggressiveness: 0.0, MaxNewtonIters: 5, NewtonTol: 1e-12,
				MaxSteps: 500, Predictor: "first",
			},
		},
	},
	"pitchfork": {
		"imperfect": {
			Problem: "pitchfork",
			Params:  map[string]float64{"mu": 0.01},
			Continuation: Continuation{
				StepSize: 0.05, MaxStepSize: 0.1, MinStepSize: 1e-10,
				Aggressiveness: 2.0, MaxNewtonIters: 5, NewtonTol: 1e-12,
				MaxSteps: 60, Predictor: "first",
			},
		},
	},
	"linear": {
		"unit": {
			Problem: "linear",
			Continuation: Continuation{
				StepSize: 0.1, MaxStepSize: 0.25,
				Aggressiveness: 2.0, MaxNewtonIters: 5, NewtonTol: 1e-12,
				MaxSteps: 20, Predictor: "zero",
			},
		},
		"setpoints": {
			Problem: "linear",
			Continuation: Continuation{
				StepSize: 0.3, MaxStepSize: 0.3,
				Aggressiveness: 2.0, MaxNewtonIters: 5, NewtonTol: 1e-12,
				MaxSteps: 100, Predictor: "zero",
				Milestones: []float64{0.5, 1.0},
			},
		},
	},
}

func GetPreset(problem, preset string) *Config {
	problemPresets, ok := Presets[problem]
	if !ok {
		return nil
	}
	cfg, ok := problemPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(problem string) []string {
	problemPresets, ok := Presets[problem]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(problemPresets))
	for name := range problemPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
