package config

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/contlab/internal/contin"
)

const (
	DefaultStepSize       = 0.1
	DefaultAggressiveness = 2.0
	DefaultMaxNewtonIters = 5
	DefaultNewtonTol      = 1e-12
	DefaultMinStepSize    = 1e-14
	DefaultPredictor      = "first"
)

type Config struct {
	Problem      string             `yaml:"problem"`
	Lambda0      float64            `yaml:"lambda0"`
	InitState    []float64          `yaml:"init_state"`
	Params       map[string]float64 `yaml:"params"`
	Continuation Continuation       `yaml:"continuation"`
}

type Continuation struct {
	StepSize       float64   `yaml:"step_size"`
	MaxStepSize    float64   `yaml:"max_step_size"` // 0 means unlimited
	MinStepSize    float64   `yaml:"min_step_size"` // backoff floor
	Aggressiveness float64   `yaml:"aggressiveness"`
	MaxNewtonIters int       `yaml:"max_newton_iters"`
	NewtonTol      float64   `yaml:"newton_tol"`
	MaxSteps       int       `yaml:"max_steps"` // 0 means unlimited
	Predictor      string    `yaml:"predictor"` // "zero" or "first"
	Milestones     []float64 `yaml:"milestones"`
}

func DefaultConfig() *Config {
	return &Config{
		Problem: "bratu",
		Continuation: Continuation{
			StepSize:       DefaultStepSize,
			MinStepSize:    DefaultMinStepSize,
			Aggressiveness: DefaultAggressiveness,
			MaxNewtonIters: DefaultMaxNewtonIters,
			NewtonTol:      DefaultNewtonTol,
			MaxSteps:       100,
			Predictor:      DefaultPredictor,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Driver translates the file-level settings into the driver's explicit
// configuration. Zero-valued limits widen to "unlimited".
func (c *Continuation) Driver() contin.Config {
	out := contin.Config{
		InitialStepSize:     c.StepSize,
		MaxStepSize:         c.MaxStepSize,
		MinStepSize:         c.MinStepSize,
		Aggressiveness:      c.Aggressiveness,
		MaxNewtonIters:      c.MaxNewtonIters,
		NewtonTol:           c.NewtonTol,
		MaxSteps:            c.MaxSteps,
		FirstOrderPredictor: c.Predictor != "zero",
		Milestones:          c.Milestones,
	}
	if out.MaxStepSize == 0 {
		out.MaxStepSize = math.Inf(1)
	}
	if out.MaxSteps == 0 {
		out.MaxSteps = math.MaxInt
	}
	return out
}
