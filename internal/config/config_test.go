package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Problem != "bratu" {
		t.Errorf("expected problem bratu, got %s", cfg.Problem)
	}
	if cfg.Continuation.StepSize <= 0 {
		t.Error("step size should be positive")
	}
	if cfg.Continuation.NewtonTol <= 0 {
		t.Error("newton tolerance should be positive")
	}
}

func TestDriverWidensZeroLimits(t *testing.T) {
	c := Continuation{
		StepSize:       0.1,
		Aggressiveness: 2.0,
		MaxNewtonIters: 5,
		NewtonTol:      1e-12,
		Predictor:      "first",
	}
	drv := c.Driver()

	if !math.IsInf(drv.MaxStepSize, 1) {
		t.Errorf("zero max step size should widen to +Inf, got %g", drv.MaxStepSize)
	}
	if drv.MaxSteps != math.MaxInt {
		t.Errorf("zero max steps should widen to MaxInt, got %d", drv.MaxSteps)
	}
	if !drv.FirstOrderPredictor {
		t.Error("predictor 'first' should enable the tangent predictor")
	}

	c.Predictor = "zero"
	if c.Driver().FirstOrderPredictor {
		t.Error("predictor 'zero' should disable the tangent predictor")
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Problem = "fold"
	cfg.Params = map[string]float64{"a": 2.0}
	cfg.Continuation.Milestones = []float64{0.5, 1.0}

	path := filepath.Join(t.TempDir(), "trace.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Problem != "fold" {
		t.Errorf("problem: got %s", loaded.Problem)
	}
	if loaded.Params["a"] != 2.0 {
		t.Errorf("params: got %v", loaded.Params)
	}
	if len(loaded.Continuation.Milestones) != 2 {
		t.Errorf("milestones: got %v", loaded.Continuation.Milestones)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("bratu", "to-fold")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Continuation.StepSize != 0.5 {
		t.Errorf("expected step size 0.5, got %f", cfg.Continuation.StepSize)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("bratu", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "lower"); cfg != nil {
		t.Error("expected nil for nonexistent problem")
	}
}

func TestListPresets(t *testing.T) {
	if presets := ListPresets("linear"); len(presets) == 0 {
		t.Error("expected presets for linear")
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent problem")
	}
}
