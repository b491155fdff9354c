package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/stepctl/internal/controller"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Controller.Order != 3 {
		t.Errorf("expected order 3, got %d", cfg.Controller.Order)
	}
	if len(cfg.Controller.PolePlacements) != 3 {
		t.Errorf("expected 3 placements, got %v", cfg.Controller.PolePlacements)
	}
	if err := cfg.Structure().Validate(); err != nil {
		t.Errorf("default structure invalid: %v", err)
	}
	if cfg.Solver.MaxPairs <= 0 {
		t.Error("max pairs should be positive")
	}
	if cfg.Solver.NewtonIterations <= 0 || cfg.Solver.NewtonTolerance <= 0 {
		t.Errorf("newton fallback disabled: %+v", cfg.Solver)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("error-filter")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Controller.ErrorFilter != 1 || cfg.Controller.StepsizeFilter != 0 {
		t.Errorf("unexpected filters %+v", cfg.Controller)
	}

	// callers may modify the copy freely
	cfg.Controller.PolePlacements[0] = 0.9
	if Presets["error-filter"].Controller.PolePlacements[0] != 0 {
		t.Error("preset was mutated through GetPreset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsAreValid(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("listed preset %q missing", name)
		}
		if err := cfg.Structure().Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets)+1 {
		t.Errorf("expected %d presets, got %d", len(Presets)+1, len(names))
	}
	if names[0] != "deadbeat3" {
		t.Errorf("expected sorted names, got %v", names)
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stepctl.yaml")
	cfg := GetPreset("pi-smooth")
	cfg.Log.Level = "debug"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Controller.Order != 2 || loaded.Controller.PolePlacements[1] != 0.5 {
		t.Errorf("unexpected controller %+v", loaded.Controller)
	}
	if loaded.Log.Level != "debug" {
		t.Errorf("expected debug log level, got %s", loaded.Log.Level)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "controller:\n  order: 2\n  adaptivity_extra: 1\n  stepsize_filter: 0\n  pole_placements: [0, 0]\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := controller.Structure{Order: 2, AdaptivityExtra: 1, PolePlacements: []float64{0, 0}}
	got := cfg.Structure()
	if got.Order != want.Order || got.StepsizeFilter != 0 || len(got.PolePlacements) != 2 {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if cfg.Solver.NewtonIterations != DefaultNewtonIter {
		t.Errorf("newton iterations lost: %+v", cfg.Solver)
	}
	if cfg.Derivation != DefaultDerivation || cfg.Response.Steps != DefaultResponseSteps {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
