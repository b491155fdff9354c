package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/stepctl/internal/controller"
)

const (
	DefaultOrder           = 3
	DefaultAdaptivityExtra = 1
	DefaultStepsizeFilter  = 1
	DefaultErrorFilter     = 0
	DefaultDerivation      = "basis"
	DefaultMaxPairs        = 5000
	DefaultRootTolerance   = 1e-7
	DefaultNewtonIter      = 200
	DefaultNewtonTol       = 1e-12
	DefaultResponseSteps   = 40
	DefaultSweepFrom       = 0.0
	DefaultSweepTo         = 0.8
	DefaultSweepStep       = 0.2
	DefaultLogLevel        = "warn"
	DefaultLogFormat       = "console"
	DefaultTheme           = "default"
)

type Config struct {
	Controller ControllerConfig `yaml:"controller"`
	Derivation string           `yaml:"derivation"`
	Solver     SolverConfig     `yaml:"solver"`
	Response   ResponseConfig   `yaml:"response"`
	Sweep      SweepConfig      `yaml:"sweep"`
	Log        LogConfig        `yaml:"log"`
	Theme      string           `yaml:"theme"`
}

type ControllerConfig struct {
	Order           int       `yaml:"order"`
	AdaptivityExtra int       `yaml:"adaptivity_extra"`
	StepsizeFilter  int       `yaml:"stepsize_filter"`
	ErrorFilter     int       `yaml:"error_filter"`
	PolePlacements  []float64 `yaml:"pole_placements"`
}

type SolverConfig struct {
	MaxPairs         int     `yaml:"max_pairs"`
	RootTolerance    float64 `yaml:"root_tolerance"`
	NewtonIterations int     `yaml:"newton_iterations"`
	NewtonTolerance  float64 `yaml:"newton_tolerance"`
}

type ResponseConfig struct {
	Steps int `yaml:"steps"`
}

type SweepConfig struct {
	From    float64 `yaml:"from"`
	To      float64 `yaml:"to"`
	Step    float64 `yaml:"step"`
	Workers int     `yaml:"workers"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig is the third-order deadbeat controller with a first-order
// step-size filter.
func DefaultConfig() *Config {
	return &Config{
		Controller: ControllerConfig{
			Order:           DefaultOrder,
			AdaptivityExtra: DefaultAdaptivityExtra,
			StepsizeFilter:  DefaultStepsizeFilter,
			ErrorFilter:     DefaultErrorFilter,
			PolePlacements:  []float64{0, 0, 0},
		},
		Derivation: DefaultDerivation,
		Solver: SolverConfig{
			MaxPairs:         DefaultMaxPairs,
			RootTolerance:    DefaultRootTolerance,
			NewtonIterations: DefaultNewtonIter,
			NewtonTolerance:  DefaultNewtonTol,
		},
		Response: ResponseConfig{Steps: DefaultResponseSteps},
		Sweep: SweepConfig{
			From: DefaultSweepFrom,
			To:   DefaultSweepTo,
			Step: DefaultSweepStep,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Theme: DefaultTheme,
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

// Structure converts the controller section.
func (c *Config) Structure() controller.Structure {
	return controller.Structure{
		Order:           c.Controller.Order,
		AdaptivityExtra: c.Controller.AdaptivityExtra,
		StepsizeFilter:  c.Controller.StepsizeFilter,
		ErrorFilter:     c.Controller.ErrorFilter,
		PolePlacements:  append([]float64(nil), c.Controller.PolePlacements...),
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Controller.PolePlacements = append([]float64(nil), c.Controller.PolePlacements...)
	return &out
}
