package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Default run parameters: a 2048-frequency spectrum up to 3e19 rad/s
// observed over a narrow forward cone, limits sized for production
// trace batches.
const (
	DefaultOmegaMax = 3.0e19     // maximum angular frequency [1/s]
	DefaultThetaMax = 1.14594939 // maximum polar angle [deg]
	DefaultNOmega   = 2048       // frequency bins
	DefaultNTheta   = 120        // polar directions
	DefaultNPhi     = 2          // azimuthal directions
	DefaultNTrace   = 2000       // trace file cap per run
)

type Config struct {
	OmegaMax float64 `yaml:"omega_max"`
	ThetaMax float64 `yaml:"theta_max"` // degrees
	NOmega   int     `yaml:"n_omega"`
	NTheta   int     `yaml:"n_theta"`
	NPhi     int     `yaml:"n_phi"`
	NTrace   int     `yaml:"n_trace"`
	Workers  int     `yaml:"workers"` // 0 = one per CPU

	Source SourceConfig `yaml:"source"`
}

// SourceConfig selects a built-in trajectory generator for runs that
// do not read external trace files.
type SourceConfig struct {
	Model  string  `yaml:"model"`  // "dipole" or "undulator"
	B0     float64 `yaml:"b0"`     // field strength [T]
	Period float64 `yaml:"period"` // undulator period [m]
	P0     float64 `yaml:"p0"`     // initial momentum magnitude [kg m/s]
	Dt     float64 `yaml:"dt"`     // timestep [s]
	Steps  int     `yaml:"steps"`
}

func DefaultConfig() *Config {
	return &Config{
		OmegaMax: DefaultOmegaMax,
		ThetaMax: DefaultThetaMax,
		NOmega:   DefaultNOmega,
		NTheta:   DefaultNTheta,
		NPhi:     DefaultNPhi,
		NTrace:   DefaultNTrace,
		Source: SourceConfig{
			Model:  "undulator",
			B0:     0.8,
			Period: 0.02,
			P0:     2.7e-20,
			Dt:     1e-13,
			Steps:  4000,
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
	if err := cfg.Validate(); err != nil {
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

func (c *Config) Validate() error {
	if c.OmegaMax <= 0 {
		return fmt.Errorf("config: omega_max must be positive, got %g", c.OmegaMax)
	}
	if c.ThetaMax <= 0 || c.ThetaMax > 90 {
		return fmt.Errorf("config: theta_max must be in (0, 90] degrees, got %g", c.ThetaMax)
	}
	if c.NOmega < 1 || c.NTheta < 1 || c.NPhi < 1 {
		return fmt.Errorf("config: grid sizes must be at least 1")
	}
	if c.NTrace < 1 {
		return fmt.Errorf("config: n_trace must be at least 1")
	}
	return nil
}

// ThetaMaxRad returns the observation half-angle in radians.
func (c *Config) ThetaMaxRad() float64 {
	return c.ThetaMax * math.Pi / 180
}
