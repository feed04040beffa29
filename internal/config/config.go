package config

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/resolventdk/gosph/internal/body"
)

const (
	DefaultSteps          = 500
	DefaultRecordEvery    = 10
	DefaultSpacing        = 0.05
	DefaultRho0           = 1000.0
	DefaultSoundSpeed     = 10.0
	DefaultSmoothingRatio = 1.3
	DefaultCFL            = 0.25
	DefaultInflowVelocity = 1.0
	DefaultBufferWidth    = 4
)

type Config struct {
	Case        string       `yaml:"case"`
	Steps       int          `yaml:"steps"`
	RecordEvery int          `yaml:"record_every"`
	Workers     int          `yaml:"workers"`
	Seed        int64        `yaml:"seed"`
	Output      string       `yaml:"output"`
	Reload      string       `yaml:"reload"`
	Domain      DomainConfig `yaml:"domain"`
	Fluid       FluidConfig  `yaml:"fluid"`
	Inflow      InflowConfig `yaml:"inflow"`
}

type DomainConfig struct {
	Lower   []float64 `yaml:"lower"`
	Upper   []float64 `yaml:"upper"`
	Spacing float64   `yaml:"spacing"`
}

type FluidConfig struct {
	Rho0           float64   `yaml:"rho0"`
	SoundSpeed     float64   `yaml:"sound_speed"`
	SmoothingRatio float64   `yaml:"smoothing_ratio"`
	CFL            float64   `yaml:"cfl"`
	Gravity        []float64 `yaml:"gravity"`
}

type InflowConfig struct {
	Velocity    float64 `yaml:"velocity"`
	BufferWidth int     `yaml:"buffer_width"`
}

func DefaultConfig() *Config {
	return &Config{
		Case:        "channel",
		Steps:       DefaultSteps,
		RecordEvery: DefaultRecordEvery,
		Seed:        42,
		Output:      "runs",
		Domain: DomainConfig{
			Lower:   []float64{0, 0},
			Upper:   []float64{4, 1},
			Spacing: DefaultSpacing,
		},
		Fluid: FluidConfig{
			Rho0:           DefaultRho0,
			SoundSpeed:     DefaultSoundSpeed,
			SmoothingRatio: DefaultSmoothingRatio,
			CFL:            DefaultCFL,
			Gravity:        []float64{0, 0},
		},
		Inflow: InflowConfig{
			Velocity:    DefaultInflowVelocity,
			BufferWidth: DefaultBufferWidth,
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

// Validate rejects a config the cases could not build a system from.
func (c *Config) Validate() error {
	if c.Case == "" {
		return &body.ConfigError{Field: "case", Detail: "empty"}
	}
	if c.Steps <= 0 {
		return &body.ConfigError{Field: "steps", Detail: fmt.Sprintf("got %d, want positive", c.Steps)}
	}
	if c.RecordEvery <= 0 {
		return &body.ConfigError{Field: "record_every", Detail: fmt.Sprintf("got %d, want positive", c.RecordEvery)}
	}
	if c.Workers < 0 {
		return &body.ConfigError{Field: "workers", Detail: fmt.Sprintf("got %d, want zero or positive", c.Workers)}
	}

	if len(c.Domain.Lower) != 2 {
		return &body.ConfigError{Field: "domain.lower", Detail: fmt.Sprintf("got %d components, want 2", len(c.Domain.Lower))}
	}
	if len(c.Domain.Upper) != 2 {
		return &body.ConfigError{Field: "domain.upper", Detail: fmt.Sprintf("got %d components, want 2", len(c.Domain.Upper))}
	}
	for axis := 0; axis < 2; axis++ {
		if !(c.Domain.Upper[axis] > c.Domain.Lower[axis]) {
			return &body.ConfigError{Field: "domain", Detail: "upper bound not above lower bound"}
		}
	}
	if c.Domain.Spacing <= 0 {
		return &body.ConfigError{Field: "domain.spacing", Detail: fmt.Sprintf("got %v, want positive", c.Domain.Spacing)}
	}

	if c.Fluid.Rho0 <= 0 {
		return &body.ConfigError{Field: "fluid.rho0", Detail: fmt.Sprintf("got %v, want positive", c.Fluid.Rho0)}
	}
	if c.Fluid.SoundSpeed <= 0 {
		return &body.ConfigError{Field: "fluid.sound_speed", Detail: fmt.Sprintf("got %v, want positive", c.Fluid.SoundSpeed)}
	}
	if c.Fluid.SmoothingRatio < 1 {
		return &body.ConfigError{Field: "fluid.smoothing_ratio", Detail: fmt.Sprintf("got %v, want at least 1", c.Fluid.SmoothingRatio)}
	}
	if c.Fluid.CFL <= 0 || c.Fluid.CFL > 1 {
		return &body.ConfigError{Field: "fluid.cfl", Detail: fmt.Sprintf("got %v, want in (0, 1]", c.Fluid.CFL)}
	}
	if len(c.Fluid.Gravity) != 0 && len(c.Fluid.Gravity) != 2 {
		return &body.ConfigError{Field: "fluid.gravity", Detail: fmt.Sprintf("got %d components, want 2", len(c.Fluid.Gravity))}
	}

	if c.Inflow.BufferWidth < 1 {
		return &body.ConfigError{Field: "inflow.buffer_width", Detail: fmt.Sprintf("got %d, want at least 1", c.Inflow.BufferWidth)}
	}

	return nil
}

// vector accessors assume Validate passed

func (c *Config) LowerVec() r2.Vec {
	return r2.Vec{X: c.Domain.Lower[0], Y: c.Domain.Lower[1]}
}

func (c *Config) UpperVec() r2.Vec {
	return r2.Vec{X: c.Domain.Upper[0], Y: c.Domain.Upper[1]}
}

func (c *Config) GravityVec() r2.Vec {
	if len(c.Fluid.Gravity) != 2 {
		return r2.Vec{}
	}
	return r2.Vec{X: c.Fluid.Gravity[0], Y: c.Fluid.Gravity[1]}
}

// SmoothingLength is the kernel length the spacing and ratio imply.
func (c *Config) SmoothingLength() float64 {
	return c.Fluid.SmoothingRatio * c.Domain.Spacing
}

// SetParam assigns one float-expressible field by dotted name. Sweeps
// and scenario overrides address fields this way; domain geometry is
// not settable here, it comes from the case preset.
func (c *Config) SetParam(name string, value float64) error {
	switch name {
	case "steps":
		c.Steps = int(value)
	case "record_every":
		c.RecordEvery = int(value)
	case "domain.spacing":
		c.Domain.Spacing = value
	case "fluid.rho0":
		c.Fluid.Rho0 = value
	case "fluid.sound_speed":
		c.Fluid.SoundSpeed = value
	case "fluid.smoothing_ratio":
		c.Fluid.SmoothingRatio = value
	case "fluid.cfl":
		c.Fluid.CFL = value
	case "inflow.velocity":
		c.Inflow.Velocity = value
	case "inflow.buffer_width":
		c.Inflow.BufferWidth = int(value)
	default:
		return &body.ConfigError{Field: name, Detail: "unknown parameter"}
	}
	return nil
}
