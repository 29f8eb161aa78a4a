// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/grayscott/reaction"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by validation failures in loaded configuration.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Grid      GridConfig      `yaml:"grid"`
	Model     ModelConfig     `yaml:"model"`
	Sim       SimConfig       `yaml:"sim"`
	Display   DisplayConfig   `yaml:"display"`
	Seeds     []SeedConfig    `yaml:"seeds"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// GridConfig holds the simulation grid dimensions in cells.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ModelConfig holds the Gray-Scott rates.
type ModelConfig struct {
	DiffusionA float64 `yaml:"diffusion_a"`
	DiffusionB float64 `yaml:"diffusion_b"`
	FeedRate   float64 `yaml:"feed_rate"`
	KillRate   float64 `yaml:"kill_rate"`
}

// SimConfig holds stepping parameters.
type SimConfig struct {
	DT             float64 `yaml:"dt"`
	StepsPerUpdate int     `yaml:"steps_per_update"` // Steps per frame in graphical mode
	Coupling       string  `yaml:"coupling"`         // sequential | snapshot
}

// DisplayConfig controls how a field is mapped onto a color channel.
type DisplayConfig struct {
	Field   string  `yaml:"field"`   // a | b
	Channel string  `yaml:"channel"` // red | green | blue | gray
	Gain    float64 `yaml:"gain"`    // value multiplier before truncation to a byte
}

// SeedConfig describes one initial-condition write.
// Rect seeds use SizeX/SizeY, disk seeds use Radius, noise seeds use
// Scale/Threshold/NoiseSeed and cover the whole grid.
type SeedConfig struct {
	Shape  string  `yaml:"shape"` // rect | disk | noise
	Field  string  `yaml:"field"` // a | b
	X      int     `yaml:"x"`
	Y      int     `yaml:"y"`
	SizeX  int     `yaml:"size_x,omitempty"`
	SizeY  int     `yaml:"size_y,omitempty"`
	Radius int     `yaml:"radius,omitempty"`
	Value  float64 `yaml:"value"`

	Scale     float64 `yaml:"scale,omitempty"`     // Noise frequency per cell
	Threshold float64 `yaml:"threshold,omitempty"` // Normalized noise level at or above which a cell is written
	NoiseSeed int64   `yaml:"noise_seed,omitempty"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Ticks per stats window
	PerfWindow  int `yaml:"perf_window"`  // Ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Coupling     reaction.Coupling
	DisplayField reaction.Field
	Params       reaction.Params
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Parse(data)
}

// Parse overlays YAML data onto the embedded defaults. Nil data yields the defaults.
func Parse(data []byte) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if len(data) > 0 {
		// Unmarshal into same struct - only overwrites fields present in data.
		// A seeds list replaces the default list wholesale.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived validates the loaded config and calculates derived values.
func (c *Config) computeDerived() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("%w: grid must be positive, got %dx%d", ErrInvalid, c.Grid.Width, c.Grid.Height)
	}
	if c.Sim.DT <= 0 {
		return fmt.Errorf("%w: sim.dt must be positive, got %v", ErrInvalid, c.Sim.DT)
	}
	if c.Sim.StepsPerUpdate < 1 {
		c.Sim.StepsPerUpdate = 1
	}
	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 1
	}
	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 60
	}

	coupling, err := reaction.ParseCoupling(c.Sim.Coupling)
	if err != nil {
		return fmt.Errorf("%w: sim.coupling: %w", ErrInvalid, err)
	}
	c.Derived.Coupling = coupling

	field, err := reaction.ParseField(c.Display.Field)
	if err != nil {
		return fmt.Errorf("%w: display.field: %w", ErrInvalid, err)
	}
	c.Derived.DisplayField = field

	switch strings.ToLower(c.Display.Channel) {
	case "red", "green", "blue", "gray", "grey":
	default:
		return fmt.Errorf("%w: display.channel %q", ErrInvalid, c.Display.Channel)
	}

	c.Derived.Params = reaction.Params{
		DiffusionA: c.Model.DiffusionA,
		DiffusionB: c.Model.DiffusionB,
		Feed:       c.Model.FeedRate,
		Kill:       c.Model.KillRate,
	}

	// Synthesize the classic two-spot start if no seeds are specified
	if len(c.Seeds) == 0 {
		c.Seeds = DefaultSeeds(c.Grid.Width, c.Grid.Height)
	}
	for i, s := range c.Seeds {
		if _, err := reaction.ParseField(s.Field); err != nil {
			return fmt.Errorf("%w: seeds[%d].field: %w", ErrInvalid, i, err)
		}
	}
	return nil
}

// DefaultSeeds returns the initial conditions used when none are configured:
// A saturated everywhere and two B spots offset from the centre.
func DefaultSeeds(w, h int) []SeedConfig {
	r := w / 50
	return []SeedConfig{
		{Shape: "rect", Field: "a", X: 0, Y: 0, SizeX: w, SizeY: h, Value: 1.0},
		{Shape: "disk", Field: "b", X: w/2 - 35, Y: h/2 - 4, Radius: r, Value: 1.0},
		{Shape: "disk", Field: "b", X: w/2 + 15, Y: h/2 + 30, Radius: r, Value: 0.7},
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
