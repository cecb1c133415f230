// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd) plus the yaml design file that carries the
// relaxation tier ladder and scoring policy.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/MaxwellM34/primerPlus/internal/gblock"
)

// EngineConfig is settings for the external primer3 engine
type EngineConfig struct {
	// path to the primer3_core executable
	Path string `mapstructure:"path"`

	// the primer3 thermodynamic parameters folder
	ThermoDir string `mapstructure:"thermo-dir"`

	// how many pairs primer3 reports per call
	NumReturn int `mapstructure:"num-return"`

	// path to the sqlite response cache; empty disables caching
	Cache string `mapstructure:"cache"`
}

// DesignConfig is settings for design runs
type DesignConfig struct {
	// path to the yaml design file; empty uses the built-in defaults
	File string `mapstructure:"file"`

	// minimum composite score an accepted candidate must reach
	MinComposite float64 `mapstructure:"min-composite"`

	// directory reports are written to
	OutDir string `mapstructure:"out-dir"`
}

// GblockConfig is settings for gblock assembly and hairpin analysis
type GblockConfig struct {
	// lengths of the random flanks
	Upstream   int `mapstructure:"upstream"`
	Downstream int `mapstructure:"downstream"`

	// seed for the filler RNG
	Seed int64 `mapstructure:"seed"`

	// hairpin analyzer overrides; zero keeps the defaults
	MinStem        int     `mapstructure:"min-stem"`
	Window         int     `mapstructure:"window"`
	ModerateEnergy float64 `mapstructure:"moderate-energy"`
	HighEnergy     float64 `mapstructure:"high-energy"`
}

// Options maps the gblock settings onto assembly options.
func (g GblockConfig) Options(includeProbe bool) gblock.Options {
	return gblock.Options{
		IncludeProbe: includeProbe,
		Upstream:     g.Upstream,
		Downstream:   g.Downstream,
		Seed:         g.Seed,
	}
}

// Analyzer builds the hairpin analyzer, applying any non-zero overrides.
func (g GblockConfig) Analyzer() gblock.Analyzer {
	a := gblock.NewAnalyzer()
	if g.MinStem > 0 {
		a.MinStem = g.MinStem
	}
	if g.Window > 0 {
		a.Window = g.Window
	}
	if g.ModerateEnergy < 0 {
		a.Moderate = g.ModerateEnergy
	}
	if g.HighEnergy < 0 {
		a.High = g.HighEnergy
	}
	return a
}

// Config is the root-level settings struct and is a mix of settings
// available in settings.yaml and those available from the command line
type Config struct {
	Verbose bool         `mapstructure:"verbose"`
	Engine  EngineConfig `mapstructure:"engine"`
	Design  DesignConfig `mapstructure:"design"`
	Gblock  GblockConfig `mapstructure:"gblock"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Path:      "primer3_core",
			NumReturn: 100,
		},
		Design: DesignConfig{
			OutDir: ".",
		},
		Gblock: GblockConfig{
			Upstream:   30,
			Downstream: 30,
			Seed:       gblock.DefaultSeed,
		},
	}
}

// New returns a new Config struct populated by Viper settings (either
// from the local settings.yaml) and/or command line arguments, layered
// over the defaults.
func New() (Config, error) {
	c := Default()
	if err := viper.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decoding settings: %w", err)
	}
	return c, nil
}
