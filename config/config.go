// Package config loads rolesim settings: built-in defaults, then an optional
// YAML file, then ROLESIM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/katalvlaran/swarmrole/role"
	"github.com/katalvlaran/swarmrole/topology"
)

// EnvPrefix selects the environment overrides (ROLESIM_SIM_SEED → sim.seed).
const EnvPrefix = "ROLESIM_"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Log     LogConfig     `koanf:"log"`
	Network NetworkConfig `koanf:"network"`
	Sim     SimConfig     `koanf:"sim"`
	Store   StoreConfig   `koanf:"store"`
	Metrics MetricsConfig `koanf:"metrics"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type NetworkConfig struct {
	File string `koanf:"file"`
	Grid string `koanf:"grid"` // triangle, square, square8
}

type SimConfig struct {
	// Roles is the pool size R; the pool is 0..R-1. Zero means one role per agent.
	Roles       int    `koanf:"roles"`
	Strategy    string `koanf:"strategy"`  // lowest, random
	TieBreak    string `koanf:"tie_break"` // lower-id, earlier-proposal
	Seed        int64  `koanf:"seed"`
	StallFactor int    `koanf:"stall_factor"`
	MaxSteps    int    `koanf:"max_steps"`
	Parallel    int    `koanf:"parallel"`
	Trials      int    `koanf:"trials"`
}

type StoreConfig struct {
	// Path of the sqlite run recorder; empty disables recording.
	Path string `koanf:"path"`
}

type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

func defaults(k *koanf.Koanf) {
	_ = k.Set("log.level", "info")
	_ = k.Set("log.format", "text")
	_ = k.Set("network.grid", "triangle")
	_ = k.Set("sim.roles", 0)
	_ = k.Set("sim.strategy", "lowest")
	_ = k.Set("sim.tie_break", "lower-id")
	_ = k.Set("sim.seed", 1)
	_ = k.Set("sim.stall_factor", 4)
	_ = k.Set("sim.max_steps", 0)
	_ = k.Set("sim.parallel", 0)
	_ = k.Set("sim.trials", 1)
	_ = k.Set("metrics.enabled", false)
}

// Load reads the layered configuration. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	defaults(k)

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	// ROLESIM_SIM_TIE_BREAK → sim.tie_break: only the first underscore
	// separates section from key.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// Validate checks enum names and numeric ranges.
func (c *Config) Validate() error {
	if _, err := topology.ParseGridKind(c.Network.Grid); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := role.ParseStrategy(c.Sim.Strategy, c.Sim.Seed); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := role.ParseTieBreak(c.Sim.TieBreak); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	switch {
	case c.Sim.Roles < 0:
		return fmt.Errorf("%w: sim.roles %d", ErrInvalid, c.Sim.Roles)
	case c.Sim.StallFactor < 1:
		return fmt.Errorf("%w: sim.stall_factor %d", ErrInvalid, c.Sim.StallFactor)
	case c.Sim.MaxSteps < 0:
		return fmt.Errorf("%w: sim.max_steps %d", ErrInvalid, c.Sim.MaxSteps)
	case c.Sim.Parallel < 0:
		return fmt.Errorf("%w: sim.parallel %d", ErrInvalid, c.Sim.Parallel)
	case c.Sim.Trials < 1:
		return fmt.Errorf("%w: sim.trials %d", ErrInvalid, c.Sim.Trials)
	}
	return nil
}
