// Package config loads the declarative pieces of simulator configuration
// that do not belong inline in caller code: per-facade qubit ceilings,
// default shot/worker counts, and noise/readout descriptions for the noisy
// sampler. It is deliberately thin — the engine itself never reads from
// disk; only this ambient loader does, the way the teacher repo wired
// github.com/spf13/viper for its service configuration.
package config

import (
	"fmt"

	"github.com/qpandalite/qsim/qc/noise"
	"github.com/qpandalite/qsim/qc/qerrors"
	"github.com/spf13/viper"
)

// NoiseDescription mirrors the wire-friendly noise configuration vocabulary
// from spec.md §6: "depolarizing", "damping", "bitflip", "phaseflip",
// "twoqubit_depolarizing".
type NoiseDescription map[string]float64

// ReadoutEntry is (p_flip_when_0, p_flip_when_1) for one qubit.
type ReadoutEntry [2]float64

// Config is the root of the loadable ambient configuration.
type Config struct {
	// StateVectorMaxQubits / DensityOperatorMaxQubits are the per-simulator
	// ceilings init_n_qubit enforces. Defaults: 30 and 10.
	StateVectorMaxQubits     int `mapstructure:"state_vector_max_qubits"`
	DensityOperatorMaxQubits int `mapstructure:"density_operator_max_qubits"`

	// DefaultShots / DefaultWorkers size the noisy sampler when the caller
	// doesn't override them.
	DefaultShots   int `mapstructure:"default_shots"`
	DefaultWorkers int `mapstructure:"default_workers"`

	// GlobalNoise, GateNoise and Readout are optional
	// pre-baked noisy-facade configurations a caller can load by name
	// instead of building the maps in code.
	GlobalNoise NoiseDescription            `mapstructure:"global_noise"`
	GateNoise   map[string]NoiseDescription `mapstructure:"gate_noise"`
	Readout     []ReadoutEntry              `mapstructure:"readout"`
}

// defaults applies spec.md's documented defaults for fields left at zero.
func defaults() Config {
	return Config{
		StateVectorMaxQubits:     30,
		DensityOperatorMaxQubits: 10,
		DefaultShots:             1024,
		DefaultWorkers:           0,
	}
}

// Load reads configuration from path (any format viper supports: yaml,
// json, toml, ...) and validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, qerrors.InvalidArgument("config.Load", "reading %s: %v", path, err)
	}
	return load(v)
}

// FromEnv builds configuration from environment variables prefixed QSIM_,
// e.g. QSIM_STATE_VECTOR_MAX_QUBITS, falling back to defaults.
func FromEnv() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("QSIM")
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about, so bind each scalar key
	// to its QSIM_ variable explicitly.
	for _, key := range []string{"state_vector_max_qubits", "density_operator_max_qubits", "default_shots", "default_workers"} {
		_ = v.BindEnv(key)
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	cfg := defaults()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, qerrors.InvalidArgument("config.load", "unmarshal: %v", err)
	}
	if cfg.StateVectorMaxQubits <= 0 {
		cfg.StateVectorMaxQubits = 30
	}
	if cfg.DensityOperatorMaxQubits <= 0 {
		cfg.DensityOperatorMaxQubits = 10
	}
	if cfg.DefaultShots <= 0 {
		cfg.DefaultShots = 1024
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every probability is within [0,1] and every per-gate
// noise map sums to at most 1, per spec.md §7's InvalidArgument boundary.
func (c *Config) Validate() error {
	if err := validateNoise("global_noise", c.GlobalNoise); err != nil {
		return err
	}
	for gate, desc := range c.GateNoise {
		if err := validateNoise(fmt.Sprintf("gate_noise[%s]", gate), desc); err != nil {
			return err
		}
	}
	for i, r := range c.Readout {
		for _, p := range r {
			if p < 0 || p > 1 {
				return qerrors.InvalidArgument("config.Validate",
					"readout[%d] probability %v out of [0,1]", i, p)
			}
		}
	}
	return nil
}

// ToNoiseConfig converts the on-disk description into a qc/noise.Config:
// this is the only place the ambient string-keyed vocabulary is translated
// into the engine-facing typed one. c.GlobalNoise/c.GateNoise/c.Readout feed
// noise.Config's Global/Gate/Readout; the loader never populates the
// per-qubit Qubit1Q/Qubit2Q maps, since those only make sense built in code
// against a concrete circuit (spec.md's crosstalk entries name specific
// qubit pairs a declarative file can't express generically).
func (c *Config) ToNoiseConfig() (*noise.Config, error) {
	out := noise.NewConfig()
	for kind, p := range c.GlobalNoise {
		out.WithGlobal(noise.NoiseKind(kind), p)
	}
	for gateName, desc := range c.GateNoise {
		for kind, p := range desc {
			out.WithGate(noise.GateKind(gateName), noise.NoiseKind(kind), p)
		}
	}
	for _, r := range c.Readout {
		out.Readout = append(out.Readout, noise.ReadoutEntry{PFlipWhen0: r[0], PFlipWhen1: r[1]})
	}
	return out, nil
}

func validateNoise(label string, desc NoiseDescription) error {
	var sum float64
	for kind, p := range desc {
		if p < 0 || p > 1 {
			return qerrors.InvalidArgument("config.Validate",
				"%s[%s] = %v out of [0,1]", label, kind, p)
		}
		sum += p
	}
	if sum > 1+1e-9 {
		return qerrors.InvalidArgument("config.Validate", "%s probabilities sum to %v > 1", label, sum)
	}
	return nil
}
