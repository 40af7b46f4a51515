package noise

import (
	"fmt"
	"sort"

	"github.com/qpandalite/qsim/qc/qerrors"
)

// ReadoutEntry is (p_flip_when_0, p_flip_when_1) for one qubit.
type ReadoutEntry struct {
	PFlipWhen0 float64
	PFlipWhen1 float64
}

// qubitPair is a crosstalk key (q_i, q_j): q_i is the gate's own operand,
// q_j is the other qubit the crosstalk entry names.
type qubitPair [2]int

// Config holds the three noise maps and the readout matrix from spec.md
// §3: global (applied after every gate), gate-dependent (keyed by gate
// kind), and gate-qubit-specific, split into a 1q map (gate kind, qubit)
// and a 2q crosstalk map (gate kind, (q_i, q_j)).
type Config struct {
	Global  map[NoiseKind]float64
	Gate    map[GateKind]map[NoiseKind]float64
	Qubit1Q map[GateKind]map[int]map[NoiseKind]float64
	Qubit2Q map[GateKind]map[qubitPair]map[NoiseKind]float64
	Readout []ReadoutEntry
}

// NewConfig returns an empty, ideal (no noise, no readout error) configuration.
func NewConfig() *Config {
	return &Config{
		Global:  map[NoiseKind]float64{},
		Gate:    map[GateKind]map[NoiseKind]float64{},
		Qubit1Q: map[GateKind]map[int]map[NoiseKind]float64{},
		Qubit2Q: map[GateKind]map[qubitPair]map[NoiseKind]float64{},
	}
}

// WithGlobal sets the probability of noise kind nk applied after every gate.
func (c *Config) WithGlobal(nk NoiseKind, p float64) *Config {
	c.Global[nk] = p
	return c
}

// WithGate sets the probability of noise kind nk applied after every
// occurrence of gate kind gk.
func (c *Config) WithGate(gk GateKind, nk NoiseKind, p float64) *Config {
	if c.Gate[gk] == nil {
		c.Gate[gk] = map[NoiseKind]float64{}
	}
	c.Gate[gk][nk] = p
	return c
}

// WithQubit1Q sets a localized error on (gate kind, qubit).
func (c *Config) WithQubit1Q(gk GateKind, q int, nk NoiseKind, p float64) *Config {
	if c.Qubit1Q[gk] == nil {
		c.Qubit1Q[gk] = map[int]map[NoiseKind]float64{}
	}
	if c.Qubit1Q[gk][q] == nil {
		c.Qubit1Q[gk][q] = map[NoiseKind]float64{}
	}
	c.Qubit1Q[gk][q][nk] = p
	return c
}

// WithCrosstalk sets a crosstalk error from qi onto qj when gate kind gk
// acts on qi.
func (c *Config) WithCrosstalk(gk GateKind, qi, qj int, nk NoiseKind, p float64) *Config {
	if c.Qubit2Q[gk] == nil {
		c.Qubit2Q[gk] = map[qubitPair]map[NoiseKind]float64{}
	}
	key := qubitPair{qi, qj}
	if c.Qubit2Q[gk][key] == nil {
		c.Qubit2Q[gk][key] = map[NoiseKind]float64{}
	}
	c.Qubit2Q[gk][key][nk] = p
	return c
}

// Validate checks every probability lies in [0,1], every noise map sums to
// at most 1, and the readout matrix (if non-empty) has length n.
func (c *Config) Validate(n int) error {
	if len(c.Readout) != 0 && len(c.Readout) != n {
		return qerrors.Runtime("noise.Config.Validate", "readout matrix length %d != n=%d", len(c.Readout), n)
	}
	if err := validateNoiseMap("global", c.Global); err != nil {
		return err
	}
	for gk, m := range c.Gate {
		if err := validateNoiseMap(fmt.Sprintf("gate[%s]", gk), m); err != nil {
			return err
		}
	}
	for gk, qm := range c.Qubit1Q {
		for q, m := range qm {
			if err := validateNoiseMap(fmt.Sprintf("qubit1q[%s][%d]", gk, q), m); err != nil {
				return err
			}
		}
	}
	for gk, qm := range c.Qubit2Q {
		for pair, m := range qm {
			if err := validateNoiseMap(fmt.Sprintf("qubit2q[%s][%v]", gk, pair), m); err != nil {
				return err
			}
		}
	}
	for i, r := range c.Readout {
		if r.PFlipWhen0 < 0 || r.PFlipWhen0 > 1 || r.PFlipWhen1 < 0 || r.PFlipWhen1 > 1 {
			return qerrors.InvalidArgument("noise.Config.Validate", "readout[%d] probability out of [0,1]", i)
		}
	}
	return nil
}

func validateNoiseMap(label string, m map[NoiseKind]float64) error {
	var sum float64
	for nk, p := range m {
		if p < 0 || p > 1 {
			return qerrors.InvalidArgument("noise.Config.Validate", "%s[%s] = %v out of [0,1]", label, nk, p)
		}
		sum += p
	}
	if sum > 1+1e-9 {
		return qerrors.InvalidArgument("noise.Config.Validate", "%s probabilities sum to %v > 1", label, sum)
	}
	return nil
}

// insertError appends the noise opcodes spec.md §4.E derives for one gate
// call on qubits, in the required deterministic order: global →
// gate-dependent → gate-qubit-specific 2q (crosstalk) → gate-qubit-specific
// 1q. Map iteration order is not defined by Go, so every step sorts its
// keys before appending.
func (c *Config) insertError(ops *[]Opcode, qubits []int, kind GateKind) {
	for _, nk := range sortedNoiseKinds(c.Global) {
		if p := c.Global[nk]; p > 0 {
			*ops = append(*ops, NoiseOp{Kind: nk, Qubits: cloneQubits(qubits), P: p})
		}
	}

	if m, ok := c.Gate[kind]; ok {
		for _, nk := range sortedNoiseKinds(m) {
			if p := m[nk]; p > 0 {
				*ops = append(*ops, NoiseOp{Kind: nk, Qubits: cloneQubits(qubits), P: p})
			}
		}
	}

	if m, ok := c.Qubit2Q[kind]; ok {
		for _, qi := range qubits {
			for _, pair := range sortedPairsFor(m, qi) {
				noiseMap := m[pair]
				for _, nk := range sortedNoiseKinds(noiseMap) {
					if p := noiseMap[nk]; p > 0 {
						*ops = append(*ops, NoiseOp{Kind: nk, Qubits: []int{pair[0], pair[1]}, P: p})
					}
				}
			}
		}
	}

	if m, ok := c.Qubit1Q[kind]; ok {
		for _, qi := range qubits {
			if noiseMap, ok := m[qi]; ok {
				for _, nk := range sortedNoiseKinds(noiseMap) {
					if p := noiseMap[nk]; p > 0 {
						*ops = append(*ops, NoiseOp{Kind: nk, Qubits: []int{qi}, P: p})
					}
				}
			}
		}
	}
}

func cloneQubits(qs []int) []int {
	out := make([]int, len(qs))
	copy(out, qs)
	return out
}

func sortedNoiseKinds(m map[NoiseKind]float64) []NoiseKind {
	out := make([]NoiseKind, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedPairsFor(m map[qubitPair]map[NoiseKind]float64, qi int) []qubitPair {
	out := make([]qubitPair, 0)
	for pair := range m {
		if pair[0] == qi {
			out = append(out, pair)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i][1] < out[j][1] })
	return out
}
