package noise

import (
	"math"

	"github.com/qpandalite/qsim/qc/bitalg"
	"github.com/qpandalite/qsim/qc/gate"
	"github.com/qpandalite/qsim/qc/kernel/sv"
	"github.com/qpandalite/qsim/qc/qerrors"
	"github.com/qpandalite/qsim/qc/rng"
)

// Sampler owns one state vector, one opcode trace, and the PRNG used to
// drive stochastic noise and measurement. It is not safe for concurrent
// use — each goroutine running shots in parallel must own its own Sampler
// (and, if determinism across workers matters, its own seeded rng.Engine).
type Sampler struct {
	NQubits int
	Config  *Config
	Ops     []Opcode

	state  *sv.State
	engine *rng.Engine
}

// NewSampler builds a sampler for an n-qubit system. A nil cfg means an
// ideal (noiseless, ideal-readout) configuration; a nil engine falls back
// to the shared rng.Default() engine.
func NewSampler(nQubits int, cfg *Config, engine *rng.Engine) (*Sampler, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if err := cfg.Validate(nQubits); err != nil {
		return nil, err
	}
	if engine == nil {
		engine = rng.Default()
	}
	return &Sampler{
		NQubits: nQubits,
		Config:  cfg,
		state:   sv.New(nQubits),
		engine:  engine,
	}, nil
}

// Clone returns a Sampler sharing this one's Config and completed Ops
// trace (never mutated after being built, so safe to share) but owning an
// independent state vector and PRNG — one per worker goroutine in a
// parallel shot run.
func (s *Sampler) Clone(engine *rng.Engine) *Sampler {
	if engine == nil {
		engine = rng.Default()
	}
	return &Sampler{
		NQubits: s.NQubits,
		Config:  s.Config,
		Ops:     s.Ops,
		state:   sv.New(s.NQubits),
		engine:  engine,
	}
}

// Emit appends a gate opcode to the trace, then the noise opcodes
// insert_error derives for it.
func (s *Sampler) Emit(op GateOp) {
	s.Ops = append(s.Ops, op)
	s.Config.insertError(&s.Ops, op.Qubits, op.Kind)
}

// ExecuteOnce reinitializes the internal state vector to |0...0> and
// replays every opcode in trace order — one full shot.
func (s *Sampler) ExecuteOnce() error {
	s.state.Reinit()
	for _, op := range s.Ops {
		switch v := op.(type) {
		case GateOp:
			if err := s.applyGate(v); err != nil {
				return err
			}
		case NoiseOp:
			if err := s.applyNoise(v); err != nil {
				return err
			}
		default:
			return qerrors.Runtime("noise.Sampler.ExecuteOnce", "opcode %T is neither GateOp nor NoiseOp", op)
		}
	}
	return nil
}

func (s *Sampler) applyGate(op GateOp) error {
	mask := bitalg.MakeControllerMask(op.Controls)
	switch op.Kind.Arity() {
	case 1:
		u, err := buildU22(op)
		if err != nil {
			return err
		}
		sv.ApplyU22(s.state, op.Qubits[0], gate.MaybeDagger22(u, op.Dagger), mask)
	case 2:
		u, err := buildU44(op)
		if err != nil {
			return err
		}
		sv.ApplyU44(s.state, op.Qubits[0], op.Qubits[1], gate.MaybeDagger44(u, op.Dagger), mask)
	}
	return nil
}

func (s *Sampler) applyNoise(op NoiseOp) error {
	switch op.Kind {
	case NoiseDepolarizing:
		return s.applyDepolarizing(op.Qubits[0], op.P)
	case NoiseBitflip:
		return s.applyBitflip(op.Qubits[0], op.P)
	case NoisePhaseflip:
		return s.applyPhaseflip(op.Qubits[0], op.P)
	case NoiseTwoQubitDepolarizing:
		return s.applyTwoQubitDepolarizing(op.Qubits[0], op.Qubits[1], op.P)
	case NoiseDamping:
		return s.applyAmplitudeDamping(op.Qubits[0], op.P)
	default:
		return qerrors.Runtime("noise.Sampler.applyNoise", "unknown noise kind %q", op.Kind)
	}
}

// applyDepolarizing draws r and applies identity (r>=p), else X/Y/Z in
// equal thirds of the remaining mass, per spec.md §4.E.
func (s *Sampler) applyDepolarizing(q int, p float64) error {
	r := s.engine.Float64()
	if r >= p {
		return nil
	}
	switch {
	case r < p/3:
		sv.ApplyU22(s.state, q, gate.X(), 0)
	case r < 2*p/3:
		sv.ApplyU22(s.state, q, gate.Y(), 0)
	default:
		sv.ApplyU22(s.state, q, gate.Z(), 0)
	}
	return nil
}

func (s *Sampler) applyBitflip(q int, p float64) error {
	if s.engine.Float64() < p {
		sv.ApplyU22(s.state, q, gate.X(), 0)
	}
	return nil
}

func (s *Sampler) applyPhaseflip(q int, p float64) error {
	if s.engine.Float64() < p {
		sv.ApplyU22(s.state, q, gate.Z(), 0)
	}
	return nil
}

// twoQubitPauliTable enumerates the 15 nontrivial tensor-Pauli terms in
// the exact order spec.md §4.C names them: XI,YI,ZI,IX,XX,YX,ZX,IY,XY,YY,
// ZY,IZ,XZ,YZ,ZZ. Each entry is (index on the first qubit, index on the
// second), with 0=I,1=X,2=Y,3=Z.
var twoQubitPauliTable = [15][2]int{
	{1, 0}, {2, 0}, {3, 0},
	{0, 1}, {1, 1}, {2, 1}, {3, 1},
	{0, 2}, {1, 2}, {2, 2}, {3, 2},
	{0, 3}, {1, 3}, {2, 3}, {3, 3},
}

func pauli1q(idx int) gate.U22 {
	switch idx {
	case 1:
		return gate.X()
	case 2:
		return gate.Y()
	case 3:
		return gate.Z()
	default:
		return gate.Identity22()
	}
}

// applyTwoQubitDepolarizing draws r and applies identity (r>=p), else
// picks one of the 15 nontrivial Pauli-tensor-Pauli terms uniformly and
// applies it as two independent single-qubit Paulis, per spec.md §4.E.
func (s *Sampler) applyTwoQubitDepolarizing(q1, q2 int, p float64) error {
	r := s.engine.Float64()
	if r >= p {
		return nil
	}
	idx := int(s.engine.Float64() * 15)
	if idx >= 15 {
		idx = 14
	}
	pair := twoQubitPauliTable[idx]
	if pair[0] != 0 {
		sv.ApplyU22(s.state, q1, pauli1q(pair[0]), 0)
	}
	if pair[1] != 0 {
		sv.ApplyU22(s.state, q2, pauli1q(pair[1]), 0)
	}
	return nil
}

// applyAmplitudeDamping computes p1 = Σ_{i: bit q=1}|ψ_i|², then either
// decays q to |0> by moving each q=1 amplitude into its q=0 partner and
// clearing the q=1 slot (probability γ·p1), or scales the q=1 amplitudes by
// √(1-γ) (otherwise), per spec.md §4.E. Both branches finish with
// Normalize rather than a hand-derived renormalization constant: the
// post-branch norm² is exactly p1 (collapse) or 1-γ·p1 (scale) up to
// floating-point error, which is exactly what Normalize already computes
// and validates against the underflow floor.
func (s *Sampler) applyAmplitudeDamping(q int, gamma float64) error {
	qbit := 1 << uint(q)
	var p1 float64
	for i, a := range s.state.Amplitudes {
		if i&qbit != 0 {
			p1 += real(a)*real(a) + imag(a)*imag(a)
		}
	}
	if s.engine.Float64() < gamma*p1 {
		for i := range s.state.Amplitudes {
			if i&qbit == 0 {
				s.state.Amplitudes[i] = s.state.Amplitudes[i|qbit]
				s.state.Amplitudes[i|qbit] = 0
			}
		}
	} else {
		scale := complex(math.Sqrt(1-gamma), 0)
		for i := range s.state.Amplitudes {
			if i&qbit != 0 {
				s.state.Amplitudes[i] *= scale
			}
		}
	}
	return s.state.Normalize()
}

// GetMeasureNoReadoutError samples a full basis index by linear scan of
// |ψ_i|² against a draw r, ignoring readout error.
func (s *Sampler) GetMeasureNoReadoutError() int {
	r := s.engine.Float64()
	var cum float64
	for i, a := range s.state.Amplitudes {
		cum += real(a)*real(a) + imag(a)*imag(a)
		if r < cum {
			return i
		}
	}
	return len(s.state.Amplitudes) - 1
}

// GetMeasure samples a basis index and then applies readout error per
// qubit: a sampled 1 flips to 0 with probability readout[i].PFlipWhen1, a
// sampled 0 flips to 1 with probability readout[i].PFlipWhen0.
func (s *Sampler) GetMeasure() int {
	outcome := s.GetMeasureNoReadoutError()
	if len(s.Config.Readout) == 0 {
		return outcome
	}
	for i := 0; i < s.NQubits; i++ {
		bit := (outcome >> uint(i)) & 1
		r := s.engine.Float64()
		entry := s.Config.Readout[i]
		if bit == 1 {
			if r < entry.PFlipWhen1 {
				outcome ^= 1 << uint(i)
			}
		} else if r < entry.PFlipWhen0 {
			outcome |= 1 << uint(i)
		}
	}
	return outcome
}

// MeasureShots runs ExecuteOnce n times, projects each outcome onto
// measureQubits via bitalg.ExtractDigits, and returns a histogram from
// sub-index to count. A sub-index with zero observations is simply absent.
func (s *Sampler) MeasureShots(measureQubits []int, n int) (map[uint64]uint64, error) {
	if _, err := bitalg.PreprocessMeasureList(measureQubits, s.NQubits); err != nil {
		return nil, err
	}
	hist := make(map[uint64]uint64)
	for shot := 0; shot < n; shot++ {
		if err := s.ExecuteOnce(); err != nil {
			return nil, err
		}
		outcome := s.GetMeasure()
		sub := bitalg.ExtractDigits(uint64(outcome), measureQubits)
		hist[sub]++
	}
	return hist, nil
}

// MeasureShotsAll is MeasureShots over every qubit in natural order.
func (s *Sampler) MeasureShotsAll(n int) (map[uint64]uint64, error) {
	qubits := make([]int, s.NQubits)
	for i := range qubits {
		qubits[i] = i
	}
	return s.MeasureShots(qubits, n)
}
