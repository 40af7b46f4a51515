// Package noise implements the deferred opcode trace, noise-insertion
// policy, and per-shot sampler for the noisy simulation facade (spec.md
// §4.E). Trace construction is eager (a gate call appends immediately);
// trace execution is deferred to measure_shots, which replays the whole
// opcode list once per shot against a fresh state vector.
//
// Grounded on the teacher's opcode-driven execution model
// (qc/simulator/qsim/opcodes.go and qc/simulator/serial_runner.go in the
// reference corpus, which already separated "build the op list" from "run
// the op list"); the noise-insertion and Kraus-sampling semantics come
// from original_source/QPandaLiteCpp/src/noisy_simulator_impl.h.
package noise

import "github.com/qpandalite/qsim/qc/gate"

// GateKind names a primitive gate kernel. Composite gates never get their
// own GateKind: per the redesign notes, CNOT/CZ/TOFFOLI/CSWAP are the
// corresponding primitive (X, Z, X, SWAP) with one or two appended
// controls, and phase2q/uu15 are short sequences of primitive calls — so
// only primitives ever appear in a trace, and this enum's opcode space is
// disjoint from NoiseKind's rather than sharing an integer range.
type GateKind string

const (
	GateH       GateKind = "h"
	GateX       GateKind = "x"
	GateY       GateKind = "y"
	GateZ       GateKind = "z"
	GateS       GateKind = "s"
	GateSdg     GateKind = "sdg"
	GateT       GateKind = "t"
	GateTdg     GateKind = "tdg"
	GateSX      GateKind = "sx"
	GateRX      GateKind = "rx"
	GateRY      GateKind = "ry"
	GateRZ      GateKind = "rz"
	GateU1      GateKind = "u1"
	GateU2      GateKind = "u2"
	GateU3      GateKind = "u3"
	GateRphi90  GateKind = "rphi90"
	GateRphi180 GateKind = "rphi180"
	GateRphi    GateKind = "rphi"
	GateU22     GateKind = "u22"
	GateSWAP    GateKind = "swap"
	GateISWAP   GateKind = "iswap"
	GateXY      GateKind = "xy"
	GateXX      GateKind = "xx"
	GateYY      GateKind = "yy"
	GateZZ      GateKind = "zz"
	GateU44     GateKind = "u44"
)

// Arity reports how many target qubits the kind acts on (1 or 2).
func (k GateKind) Arity() int {
	switch k {
	case GateSWAP, GateISWAP, GateXY, GateXX, GateYY, GateZZ, GateU44:
		return 2
	default:
		return 1
	}
}

// NoiseKind names a built-in stochastic error channel, matching spec's
// configuration vocabulary string-for-string so loaded configuration
// (internal/config) round-trips without translation.
type NoiseKind string

const (
	NoiseDepolarizing         NoiseKind = "depolarizing"
	NoiseDamping              NoiseKind = "damping"
	NoiseBitflip              NoiseKind = "bitflip"
	NoisePhaseflip            NoiseKind = "phaseflip"
	NoiseTwoQubitDepolarizing NoiseKind = "twoqubit_depolarizing"
)

// Opcode is the disjoint tagged union the trace is built from: every
// element is either a GateOp or a NoiseOp, never a shared integer op_id.
type Opcode interface {
	isOpcode()
}

// GateOp applies one primitive unitary to Qubits (length 1 for Arity()==1
// kinds, 2 for Arity()==2 kinds), gated on Controls (empty means
// unconditional).
type GateOp struct {
	Kind     GateKind
	Qubits   []int
	Params   []float64
	Matrix22 *gate.U22 // set only when Kind == GateU22
	Matrix44 *gate.U44 // set only when Kind == GateU44
	Dagger   bool
	Controls []int
}

func (GateOp) isOpcode() {}

// NoiseOp draws r from the shared PRNG when executed and applies one of
// the built-in stochastic channels to Qubits with probability P.
type NoiseOp struct {
	Kind   NoiseKind
	Qubits []int
	P      float64
}

func (NoiseOp) isOpcode() {}
