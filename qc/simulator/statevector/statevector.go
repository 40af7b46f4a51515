// Package statevector is the user-visible pure-state simulator facade
// (spec.md §4.D). Every gate method validates qubit indices, builds the
// gate's U22/U44 matrix from its parameters (applying dagger directly to
// the matrix), and hands it to the single sv kernel entry point for its
// arity — there is exactly one controlled/uncontrolled code path per
// arity, selected by whether the caller passed any controls.
//
// Grounded on the teacher's facade-over-kernel split
// (qc/simulator/qsim/simulator.go in the reference corpus exposed one
// exported method per gate that built a matrix and called an internal
// apply function); generalized here to the full matrix-parameterized gate
// vocabulary and to the explicit controls argument every method accepts.
package statevector

import (
	"github.com/qpandalite/qsim/internal/logger"
	"github.com/qpandalite/qsim/qc/bitalg"
	"github.com/qpandalite/qsim/qc/gate"
	"github.com/qpandalite/qsim/qc/kernel/sv"
	"github.com/qpandalite/qsim/qc/qerrors"
)

// DefaultMaxQubits is the ceiling spec.md §4.D documents for the SV facade.
const DefaultMaxQubits = 30

// Simulator is a pure-state engine over n qubits.
type Simulator struct {
	state     *sv.State
	n         int
	maxQubits int
	log       *logger.Logger
}

// Option configures a Simulator at construction.
type Option func(*Simulator)

// WithMaxQubits overrides the default qubit ceiling.
func WithMaxQubits(n int) Option {
	return func(s *Simulator) { s.maxQubits = n }
}

// WithLogger attaches a structured logger; the zero value logs nothing.
func WithLogger(l *logger.Logger) Option {
	return func(s *Simulator) { s.log = l }
}

// New allocates a fresh |0...0> state of n qubits. Fails with
// InvalidArgument if n exceeds the configured ceiling (default 30).
func New(n int, opts ...Option) (*Simulator, error) {
	s := &Simulator{maxQubits: DefaultMaxQubits, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	if n <= 0 || n > s.maxQubits {
		return nil, qerrors.InvalidArgument("statevector.New", "n=%d exceeds configured ceiling %d", n, s.maxQubits)
	}
	s.n = n
	s.state = sv.New(n)
	s.log = s.log.SpawnForFacade("statevector")
	s.log.Debug().Int("qubits", n).Msg("statevector simulator initialized")
	return s, nil
}

// NQubits returns the qubit count the simulator was constructed with.
func (s *Simulator) NQubits() int { return s.n }

func (s *Simulator) checkTargets(op string, qubits ...int) error {
	for _, q := range qubits {
		if err := bitalg.CheckQubitRange(op, q, s.n); err != nil {
			return err
		}
	}
	return bitalg.CheckDistinct(op, qubits...)
}

func (s *Simulator) checkControls(op string, controls, targets []int) error {
	for _, c := range controls {
		if err := bitalg.CheckQubitRange(op, c, s.n); err != nil {
			return err
		}
	}
	return bitalg.CheckDistinct(op, append(append([]int{}, controls...), targets...)...)
}

func (s *Simulator) apply1(op string, q int, u gate.U22, dagger bool, controls []int) error {
	if err := s.checkTargets(op, q); err != nil {
		return err
	}
	if err := s.checkControls(op, controls, []int{q}); err != nil {
		return err
	}
	mask := bitalg.MakeControllerMask(controls)
	sv.ApplyU22(s.state, q, gate.MaybeDagger22(u, dagger), mask)
	return nil
}

func (s *Simulator) apply2(op string, q1, q2 int, u gate.U44, dagger bool, controls []int) error {
	if err := s.checkTargets(op, q1, q2); err != nil {
		return err
	}
	if err := s.checkControls(op, controls, []int{q1, q2}); err != nil {
		return err
	}
	mask := bitalg.MakeControllerMask(controls)
	sv.ApplyU44(s.state, q1, q2, gate.MaybeDagger44(u, dagger), mask)
	return nil
}

// ---------- single-qubit gates ----------

func (s *Simulator) H(q int, controls ...int) error { return s.apply1("H", q, gate.H(), false, controls) }
func (s *Simulator) X(q int, controls ...int) error { return s.apply1("X", q, gate.X(), false, controls) }
func (s *Simulator) Y(q int, controls ...int) error { return s.apply1("Y", q, gate.Y(), false, controls) }
func (s *Simulator) Z(q int, controls ...int) error { return s.apply1("Z", q, gate.Z(), false, controls) }
func (s *Simulator) S(q int, controls ...int) error { return s.apply1("S", q, gate.S(), false, controls) }
func (s *Simulator) Sdg(q int, controls ...int) error {
	return s.apply1("Sdg", q, gate.S(), true, controls)
}
func (s *Simulator) T(q int, controls ...int) error { return s.apply1("T", q, gate.T(), false, controls) }
func (s *Simulator) Tdg(q int, controls ...int) error {
	return s.apply1("Tdg", q, gate.T(), true, controls)
}
func (s *Simulator) SX(q int, controls ...int) error {
	return s.apply1("SX", q, gate.SX(), false, controls)
}

func (s *Simulator) RX(q int, theta float64, dagger bool, controls ...int) error {
	return s.apply1("RX", q, gate.RX(theta), dagger, controls)
}
func (s *Simulator) RY(q int, theta float64, dagger bool, controls ...int) error {
	return s.apply1("RY", q, gate.RY(theta), dagger, controls)
}
func (s *Simulator) RZ(q int, theta float64, dagger bool, controls ...int) error {
	return s.apply1("RZ", q, gate.RZ(theta), dagger, controls)
}
func (s *Simulator) U1(q int, lambda float64, dagger bool, controls ...int) error {
	return s.apply1("U1", q, gate.U1(lambda), dagger, controls)
}
func (s *Simulator) U2(q int, phi, lambda float64, dagger bool, controls ...int) error {
	return s.apply1("U2", q, gate.U2(phi, lambda), dagger, controls)
}
func (s *Simulator) U3(q int, theta, phi, lambda float64, dagger bool, controls ...int) error {
	return s.apply1("U3", q, gate.U3(theta, phi, lambda), dagger, controls)
}
func (s *Simulator) Rphi90(q int, phi float64, dagger bool, controls ...int) error {
	return s.apply1("Rphi90", q, gate.Rphi90(phi), dagger, controls)
}
func (s *Simulator) Rphi180(q int, phi float64, dagger bool, controls ...int) error {
	return s.apply1("Rphi180", q, gate.Rphi180(phi), dagger, controls)
}
func (s *Simulator) Rphi(q int, theta, phi float64, dagger bool, controls ...int) error {
	return s.apply1("Rphi", q, gate.Rphi(theta, phi), dagger, controls)
}

// CustomU22 applies a caller-supplied, unitarity-validated 2x2 matrix.
func (s *Simulator) CustomU22(q int, m [4]complex128, dagger bool, controls ...int) error {
	u, err := gate.NewU22(m)
	if err != nil {
		return err
	}
	return s.apply1("U22", q, u, dagger, controls)
}

// ---------- two-qubit gates ----------

// CZ(q1,q2) is Z on q2 controlled by q1.
func (s *Simulator) CZ(q1, q2 int, controls ...int) error {
	return s.apply1("CZ", q2, gate.Z(), false, append([]int{q1}, controls...))
}

// CNOT(control,target) is X on target controlled by control.
func (s *Simulator) CNOT(control, target int, controls ...int) error {
	return s.apply1("CNOT", target, gate.X(), false, append([]int{control}, controls...))
}

func (s *Simulator) SWAP(q1, q2 int, controls ...int) error {
	return s.apply2("SWAP", q1, q2, gate.SWAP(), false, controls)
}
func (s *Simulator) ISWAP(q1, q2 int, controls ...int) error {
	return s.apply2("ISWAP", q1, q2, gate.ISWAP(), false, controls)
}
func (s *Simulator) XY(q1, q2 int, theta float64, dagger bool, controls ...int) error {
	return s.apply2("XY", q1, q2, gate.XY(theta), dagger, controls)
}
func (s *Simulator) XX(q1, q2 int, theta float64, dagger bool, controls ...int) error {
	return s.apply2("XX", q1, q2, gate.XX(theta), dagger, controls)
}
func (s *Simulator) YY(q1, q2 int, theta float64, dagger bool, controls ...int) error {
	return s.apply2("YY", q1, q2, gate.YY(theta), dagger, controls)
}
func (s *Simulator) ZZ(q1, q2 int, theta float64, dagger bool, controls ...int) error {
	return s.apply2("ZZ", q1, q2, gate.ZZ(theta), dagger, controls)
}

// CustomU44 applies a caller-supplied, unitarity-validated 4x4 matrix.
func (s *Simulator) CustomU44(q1, q2 int, m [16]complex128, dagger bool, controls ...int) error {
	u, err := gate.NewU44(m)
	if err != nil {
		return err
	}
	return s.apply2("U44", q1, q2, u, dagger, controls)
}

// ---------- three-qubit composites ----------

// Toffoli(c1,c2,target) is X on target controlled by both c1 and c2.
func (s *Simulator) Toffoli(c1, c2, target int) error {
	return s.apply1("Toffoli", target, gate.X(), false, []int{c1, c2})
}

// CSWAP(control,q1,q2) is SWAP(q1,q2) controlled by control.
func (s *Simulator) CSWAP(control, q1, q2 int) error {
	return s.apply2("CSWAP", q1, q2, gate.SWAP(), false, []int{control})
}

// Phase2Q applies U1(q1,θ1); U1(q2,θ2); ZZ(q1,q2,θzz) as three independent
// primitive calls, per spec.md §4.B's composite definition.
func (s *Simulator) Phase2Q(q1, q2 int, theta1, theta2, thetaZZ float64) error {
	if err := s.U1(q1, theta1, false); err != nil {
		return err
	}
	if err := s.U1(q2, theta2, false); err != nil {
		return err
	}
	return s.ZZ(q1, q2, thetaZZ, false)
}

// UU15 applies the 15-parameter two-qubit composite U3(q1,p0:3);
// U3(q2,p3:6); XX(q1,q2,p6); YY(p7); ZZ(p8); U3(q1,p9:12); U3(q2,p12:15).
// Dagger reverses the sequence and negates the interaction angles and
// daggers the U3s, per spec.md §4.B.
func (s *Simulator) UU15(q1, q2 int, p [15]float64, dagger bool) error {
	if !dagger {
		if err := s.U3(q1, p[0], p[1], p[2], false); err != nil {
			return err
		}
		if err := s.U3(q2, p[3], p[4], p[5], false); err != nil {
			return err
		}
		if err := s.XX(q1, q2, p[6], false); err != nil {
			return err
		}
		if err := s.YY(q1, q2, p[7], false); err != nil {
			return err
		}
		if err := s.ZZ(q1, q2, p[8], false); err != nil {
			return err
		}
		if err := s.U3(q1, p[9], p[10], p[11], false); err != nil {
			return err
		}
		return s.U3(q2, p[12], p[13], p[14], false)
	}
	if err := s.U3(q2, p[12], p[13], p[14], true); err != nil {
		return err
	}
	if err := s.U3(q1, p[9], p[10], p[11], true); err != nil {
		return err
	}
	if err := s.ZZ(q1, q2, p[8], true); err != nil {
		return err
	}
	if err := s.YY(q1, q2, p[7], true); err != nil {
		return err
	}
	if err := s.XX(q1, q2, p[6], true); err != nil {
		return err
	}
	if err := s.U3(q2, p[3], p[4], p[5], true); err != nil {
		return err
	}
	return s.U3(q1, p[0], p[1], p[2], true)
}

// ---------- measurement & control-flow helpers ----------

// Reset resets qubit q to |0>.
func (s *Simulator) Reset(q int) error {
	if err := s.checkTargets("Reset", q); err != nil {
		return err
	}
	return s.state.Reset(q)
}

// GetProb returns Σ|ψ_i|² over basis indices whose qubit q equals v (0 or 1).
func (s *Simulator) GetProb(q, v int) (float64, error) {
	if err := s.checkTargets("GetProb", q); err != nil {
		return 0, err
	}
	if v == 0 {
		return s.state.Prob0(q), nil
	}
	return s.state.Prob1(q), nil
}

// Pmeasure returns, for the given qubit list, a vector of length
// 2^len(qs) whose entry at sub-index j sums |ψ_i|² over basis indices
// projecting onto j.
func (s *Simulator) Pmeasure(qs []int) ([]float64, error) {
	if _, err := bitalg.PreprocessMeasureList(qs, s.n); err != nil {
		return nil, err
	}
	return s.state.PmeasureList(qs), nil
}

// GetProbMap returns the joint probability that every qubit named in
// assignment takes the paired value (0 or 1), summing |ψ_i|² over every
// basis index i consistent with all of them. Grounded on
// Simulator::get_prob_map in
// original_source/QPandaLiteCpp/src/simulator.cpp.
func (s *Simulator) GetProbMap(assignment map[int]int) (float64, error) {
	for q, v := range assignment {
		if err := s.checkTargets("GetProbMap", q); err != nil {
			return 0, err
		}
		if v != 0 && v != 1 {
			return 0, qerrors.InvalidArgument("GetProbMap", "state must be 0 or 1 (got %d at qubit %d)", v, q)
		}
	}
	total := bitalg.Pow2(s.n)
	amps := s.state.Amplitudes
	var prob float64
	for i := uint64(0); i < total; i++ {
		match := true
		for q, v := range assignment {
			if int(bitalg.ExtractDigit(i, q)) != v {
				match = false
				break
			}
		}
		if match {
			a := amps[i]
			prob += real(a)*real(a) + imag(a)*imag(a)
		}
	}
	return prob, nil
}

// Amplitudes exposes a read-only view of the full state for tests and
// cross-engine comparisons; callers must not mutate the returned slice.
func (s *Simulator) Amplitudes() []complex128 { return s.state.Amplitudes }
