// Package densityop is the user-visible density-operator simulator facade
// (spec.md §4.D), sharing its gate vocabulary with statevector but
// dispatching to the dm kernel package and additionally exposing Kraus
// channels. Grounded the same way as qc/simulator/statevector: one facade
// method per gate, matrix built then handed to one kernel entry point.
package densityop

import (
	"github.com/qpandalite/qsim/internal/logger"
	"github.com/qpandalite/qsim/qc/bitalg"
	"github.com/qpandalite/qsim/qc/gate"
	"github.com/qpandalite/qsim/qc/kernel/dm"
	"github.com/qpandalite/qsim/qc/qerrors"
)

// DefaultMaxQubits is the ceiling spec.md §4.D documents for the DM
// facade: memory is quadratic in 2^n, so the default is much lower than
// the state-vector facade's.
const DefaultMaxQubits = 10

// Simulator is a density-operator engine over n qubits.
type Simulator struct {
	state     *dm.State
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

// New allocates ρ = |0...0><0...0| for n qubits. Fails with
// InvalidArgument if n exceeds the configured ceiling (default 10).
func New(n int, opts ...Option) (*Simulator, error) {
	s := &Simulator{maxQubits: DefaultMaxQubits, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	if n <= 0 || n > s.maxQubits {
		return nil, qerrors.InvalidArgument("densityop.New", "n=%d exceeds configured ceiling %d", n, s.maxQubits)
	}
	s.n = n
	s.state = dm.New(n)
	s.log = s.log.SpawnForFacade("densityop")
	s.log.Debug().Int("qubits", n).Msg("density operator simulator initialized")
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
	dm.ApplyU22(s.state, q, gate.MaybeDagger22(u, dagger), mask)
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
	dm.ApplyU44(s.state, q1, q2, gate.MaybeDagger44(u, dagger), mask)
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

func (s *Simulator) CZ(q1, q2 int, controls ...int) error {
	return s.apply1("CZ", q2, gate.Z(), false, append([]int{q1}, controls...))
}
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

func (s *Simulator) Toffoli(c1, c2, target int) error {
	return s.apply1("Toffoli", target, gate.X(), false, []int{c1, c2})
}
func (s *Simulator) CSWAP(control, q1, q2 int) error {
	return s.apply2("CSWAP", q1, q2, gate.SWAP(), false, []int{control})
}

func (s *Simulator) Phase2Q(q1, q2 int, theta1, theta2, thetaZZ float64) error {
	if err := s.U1(q1, theta1, false); err != nil {
		return err
	}
	if err := s.U1(q2, theta2, false); err != nil {
		return err
	}
	return s.ZZ(q1, q2, thetaZZ, false)
}

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

// ---------- Kraus channels ----------

// Depolarizing applies depolarizing(q,p) = pauli_error_1q(p/3,p/3,p/3).
func (s *Simulator) Depolarizing(q int, p float64) error {
	if err := s.checkTargets("Depolarizing", q); err != nil {
		return err
	}
	ops, err := dm.Depolarizing1Q(p)
	if err != nil {
		return err
	}
	return dm.ApplyKraus1Q(s.state, q, ops)
}

// Bitflip applies {√p X, √(1-p) I}.
func (s *Simulator) Bitflip(q int, p float64) error {
	if err := s.checkTargets("Bitflip", q); err != nil {
		return err
	}
	ops, err := dm.Bitflip1Q(p)
	if err != nil {
		return err
	}
	return dm.ApplyKraus1Q(s.state, q, ops)
}

// Phaseflip applies {√p Z, √(1-p) I}.
func (s *Simulator) Phaseflip(q int, p float64) error {
	if err := s.checkTargets("Phaseflip", q); err != nil {
		return err
	}
	ops, err := dm.Phaseflip1Q(p)
	if err != nil {
		return err
	}
	return dm.ApplyKraus1Q(s.state, q, ops)
}

// AmplitudeDamping applies E0=diag(1,√(1-γ)), E1=√γ|0><1|.
func (s *Simulator) AmplitudeDamping(q int, gamma float64) error {
	if err := s.checkTargets("AmplitudeDamping", q); err != nil {
		return err
	}
	ops, err := dm.AmplitudeDamping1Q(gamma)
	if err != nil {
		return err
	}
	return dm.ApplyKraus1Q(s.state, q, ops)
}

// PauliError1Q applies a general single-qubit Pauli channel from explicit
// error probabilities {pX,pY,pZ}; pI is the implied residual 1-Σp, so
// only pX+pY+pZ ≤ 1 is required.
func (s *Simulator) PauliError1Q(q int, pX, pY, pZ float64) error {
	if err := s.checkTargets("PauliError1Q", q); err != nil {
		return err
	}
	ops, err := dm.PauliError1Q(pX, pY, pZ)
	if err != nil {
		return err
	}
	return dm.ApplyKraus1Q(s.state, q, ops)
}

// PauliError2Q applies a general two-qubit Pauli channel from 15 explicit
// error probabilities over the non-identity {I,X,Y,Z}⊗{I,X,Y,Z} terms, in
// the order XI,YI,ZI,IX,XX,YX,ZX,IY,XY,YY,ZY,IZ,XZ,YZ,ZZ; the II term's
// probability is the implied residual 1-Σp, so only Σp ≤ 1 is required.
func (s *Simulator) PauliError2Q(q1, q2 int, p [15]float64) error {
	if err := s.checkTargets("PauliError2Q", q1, q2); err != nil {
		return err
	}
	ops, err := dm.PauliError2Q(p)
	if err != nil {
		return err
	}
	return dm.ApplyKraus2Q(s.state, q1, q2, ops)
}

// TwoQubitDepolarizing applies two_qubit_depolarizing(p) = pauli_error_2q(p/15, ...).
func (s *Simulator) TwoQubitDepolarizing(q1, q2 int, p float64) error {
	if err := s.checkTargets("TwoQubitDepolarizing", q1, q2); err != nil {
		return err
	}
	ops, err := dm.TwoQubitDepolarizing(p)
	if err != nil {
		return err
	}
	return dm.ApplyKraus2Q(s.state, q1, q2, ops)
}

// Kraus1Q applies a caller-supplied single-qubit Kraus set after
// validating its completeness, a direct pass-through onto dm.ApplyKraus1Q
// that shares the same completeness-check code path as the built-in
// channels (original_source/QPandaLiteCpp exposes this as a generic
// "apply custom Kraus operators" entry point alongside the named channels).
func (s *Simulator) Kraus1Q(q int, ops []gate.U22) error {
	if err := s.checkTargets("Kraus1Q", q); err != nil {
		return err
	}
	return dm.ApplyKraus1Q(s.state, q, ops)
}

// Kraus2Q is the two-qubit analogue of Kraus1Q.
func (s *Simulator) Kraus2Q(q1, q2 int, ops []gate.U44) error {
	if err := s.checkTargets("Kraus2Q", q1, q2); err != nil {
		return err
	}
	return dm.ApplyKraus2Q(s.state, q1, q2, ops)
}

// ---------- probabilities & marginals ----------

// GetProb sums the diagonal ρ_ii over basis indices whose qubit q equals v.
func (s *Simulator) GetProb(q, v int) (float64, error) {
	if err := s.checkTargets("GetProb", q); err != nil {
		return 0, err
	}
	qbit := 1 << uint(q)
	var sum float64
	dim := s.state.Dim()
	for i := 0; i < dim; i++ {
		bit := 0
		if i&qbit != 0 {
			bit = 1
		}
		if bit == v {
			sum += real(s.state.Val(i, i))
		}
	}
	return sum, nil
}

// Pmeasure returns a vector of length 2^len(qs) whose entry at sub-index
// j equals Σ ρ_ii over basis indices projecting onto j.
func (s *Simulator) Pmeasure(qs []int) ([]float64, error) {
	if _, err := bitalg.PreprocessMeasureList(qs, s.n); err != nil {
		return nil, err
	}
	out := make([]float64, 1<<uint(len(qs)))
	dim := s.state.Dim()
	for i := 0; i < dim; i++ {
		var sub int
		for j, q := range qs {
			if i&(1<<uint(q)) != 0 {
				sub |= 1 << uint(j)
			}
		}
		out[sub] += real(s.state.Val(i, i))
	}
	return out, nil
}

// GetProbMap returns the joint probability that every qubit named in
// assignment takes the paired value (0 or 1), summing the diagonal ρ_ii
// over every basis index i consistent with all of them. Grounded on
// DensityOperatorSimulator::get_prob_map in
// original_source/QPandaLiteCpp/src/density_operator_simulator.cpp.
func (s *Simulator) GetProbMap(assignment map[int]int) (float64, error) {
	for q, v := range assignment {
		if err := s.checkTargets("GetProbMap", q); err != nil {
			return 0, err
		}
		if v != 0 && v != 1 {
			return 0, qerrors.InvalidArgument("GetProbMap", "state must be 0 or 1 (got %d at qubit %d)", v, q)
		}
	}
	dim := s.state.Dim()
	var prob float64
	for i := 0; i < dim; i++ {
		match := true
		for q, v := range assignment {
			bit := 0
			if i&(1<<uint(q)) != 0 {
				bit = 1
			}
			if bit != v {
				match = false
				break
			}
		}
		if match {
			prob += real(s.state.Val(i, i))
		}
	}
	return prob, nil
}

// StateProb returns the full diagonal of ρ, i.e. Pmeasure over every qubit.
func (s *Simulator) StateProb() []float64 { return s.state.StateProb() }

// Trace returns Σ ρ_ii, which should remain 1±ε under valid evolution.
func (s *Simulator) Trace() complex128 { return s.state.Trace() }
