package dm

import (
	"math"

	"github.com/qpandalite/qsim/qc/gate"
	"github.com/qpandalite/qsim/qc/qerrors"
)

// krausSumEps tolerates floating-point slack in the "probabilities must
// not exceed 1" checks below, matching the teacher's ε-tolerant trace and
// normalization checks elsewhere in this package.
const krausSumEps = 1e-9

// Depolarizing1Q returns the Kraus set for the single-qubit depolarizing
// channel with total error probability p: with probability 1-p the state
// is untouched, and with probability p/3 each of X, Y, Z is applied.
// depolarizing(q,p) = pauli_error_1q(p/3,p/3,p/3), per
// original_source/QPandaLiteCpp/src/density_operator_simulator.cpp's
// DensityOperatorSimulator::depolarizing.
func Depolarizing1Q(p float64) ([]gate.U22, error) {
	if p < 0 || p > 1 {
		return nil, qerrors.InvalidArgument("dm.Depolarizing1Q", "p=%v out of [0,1]", p)
	}
	return PauliError1Q(p/3, p/3, p/3)
}

// Bitflip1Q returns the Kraus set {sqrt(1-p) I, sqrt(p) X}.
func Bitflip1Q(p float64) ([]gate.U22, error) {
	if p < 0 || p > 1 {
		return nil, qerrors.InvalidArgument("dm.Bitflip1Q", "p=%v out of [0,1]", p)
	}
	return []gate.U22{
		scale22(gate.Identity22(), complex(math.Sqrt(1-p), 0)),
		scale22(gate.X(), complex(math.Sqrt(p), 0)),
	}, nil
}

// Phaseflip1Q returns the Kraus set {sqrt(1-p) I, sqrt(p) Z}.
func Phaseflip1Q(p float64) ([]gate.U22, error) {
	if p < 0 || p > 1 {
		return nil, qerrors.InvalidArgument("dm.Phaseflip1Q", "p=%v out of [0,1]", p)
	}
	return []gate.U22{
		scale22(gate.Identity22(), complex(math.Sqrt(1-p), 0)),
		scale22(gate.Z(), complex(math.Sqrt(p), 0)),
	}, nil
}

// AmplitudeDamping1Q returns the two-operator amplitude damping channel
// with decay probability gamma: E0 = [[1,0],[0,sqrt(1-gamma)]],
// E1 = [[0,sqrt(gamma)],[0,0]].
func AmplitudeDamping1Q(gamma float64) ([]gate.U22, error) {
	if gamma < 0 || gamma > 1 {
		return nil, qerrors.InvalidArgument("dm.AmplitudeDamping1Q", "gamma=%v out of [0,1]", gamma)
	}
	e0 := gate.U22{1, 0, 0, complex(math.Sqrt(1-gamma), 0)}
	e1 := gate.U22{0, complex(math.Sqrt(gamma), 0), 0, 0}
	return []gate.U22{e0, e1}, nil
}

// PauliError1Q returns a general single-qubit Pauli channel from explicit
// error probabilities {pX, pY, pZ}; pI is the implied residual 1-Σp, so
// only sum ≤ 1 is required (not sum == 1). Grounded on
// DensityOperatorSimulator::pauli_error_1q in
// original_source/QPandaLiteCpp/src/density_operator_simulator.cpp, which
// rejects only when px+py+pz > 1.
func PauliError1Q(pX, pY, pZ float64) ([]gate.U22, error) {
	for _, p := range []float64{pX, pY, pZ} {
		if p < 0 || p > 1 {
			return nil, qerrors.InvalidArgument("dm.PauliError1Q", "probability %v out of [0,1]", p)
		}
	}
	sum := pX + pY + pZ
	if sum > 1+krausSumEps {
		return nil, qerrors.InvalidArgument("dm.PauliError1Q", "probabilities sum to %v, want <= 1", sum)
	}
	pI := 1 - sum
	return []gate.U22{
		scale22(gate.Identity22(), complex(math.Sqrt(pI), 0)),
		scale22(gate.X(), complex(math.Sqrt(pX), 0)),
		scale22(gate.Y(), complex(math.Sqrt(pY), 0)),
		scale22(gate.Z(), complex(math.Sqrt(pZ), 0)),
	}, nil
}

// twoQubitPauliIndex enumerates the 15 nontrivial tensor-Pauli terms in
// the exact order spec.md §4.C names them: XI,YI,ZI,IX,XX,YX,ZX,IY,XY,YY,
// ZY,IZ,XZ,YZ,ZZ. Each entry is (index on the first qubit, index on the
// second), with 0=I,1=X,2=Y,3=Z — matches qc/noise's twoQubitPauliTable.
var twoQubitPauliIndex = [15][2]int{
	{1, 0}, {2, 0}, {3, 0},
	{0, 1}, {1, 1}, {2, 1}, {3, 1},
	{0, 2}, {1, 2}, {2, 2}, {3, 2},
	{0, 3}, {1, 3}, {2, 3}, {3, 3},
}

// TwoQubitDepolarizing returns the 16-operator Kraus set for the two-qubit
// depolarizing channel with total error probability p spread uniformly
// over the 15 non-identity Pauli-tensor-Pauli terms.
// two_qubit_depolarizing(p) = pauli_error_2q(p/15, p/15, ..., p/15).
func TwoQubitDepolarizing(p float64) ([]gate.U44, error) {
	if p < 0 || p > 1 {
		return nil, qerrors.InvalidArgument("dm.TwoQubitDepolarizing", "p=%v out of [0,1]", p)
	}
	var probs [15]float64
	for i := range probs {
		probs[i] = p / 15
	}
	return PauliError2Q(probs)
}

// PauliError2Q is the two-qubit analogue of PauliError1Q: 15 explicit
// error probabilities over the non-identity {I,X,Y,Z}⊗{I,X,Y,Z} terms (in
// twoQubitPauliIndex order), with the II term's probability implied as the
// residual 1-Σp, so only sum ≤ 1 is required. Grounded on
// DensityOperatorSimulator::pauli_error_2q in
// original_source/QPandaLiteCpp/src/density_operator_simulator.cpp, which
// rejects only when the 15 probabilities sum to more than 1.
func PauliError2Q(p [15]float64) ([]gate.U44, error) {
	var sum float64
	for _, v := range p {
		if v < 0 || v > 1 {
			return nil, qerrors.InvalidArgument("dm.PauliError2Q", "probability %v out of [0,1]", v)
		}
		sum += v
	}
	if sum > 1+krausSumEps {
		return nil, qerrors.InvalidArgument("dm.PauliError2Q", "probabilities sum to %v, want <= 1", sum)
	}
	paulis1q := []gate.U22{gate.Identity22(), gate.X(), gate.Y(), gate.Z()}
	ops := make([]gate.U44, 0, 16)
	ops = append(ops, scale44(kron22(paulis1q[0], paulis1q[0]), complex(math.Sqrt(1-sum), 0)))
	for idx, pair := range twoQubitPauliIndex {
		ops = append(ops, scale44(kron22(paulis1q[pair[0]], paulis1q[pair[1]]), complex(math.Sqrt(p[idx]), 0)))
	}
	return ops, nil
}

func scale22(u gate.U22, c complex128) gate.U22 {
	var out gate.U22
	for i := range u {
		out[i] = u[i] * c
	}
	return out
}

func scale44(u gate.U44, c complex128) gate.U44 {
	var out gate.U44
	for i := range u {
		out[i] = u[i] * c
	}
	return out
}

// kron22 builds the 4x4 Kronecker product a ⊗ b.
func kron22(a, b gate.U22) gate.U44 {
	var out gate.U44
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				for l := 0; l < 2; l++ {
					out[(i*2+k)*4+(j*2+l)] = a.At(i, j) * b.At(k, l)
				}
			}
		}
	}
	return out
}
