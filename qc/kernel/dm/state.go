// Package dm implements the linearized density-matrix kernels for the
// mixed-state simulator (spec.md §4.C). ρ is stored row-major as a flat
// N*N slice; gate application on a density matrix has to account for
// controls acting on the row index and the column index independently,
// which is why the kernels here run a 3-case partial-action table instead
// of the single unconditional conjugation a control-free apply would need.
//
// Grounded on density_operator_simulator_impl::apply_irho_udag /
// apply_urho_i / evolve_u22 in
// original_source/QPandaLiteCpp/src/simulator_impl.h: that code builds the
// same row-satisfied/col-satisfied boolean pair and switches between full
// conjugation, left-only, right-only and identity. The block-extraction
// convention (val(rho,i,j) = data[i*dim+j]) is carried over unchanged.
package dm

import (
	"math/cmplx"

	"github.com/qpandalite/qsim/qc/gate"
	"github.com/qpandalite/qsim/qc/qerrors"
)

// State is an owned, mutable N*N density matrix, N = 2^Qubits.
type State struct {
	Data   []complex128
	Qubits int
	dim    int
}

// New allocates ρ = |0...0><0...0| for n qubits.
func New(n int) *State {
	dim := 1 << uint(n)
	data := make([]complex128, dim*dim)
	data[0] = 1
	return &State{Data: data, Qubits: n, dim: dim}
}

// Dim returns 2^Qubits.
func (s *State) Dim() int { return s.dim }

// Val returns ρ[i][j].
func (s *State) Val(i, j int) complex128 { return s.Data[i*s.dim+j] }

// SetVal writes ρ[i][j].
func (s *State) SetVal(i, j int, v complex128) { s.Data[i*s.dim+j] = v }

// Clone deep-copies the state.
func (s *State) Clone() *State {
	data := make([]complex128, len(s.Data))
	copy(data, s.Data)
	return &State{Data: data, Qubits: s.Qubits, dim: s.dim}
}

// Trace returns Σ ρ_ii, which should stay 1±ε under valid evolution.
func (s *State) Trace() complex128 {
	var sum complex128
	for i := 0; i < s.dim; i++ {
		sum += s.Val(i, i)
	}
	return sum
}

// StateProb returns the diagonal of ρ as real probabilities, i.e. the
// basis-state population vector.
func (s *State) StateProb() []float64 {
	out := make([]float64, s.dim)
	for i := range out {
		out[i] = real(s.Val(i, i))
	}
	return out
}

// controlSatisfied reports whether index i's bits satisfy controllerMask
// (0 means unconditional, always satisfied).
func controlSatisfied(i int, controllerMask uint64) bool {
	return controllerMask == 0 || uint64(i)&controllerMask == controllerMask
}

// ApplyU22 applies a single-qubit unitary u to qubit q of ρ, i.e.
// ρ ← U ρ U† restricted to the rows/cols whose control bits are satisfied.
// For each (row-quotient, col-quotient) pair of indices with bit q cleared,
// the 2x2 block at (i,i|qbit) x (j,j|qbit) is transformed by one of four
// cases depending on whether the row index and the column index satisfy
// controllerMask: both satisfied → full conjugation U·block·U†; only the
// row → left-multiply only; only the column → right-multiply only;
// neither → untouched. controllerMask==0 always takes the full-conjugation
// branch, matching uncontrolled evolution.
func ApplyU22(s *State, q int, u gate.U22, controllerMask uint64) {
	qbit := 1 << uint(q)
	dim := s.dim
	ud := gate.Dagger22(u)
	u00, u01, u10, u11 := u.At(0, 0), u.At(0, 1), u.At(1, 0), u.At(1, 1)
	ud00, ud01, ud10, ud11 := ud.At(0, 0), ud.At(0, 1), ud.At(1, 0), ud.At(1, 1)

	for i0 := 0; i0 < dim; i0++ {
		if i0&qbit != 0 {
			continue
		}
		i1 := i0 | qbit
		a := controlSatisfied(i0, controllerMask)
		for j0 := 0; j0 < dim; j0++ {
			if j0&qbit != 0 {
				continue
			}
			j1 := j0 | qbit
			b := controlSatisfied(j0, controllerMask)
			if !a && !b {
				continue
			}

			v00, v01 := s.Val(i0, j0), s.Val(i0, j1)
			v10, v11 := s.Val(i1, j0), s.Val(i1, j1)

			switch {
			case a && b:
				w00 := u00*v00 + u01*v10
				w01 := u00*v01 + u01*v11
				w10 := u10*v00 + u11*v10
				w11 := u10*v01 + u11*v11
				s.SetVal(i0, j0, w00*ud00+w01*ud10)
				s.SetVal(i0, j1, w00*ud01+w01*ud11)
				s.SetVal(i1, j0, w10*ud00+w11*ud10)
				s.SetVal(i1, j1, w10*ud01+w11*ud11)
			case a && !b:
				s.SetVal(i0, j0, u00*v00+u01*v10)
				s.SetVal(i0, j1, u00*v01+u01*v11)
				s.SetVal(i1, j0, u10*v00+u11*v10)
				s.SetVal(i1, j1, u10*v01+u11*v11)
			default: // !a && b
				s.SetVal(i0, j0, v00*ud00+v01*ud10)
				s.SetVal(i0, j1, v00*ud01+v01*ud11)
				s.SetVal(i1, j0, v10*ud00+v11*ud10)
				s.SetVal(i1, j1, v10*ud01+v11*ud11)
			}
		}
	}
}

// ApplyU44 is the two-qubit analogue of ApplyU22: it operates on 4x4
// blocks indexed by the local (q1,q2) basis (q1 the more significant bit),
// independently testing controllerMask against the row quotient and the
// column quotient.
func ApplyU44(s *State, q1, q2 int, u gate.U44, controllerMask uint64) {
	m1 := 1 << uint(q1)
	m2 := 1 << uint(q2)
	both := m1 | m2
	dim := s.dim
	ud := gate.Dagger44(u)

	var block, out [4][4]complex128

	for i0 := 0; i0 < dim; i0++ {
		if i0&both != 0 {
			continue
		}
		rowIdx := [4]int{i0, i0 | m2, i0 | m1, i0 | both}
		a := controlSatisfied(i0, controllerMask)
		for j0 := 0; j0 < dim; j0++ {
			if j0&both != 0 {
				continue
			}
			colIdx := [4]int{j0, j0 | m2, j0 | m1, j0 | both}
			b := controlSatisfied(j0, controllerMask)
			if !a && !b {
				continue
			}

			for r := 0; r < 4; r++ {
				for c := 0; c < 4; c++ {
					block[r][c] = s.Val(rowIdx[r], colIdx[c])
				}
			}

			switch {
			case a && b:
				var w [4][4]complex128
				for r := 0; r < 4; r++ {
					for c := 0; c < 4; c++ {
						var sum complex128
						for k := 0; k < 4; k++ {
							sum += u.At(r, k) * block[k][c]
						}
						w[r][c] = sum
					}
				}
				for r := 0; r < 4; r++ {
					for c := 0; c < 4; c++ {
						var sum complex128
						for k := 0; k < 4; k++ {
							sum += w[r][k] * ud.At(k, c)
						}
						out[r][c] = sum
					}
				}
			case a && !b:
				for r := 0; r < 4; r++ {
					for c := 0; c < 4; c++ {
						var sum complex128
						for k := 0; k < 4; k++ {
							sum += u.At(r, k) * block[k][c]
						}
						out[r][c] = sum
					}
				}
			default: // !a && b
				for r := 0; r < 4; r++ {
					for c := 0; c < 4; c++ {
						var sum complex128
						for k := 0; k < 4; k++ {
							sum += block[r][k] * ud.At(k, c)
						}
						out[r][c] = sum
					}
				}
			}

			for r := 0; r < 4; r++ {
				for c := 0; c < 4; c++ {
					s.SetVal(rowIdx[r], colIdx[c], out[r][c])
				}
			}
		}
	}
}

const krausEps = 1e-6

// ValidateKraus1Q checks Σ_k E_k† E_k = I within krausEps, the CPTP
// completeness condition spec.md §7 requires to be validated once when a
// Kraus set is supplied.
func ValidateKraus1Q(ops []gate.U22) error {
	var sum gate.U22
	for _, e := range ops {
		p := gate.MatMul22(gate.Dagger22(e), e)
		for i := range sum {
			sum[i] += p[i]
		}
	}
	if !isIdentity22(sum) {
		return qerrors.InvalidArgument("dm.ValidateKraus1Q", "Kraus operators are not CPTP: sum(E_k^dagger E_k) != I")
	}
	return nil
}

// ValidateKraus2Q is the two-qubit analogue of ValidateKraus1Q.
func ValidateKraus2Q(ops []gate.U44) error {
	var sum gate.U44
	for _, e := range ops {
		p := gate.MatMul44(gate.Dagger44(e), e)
		for i := range sum {
			sum[i] += p[i]
		}
	}
	if !isIdentity44(sum) {
		return qerrors.InvalidArgument("dm.ValidateKraus2Q", "Kraus operators are not CPTP: sum(E_k^dagger E_k) != I")
	}
	return nil
}

func isIdentity22(u gate.U22) bool {
	want := gate.U22{1, 0, 0, 1}
	for i := range u {
		if cmplx.Abs(u[i]-want[i]) > krausEps {
			return false
		}
	}
	return true
}

func isIdentity44(u gate.U44) bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := complex(0.0, 0.0)
			if i == j {
				want = 1
			}
			if cmplx.Abs(u.At(i, j)-want) > krausEps {
				return false
			}
		}
	}
	return true
}

// ApplyKraus1Q replaces ρ with Σ_k E_k ρ E_k†: an accumulator starts at
// zero, and for each operator a scratch copy of ρ is fully conjugated by
// it (ApplyU22 with controllerMask 0, i.e. unconditional full conjugation)
// and added in. Completeness is validated once up front, per spec.md §7.
func ApplyKraus1Q(s *State, q int, ops []gate.U22) error {
	if err := ValidateKraus1Q(ops); err != nil {
		return err
	}
	acc := make([]complex128, len(s.Data))
	for _, e := range ops {
		scratch := s.Clone()
		ApplyU22(scratch, q, e, 0)
		for i, v := range scratch.Data {
			acc[i] += v
		}
	}
	copy(s.Data, acc)
	return nil
}

// ApplyKraus2Q is the two-qubit analogue of ApplyKraus1Q.
func ApplyKraus2Q(s *State, q1, q2 int, ops []gate.U44) error {
	if err := ValidateKraus2Q(ops); err != nil {
		return err
	}
	acc := make([]complex128, len(s.Data))
	for _, e := range ops {
		scratch := s.Clone()
		ApplyU44(scratch, q1, q2, e, 0)
		for i, v := range scratch.Data {
			acc[i] += v
		}
	}
	copy(s.Data, acc)
	return nil
}
