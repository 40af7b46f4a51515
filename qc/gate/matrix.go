// Package gate builds the small 2x2 / 4x4 unitary matrices the simulator
// facades apply to a state vector or density matrix. Every gate is reduced
// to "build a stack value, optionally dagger it, hand it to one kernel
// entry point" — the teacher's Gate-interface-per-named-type design
// (qc/gate/gate.go, qc/gate/builtin.go in the reference corpus) is
// generalized here from a fixed set of singleton gates to
// matrix-parameterized gates, since the spec's gate vocabulary is built
// from angles rather than a closed enum of immutable values.
package gate

import (
	"math"
	"math/cmplx"

	"github.com/qpandalite/qsim/qc/qerrors"
)

const eps = 1e-7

// U22 is a 2x2 unitary stored row-major: {u00, u01, u10, u11}.
type U22 [4]complex128

// U44 is a 4x4 unitary stored row-major.
type U44 [16]complex128

// At returns U22[i*2+j].
func (u U22) At(i, j int) complex128 { return u[i*2+j] }

// At returns U44[i*4+j].
func (u U44) At(i, j int) complex128 { return u[i*4+j] }

// Dagger22 returns the conjugate transpose of u. A single generic
// implementation covers every dagger rule in spec.md §4.B: it is a no-op
// on self-inverse Paulis, it negates the angle of a parametric rotation,
// and it flips the sign of the off-diagonal i on iSWAP/XY — all of those
// are exactly what conjugate-transposing the built matrix produces.
func Dagger22(u U22) U22 {
	return U22{
		cmplx.Conj(u.At(0, 0)), cmplx.Conj(u.At(1, 0)),
		cmplx.Conj(u.At(0, 1)), cmplx.Conj(u.At(1, 1)),
	}
}

// Dagger44 returns the conjugate transpose of u.
func Dagger44(u U44) U44 {
	var out U44
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i*4+j] = cmplx.Conj(u.At(j, i))
		}
	}
	return out
}

// MaybeDagger22 applies Dagger22 iff dagger is true.
func MaybeDagger22(u U22, dagger bool) U22 {
	if dagger {
		return Dagger22(u)
	}
	return u
}

// MaybeDagger44 applies Dagger44 iff dagger is true.
func MaybeDagger44(u U44, dagger bool) U44 {
	if dagger {
		return Dagger44(u)
	}
	return u
}

// IsUnitary22 checks U U† = I within eps. Used to validate user-supplied
// matrices at the constructor boundary.
func IsUnitary22(u U22) bool {
	d := matmul22(u, Dagger22(u))
	return complexEqual(d.At(0, 0), 1) && complexEqual(d.At(1, 1), 1) &&
		complexEqual(d.At(0, 1), 0) && complexEqual(d.At(1, 0), 0)
}

// IsUnitary44 checks U U† = I within eps.
func IsUnitary44(u U44) bool {
	d := matmul44(u, Dagger44(u))
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := complex(0, 0)
			if i == j {
				want = 1
			}
			if !complexEqual(d.At(i, j), want) {
				return false
			}
		}
	}
	return true
}

func complexEqual(a, b complex128) bool {
	return math.Abs(real(a)-real(b)) <= eps && math.Abs(imag(a)-imag(b)) <= eps
}

// MatMul22 multiplies two 2x2 matrices.
func MatMul22(a, b U22) U22 { return matmul22(a, b) }

// MatMul44 multiplies two 4x4 matrices.
func MatMul44(a, b U44) U44 { return matmul44(a, b) }

func matmul22(a, b U22) U22 {
	var out U22
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			var sum complex128
			for k := 0; k < 2; k++ {
				sum += a.At(i, k) * b.At(k, j)
			}
			out[i*2+j] = sum
		}
	}
	return out
}

func matmul44(a, b U44) U44 {
	var out U44
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum complex128
			for k := 0; k < 4; k++ {
				sum += a.At(i, k) * b.At(k, j)
			}
			out[i*4+j] = sum
		}
	}
	return out
}

// NewU22 validates a caller-supplied matrix is unitary before accepting it.
func NewU22(m [4]complex128) (U22, error) {
	u := U22(m)
	if !IsUnitary22(u) {
		return U22{}, qerrors.InvalidArgument("gate.NewU22", "matrix is not unitary within eps=%v", eps)
	}
	return u, nil
}

// NewU44 validates a caller-supplied matrix is unitary before accepting it.
func NewU44(m [16]complex128) (U44, error) {
	u := U44(m)
	if !IsUnitary44(u) {
		return U44{}, qerrors.InvalidArgument("gate.NewU44", "matrix is not unitary within eps=%v", eps)
	}
	return u, nil
}

// ---------- single-qubit gate builders ----------

var invSqrt2 = complex(1/math.Sqrt2, 0)

// Identity22 is the 2x2 identity, used by channel builders as the
// no-error Kraus term.
func Identity22() U22 { return U22{1, 0, 0, 1} }

func H() U22 { return U22{invSqrt2, invSqrt2, invSqrt2, -invSqrt2} }
func X() U22 { return U22{0, 1, 1, 0} }
func Y() U22 { return U22{0, -1i, 1i, 0} }
func Z() U22 { return U22{1, 0, 0, -1} }
func S() U22 { return U22{1, 0, 0, 1i} }
func T() U22 { return U22{1, 0, 0, cmplx.Exp(1i * math.Pi / 4)} }
func Sdg() U22 { return Dagger22(S()) }
func Tdg() U22 { return Dagger22(T()) }

func SX() U22 {
	half := complex(0.5, 0.5)
	halfc := complex(0.5, -0.5)
	return U22{half, halfc, halfc, half}
}

// RX(θ) = exp(-iθX/2).
func RX(theta float64) U22 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return U22{c, s, s, c}
}

// RY(θ) = exp(-iθY/2).
func RY(theta float64) U22 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return U22{c, -s, s, c}
}

// RZ(θ) = exp(-iθZ/2).
func RZ(theta float64) U22 {
	return U22{cmplx.Exp(complex(0, -theta/2)), 0, 0, cmplx.Exp(complex(0, theta/2))}
}

// U1(λ) = diag(1, e^{iλ}), i.e. RZ up to a global phase.
func U1(lambda float64) U22 {
	return U22{1, 0, 0, cmplx.Exp(complex(0, lambda))}
}

// U2(φ,λ) = 1/√2 [[1, -e^{iλ}], [e^{iφ}, e^{i(φ+λ)}]].
func U2(phi, lambda float64) U22 {
	return U22{
		invSqrt2, -invSqrt2 * cmplx.Exp(complex(0, lambda)),
		invSqrt2 * cmplx.Exp(complex(0, phi)), invSqrt2 * cmplx.Exp(complex(0, phi+lambda)),
	}
}

// U3(θ,φ,λ) is the general single-qubit unitary up to global phase.
func U3(theta, phi, lambda float64) U22 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return U22{
		c, -s * cmplx.Exp(complex(0, lambda)),
		s * cmplx.Exp(complex(0, phi)), c * cmplx.Exp(complex(0, phi+lambda)),
	}
}

// Rphi90(φ) = RX/RY-plane π/2 rotation: Rphi(π/2, φ).
func Rphi90(phi float64) U22 { return Rphi(math.Pi/2, phi) }

// Rphi180(φ) = Rphi(π, φ).
func Rphi180(phi float64) U22 { return Rphi(math.Pi, phi) }

// Rphi(θ,φ) rotates by angle θ about the axis cos(φ)X + sin(φ)Y:
// U = cos(θ/2) I - i sin(θ/2) (cos(φ) X + sin(φ) Y).
func Rphi(theta, phi float64) U22 {
	c := complex(math.Cos(theta/2), 0)
	halfSin := math.Sin(theta / 2)
	nx := math.Cos(phi)
	ny := math.Sin(phi)
	u01 := complex(-halfSin*ny, -halfSin*nx)
	u10 := complex(halfSin*ny, -halfSin*nx)
	return U22{c, u01, u10, c}
}

// ---------- two-qubit gate builders (U44, row-major over |q1 q2> with q1 the MSB of the pair) ----------

func SWAP() U44 {
	return U44{
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
	}
}

func ISWAP() U44 {
	return U44{
		1, 0, 0, 0,
		0, 0, 1i, 0,
		0, 1i, 0, 0,
		0, 0, 0, 1,
	}
}

// XY(θ) acts as identity on |00>,|11> and rotates the |01>,|10> subspace.
func XY(theta float64) U44 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return U44{
		1, 0, 0, 0,
		0, c, s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}
}

// XX(θ) = exp(-iθ XX/2).
func XX(theta float64) U44 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return U44{
		c, 0, 0, s,
		0, c, s, 0,
		0, s, c, 0,
		s, 0, 0, c,
	}
}

// YY(θ) = exp(-iθ YY/2).
func YY(theta float64) U44 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return U44{
		c, 0, 0, -s,
		0, c, s, 0,
		0, s, c, 0,
		-s, 0, 0, c,
	}
}

// ZZ(θ) = exp(-iθ ZZ/2), diagonal.
func ZZ(theta float64) U44 {
	m := cmplx.Exp(complex(0, -theta/2))
	p := cmplx.Exp(complex(0, theta/2))
	return U44{
		m, 0, 0, 0,
		0, p, 0, 0,
		0, 0, p, 0,
		0, 0, 0, m,
	}
}

// CZDiag is the diagonal CZ matrix as a standalone U44 primitive (an
// alternative to expressing it as Z with one control, kept because
// spec.md §4.B lists CZ among the two-qubit primitives directly).
func CZDiag() U44 {
	return U44{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, -1,
	}
}
