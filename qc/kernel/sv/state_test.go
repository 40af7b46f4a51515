package sv

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/qpandalite/qsim/qc/gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normOf(s *State) float64 {
	var sum float64
	for _, a := range s.Amplitudes {
		sum += real(a)*real(a) + imag(a)*imag(a)
	}
	return sum
}

func TestNewIsGroundState(t *testing.T) {
	s := New(3)
	assert.Len(t, s.Amplitudes, 8)
	assert.Equal(t, complex(1, 0), s.Amplitudes[0])
	assert.InDelta(t, 1.0, normOf(s), 1e-12)
}

func TestApplyU22PreservesNorm(t *testing.T) {
	s := New(2)
	ApplyU22(s, 0, gate.H(), 0)
	ApplyU22(s, 1, gate.H(), 0)
	assert.InDelta(t, 1.0, normOf(s), 1e-9)
}

func TestHadamardOnGroundStateIsUniform(t *testing.T) {
	s := New(1)
	ApplyU22(s, 0, gate.H(), 0)
	want := complex(1/math.Sqrt2, 0)
	assert.InDelta(t, 0, cmplx.Abs(s.Amplitudes[0]-want), 1e-9)
	assert.InDelta(t, 0, cmplx.Abs(s.Amplitudes[1]-want), 1e-9)
}

func TestControlledXOnlyFlipsWhenControlSet(t *testing.T) {
	// |01> (LSB-first, qubit 0 = 1) with qubit 0 as control: CNOT(0,1) should produce |11>.
	s := New(2)
	ApplyU22(s, 0, gate.X(), 0) // now |01> in LSB-first indexing (qubit0=1)
	mask := uint64(1)          // control on qubit 0
	ApplyU22(s, 1, gate.X(), mask)
	// basis index 1 has bit0=1, bit1=0 before the CNOT; after CNOT qubit1 flips.
	require.InDelta(t, 1.0, real(s.Amplitudes[3])*real(s.Amplitudes[3])+imag(s.Amplitudes[3])*imag(s.Amplitudes[3]), 1e-9)
}

func TestControlledXNoOpWhenControlUnset(t *testing.T) {
	s := New(2)
	mask := uint64(1) // control on qubit 0, currently 0
	ApplyU22(s, 1, gate.X(), mask)
	assert.Equal(t, complex(1, 0), s.Amplitudes[0])
}

func TestApplyU44SwapExchangesAmplitudes(t *testing.T) {
	s := New(2)
	ApplyU22(s, 0, gate.X(), 0) // |01>, index 1
	ApplyU44(s, 0, 1, gate.SWAP(), 0)
	// after swap, amplitude should have moved from index1 to index2.
	assert.Equal(t, complex(1, 0), s.Amplitudes[2])
	assert.Equal(t, complex(0, 0), s.Amplitudes[1])
}

func TestRXNegativeAngleUndoesRX(t *testing.T) {
	s := New(1)
	theta := 1.234
	ApplyU22(s, 0, gate.RX(theta), 0)
	ApplyU22(s, 0, gate.RX(-theta), 0)
	assert.InDelta(t, 0, cmplx.Abs(s.Amplitudes[0]-1), 1e-9)
	assert.InDelta(t, 0, cmplx.Abs(s.Amplitudes[1]-0), 1e-9)
}

func TestNormalizeRescalesToUnitNorm(t *testing.T) {
	s := New(1)
	s.Amplitudes[0] = 2
	s.Amplitudes[1] = 0
	require.NoError(t, s.Normalize())
	assert.InDelta(t, 1.0, normOf(s), 1e-12)
}

func TestNormalizeFailsOnUnderflow(t *testing.T) {
	s := New(1)
	s.Amplitudes[0] = 0
	s.Amplitudes[1] = 0
	err := s.Normalize()
	require.Error(t, err)
}

func TestResetTransfersAmplitudeAndZeroesPartner(t *testing.T) {
	s := New(1)
	ApplyU22(s, 0, gate.X(), 0) // now in |1>
	require.NoError(t, s.Reset(0))
	assert.InDelta(t, 0, cmplx.Abs(s.Amplitudes[0]-1), 1e-9)
	assert.InDelta(t, 0, cmplx.Abs(s.Amplitudes[1]-0), 1e-9)
}

func TestPmeasureListMatchesProb0Prob1(t *testing.T) {
	s := New(2)
	ApplyU22(s, 0, gate.H(), 0)
	probs := s.PmeasureList([]int{0})
	assert.InDelta(t, s.Prob0(0), probs[0], 1e-12)
	assert.InDelta(t, s.Prob1(0), probs[1], 1e-12)
}

func TestCloneIsIndependent(t *testing.T) {
	s := New(1)
	clone := s.Clone()
	ApplyU22(s, 0, gate.X(), 0)
	assert.Equal(t, complex(1, 0), clone.Amplitudes[0])
	assert.Equal(t, complex(0, 0), s.Amplitudes[0])
}

func TestReinitRestoresGroundState(t *testing.T) {
	s := New(2)
	ApplyU22(s, 0, gate.H(), 0)
	s.Reinit()
	assert.Equal(t, complex(1, 0), s.Amplitudes[0])
	assert.InDelta(t, 1.0, normOf(s), 1e-12)
}
