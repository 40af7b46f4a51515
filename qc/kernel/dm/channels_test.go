package dm

import (
	"testing"

	"github.com/qpandalite/qsim/qc/gate"
	"github.com/qpandalite/qsim/qc/testutil"
	"github.com/stretchr/testify/require"
)

func TestDepolarizing1QIsCPTP(t *testing.T) {
	ops, err := Depolarizing1Q(0.3)
	require.NoError(t, err)
	require.NoError(t, ValidateKraus1Q(ops))
}

func TestDepolarizing1QRejectsOutOfRangeP(t *testing.T) {
	_, err := Depolarizing1Q(1.5)
	require.Error(t, err)
}

func TestBitflip1QIsCPTP(t *testing.T) {
	ops, err := Bitflip1Q(0.2)
	require.NoError(t, err)
	require.NoError(t, ValidateKraus1Q(ops))
}

func TestPhaseflip1QIsCPTP(t *testing.T) {
	ops, err := Phaseflip1Q(0.4)
	require.NoError(t, err)
	require.NoError(t, ValidateKraus1Q(ops))
}

func TestAmplitudeDamping1QIsCPTP(t *testing.T) {
	ops, err := AmplitudeDamping1Q(0.6)
	require.NoError(t, err)
	require.NoError(t, ValidateKraus1Q(ops))
}

func TestAmplitudeDamping1QDampsExcitedState(t *testing.T) {
	s := New(1)
	ApplyU22(s, 0, gate.X(), 0) // |1><1|
	ops, err := AmplitudeDamping1Q(1.0)
	require.NoError(t, err)
	require.NoError(t, ApplyKraus1Q(s, 0, ops))
	// gamma=1 deterministically decays |1> back to |0>.
	testutil.AssertProbability(t, real(s.Val(0, 0)), 1.0)
	testutil.AssertProbability(t, real(s.Val(1, 1)), 0.0)
}

func TestPauliError1QRejectsBadSum(t *testing.T) {
	_, err := PauliError1Q(0.5, 0.5, 0.5)
	require.Error(t, err)
}

func TestPauliError1QAcceptsResidualBelowOne(t *testing.T) {
	// sum=0.5 <= 1 is valid; the remaining 0.5 is left on the implied
	// identity term rather than being required to sum to exactly 1.
	ops, err := PauliError1Q(0.5, 0, 0)
	require.NoError(t, err)
	require.NoError(t, ValidateKraus1Q(ops))
}

func TestPauliError1QIsCPTPWhenValid(t *testing.T) {
	ops, err := PauliError1Q(0.1, 0.1, 0.1)
	require.NoError(t, err)
	require.NoError(t, ValidateKraus1Q(ops))
}

func TestTwoQubitDepolarizingIsCPTP(t *testing.T) {
	ops, err := TwoQubitDepolarizing(0.1)
	require.NoError(t, err)
	require.Len(t, ops, 16)
	require.NoError(t, ValidateKraus2Q(ops))
}

func TestPauliError2QIsCPTPWhenValid(t *testing.T) {
	var p [15]float64
	p[0] = 1.0
	ops, err := PauliError2Q(p)
	require.NoError(t, err)
	require.NoError(t, ValidateKraus2Q(ops))
}

func TestPauliError2QAcceptsResidualBelowOne(t *testing.T) {
	// sum=0.5 <= 1 is valid; the remaining 0.5 is left on the implied II term.
	var p [15]float64
	p[0] = 0.5
	ops, err := PauliError2Q(p)
	require.NoError(t, err)
	require.NoError(t, ValidateKraus2Q(ops))
}

func TestPauliError2QRejectsBadSum(t *testing.T) {
	var p [15]float64
	for i := range p {
		p[i] = 0.2
	}
	_, err := PauliError2Q(p)
	require.Error(t, err)
}

func TestApplyKraus2QTwoQubitDepolarizingAtZeroIsIdentity(t *testing.T) {
	s := New(2)
	ApplyU22(s, 0, gate.H(), 0)
	before := s.Clone()
	ops, err := TwoQubitDepolarizing(0.0)
	require.NoError(t, err)
	require.NoError(t, ApplyKraus2Q(s, 0, 1, ops))
	for i := 0; i < s.Dim(); i++ {
		for j := 0; j < s.Dim(); j++ {
			testutil.AssertProbability(t, real(s.Val(i, j)), real(before.Val(i, j)))
		}
	}
}
