package densityop

import (
	"testing"

	"github.com/qpandalite/qsim/qc/gate"
	"github.com/qpandalite/qsim/qc/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsOverCeiling(t *testing.T) {
	_, err := New(DefaultMaxQubits + 1)
	require.Error(t, err)
}

func TestBellStateMatchesPureStateProbabilities(t *testing.T) {
	s, err := New(2)
	require.NoError(t, err)
	require.NoError(t, s.H(0))
	require.NoError(t, s.CNOT(0, 1))

	testutil.AssertProbability(t, real(s.Trace()), 1.0)
	p00, err := s.GetProbMap(map[int]int{0: 0, 1: 0})
	require.NoError(t, err)
	testutil.AssertProbability(t, p00, 0.5)
	p11, err := s.GetProbMap(map[int]int{0: 1, 1: 1})
	require.NoError(t, err)
	testutil.AssertProbability(t, p11, 0.5)
	p01, err := s.GetProbMap(map[int]int{0: 0, 1: 1})
	require.NoError(t, err)
	testutil.AssertProbability(t, p01, 0.0)
}

func TestDepolarizingAtZeroPreservesState(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)
	require.NoError(t, s.H(0))
	before := append([]float64{}, s.StateProb()...)
	require.NoError(t, s.Depolarizing(0, 0.0))
	after := s.StateProb()
	for i := range before {
		testutil.AssertProbability(t, after[i], before[i])
	}
}

func TestBitflipAtPOneFlipsPopulation(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)
	require.NoError(t, s.Bitflip(0, 1.0))
	p1, err := s.GetProb(0, 1)
	require.NoError(t, err)
	testutil.AssertProbability(t, p1, 1.0)
}

func TestAmplitudeDampingDecaysExcitedState(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)
	require.NoError(t, s.X(0))
	require.NoError(t, s.AmplitudeDamping(0, 1.0))
	p0, err := s.GetProb(0, 0)
	require.NoError(t, err)
	testutil.AssertProbability(t, p0, 1.0)
}

func TestKraus1QRejectsIncompleteOperatorSet(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)
	err = s.Kraus1Q(0, []gate.U22{gate.X()}) // missing complementary term, not CPTP
	require.Error(t, err)
}

func TestTwoQubitDepolarizingIsTraceAndHermiticityPreserving(t *testing.T) {
	s, err := New(2)
	require.NoError(t, err)
	require.NoError(t, s.H(0))
	require.NoError(t, s.CNOT(0, 1))
	require.NoError(t, s.TwoQubitDepolarizing(0, 1, 0.1))
	testutil.AssertProbability(t, real(s.Trace()), 1.0)
	testutil.AssertHermitian(t, s.state.Dim(), s.state.Val)
}

func TestToffoliOnDensityMatrixMatchesClassicalTruthTable(t *testing.T) {
	s, err := New(3)
	require.NoError(t, err)
	require.NoError(t, s.X(0))
	require.NoError(t, s.X(1))
	require.NoError(t, s.Toffoli(0, 1, 2))
	p1, err := s.GetProb(2, 1)
	require.NoError(t, err)
	testutil.AssertProbability(t, p1, 1.0)
}

func TestPauliError2QAcceptsResidualBelowOne(t *testing.T) {
	s, err := New(2)
	require.NoError(t, err)
	// sum=0.5 <= 1 is valid; the remaining 0.5 stays on the implied II term.
	var p [15]float64
	p[0] = 0.5
	require.NoError(t, s.PauliError2Q(0, 1, p))
}

func TestPauliError2QRejectsBadProbabilities(t *testing.T) {
	s, err := New(2)
	require.NoError(t, err)
	var p [15]float64
	for i := range p {
		p[i] = 0.2
	}
	err = s.PauliError2Q(0, 1, p)
	require.Error(t, err)
}
