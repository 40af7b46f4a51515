package dm

import (
	"testing"

	"github.com/qpandalite/qsim/qc/gate"
	"github.com/qpandalite/qsim/qc/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsGroundState(t *testing.T) {
	s := New(2)
	assert.Equal(t, complex(1, 0), s.Val(0, 0))
	testutil.AssertProbability(t, real(s.Trace()), 1.0)
}

func TestApplyU22PreservesTraceAndHermiticity(t *testing.T) {
	s := New(1)
	ApplyU22(s, 0, gate.H(), 0)
	testutil.AssertProbability(t, real(s.Trace()), 1.0)
	testutil.AssertHermitian(t, s.Dim(), s.Val)
}

func TestApplyU22MatchesPureStateProbabilities(t *testing.T) {
	// H on |0> gives a uniform diagonal, matching |+><+|.
	s := New(1)
	ApplyU22(s, 0, gate.H(), 0)
	probs := s.StateProb()
	testutil.AssertProbability(t, probs[0], 0.5)
	testutil.AssertProbability(t, probs[1], 0.5)
}

func TestApplyU22UncontrolledIsFullConjugation(t *testing.T) {
	s := New(1)
	ApplyU22(s, 0, gate.X(), 0)
	// rho should now be |1><1|.
	testutil.AssertProbability(t, real(s.Val(0, 0)), 0.0)
	testutil.AssertProbability(t, real(s.Val(1, 1)), 1.0)
}

func TestApplyU22ControlledNoOpWhenControlUnset(t *testing.T) {
	s := New(2)
	mask := uint64(1) // control on qubit 0, currently |0>
	ApplyU22(s, 1, gate.X(), mask)
	testutil.AssertProbability(t, real(s.Val(0, 0)), 1.0)
}

func TestApplyU22ControlledFlipsWhenControlSet(t *testing.T) {
	s := New(2)
	ApplyU22(s, 0, gate.X(), 0) // rho now |01><01| at index 1 (qubit0=1)
	mask := uint64(1)
	ApplyU22(s, 1, gate.X(), mask)
	testutil.AssertProbability(t, real(s.Val(3, 3)), 1.0)
}

func TestApplyU44SwapExchangesPopulations(t *testing.T) {
	s := New(2)
	ApplyU22(s, 0, gate.X(), 0) // population at index 1
	ApplyU44(s, 0, 1, gate.SWAP(), 0)
	testutil.AssertProbability(t, real(s.Val(2, 2)), 1.0)
	testutil.AssertProbability(t, real(s.Val(1, 1)), 0.0)
}

func TestCloneIsIndependent(t *testing.T) {
	s := New(1)
	clone := s.Clone()
	ApplyU22(s, 0, gate.X(), 0)
	assert.Equal(t, complex(1, 0), clone.Val(0, 0))
	assert.Equal(t, complex(0, 0), s.Val(0, 0))
}

func TestValidateKraus1QRejectsIncompleteSet(t *testing.T) {
	err := ValidateKraus1Q([]gate.U22{gate.X()}) // missing the complementary term
	require.Error(t, err)
}

func TestValidateKraus1QAcceptsIdentity(t *testing.T) {
	err := ValidateKraus1Q([]gate.U22{gate.Identity22()})
	require.NoError(t, err)
}

func TestApplyKraus1QIdentityChannelIsNoOp(t *testing.T) {
	s := New(1)
	ApplyU22(s, 0, gate.H(), 0)
	before := s.Clone()
	require.NoError(t, ApplyKraus1Q(s, 0, []gate.U22{gate.Identity22()}))
	for i := 0; i < s.Dim(); i++ {
		for j := 0; j < s.Dim(); j++ {
			testutil.AssertProbability(t, real(s.Val(i, j)), real(before.Val(i, j)))
		}
	}
}

func TestApplyKraus1QBitflipAtPOneFlipsPopulation(t *testing.T) {
	s := New(1) // |0><0|
	ops, err := Bitflip1Q(1.0)
	require.NoError(t, err)
	require.NoError(t, ApplyKraus1Q(s, 0, ops))
	// p=1 bitflip deterministically maps |0><0| to |1><1|.
	testutil.AssertProbability(t, real(s.Val(1, 1)), 1.0)
}
