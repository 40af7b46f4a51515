package sv_test

import (
	"testing"

	"github.com/qpandalite/qsim/qc/gate"
	"github.com/qpandalite/qsim/qc/kernel/sv"
	"github.com/qpandalite/qsim/qc/testutil"
)

func TestApplyU22KeepsStateNormalized(t *testing.T) {
	s := sv.New(2)
	sv.ApplyU22(s, 0, gate.H(), 0)
	sv.ApplyU22(s, 1, gate.H(), 0)
	testutil.AssertNormalized(t, s.Amplitudes)
}

func TestApplyU44SwapMatchesExpectedAmplitudes(t *testing.T) {
	s := sv.New(2)
	sv.ApplyU22(s, 0, gate.X(), 0) // |01>, index 1
	sv.ApplyU44(s, 0, 1, gate.SWAP(), 0)
	// swap moves the amplitude from index 1 to index 2.
	testutil.AssertAmplitudesEqual(t, s.Amplitudes, []complex128{0, 0, 1, 0})
}
