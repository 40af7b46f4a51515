package statevector_test

import (
	"math"
	"testing"

	"github.com/qpandalite/qsim/qc/testutil"
)

func TestBellStateFixtureIsNormalizedAndCorrelated(t *testing.T) {
	s := testutil.NewBellStateSimulator(t)
	testutil.AssertNormalized(t, s.Amplitudes())

	p00, err := s.GetProbMap(map[int]int{0: 0, 1: 0})
	if err != nil {
		t.Fatalf("GetProbMap(00): %v", err)
	}
	p11, err := s.GetProbMap(map[int]int{0: 1, 1: 1})
	if err != nil {
		t.Fatalf("GetProbMap(11): %v", err)
	}
	testutil.AssertProbability(t, p00, 0.5)
	testutil.AssertProbability(t, p11, 0.5)

	inv := complex(1/math.Sqrt2, 0)
	testutil.AssertAmplitudesEqual(t, s.Amplitudes(), []complex128{inv, 0, 0, inv})
}

func TestGroverFixtureAmplifiesMarkedState(t *testing.T) {
	s := testutil.NewGroverSimulator(t)
	testutil.AssertNormalized(t, s.Amplitudes())

	p11, err := s.GetProbMap(map[int]int{0: 1, 1: 1})
	if err != nil {
		t.Fatalf("GetProbMap(11): %v", err)
	}
	testutil.AssertProbability(t, p11, 1.0)
}
