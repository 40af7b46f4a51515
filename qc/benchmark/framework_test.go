package benchmark

import (
	"errors"
	"testing"

	"github.com/qpandalite/qsim/qc/noise"
	"github.com/qpandalite/qsim/qc/rng"
	"github.com/qpandalite/qsim/qc/simulator/densityop"
	"github.com/qpandalite/qsim/qc/simulator/noisy"
	"github.com/qpandalite/qsim/qc/simulator/statevector"
	"github.com/qpandalite/qsim/qc/testutil"
)

func newStatevector(qubits int) (Circuit, error) {
	s, err := statevector.New(qubits)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newDensityOp(qubits int) (Circuit, error) {
	s, err := densityop.New(qubits)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newNoisy(qubits int) (Circuit, error) {
	s, err := noisy.New(qubits, noise.NewConfig(), rng.New(1))
	if err != nil {
		return nil, err
	}
	return s, nil
}

var engines = map[string]NewCircuit{
	"statevector": newStatevector,
	"densityop":   newDensityOp,
	"noisy":       newNoisy,
}

func BenchmarkCircuits(b *testing.B) {
	limits := DefaultResourceLimits
	for engineName, ctor := range engines {
		for circuitType := range StandardCircuits {
			b.Run(Name(engineName, circuitType), func(b *testing.B) {
				result := Run(b, Name(engineName, circuitType), ctor, circuitType, 4, limits)
				if !result.Success {
					b.Fatalf("benchmark failed: %s", result.Error)
				}
			})
		}
	}
}

func TestRunRejectsQubitsOverLimit(t *testing.T) {
	testutil.Parallel(t)
	limits := ResourceLimits{MaxMemoryMB: 500, MaxQubits: 2}
	var result Result
	testing.Benchmark(func(b *testing.B) {
		result = Run(b, "over-limit", newStatevector, SimpleCircuit, 10, limits)
	})
	if result.Success {
		t.Fatalf("expected failure for qubits over limit, got success")
	}
	if result.Error == "" {
		t.Fatalf("expected an error message")
	}
}

func TestRunSucceedsWithinLimits(t *testing.T) {
	testutil.SkipIfShort(t, "drives a real density-operator circuit simulation")
	limits := DefaultResourceLimits
	var result Result
	testutil.RequireWithinTimeout(t, testutil.LongTestTimeout, func() error {
		testing.Benchmark(func(b *testing.B) {
			result = Run(b, "within-limit", newDensityOp, EntanglementCircuit, 3, limits)
		})
		if !result.Success {
			return errors.New(result.Error)
		}
		return nil
	})
	if result.ResourceUsage.Duration <= 0 {
		t.Fatalf("expected a positive duration")
	}
}

func TestDescriptionCoversAllStandardCircuits(t *testing.T) {
	testutil.Parallel(t)
	for circuitType := range StandardCircuits {
		if Description(circuitType) == "unknown circuit type" {
			t.Fatalf("missing description for %s", circuitType)
		}
	}
}
