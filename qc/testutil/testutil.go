// Package testutil provides testing utilities and constants for the qc package tests.
// This improves maintainability by centralizing test configuration and common patterns.
package testutil

import (
	"context"
	"math/cmplx"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/qpandalite/qsim/qc/simulator/statevector"
	"github.com/stretchr/testify/require"
)

// AmplitudeTolerance / ProbabilityTolerance are the default comparison
// epsilons for the new domain's invariants (spec.md §3's ε = 1e-7 for
// amplitude equality; 1e-9 is used for the tighter norm/trace checks).
const (
	AmplitudeTolerance   = 1e-7
	ProbabilityTolerance = 1e-9
)

// Test constants for consistent configuration across tests
const (
	// Test timeouts
	DefaultTestTimeout = 10 * time.Second
	LongTestTimeout    = 30 * time.Second
	BenchmarkTimeout   = 60 * time.Second

	// Simulation parameters
	DefaultShots   = 1024
	SmallShots     = 100
	LargeShots     = 2048
	BenchmarkShots = 8192
	DefaultWorkers = 8

	// Circuit parameters
	DefaultQubits = 3
	SmallQubits   = 2
	LargeQubits   = 7

	// Statistical tolerances
	DefaultTolerance = 0.1  // 10% tolerance for statistical tests
	StrictTolerance  = 0.05 // 5% tolerance for precise tests

	// File testing
	TestFilePrefix = "qc_test_"
	PNGTestSuffix  = ".png"
)

// TestConfig holds configuration for test scenarios
type TestConfig struct {
	Shots     int
	Qubits    int
	Workers   int
	Timeout   time.Duration
	Tolerance float64
}

// Predefined test configurations
var (
	QuickTestConfig = TestConfig{
		Shots:     SmallShots,
		Qubits:    SmallQubits,
		Workers:   4,
		Timeout:   DefaultTestTimeout,
		Tolerance: DefaultTolerance,
	}

	StandardTestConfig = TestConfig{
		Shots:     DefaultShots,
		Qubits:    DefaultQubits,
		Workers:   DefaultWorkers,
		Timeout:   DefaultTestTimeout,
		Tolerance: DefaultTolerance,
	}

	BenchmarkTestConfig = TestConfig{
		Shots:     BenchmarkShots,
		Qubits:    LargeQubits,
		Workers:   DefaultWorkers,
		Timeout:   BenchmarkTimeout,
		Tolerance: StrictTolerance,
	}

	// ConservativeTestConfig provides very conservative settings for resource-constrained environments
	ConservativeTestConfig = TestConfig{
		Shots:     50,              // Very small shot count
		Qubits:    2,               // Minimal qubits
		Workers:   2,               // Few workers
		Timeout:   5 * time.Second, // Short timeout
		Tolerance: DefaultTolerance,
	}
)

// WithTimeout creates a context with timeout for test operations
func WithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// TempFile creates a temporary test file and returns cleanup function
func TempFile(t *testing.T, suffix string) (string, func()) {
	t.Helper()

	tempDir := t.TempDir() // Go 1.15+ automatically cleans this up
	filename := TestFilePrefix + t.Name() + suffix
	filepath := filepath.Join(tempDir, filename)

	cleanup := func() {
		if _, err := os.Stat(filepath); err == nil {
			os.Remove(filepath)
		}
	}

	return filepath, cleanup
}

// TempFileB creates a temporary test file for benchmarks and returns cleanup function
func TempFileB(b *testing.B, suffix string) (string, func()) {
	b.Helper()

	// Create temp directory manually for benchmarks since b.TempDir() doesn't exist
	tempDir := os.TempDir()
	filename := TestFilePrefix + b.Name() + suffix
	filepath := filepath.Join(tempDir, filename)

	cleanup := func() {
		if _, err := os.Stat(filepath); err == nil {
			os.Remove(filepath)
		}
	}

	return filepath, cleanup
}

// NewBellStateSimulator builds a 2-qubit statevector simulator already
// evolved into the Bell state (|00>+|11>)/√2 via H(0), CNOT(0,1).
func NewBellStateSimulator(t *testing.T) *statevector.Simulator {
	t.Helper()

	s, err := statevector.New(2)
	require.NoError(t, err, "failed to allocate bell state simulator")
	require.NoError(t, s.H(0))
	require.NoError(t, s.CNOT(0, 1))
	return s
}

// NewGroverSimulator builds the standard 2-qubit Grover circuit (oracle
// marking |11>, one diffusion round) against a fresh statevector simulator.
func NewGroverSimulator(t *testing.T) *statevector.Simulator {
	t.Helper()

	s, err := statevector.New(2)
	require.NoError(t, err, "failed to allocate grover simulator")

	require.NoError(t, s.H(0))
	require.NoError(t, s.H(1))

	require.NoError(t, s.CZ(0, 1)) // oracle: phase-flip |11>

	require.NoError(t, s.H(0))
	require.NoError(t, s.H(1))
	require.NoError(t, s.X(0))
	require.NoError(t, s.X(1))
	require.NoError(t, s.CZ(0, 1))
	require.NoError(t, s.X(0))
	require.NoError(t, s.X(1))
	require.NoError(t, s.H(0))
	require.NoError(t, s.H(1))

	return s
}

// AssertHistogramDistribution validates a sub-index-keyed shot histogram
// (as returned by qc/simulator/noisy's MeasureShots) within tolerance.
func AssertHistogramDistribution(t *testing.T, hist map[uint64]uint64, expected map[uint64]float64, totalShots int, tolerance float64) {
	t.Helper()

	for state, expectedProb := range expected {
		actualCount := hist[state]
		actualProb := float64(actualCount) / float64(totalShots)

		if expectedProb == 0 {
			require.EqualValues(t, 0, actualCount, "state %d should have 0 count", state)
		} else {
			require.InDelta(t, expectedProb, actualProb, tolerance,
				"state %d probability mismatch: expected %.3f, got %.3f",
				state, expectedProb, actualProb)
		}
	}
}

// AssertAmplitudesEqual compares two amplitude vectors within
// AmplitudeTolerance, the ε spec.md §3 assigns to amplitude equality.
func AssertAmplitudesEqual(t *testing.T, got, want []complex128) {
	t.Helper()
	require.Equal(t, len(want), len(got), "amplitude vector length mismatch")
	for i := range want {
		require.InDelta(t, 0, cmplx.Abs(got[i]-want[i]), AmplitudeTolerance,
			"amplitude[%d]: got %v, want %v", i, got[i], want[i])
	}
}

// AssertProbability asserts got is within ProbabilityTolerance of want,
// the tighter ε used for norm/trace invariants.
func AssertProbability(t *testing.T, got, want float64) {
	t.Helper()
	require.InDelta(t, want, got, ProbabilityTolerance, "probability mismatch: got %v, want %v", got, want)
}

// AssertNormalized asserts Σ|ψ_i|² is 1 within ProbabilityTolerance.
func AssertNormalized(t *testing.T, amplitudes []complex128) {
	t.Helper()
	var sum float64
	for _, a := range amplitudes {
		sum += real(a)*real(a) + imag(a)*imag(a)
	}
	require.InDelta(t, 1.0, sum, ProbabilityTolerance, "state is not normalized: sum|psi|^2=%v", sum)
}

// AssertHermitian asserts a density-matrix accessor val(i,j) equals the
// conjugate of val(j,i) within AmplitudeTolerance over every pair.
func AssertHermitian(t *testing.T, dim int, val func(i, j int) complex128) {
	t.Helper()
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			diff := cmplx.Abs(val(i, j) - cmplx.Conj(val(j, i)))
			require.InDelta(t, 0, diff, AmplitudeTolerance, "rho[%d][%d] != conj(rho[%d][%d])", i, j, j, i)
		}
	}
}

// RequireWithinTimeout runs a function with timeout and fails the test if it times out
func RequireWithinTimeout(t *testing.T, timeout time.Duration, fn func() error, msgAndArgs ...interface{}) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		require.NoError(t, err, msgAndArgs...)
	case <-ctx.Done():
		t.Fatalf("operation timed out after %v: %v", timeout, msgAndArgs)
	}
}

// SkipIfShort skips the test if running with -short flag
func SkipIfShort(t *testing.T, reason string) {
	t.Helper()
	if testing.Short() {
		t.Skipf("skipping test in short mode: %s", reason)
	}
}

// SkipIfCI skips the test if running in CI environment
func SkipIfCI(t *testing.T, reason string) {
	t.Helper()
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		t.Skipf("skipping test in CI: %s", reason)
	}
}

// Parallel marks the test as safe to run in parallel
func Parallel(t *testing.T) {
	t.Helper()
	t.Parallel()
}
