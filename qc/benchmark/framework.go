package benchmark

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"testing"
	"time"
)

// ResourceLimits bounds a benchmark run so a misconfigured scenario fails
// fast instead of exhausting the host.
type ResourceLimits struct {
	MaxMemoryMB int64
	MaxDuration time.Duration
	MaxQubits   int
}

// DefaultResourceLimits are safe defaults for local benchmark runs.
var DefaultResourceLimits = ResourceLimits{
	MaxMemoryMB: 500,
	MaxDuration: 30 * time.Second,
	MaxQubits:   12,
}

// ResourceUsage records memory/GC deltas observed around a benchmark run.
type ResourceUsage struct {
	StartMemory uint64
	EndMemory   uint64
	MemoryDelta int64
	GCCount     uint32
	Duration    time.Duration
}

// Result carries the outcome and diagnostics of one benchmark configuration.
type Result struct {
	Name          string
	CircuitType   CircuitType
	Qubits        int
	Success       bool
	Error         string
	ResourceUsage ResourceUsage
}

// NewCircuit constructs a fresh, zeroed engine instance ready for gates —
// one per façade: statevector.New, densityop.New, and a noisy.New wrapped to
// discard its config/engine arguments for benchmark purposes.
type NewCircuit func(qubits int) (Circuit, error)

func memStats() (uint64, uint32) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc, m.NumGC
}

func checkMemoryLimit(maxMB int64) error {
	alloc, _ := memStats()
	if mb := int64(alloc) / (1024 * 1024); mb > maxMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", mb, maxMB)
	}
	return nil
}

// Run executes circuitType against the engine newCircuit constructs, b.N
// times, inside b's timed region, enforcing limits between iterations.
func Run(b *testing.B, name string, newCircuit NewCircuit, circuitType CircuitType, qubits int, limits ResourceLimits) Result {
	result := Result{Name: name, CircuitType: circuitType, Qubits: qubits}

	if qubits > limits.MaxQubits {
		result.Error = fmt.Sprintf("qubits=%d exceeds limit %d", qubits, limits.MaxQubits)
		return result
	}

	runtime.GC()
	debug.FreeOSMemory()
	startMem, startGC := memStats()
	result.ResourceUsage.StartMemory = startMem

	b.ReportAllocs()
	b.ResetTimer()
	start := time.Now()

	for i := 0; i < b.N; i++ {
		if err := checkMemoryLimit(limits.MaxMemoryMB); err != nil {
			result.Error = err.Error()
			return result
		}
		if elapsed := time.Since(start); limits.MaxDuration > 0 && elapsed > limits.MaxDuration {
			result.Error = fmt.Sprintf("duration %v exceeds limit %v", elapsed, limits.MaxDuration)
			return result
		}
		circ, err := newCircuit(qubits)
		if err != nil {
			result.Error = fmt.Sprintf("failed to construct engine: %v", err)
			return result
		}
		if err := StandardCircuits[circuitType](circ, qubits); err != nil {
			result.Error = fmt.Sprintf("circuit execution failed: %v", err)
			return result
		}
	}

	b.StopTimer()
	result.ResourceUsage.Duration = time.Since(start)
	endMem, endGC := memStats()
	result.ResourceUsage.EndMemory = endMem
	result.ResourceUsage.MemoryDelta = int64(endMem) - int64(startMem)
	result.ResourceUsage.GCCount = endGC - startGC
	result.Success = true
	return result
}

// Name builds a stable benchmark label from the engine and circuit names.
func Name(engine string, circuitType CircuitType) string {
	return fmt.Sprintf("%s/%s", engine, circuitType)
}
