// Package benchmark provides a standardized benchmarking framework driving
// the three simulator façades (statevector, densityop, noisy) through the
// same set of representative circuits, with resource-limited execution so a
// runaway benchmark configuration fails fast instead of exhausting the host.
package benchmark

// CircuitType represents different categories of benchmark circuits.
type CircuitType string

const (
	SimpleCircuit        CircuitType = "simple"        // single H
	EntanglementCircuit  CircuitType = "entanglement"  // H + CNOT (bell state)
	SuperpositionCircuit CircuitType = "superposition" // H on each of the first (up to) 4 qubits
	MixedGatesCircuit    CircuitType = "mixed"         // H/X/Y on the first (up to) 3 qubits + CNOT + CZ
)

// Circuit is the subset of the façade gate vocabulary every benchmark
// scenario needs; statevector.Simulator, densityop.Simulator, and
// noisy.Simulator all satisfy it with identical method signatures, so one
// scenario builder drives all three engines.
type Circuit interface {
	H(q int, controls ...int) error
	X(q int, controls ...int) error
	Y(q int, controls ...int) error
	Z(q int, controls ...int) error
	CNOT(control, target int, controls ...int) error
	CZ(q1, q2 int, controls ...int) error
}

// StandardCircuits maps each CircuitType to its builder function.
var StandardCircuits = map[CircuitType]func(c Circuit, qubits int) error{
	SimpleCircuit:        buildSimpleCircuit,
	EntanglementCircuit:  buildEntanglementCircuit,
	SuperpositionCircuit: buildSuperpositionCircuit,
	MixedGatesCircuit:    buildMixedGatesCircuit,
}

func buildSimpleCircuit(c Circuit, qubits int) error {
	return c.H(0)
}

func buildEntanglementCircuit(c Circuit, qubits int) error {
	if qubits < 2 {
		qubits = 2
	}
	if err := c.H(0); err != nil {
		return err
	}
	return c.CNOT(0, 1)
}

func buildSuperpositionCircuit(c Circuit, qubits int) error {
	limit := qubits
	if limit > 4 {
		limit = 4
	}
	for i := 0; i < limit; i++ {
		if err := c.H(i); err != nil {
			return err
		}
	}
	return nil
}

func buildMixedGatesCircuit(c Circuit, qubits int) error {
	limit := qubits
	if limit > 3 {
		limit = 3
	}
	for i := 0; i < limit; i++ {
		var err error
		switch i % 4 {
		case 0:
			err = c.H(i)
		case 1:
			err = c.X(i)
		case 2:
			err = c.Y(i)
		case 3:
			err = c.Z(i)
		}
		if err != nil {
			return err
		}
	}
	if limit >= 2 {
		if err := c.CNOT(0, 1); err != nil {
			return err
		}
	}
	if limit >= 3 {
		if err := c.CZ(1, 2); err != nil {
			return err
		}
	}
	return nil
}

// Description returns a human-readable summary of a circuit type.
func Description(circuitType CircuitType) string {
	switch circuitType {
	case SimpleCircuit:
		return "single Hadamard (tests basic gate application)"
	case EntanglementCircuit:
		return "H + CNOT bell state (tests two-qubit entanglement)"
	case SuperpositionCircuit:
		return "Hadamard on each of the first (up to) 4 qubits (tests superposition scaling)"
	case MixedGatesCircuit:
		return "mixed single-qubit gates + CNOT + CZ (tests gate variety)"
	default:
		return "unknown circuit type"
	}
}
