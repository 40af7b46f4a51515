package noise

import (
	"github.com/qpandalite/qsim/qc/gate"
	"github.com/qpandalite/qsim/qc/qerrors"
)

// buildU22 reconstructs the 2x2 matrix a deferred GateOp names. Eager
// facades (statevector, densityop) never need this — they build the
// matrix once at the call site — but the noisy facade only records
// (kind, params) and must rebuild the matrix on every shot.
func buildU22(op GateOp) (gate.U22, error) {
	p := op.Params
	switch op.Kind {
	case GateH:
		return gate.H(), nil
	case GateX:
		return gate.X(), nil
	case GateY:
		return gate.Y(), nil
	case GateZ:
		return gate.Z(), nil
	case GateS:
		return gate.S(), nil
	case GateSdg:
		return gate.Sdg(), nil
	case GateT:
		return gate.T(), nil
	case GateTdg:
		return gate.Tdg(), nil
	case GateSX:
		return gate.SX(), nil
	case GateRX:
		return gate.RX(p[0]), nil
	case GateRY:
		return gate.RY(p[0]), nil
	case GateRZ:
		return gate.RZ(p[0]), nil
	case GateU1:
		return gate.U1(p[0]), nil
	case GateU2:
		return gate.U2(p[0], p[1]), nil
	case GateU3:
		return gate.U3(p[0], p[1], p[2]), nil
	case GateRphi90:
		return gate.Rphi90(p[0]), nil
	case GateRphi180:
		return gate.Rphi180(p[0]), nil
	case GateRphi:
		return gate.Rphi(p[0], p[1]), nil
	case GateU22:
		if op.Matrix22 == nil {
			return gate.U22{}, qerrors.Runtime("noise.buildU22", "u22 opcode missing matrix")
		}
		return *op.Matrix22, nil
	default:
		return gate.U22{}, qerrors.Runtime("noise.buildU22", "unknown 1-qubit gate kind %q", op.Kind)
	}
}

// buildU44 is the two-qubit analogue of buildU22.
func buildU44(op GateOp) (gate.U44, error) {
	p := op.Params
	switch op.Kind {
	case GateSWAP:
		return gate.SWAP(), nil
	case GateISWAP:
		return gate.ISWAP(), nil
	case GateXY:
		return gate.XY(p[0]), nil
	case GateXX:
		return gate.XX(p[0]), nil
	case GateYY:
		return gate.YY(p[0]), nil
	case GateZZ:
		return gate.ZZ(p[0]), nil
	case GateU44:
		if op.Matrix44 == nil {
			return gate.U44{}, qerrors.Runtime("noise.buildU44", "u44 opcode missing matrix")
		}
		return *op.Matrix44, nil
	default:
		return gate.U44{}, qerrors.Runtime("noise.buildU44", "unknown 2-qubit gate kind %q", op.Kind)
	}
}
