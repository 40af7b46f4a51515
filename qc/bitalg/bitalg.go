// Package bitalg holds the pure, allocation-light functions over basis
// indices shared by every gate kernel: digit extraction, controller masks,
// and the measurement-list projection used by pmeasure/get_prob_map.
//
// These were previously re-derived inline at each gate call site (mask :=
// 1 << qubit, i & mask, ...); they live here once so kernels and facades
// share one definition of "what a controller mask means".
package bitalg

import "github.com/qpandalite/qsim/qc/qerrors"

// Pow2 returns 1<<k.
func Pow2(k int) uint64 { return uint64(1) << uint(k) }

// ExtractDigit returns bit k of i (0 or 1).
func ExtractDigit(i uint64, k int) uint64 {
	return (i >> uint(k)) & 1
}

// ExtractDigits projects the full basis index i onto the sub-index over
// qubits qs (qs[0] is bit 0 of the result, qs[1] is bit 1, ...).
func ExtractDigits(i uint64, qs []int) uint64 {
	var sub uint64
	for j, q := range qs {
		sub |= ExtractDigit(i, q) << uint(j)
	}
	return sub
}

// MakeControllerMask ORs pow2(q) for every q in cs.
func MakeControllerMask(cs []int) uint64 {
	var mask uint64
	for _, q := range cs {
		mask |= Pow2(q)
	}
	return mask
}

// PreprocessMeasureList validates a measurement qubit list against a total
// qubit count and returns the ordinal position of each qubit within the
// list (qubit -> index in list). Fails with InvalidArgument if any qubit
// repeats, is out of range, or the list is longer than n.
func PreprocessMeasureList(list []int, n int) (map[int]int, error) {
	if len(list) > n {
		return nil, qerrors.InvalidArgument("PreprocessMeasureList",
			"measure list length %d exceeds total qubit count %d", len(list), n)
	}
	out := make(map[int]int, len(list))
	for pos, q := range list {
		if q < 0 || q >= n {
			return nil, qerrors.InvalidArgument("PreprocessMeasureList",
				"qubit %d out of range for %d-qubit system", q, n)
		}
		if _, dup := out[q]; dup {
			return nil, qerrors.InvalidArgument("PreprocessMeasureList",
				"duplicate qubit %d in measure list", q)
		}
		out[q] = pos
	}
	return out, nil
}

// CheckQubitRange fails with InvalidArgument if q is not in [0, n).
func CheckQubitRange(op string, q, n int) error {
	if q < 0 || q >= n {
		return qerrors.InvalidArgument(op, "qubit %d out of range for %d-qubit system", q, n)
	}
	return nil
}

// CheckDistinct fails with InvalidArgument if qubits are not pairwise distinct.
func CheckDistinct(op string, qubits ...int) error {
	seen := make(map[int]struct{}, len(qubits))
	for _, q := range qubits {
		if _, dup := seen[q]; dup {
			return qerrors.InvalidArgument(op, "duplicate qubit %d in multi-qubit gate", q)
		}
		seen[q] = struct{}{}
	}
	return nil
}
