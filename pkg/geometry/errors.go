package geometry

import (
	"errors"
	"fmt"
)

// ErrDegeneratePolygon marks a requested area of zero or less, or a
// synthesized polygon that collapsed to zero area. Hard input failure,
// never retried.
var ErrDegeneratePolygon = errors.New("degenerate polygon")

// ErrAreaReconciliationFailed marks a reconcile pass that could not bring
// total zone area within tolerance without distorting the layout.
var ErrAreaReconciliationFailed = errors.New("area reconciliation failed")

// ReconcileError wraps ErrAreaReconciliationFailed and carries the
// best-effort (unscaled or partially corrected) layout, so a caller may
// deliberately accept out-of-tolerance geometry or re-request with
// different program parameters.
type ReconcileError struct {
	Deviation  float64 // relative deviation from the requested total
	Scale      float64 // the rescale factor that was attempted
	BestEffort *Layout
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("area reconciliation failed: deviation %.2f%% (attempted scale %.3f)",
		e.Deviation*100, e.Scale)
}

func (e *ReconcileError) Unwrap() error {
	return ErrAreaReconciliationFailed
}
