// Package calibrate implements the calibration stages of the pipeline:
// scaling the raster population to census totals, the two-phase
// electrification threshold search, the urban factor search and the
// household derivation. Every iterative search shares the scenario's
// step and iteration-cap policy and honors context cancellation.
package calibrate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/Jeremy-Prior/OnStove/pkg/table"
)

// NonConvergenceError reports an iterative search that could not reach
// its target within the configured iteration cap, or whose target is
// unreachable outright.
type NonConvergenceError struct {
	Stage      string
	Iterations int
	Reason     string
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("calibrate: %s did not converge after %d iterations: %s",
		e.Stage, e.Iterations, e.Reason)
}

// Population rescales the raw raster population so its total matches
// the census total for the start year, writing Calibrated_pop. Cells
// with a NaN raw value are excluded from the total and stay NaN.
func Population(t *table.Table, targetTotal float64) error {
	raw, err := t.Column(table.ColPop)
	if err != nil {
		return err
	}
	total := floats.Sum(raw)
	if math.IsNaN(total) {
		total = 0
		for _, v := range raw {
			if !math.IsNaN(v) {
				total += v
			}
		}
	}
	if total <= 0 {
		return fmt.Errorf("calibrate: raw population sums to %g, cannot scale to %g", total, targetTotal)
	}

	factor := targetTotal / total
	calibrated := make([]float64, len(raw))
	for i, v := range raw {
		calibrated[i] = v * factor
	}
	return t.SetColumn(table.ColCalibratedPop, calibrated)
}
