package calibrate

import (
	"context"
	"math"

	"github.com/Jeremy-Prior/OnStove/pkg/scenario"
	"github.com/Jeremy-Prior/OnStove/pkg/table"
)

// Electrification runs the two-phase electrification calibration over a
// composite likelihood score. Phase A (MarkCurrent) classifies cells as
// currently electrified to match the current national rate; Phase B
// (CapFuture) shrinks per-cell electrified population to the future
// rate. Threshold comparisons are inclusive (>=) at both band edges.
type Electrification struct {
	// Composite is the per-cell electrification likelihood score,
	// aligned to the table rows.
	Composite []float64

	Search scenario.Search

	// Threshold is the scan position where Phase A stopped; Phase B
	// starts its reduction band there. Set by MarkCurrent.
	Threshold float64
}

// NewElectrification creates the calibrator with defaulted search
// settings.
func NewElectrification(composite []float64, search scenario.Search) *Electrification {
	return &Electrification{
		Composite: composite,
		Search:    search.WithDefaults(),
	}
}

// MarkCurrent is Phase A: starting from threshold 1 and stepping down,
// it marks every cell whose composite score crosses the threshold as
// electrified (Current_elec = 1) until the electrified population first
// exceeds rate * total. Marking is monotone within the phase: a marked
// cell stays marked. The final scan threshold is retained for Phase B.
//
// The marked set deliberately overshoots the target; Phase B trims the
// overshoot against the future rate.
func (e *Electrification) MarkCurrent(ctx context.Context, t *table.Table, rate float64) error {
	pop, err := t.Column(table.ColCalibratedPop)
	if err != nil {
		return err
	}

	total := 0.0
	for _, v := range pop {
		if !math.IsNaN(v) {
			total += v
		}
	}
	if total <= 0 {
		return &NonConvergenceError{
			Stage:  "current_elec",
			Reason: "total calibrated population is zero",
		}
	}

	t.FillColumn(table.ColCurrentElec, 0)
	current, err := t.Column(table.ColCurrentElec)
	if err != nil {
		return err
	}

	target := rate * total
	threshold := 1.0
	elecPop := 0.0
	iterations := 0

	for elecPop <= target {
		if err := ctx.Err(); err != nil {
			return err
		}
		if iterations >= e.Search.MaxIterations {
			return &NonConvergenceError{
				Stage:      "current_elec",
				Iterations: iterations,
				Reason:     "threshold scan exhausted before reaching the target rate",
			}
		}
		iterations++

		for i, w := range e.Composite {
			if w >= threshold {
				current[i] = 1
			}
		}
		elecPop = 0
		for i, v := range pop {
			if current[i] == 1 && !math.IsNaN(v) {
				elecPop += v
			}
		}
		threshold -= e.Search.Step
	}

	e.Threshold = threshold
	return nil
}

// CapFuture is Phase B: it initializes each electrified cell's
// electrified population to its calibrated population, then walks a
// threshold band upward from where Phase A stopped, subtracting a
// uniform decrement from cells in the band until the electrified total
// drops to rate * total. Cells clamp at zero and drop out of the
// electrified set; when a sweep finds no reducible cell in the band,
// the band's upper edge advances by one step.
//
// Invariant on exit: 0 <= Elec_pop_calib <= Calibrated_pop for every
// cell, and exactly 0 wherever Current_elec is 0.
func (e *Electrification) CapFuture(ctx context.Context, t *table.Table, rate float64) error {
	pop, err := t.Column(table.ColCalibratedPop)
	if err != nil {
		return err
	}
	current, err := t.Column(table.ColCurrentElec)
	if err != nil {
		return err
	}

	elecPopCalib := make([]float64, len(pop))
	copy(elecPopCalib, pop)
	if err := t.SetColumn(table.ColElecPopCalib, elecPopCalib); err != nil {
		return err
	}

	total := 0.0
	for _, v := range pop {
		if !math.IsNaN(v) {
			total += v
		}
	}
	if total <= 0 {
		return &NonConvergenceError{
			Stage:  "final_elec",
			Reason: "total calibrated population is zero",
		}
	}
	target := rate * total

	elecPop := 0.0
	electrified := 0
	for i, v := range pop {
		if current[i] == 1 && !math.IsNaN(v) {
			elecPop += v
			electrified++
		}
	}
	if electrified == 0 || elecPop <= target {
		zeroUnelectrified(current, elecPopCalib)
		return nil
	}

	// Uniform per-cell decrement spread over the electrified set.
	decrement := (elecPop - target) / float64(electrified)

	lo := e.Threshold
	hi := e.Threshold + e.Search.Step
	iterations := 0

	for elecPop > target {
		if err := ctx.Err(); err != nil {
			return err
		}
		if iterations >= e.Search.MaxIterations {
			return &NonConvergenceError{
				Stage:      "final_elec",
				Iterations: iterations,
				Reason:     "reduction sweep exhausted before reaching the target rate",
			}
		}
		iterations++

		inBand := 0
		for i, w := range e.Composite {
			if w < lo || w > hi {
				continue
			}
			elecPopCalib[i] -= decrement
			if elecPopCalib[i] <= 0 {
				elecPopCalib[i] = 0
				current[i] = 0
			}
			if current[i] == 1 {
				inBand++
			}
		}

		elecPop = 0
		for i, v := range elecPopCalib {
			if current[i] == 1 && !math.IsNaN(v) {
				elecPop += v
			}
		}

		if inBand == 0 {
			hi += e.Search.Step
		}
	}

	zeroUnelectrified(current, elecPopCalib)
	return nil
}

func zeroUnelectrified(current, elecPopCalib []float64) {
	for i := range elecPopCalib {
		if current[i] == 0 {
			elecPopCalib[i] = 0
		}
	}
}
