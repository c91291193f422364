// Package allocate assigns each cell to the technology with the highest
// net benefit and splits partially grid-served cells between the grid
// and the next best alternative, conserving population exactly.
package allocate

import (
	"fmt"
	"math"

	"github.com/Jeremy-Prior/OnStove/pkg/table"
	"github.com/Jeremy-Prior/OnStove/pkg/tech"
)

// InconsistentPopulationError reports a conservation violation after a
// record split: the rows sharing a cell identity no longer sum to the
// cell's pre-split total.
type InconsistentPopulationError struct {
	Cell   table.CellID
	Column string
	Want   float64
	Got    float64
}

func (e *InconsistentPopulationError) Error() string {
	return fmt.Sprintf("allocate: cell %s column %s not conserved: want %g, got %g",
		e.Cell, e.Column, e.Want, e.Got)
}

// Result describes an allocation pass.
type Result struct {
	// Origins maps every table row, including rows appended by splits,
	// to the original cell row its per-cell series are indexed by.
	Origins []int `json:"-"`

	// Splits counts cells divided between grid and fallback service.
	Splits int `json:"splits"`

	// Unassigned counts cells where every net benefit was NaN.
	Unassigned int `json:"unassigned"`
}

// argmax returns the best technology for cell i in canonical order,
// skipping the excluded name and NaN benefits. Ties resolve to the
// earliest catalog entry.
func argmax(cat *tech.Catalog, i int, exclude string) (string, float64, bool) {
	bestName := ""
	bestValue := 0.0
	found := false
	for _, name := range cat.Order() {
		if name == exclude {
			continue
		}
		candidate, _ := cat.Get(name)
		v := candidate.NetBenefitAt(i)
		if math.IsNaN(v) {
			continue
		}
		if !found || v > bestValue {
			bestName, bestValue, found = name, v, true
		}
	}
	return bestName, bestValue, found
}

// Run selects the maximum-net-benefit technology per cell and performs
// the partial-grid correction: a cell that chose the grid but whose
// electrified population is below its calibrated population is split
// into a grid-served row and an appended fallback row scaled by the
// unserved remainder. Requires the calibration columns to be present.
func Run(t *table.Table, cat *tech.Catalog) (*Result, error) {
	pop, err := t.Column(table.ColCalibratedPop)
	if err != nil {
		return nil, err
	}
	households, err := t.Column(table.ColHouseholds)
	if err != nil {
		return nil, err
	}
	current, err := t.Column(table.ColCurrentElec)
	if err != nil {
		return nil, err
	}
	elec, err := t.Column(table.ColElecPopCalib)
	if err != nil {
		return nil, err
	}

	n := t.Len()
	t.FillLabelColumn(table.ColMaxBenefitTech, "")
	t.FillColumn(table.ColMaxNetBenefit, math.NaN())
	labels, err := t.LabelColumn(table.ColMaxBenefitTech)
	if err != nil {
		return nil, err
	}
	benefit, err := t.Column(table.ColMaxNetBenefit)
	if err != nil {
		return nil, err
	}

	result := &Result{Origins: make([]int, n)}
	for i := 0; i < n; i++ {
		result.Origins[i] = i
		name, value, ok := argmax(cat, i, "")
		if !ok {
			result.Unassigned++
			continue
		}
		labels[i] = name
		benefit[i] = value
	}

	grid, hasGrid := cat.Grid()
	if !hasGrid {
		return result, nil
	}

	for i := 0; i < n; i++ {
		if labels[i] != grid.Name || current[i] != 1 || elec[i] >= pop[i] {
			continue
		}
		if pop[i] <= 0 || math.IsNaN(pop[i]) || math.IsNaN(elec[i]) {
			continue
		}

		secondName, secondValue, ok := argmax(cat, i, grid.Name)
		if !ok {
			// Grid is the only viable technology for this cell; the
			// unserved fraction has no fallback to move to.
			continue
		}

		served := elec[i] / pop[i]

		j := t.AppendRow(i)
		// Refresh column slices: AppendRow may reallocate them.
		pop, _ = t.Column(table.ColCalibratedPop)
		households, _ = t.Column(table.ColHouseholds)
		current, _ = t.Column(table.ColCurrentElec)
		elec, _ = t.Column(table.ColElecPopCalib)
		benefit, _ = t.Column(table.ColMaxNetBenefit)
		labels, _ = t.LabelColumn(table.ColMaxBenefitTech)

		origPop, origHH, origElec := pop[i], households[i], elec[i]

		// Grid-served fraction keeps the grid outcome; the remainder is
		// the exact complement so totals are conserved bit for bit.
		pop[i] = origPop * served
		pop[j] = origPop - pop[i]
		households[i] = origHH * served
		households[j] = origHH - households[i]
		elec[i] = origElec * served
		elec[j] = origElec - elec[i]

		benefit[i] *= served
		benefit[j] = secondValue * (1 - served)
		labels[j] = secondName

		result.Origins = append(result.Origins, i)
		result.Splits++

		if err := checkConservation(t.ID(i), origPop, pop[i], pop[j], table.ColCalibratedPop); err != nil {
			return nil, err
		}
		if err := checkConservation(t.ID(i), origHH, households[i], households[j], table.ColHouseholds); err != nil {
			return nil, err
		}
		if err := checkConservation(t.ID(i), origElec, elec[i], elec[j], table.ColElecPopCalib); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func checkConservation(id table.CellID, want, a, b float64, column string) error {
	if got := a + b; got != want {
		return &InconsistentPopulationError{Cell: id, Column: column, Want: want, Got: got}
	}
	return nil
}
