package analytics

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/Jeremy-Prior/OnStove/pkg/allocate"
	"github.com/Jeremy-Prior/OnStove/pkg/calibrate"
	"github.com/Jeremy-Prior/OnStove/pkg/table"
	"github.com/Jeremy-Prior/OnStove/pkg/tech"
	"github.com/Jeremy-Prior/OnStove/pkg/validation"
)

// Resolve condenses a finished run into a Summary.
// It computes national totals, settlement and electrification shares, the
// per-technology breakdown, and impact totals.
// Returns the summary and a validation report of allocation anomalies.
func Resolve(t *table.Table, cat *tech.Catalog, alloc *allocate.Result) (*Summary, *validation.Report) {
	report := validation.NewReport()

	s := &Summary{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Rows:        t.Len(),
	}
	if alloc != nil {
		s.Splits = alloc.Splits
		s.Unassigned = alloc.Unassigned
	}

	// 1. Population totals
	pop, err := t.Column(table.ColCalibratedPop)
	if err != nil {
		report.AddError(validation.Finding{
			Level:   validation.LevelAllocation,
			Message: err.Error(),
			Field:   table.ColCalibratedPop,
		})
		return s, report
	}
	s.TotalPopulation = sumColumn(t, table.ColCalibratedPop)
	s.TotalHouseholds = sumColumn(t, table.ColHouseholds)

	// 2. Electrification
	s.ElectrifiedPopulation = sumColumn(t, table.ColElecPopCalib)
	if s.TotalPopulation > 0 {
		s.ElectrifiedShare = s.ElectrifiedPopulation / s.TotalPopulation
	}

	// 3. Settlement shares
	s.UrbanShare = urbanShare(t, pop, s.TotalPopulation)

	// 4. Per-technology breakdown
	resolveTechnologies(t, cat, s, pop)

	// 5. Impact totals
	s.Impacts = resolveImpacts(t)

	// 6. Anomaly checks
	validateSummary(s, report)

	return s, report
}

func urbanShare(t *table.Table, pop []float64, total float64) float64 {
	classes, err := t.Column(table.ColIsUrban)
	if err != nil || total <= 0 {
		return 0
	}
	urban := 0.0
	for i, class := range classes {
		if class == calibrate.ClassUrban && !math.IsNaN(pop[i]) {
			urban += pop[i]
		}
	}
	return urban / total
}

func resolveTechnologies(t *table.Table, cat *tech.Catalog, s *Summary, pop []float64) {
	if cat == nil {
		return
	}
	labels, err := t.LabelColumn(table.ColMaxBenefitTech)
	if err != nil {
		return
	}
	benefit, err := t.Column(table.ColMaxNetBenefit)
	if err != nil {
		return
	}
	households, _ := t.Column(table.ColHouseholds)

	var allBenefits, allWeights []float64
	for _, name := range cat.Order() {
		b := TechBreakdown{Name: name}
		var benefits, weights []float64
		for row, label := range labels {
			if label != name {
				continue
			}
			b.Rows++
			if !math.IsNaN(pop[row]) {
				b.Population += pop[row]
			}
			if households != nil && !math.IsNaN(households[row]) {
				b.Households += households[row]
			}
			if !math.IsNaN(benefit[row]) && !math.IsNaN(pop[row]) && pop[row] > 0 {
				benefits = append(benefits, benefit[row])
				weights = append(weights, pop[row])
			}
		}
		if s.TotalPopulation > 0 {
			b.PopulationShare = b.Population / s.TotalPopulation
		}
		if len(benefits) > 0 {
			b.MeanNetBenefit = stat.Mean(benefits, weights)
		}
		allBenefits = append(allBenefits, benefits...)
		allWeights = append(allWeights, weights...)
		s.ByTechnology = append(s.ByTechnology, b)
	}
	if len(allBenefits) > 0 {
		s.WeightedMeanBenefit = stat.Mean(allBenefits, allWeights)
	}
}

func resolveImpacts(t *table.Table) Impacts {
	return Impacts{
		DeathsAvoided:      sumColumn(t, allocate.ColDeathsAvoided),
		HealthCostsAvoided: sumColumn(t, allocate.ColHealthCostsAvoided),
		TimeSaved:          sumColumn(t, allocate.ColTimeSaved),
		ReducedEmissions:   sumColumn(t, allocate.ColReducedEmissions),
		EmissionCostsSaved: sumColumn(t, allocate.ColEmissionCostsSaved),
		InvestmentCosts:    sumColumn(t, allocate.ColInvestmentCosts),
		OMCosts:            sumColumn(t, allocate.ColOMCosts),
		FuelCosts:          sumColumn(t, allocate.ColFuelCosts),
	}
}

func validateSummary(s *Summary, report *validation.Report) {
	if s.TotalPopulation <= 0 {
		report.AddError(validation.Finding{
			Level:    validation.LevelAllocation,
			Message:  "total calibrated population is zero",
			Field:    table.ColCalibratedPop,
			Expected: "> 0",
		})
	}
	if s.Unassigned > 0 {
		report.AddWarning(validation.Finding{
			Level:   validation.LevelAllocation,
			Message: "cells without a viable technology were left unassigned",
			Field:   table.ColMaxBenefitTech,
			Value:   s.Unassigned,
		})
	}
	if s.ElectrifiedShare > 1 {
		report.AddWarning(validation.Finding{
			Level:    validation.LevelAllocation,
			Message:  "electrified population exceeds total population",
			Field:    table.ColElecPopCalib,
			Value:    s.ElectrifiedShare,
			Expected: "<= 1",
		})
	}
}

// sumColumn totals a column, skipping NaN. Missing columns count as zero so
// the summary degrades gracefully on partial runs.
func sumColumn(t *table.Table, name string) float64 {
	values, err := t.Column(name)
	if err != nil {
		return 0
	}
	total := 0.0
	for _, v := range values {
		if !math.IsNaN(v) {
			total += v
		}
	}
	return total
}
