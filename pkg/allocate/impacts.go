package allocate

import (
	"math"

	"github.com/Jeremy-Prior/OnStove/pkg/table"
	"github.com/Jeremy-Prior/OnStove/pkg/tech"
)

// Impact columns written by ApplyImpacts.
const (
	ColDeathsAvoided       = "deaths_avoided"
	ColHealthCostsAvoided  = "health_costs_avoided"
	ColTimeSaved           = "time_saved"
	ColReducedEmissions    = "reduced_emissions"
	ColEmissionCostsSaved  = "emissions_costs_saved"
	ColInvestmentCosts     = "investment_costs"
	ColOMCosts             = "om_costs"
	ColFuelCosts           = "fuel_costs"
)

// ApplyImpacts derives the per-row impact columns from the chosen
// technology's series and scalars, scaled by the row's households.
// Appended rows read the series at their origin cell, so split rows
// inherit the cell's per-household quantities at their reduced scale.
func ApplyImpacts(t *table.Table, cat *tech.Catalog, origins []int) error {
	labels, err := t.LabelColumn(table.ColMaxBenefitTech)
	if err != nil {
		return err
	}
	households, err := t.Column(table.ColHouseholds)
	if err != nil {
		return err
	}

	n := t.Len()
	columns := map[string][]float64{
		ColDeathsAvoided:      make([]float64, n),
		ColHealthCostsAvoided: make([]float64, n),
		ColTimeSaved:          make([]float64, n),
		ColReducedEmissions:   make([]float64, n),
		ColEmissionCostsSaved: make([]float64, n),
		ColInvestmentCosts:    make([]float64, n),
		ColOMCosts:            make([]float64, n),
		ColFuelCosts:          make([]float64, n),
	}

	for row := 0; row < n; row++ {
		chosen, ok := cat.Get(labels[row])
		if !ok {
			for _, values := range columns {
				values[row] = math.NaN()
			}
			continue
		}
		cell := origins[row]
		hh := households[row]

		columns[ColDeathsAvoided][row] = chosen.DeathsAvoidedAt(cell) * hh
		columns[ColHealthCostsAvoided][row] = chosen.HealthCostsAvoidedAt(cell) * hh
		columns[ColTimeSaved][row] = chosen.TimeSavedAt(cell) * hh
		columns[ColReducedEmissions][row] = chosen.DecreasedEmissions * hh
		columns[ColEmissionCostsSaved][row] = chosen.DecreasedEmissionCosts * hh
		columns[ColInvestmentCosts][row] = chosen.DiscountedInvestment * hh
		columns[ColOMCosts][row] = chosen.DiscountedOMCost * hh
		columns[ColFuelCosts][row] = chosen.FuelCostAt(cell) * hh
	}

	for name, values := range columns {
		if err := t.SetColumn(name, values); err != nil {
			return err
		}
	}
	return nil
}
