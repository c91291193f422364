package tech

import (
	"github.com/Jeremy-Prior/OnStove/pkg/scenario"
	"github.com/Jeremy-Prior/OnStove/pkg/table"
)

// Optional per-cell series column prefixes, completed with the
// technology name: e.g. deaths_avoided_Electricity.
const (
	deathsAvoidedPrefix = "deaths_avoided_"
	morbidityPrefix     = "morbidity_"
	mortalityPrefix     = "mortality_"
	timeSavedPrefix     = "time_saved_"
	fuelCostPrefix      = "fuel_cost_"
)

func optionalSeries(t *table.Table, prefix, name string) []float64 {
	column := prefix + name
	if !t.HasColumn(column) {
		return nil
	}
	values, err := t.Column(column)
	if err != nil {
		return nil
	}
	// Snapshot: the catalog must not alias table storage, which later
	// stages mutate and extend.
	copied := make([]float64, len(values))
	copy(copied, values)
	return copied
}

// FromTable builds the catalog from the scenario's technology list and
// the table's per-technology columns. The net_benefit_<name> column is
// required for every declared technology; impact series are optional.
// Scenario declaration order becomes the canonical order.
func FromTable(t *table.Table, defs []scenario.TechnologyDef) (*Catalog, error) {
	techs := make([]*Technology, 0, len(defs))
	for _, def := range defs {
		benefits, err := t.Column(table.NetBenefitPrefix + def.Name)
		if err != nil {
			return nil, err
		}
		copied := make([]float64, len(benefits))
		copy(copied, benefits)

		techs = append(techs, &Technology{
			Name:                 def.Name,
			IsGrid:               def.IsGrid,
			IsBase:               def.IsBase,
			NetBenefit:           copied,
			DeathsAvoided:        optionalSeries(t, deathsAvoidedPrefix, def.Name),
			DistributedMorbidity: optionalSeries(t, morbidityPrefix, def.Name),
			DistributedMortality: optionalSeries(t, mortalityPrefix, def.Name),
			TimeSaved:            optionalSeries(t, timeSavedPrefix, def.Name),
			DiscountedFuelCost:   optionalSeries(t, fuelCostPrefix, def.Name),

			DiscountedInvestment:   def.DiscountedInvestment,
			DiscountedOMCost:       def.DiscountedOMCost,
			DecreasedEmissions:     def.DecreasedEmissions,
			DecreasedEmissionCosts: def.DecreasedEmissionCosts,
		})
	}
	return NewCatalog(t.Len(), techs...)
}
