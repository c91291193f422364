// Package analytics condenses a finished allocation run into reportable
// aggregates.
package analytics

import "time"

// Summary holds the computed aggregates of one full pipeline run.
type Summary struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Rows                  int     `json:"rows"`
	TotalPopulation       float64 `json:"total_population"`
	TotalHouseholds       float64 `json:"total_households"`
	ElectrifiedPopulation float64 `json:"electrified_population"`
	ElectrifiedShare      float64 `json:"electrified_share"`
	UrbanShare            float64 `json:"urban_share"`

	Splits     int `json:"splits"`
	Unassigned int `json:"unassigned"`

	ByTechnology        []TechBreakdown `json:"by_technology"`
	WeightedMeanBenefit float64         `json:"weighted_mean_net_benefit"`
	Impacts             Impacts         `json:"impacts"`
}

// TechBreakdown aggregates the allocation outcome for one technology.
// MeanNetBenefit is the population-weighted mean of the winning per-household
// net benefit over the rows assigned to the technology.
type TechBreakdown struct {
	Name            string  `json:"name"`
	Rows            int     `json:"rows"`
	Population      float64 `json:"population"`
	Households      float64 `json:"households"`
	PopulationShare float64 `json:"population_share"`
	MeanNetBenefit  float64 `json:"mean_net_benefit"`
}

// Impacts totals the derived impact columns across all rows.
type Impacts struct {
	DeathsAvoided      float64 `json:"deaths_avoided"`
	HealthCostsAvoided float64 `json:"health_costs_avoided"`
	TimeSaved          float64 `json:"time_saved"`
	ReducedEmissions   float64 `json:"reduced_emissions"`
	EmissionCostsSaved float64 `json:"emissions_costs_saved"`
	InvestmentCosts    float64 `json:"investment_costs"`
	OMCosts            float64 `json:"om_costs"`
	FuelCosts          float64 `json:"fuel_costs"`
}
