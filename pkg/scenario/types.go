// Package scenario defines the YAML scenario that drives an analysis
// run: demographic targets, electrification rates, index weights, the
// technology catalog parameters and the iterative search tuning.
package scenario

import "github.com/Jeremy-Prior/OnStove/pkg/index"

// Scenario is the top-level definition for one country/region run.
type Scenario struct {
	Name      string `yaml:"name" json:"name"`
	StartYear int    `yaml:"start_year" json:"start_year"`
	EndYear   int    `yaml:"end_year" json:"end_year"`

	Population      Population      `yaml:"population" json:"population"`
	Electrification Electrification `yaml:"electrification" json:"electrification"`
	Households      Households      `yaml:"households" json:"households"`
	MinimumWage     float64         `yaml:"minimum_wage" json:"minimum_wage"`

	// DemandIndex and SupplyIndex are optional multi-criteria layer
	// stacks; when present the run also produces the clean cooking
	// demand, supply and potential indexes.
	DemandIndex []index.LayerSpec `yaml:"demand_index" json:"demand_index,omitempty"`
	SupplyIndex []index.LayerSpec `yaml:"supply_index" json:"supply_index,omitempty"`

	Search       Search           `yaml:"search" json:"search"`
	Technologies []TechnologyDef  `yaml:"technologies" json:"technologies"`
}

// Population holds the census totals the raster population is
// calibrated against, plus the urban classification target.
type Population struct {
	StartYearTotal float64 `yaml:"start_year_total" json:"start_year_total"`
	EndYearTotal   float64 `yaml:"end_year_total" json:"end_year_total"`
	UrbanRatio     float64 `yaml:"urban_ratio" json:"urban_ratio"`
	CellAreaKm2    float64 `yaml:"cell_area_km2" json:"cell_area_km2"`
}

// Electrification holds the national electrification targets and the
// weights of the composite electrification likelihood score.
type Electrification struct {
	CurrentRate float64 `yaml:"current_rate" json:"current_rate"`
	FutureRate  float64 `yaml:"future_rate" json:"future_rate"`

	InfraWeight float64 `yaml:"infra_weight" json:"infra_weight"`
	PopWeight   float64 `yaml:"pop_weight" json:"pop_weight"`
	NTLWeight   float64 `yaml:"ntl_weight" json:"ntl_weight"`
}

// Households holds the household size constants by settlement class.
type Households struct {
	RuralSize float64 `yaml:"rural_size" json:"rural_size"`
	UrbanSize float64 `yaml:"urban_size" json:"urban_size"`
}

// Search tunes every iterative search in the pipeline: the threshold
// step of the electrification phases and the single iteration cap
// shared by all loops. Zero values take the defaults.
type Search struct {
	Step          float64 `yaml:"step" json:"step"`
	MaxIterations int     `yaml:"max_iterations" json:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance" json:"tolerance"`
}

// Defaults for Search.
const (
	DefaultStep          = 1e-4
	DefaultMaxIterations = 20000
	DefaultTolerance     = 0.01
)

// WithDefaults returns the search settings with zero fields replaced by
// the package defaults.
func (s Search) WithDefaults() Search {
	if s.Step <= 0 {
		s.Step = DefaultStep
	}
	if s.MaxIterations <= 0 {
		s.MaxIterations = DefaultMaxIterations
	}
	if s.Tolerance <= 0 {
		s.Tolerance = DefaultTolerance
	}
	return s
}

// TechnologyDef declares one candidate cooking technology. Per-cell
// series (net benefit, health, time) come from table columns; the
// scalars here apply uniformly per household.
type TechnologyDef struct {
	Name   string `yaml:"name" json:"name"`
	IsGrid bool   `yaml:"grid" json:"grid"`
	IsBase bool   `yaml:"base" json:"base"`

	DiscountedInvestment   float64 `yaml:"discounted_investment" json:"discounted_investment"`
	DiscountedOMCost       float64 `yaml:"discounted_om_cost" json:"discounted_om_cost"`
	DecreasedEmissions     float64 `yaml:"decreased_emissions" json:"decreased_emissions"`
	DecreasedEmissionCosts float64 `yaml:"decreased_emission_costs" json:"decreased_emission_costs"`
}

// GridTechnology returns the name of the grid-connected technology, or
// "" when the scenario declares none.
func (s *Scenario) GridTechnology() string {
	for _, def := range s.Technologies {
		if def.IsGrid {
			return def.Name
		}
	}
	return ""
}
