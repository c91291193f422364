package validation

import (
	"fmt"

	"github.com/Jeremy-Prior/OnStove/pkg/scenario"
)

// ValidateScenario performs schema validation on a parsed scenario.
// It checks structural correctness before any computation.
func ValidateScenario(s *scenario.Scenario) *Report {
	r := NewReport()

	validatePopulation(s, r)
	validateElectrification(s, r)
	validateHouseholds(s, r)
	validateSearch(s, r)
	validateTechnologies(s, r)

	return r
}

func validatePopulation(s *scenario.Scenario, r *Report) {
	if s.Population.StartYearTotal <= 0 {
		r.AddError(Finding{
			Level:    LevelSchema,
			Message:  "population.start_year_total must be greater than 0",
			Field:    "population.start_year_total",
			Value:    s.Population.StartYearTotal,
			Expected: "> 0",
		})
	}
	if s.Population.UrbanRatio < 0 || s.Population.UrbanRatio > 1 {
		r.AddError(Finding{
			Level:    LevelSchema,
			Message:  "population.urban_ratio must be a fraction",
			Field:    "population.urban_ratio",
			Value:    s.Population.UrbanRatio,
			Expected: "0..1",
		})
	}
	if s.Population.CellAreaKm2 <= 0 {
		r.AddError(Finding{
			Level:    LevelSchema,
			Message:  "population.cell_area_km2 must be greater than 0",
			Field:    "population.cell_area_km2",
			Value:    s.Population.CellAreaKm2,
			Expected: "> 0",
		})
	}
	if s.EndYear < s.StartYear {
		r.AddError(Finding{
			Level:    LevelSchema,
			Message:  "end_year must not precede start_year",
			Field:    "end_year",
			Value:    s.EndYear,
			Expected: fmt.Sprintf(">= %d", s.StartYear),
		})
	}
}

func validateElectrification(s *scenario.Scenario, r *Report) {
	e := s.Electrification
	for field, rate := range map[string]float64{
		"electrification.current_rate": e.CurrentRate,
		"electrification.future_rate":  e.FutureRate,
	} {
		if rate < 0 || rate > 1 {
			r.AddError(Finding{
				Level:    LevelSchema,
				Message:  fmt.Sprintf("%s must be a fraction", field),
				Field:    field,
				Value:    rate,
				Expected: "0..1",
			})
		}
	}
	if e.FutureRate < e.CurrentRate {
		r.AddWarning(Finding{
			Level:   LevelSchema,
			Message: "electrification.future_rate is below current_rate; the future pass will shrink access",
			Field:   "electrification.future_rate",
			Value:   e.FutureRate,
		})
	}

	total := e.InfraWeight + e.PopWeight + e.NTLWeight
	if total <= 0 {
		r.AddError(Finding{
			Level:    LevelSchema,
			Message:  "electrification weights must sum to a positive total",
			Field:    "electrification",
			Value:    total,
			Expected: "> 0",
			Hints:    []string{"Set at least one of infra_weight, pop_weight, ntl_weight above zero"},
		})
	}
	for field, w := range map[string]float64{
		"electrification.infra_weight": e.InfraWeight,
		"electrification.pop_weight":   e.PopWeight,
		"electrification.ntl_weight":   e.NTLWeight,
	} {
		if w < 0 {
			r.AddError(Finding{
				Level:    LevelSchema,
				Message:  fmt.Sprintf("%s must be non-negative", field),
				Field:    field,
				Value:    w,
				Expected: ">= 0",
			})
		}
	}
}

func validateHouseholds(s *scenario.Scenario, r *Report) {
	if s.Households.RuralSize <= 0 {
		r.AddError(Finding{
			Level:    LevelSchema,
			Message:  "households.rural_size must be greater than 0",
			Field:    "households.rural_size",
			Value:    s.Households.RuralSize,
			Expected: "> 0",
		})
	}
	if s.Households.UrbanSize <= 0 {
		r.AddError(Finding{
			Level:    LevelSchema,
			Message:  "households.urban_size must be greater than 0",
			Field:    "households.urban_size",
			Value:    s.Households.UrbanSize,
			Expected: "> 0",
		})
	}
}

func validateSearch(s *scenario.Scenario, r *Report) {
	if s.Search.Step <= 0 || s.Search.Step >= 1 {
		r.AddError(Finding{
			Level:    LevelSchema,
			Message:  "search.step must be a small positive fraction",
			Field:    "search.step",
			Value:    s.Search.Step,
			Expected: "(0, 1)",
		})
	}
	if s.Search.MaxIterations <= 0 {
		r.AddError(Finding{
			Level:    LevelSchema,
			Message:  "search.max_iterations must be greater than 0",
			Field:    "search.max_iterations",
			Value:    s.Search.MaxIterations,
			Expected: "> 0",
		})
	}
	// A cap smaller than the step count needed to sweep [0,1] cannot
	// reach low thresholds.
	if s.Search.Step > 0 && float64(s.Search.MaxIterations) < 1/s.Search.Step {
		r.AddWarning(Finding{
			Level:   LevelSchema,
			Message: "search.max_iterations is too small to sweep the full threshold range",
			Field:   "search.max_iterations",
			Value:   s.Search.MaxIterations,
			Hints:   []string{fmt.Sprintf("Use at least %.0f iterations for step %g", 1/s.Search.Step, s.Search.Step)},
		})
	}
}

func validateTechnologies(s *scenario.Scenario, r *Report) {
	if len(s.Technologies) == 0 {
		r.AddError(Finding{
			Level:    LevelSchema,
			Message:  "technologies must contain at least one entry",
			Field:    "technologies",
			Expected: ">= 1 technology",
		})
		return
	}

	seen := make(map[string]bool, len(s.Technologies))
	gridCount := 0
	for i, def := range s.Technologies {
		field := fmt.Sprintf("technologies[%d]", i)
		if def.Name == "" {
			r.AddError(Finding{
				Level:   LevelSchema,
				Message: "technology name must not be empty",
				Field:   field + ".name",
			})
			continue
		}
		if seen[def.Name] {
			r.AddError(Finding{
				Level:   LevelSchema,
				Message: fmt.Sprintf("duplicate technology %q", def.Name),
				Field:   field + ".name",
				Value:   def.Name,
			})
		}
		seen[def.Name] = true
		if def.IsGrid {
			gridCount++
		}
	}

	if gridCount > 1 {
		r.AddError(Finding{
			Level:    LevelSchema,
			Message:  "at most one technology may be marked as grid",
			Field:    "technologies",
			Value:    gridCount,
			Expected: "<= 1 grid technology",
		})
	}
	if gridCount == 0 {
		r.AddInfo(Finding{
			Level:   LevelSchema,
			Message: "no grid technology declared; partial-grid record splitting is disabled",
			Field:   "technologies",
		})
	}
	if gridCount == 1 && len(s.Technologies) == 1 {
		r.AddWarning(Finding{
			Level:   LevelSchema,
			Message: "grid is the only technology; split cells have no fallback",
			Field:   "technologies",
		})
	}
}
