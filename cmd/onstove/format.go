package main

import (
	"fmt"

	"github.com/Jeremy-Prior/OnStove/pkg/analytics"
	"github.com/Jeremy-Prior/OnStove/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  [%s] %s\n", e.Level, e.Message)
			if e.Field != "" {
				fmt.Printf("    -> %s = %v\n", e.Field, e.Value)
			}
			if e.Expected != "" {
				fmt.Printf("    expected: %s\n", e.Expected)
			}
			for _, h := range e.Hints {
				fmt.Printf("    * %s\n", h)
			}
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Printf("  [%s] %s\n", w.Level, w.Message)
			if w.Field != "" {
				fmt.Printf("    -> %s = %v\n", w.Field, w.Value)
			}
			if w.Expected != "" {
				fmt.Printf("    expected: %s\n", w.Expected)
			}
			for _, h := range w.Hints {
				fmt.Printf("    * %s\n", h)
			}
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printSummary(s *analytics.Summary) {
	fmt.Println("Run Summary")
	fmt.Println("===========")
	fmt.Println()
	fmt.Printf("  Run ID:           %s\n", s.RunID)
	fmt.Printf("  Rows:             %d (%d splits, %d unassigned)\n", s.Rows, s.Splits, s.Unassigned)
	fmt.Printf("  Population:       %s\n", formatCount(s.TotalPopulation))
	fmt.Printf("  Households:       %s\n", formatCount(s.TotalHouseholds))
	fmt.Printf("  Electrified:      %s (%.1f%%)\n", formatCount(s.ElectrifiedPopulation), s.ElectrifiedShare*100)
	fmt.Printf("  Urban share:      %.1f%%\n", s.UrbanShare*100)
	fmt.Println()

	printTechnologyTable(s)

	fmt.Println()
	fmt.Println("Impacts")
	fmt.Println("-------")
	fmt.Printf("  Deaths avoided:          %s\n", formatCount(s.Impacts.DeathsAvoided))
	fmt.Printf("  Health costs avoided:    %s\n", formatCount(s.Impacts.HealthCostsAvoided))
	fmt.Printf("  Time saved:              %s\n", formatCount(s.Impacts.TimeSaved))
	fmt.Printf("  Reduced emissions:       %s\n", formatCount(s.Impacts.ReducedEmissions))
	fmt.Printf("  Emission costs saved:    %s\n", formatCount(s.Impacts.EmissionCostsSaved))
	fmt.Printf("  Investment costs:        %s\n", formatCount(s.Impacts.InvestmentCosts))
	fmt.Printf("  O&M costs:               %s\n", formatCount(s.Impacts.OMCosts))
	fmt.Printf("  Fuel costs:              %s\n", formatCount(s.Impacts.FuelCosts))
}

func printTechnologyTable(s *analytics.Summary) {
	fmt.Printf("%-16s %8s %12s %12s %8s %14s\n",
		"Technology", "Rows", "Population", "Households", "Share", "Mean benefit")
	fmt.Printf("%-16s %8s %12s %12s %8s %14s\n",
		"----------------", "--------", "------------", "------------", "--------", "--------------")

	for _, b := range s.ByTechnology {
		fmt.Printf("%-16s %8d %12s %12s %7.1f%% %14.2f\n",
			b.Name, b.Rows, formatCount(b.Population), formatCount(b.Households),
			b.PopulationShare*100, b.MeanNetBenefit)
	}

	fmt.Printf("%-16s %8d %12s %12s %8s %14.2f\n",
		"TOTAL", s.Rows, formatCount(s.TotalPopulation), formatCount(s.TotalHouseholds),
		"", s.WeightedMeanBenefit)
}

func formatCount(v float64) string {
	if v >= 1_000_000_000 {
		return fmt.Sprintf("%.2fB", v/1_000_000_000)
	}
	if v >= 1_000_000 {
		return fmt.Sprintf("%.2fM", v/1_000_000)
	}
	if v >= 1_000 {
		return fmt.Sprintf("%.0fK", v/1_000)
	}
	return fmt.Sprintf("%.1f", v)
}
