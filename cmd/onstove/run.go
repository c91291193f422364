package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	pb "gopkg.in/cheggaaa/pb.v1"

	"github.com/Jeremy-Prior/OnStove/internal/server"
	"github.com/Jeremy-Prior/OnStove/pkg/allocate"
	"github.com/Jeremy-Prior/OnStove/pkg/analytics"
	"github.com/Jeremy-Prior/OnStove/pkg/calibrate"
	"github.com/Jeremy-Prior/OnStove/pkg/index"
	"github.com/Jeremy-Prior/OnStove/pkg/scenario"
	"github.com/Jeremy-Prior/OnStove/pkg/table"
	"github.com/Jeremy-Prior/OnStove/pkg/tech"
	"github.com/Jeremy-Prior/OnStove/pkg/validation"
)

type runOptions struct {
	cellsPath   string
	outPath     string
	summaryPath string
	noProgress  bool
}

// loadAndValidate loads the scenario and runs schema validation. Engine
// tuning overrides from flags or ONSTOVE_* environment variables are
// applied before validation so the report sees the effective settings.
func loadAndValidate(projectPath string) (*scenario.Scenario, *validation.Report, error) {
	s, err := scenario.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading scenario: %w", err)
	}
	if step := viper.GetFloat64("step"); step > 0 {
		s.Search.Step = step
	}
	if maxIter := viper.GetInt("max-iterations"); maxIter > 0 {
		s.Search.MaxIterations = maxIter
	}
	return s, validation.ValidateScenario(s), nil
}

func runValidate(projectPath string) error {
	_, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}

	printValidationReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runValidated(projectPath string) (*scenario.Scenario, *validation.Report, error) {
	s, report, err := loadAndValidate(projectPath)
	if err != nil {
		return nil, nil, err
	}
	if !report.Valid {
		printValidationReport(report)
		return nil, nil, fmt.Errorf("scenario has validation errors")
	}
	return s, report, nil
}

func loadCells(projectPath, cellsPath string, report *validation.Report) (*table.Table, error) {
	if cellsPath == "" {
		cellsPath = filepath.Join(projectPath, "cells.csv")
	}
	f, err := os.Open(cellsPath)
	if err != nil {
		return nil, fmt.Errorf("opening cell table: %w", err)
	}
	defer f.Close()

	t, warnings, err := table.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading cell table: %w", err)
	}
	for _, w := range warnings {
		report.AddWarning(validation.Finding{
			Level:   validation.LevelSchema,
			Message: w,
		})
	}
	return t, nil
}

// stageBar wraps the progress bar so the pipeline reads the same with
// and without one.
type stageBar struct {
	bar *pb.ProgressBar
}

func newStageBar(enabled bool, stages int) *stageBar {
	if !enabled {
		return &stageBar{}
	}
	bar := pb.New(stages)
	bar.ShowTimeLeft = false
	return &stageBar{bar: bar.Start()}
}

func (b *stageBar) step(name string) {
	if b.bar != nil {
		b.bar.Prefix(name + " ")
		b.bar.Increment()
	}
}

func (b *stageBar) finish() {
	if b.bar != nil {
		b.bar.Finish()
	}
}

// Stage counts for the progress bar.
const (
	calibrateStages = 8
	allocateStages  = calibrateStages + 3
)

// calibrateTable runs every calibration stage in place: population
// scaling, the electrification composite and both electrification
// phases, urban classification, households and value of time, plus the
// optional demand and supply composites.
func calibrateTable(ctx context.Context, s *scenario.Scenario, t *table.Table, report *validation.Report, bar *stageBar) error {
	bar.step("calibrate population")
	if err := calibrate.Population(t, s.Population.StartYearTotal); err != nil {
		return fmt.Errorf("calibrating population: %w", err)
	}

	bar.step("electrification composite")
	composite, err := index.ElectrificationComposite(t,
		s.Electrification.InfraWeight, s.Electrification.PopWeight, s.Electrification.NTLWeight)
	if err != nil {
		return fmt.Errorf("building electrification composite: %w", err)
	}

	bar.step("current electrification")
	elec := calibrate.NewElectrification(composite, s.Search)
	if err := elec.MarkCurrent(ctx, t, s.Electrification.CurrentRate); err != nil {
		return fmt.Errorf("calibrating current electrification: %w", err)
	}

	// Project the population to the end year before the future phase so
	// the future target and the household counts use end-year totals.
	bar.step("project population")
	if s.Population.EndYearTotal > 0 {
		if err := calibrate.Population(t, s.Population.EndYearTotal); err != nil {
			return fmt.Errorf("projecting population: %w", err)
		}
	}

	bar.step("classify settlements")
	urban, err := calibrate.Urban(ctx, t, s.Population.UrbanRatio, s.Population.CellAreaKm2, s.Search)
	if err != nil {
		return fmt.Errorf("classifying settlements: %w", err)
	}
	if !urban.Converged {
		report.AddWarning(validation.Finding{
			Level:    validation.LevelCalibration,
			Message:  "urban classification did not converge; using the best factor found",
			Field:    "population.urban_ratio",
			Value:    urban.ModelledRatio,
			Expected: fmt.Sprintf("within %.3g of %.3g", s.Search.Tolerance, s.Population.UrbanRatio),
		})
	}

	bar.step("derive households")
	if err := calibrate.Households(t, s.Households.RuralSize, s.Households.UrbanSize); err != nil {
		return fmt.Errorf("deriving households: %w", err)
	}
	if t.HasColumn(table.ColWealth) && s.MinimumWage > 0 {
		if err := calibrate.ValueOfTime(t, s.MinimumWage); err != nil {
			return fmt.Errorf("deriving value of time: %w", err)
		}
	}

	bar.step("future electrification")
	if err := elec.CapFuture(ctx, t, s.Electrification.FutureRate); err != nil {
		return fmt.Errorf("calibrating future electrification: %w", err)
	}

	bar.step("composite indexes")
	return buildComposites(s, t)
}

// buildComposites writes the optional demand, supply and clean cooking
// potential columns when the scenario declares the layer stacks.
func buildComposites(s *scenario.Scenario, t *table.Table) error {
	var demand, supply []float64
	if len(s.DemandIndex) > 0 {
		values, err := index.Build(t, s.DemandIndex)
		if err != nil {
			return fmt.Errorf("building demand index: %w", err)
		}
		demand = values
		if err := t.SetColumn(table.ColDemandIndex, values); err != nil {
			return err
		}
	}
	if len(s.SupplyIndex) > 0 {
		values, err := index.Build(t, s.SupplyIndex)
		if err != nil {
			return fmt.Errorf("building supply index: %w", err)
		}
		supply = values
		if err := t.SetColumn(table.ColSupplyIndex, values); err != nil {
			return err
		}
	}
	if demand == nil || supply == nil {
		return nil
	}

	potential, err := index.Combine([]index.Layer{
		{Values: demand, Weight: 1},
		{Values: supply, Weight: 1},
	})
	if err != nil {
		return fmt.Errorf("building clean cooking potential: %w", err)
	}
	return t.SetColumn(table.ColCookingPotential, potential)
}

func runCalibrate(ctx context.Context, projectPath string, opts runOptions) error {
	s, report, err := runValidated(projectPath)
	if err != nil {
		return err
	}

	t, err := loadCells(projectPath, opts.cellsPath, report)
	if err != nil {
		return err
	}

	bar := newStageBar(!opts.noProgress, calibrateStages)
	if err := calibrateTable(ctx, s, t, report, bar); err != nil {
		bar.finish()
		return err
	}
	bar.finish()

	outPath := opts.outPath
	if outPath == "" {
		outPath = filepath.Join(projectPath, "calibrated.csv")
	}
	if err := writeTable(t, outPath); err != nil {
		return err
	}

	if len(report.Warnings) > 0 {
		printValidationReport(report)
	}
	fmt.Printf("Calibrated table written to %s\n", outPath)
	return nil
}

func runFull(ctx context.Context, projectPath string, opts runOptions) error {
	s, report, err := runValidated(projectPath)
	if err != nil {
		return err
	}

	t, err := loadCells(projectPath, opts.cellsPath, report)
	if err != nil {
		return err
	}

	bar := newStageBar(!opts.noProgress, allocateStages)
	summary, err := allocateTable(ctx, s, t, report, bar)
	bar.finish()
	if err != nil {
		return err
	}

	outPath := opts.outPath
	if outPath == "" {
		outPath = filepath.Join(projectPath, "results.csv")
	}
	if err := writeTable(t, outPath); err != nil {
		return err
	}

	if len(report.Warnings) > 0 || len(report.Info) > 0 {
		printValidationReport(report)
		fmt.Println()
	}
	printSummary(summary)

	if opts.summaryPath != "" {
		if err := writeSummaryJSON(summary, report, opts.summaryPath); err != nil {
			return err
		}
		fmt.Printf("\nSummary written to %s\n", opts.summaryPath)
	}
	fmt.Printf("Result table written to %s\n", outPath)

	if !report.Valid {
		return fmt.Errorf("run finished with validation errors")
	}
	return nil
}

// allocateTable runs calibration followed by the allocation stages and
// returns the run summary.
func allocateTable(ctx context.Context, s *scenario.Scenario, t *table.Table, report *validation.Report, bar *stageBar) (*analytics.Summary, error) {
	if err := calibrateTable(ctx, s, t, report, bar); err != nil {
		return nil, err
	}

	bar.step("load technologies")
	cat, err := tech.FromTable(t, s.Technologies)
	if err != nil {
		return nil, fmt.Errorf("loading technologies: %w", err)
	}

	bar.step("allocate")
	alloc, err := allocate.Run(t, cat)
	if err != nil {
		return nil, fmt.Errorf("allocating technologies: %w", err)
	}
	if err := allocate.ApplyImpacts(t, cat, alloc.Origins); err != nil {
		return nil, fmt.Errorf("deriving impacts: %w", err)
	}

	bar.step("summarize")
	summary, allocReport := analytics.Resolve(t, cat, alloc)
	report.Merge(allocReport)
	return summary, nil
}

func writeTable(t *table.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if err := t.WriteCSV(f); err != nil {
		return fmt.Errorf("writing result table: %w", err)
	}
	return f.Close()
}

func writeSummaryJSON(summary *analytics.Summary, report *validation.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating summary file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{
		"summary":    summary,
		"validation": report,
	}); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return f.Close()
}

// resultsRunner builds the pipeline closure the results server re-runs
// on demand.
func resultsRunner(projectPath, cellsPath string) server.Runner {
	return func(ctx context.Context) (server.Results, error) {
		s, report, err := loadAndValidate(projectPath)
		if err != nil {
			return server.Results{}, err
		}
		if !report.Valid {
			return server.Results{Scenario: s, Validation: report},
				fmt.Errorf("scenario has validation errors")
		}

		t, err := loadCells(projectPath, cellsPath, report)
		if err != nil {
			return server.Results{Scenario: s, Validation: report}, err
		}

		summary, err := allocateTable(ctx, s, t, report, &stageBar{})
		if err != nil {
			return server.Results{Scenario: s, Validation: report}, err
		}
		return server.Results{Scenario: s, Summary: summary, Validation: report}, nil
	}
}
