package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jeremy-Prior/OnStove/pkg/scenario"
)

func validScenario() *scenario.Scenario {
	return &scenario.Scenario{
		Name:      "test",
		StartYear: 2020,
		EndYear:   2030,
		Population: scenario.Population{
			StartYearTotal: 1_000_000,
			UrbanRatio:     0.3,
			CellAreaKm2:    1,
		},
		Electrification: scenario.Electrification{
			CurrentRate: 0.5,
			FutureRate:  0.8,
			InfraWeight: 1,
			PopWeight:   1,
			NTLWeight:   1,
		},
		Households: scenario.Households{RuralSize: 5, UrbanSize: 4},
		Search:     scenario.Search{}.WithDefaults(),
		Technologies: []scenario.TechnologyDef{
			{Name: "Electricity", IsGrid: true},
			{Name: "LPG"},
		},
	}
}

func TestValidScenarioPasses(t *testing.T) {
	r := ValidateScenario(validScenario())
	assert.True(t, r.Valid, "unexpected errors: %v", r.Errors)
}

func TestZeroPopulationFails(t *testing.T) {
	s := validScenario()
	s.Population.StartYearTotal = 0
	r := ValidateScenario(s)
	assert.False(t, r.Valid)
}

func TestRateOutOfRangeFails(t *testing.T) {
	s := validScenario()
	s.Electrification.CurrentRate = 1.5
	r := ValidateScenario(s)
	assert.False(t, r.Valid)
}

func TestZeroWeightsFail(t *testing.T) {
	s := validScenario()
	s.Electrification.InfraWeight = 0
	s.Electrification.PopWeight = 0
	s.Electrification.NTLWeight = 0
	r := ValidateScenario(s)
	assert.False(t, r.Valid)
}

func TestFutureBelowCurrentWarns(t *testing.T) {
	s := validScenario()
	s.Electrification.FutureRate = 0.3
	r := ValidateScenario(s)
	assert.True(t, r.Valid)
	assert.NotEmpty(t, r.Warnings)
}

func TestDuplicateTechnologyFails(t *testing.T) {
	s := validScenario()
	s.Technologies = append(s.Technologies, scenario.TechnologyDef{Name: "LPG"})
	r := ValidateScenario(s)
	assert.False(t, r.Valid)
}

func TestTwoGridTechnologiesFail(t *testing.T) {
	s := validScenario()
	s.Technologies = append(s.Technologies, scenario.TechnologyDef{Name: "Minigrid", IsGrid: true})
	r := ValidateScenario(s)
	assert.False(t, r.Valid)
}

func TestShortIterationCapWarns(t *testing.T) {
	s := validScenario()
	s.Search.MaxIterations = 10
	r := ValidateScenario(s)
	assert.True(t, r.Valid)
	require.NotEmpty(t, r.Warnings)
	assert.Equal(t, "search.max_iterations", r.Warnings[0].Field)
}

func TestReportMerge(t *testing.T) {
	a := NewReport()
	a.AddWarning(Finding{Level: LevelSchema, Message: "w"})
	b := NewReport()
	b.AddError(Finding{Level: LevelCalibration, Message: "e"})

	a.Merge(b)
	assert.False(t, a.Valid)
	assert.Len(t, a.Errors, 1)
	assert.Len(t, a.Warnings, 1)
	assert.Equal(t, "1 errors, 1 warnings, 0 info", a.Summary)
}
