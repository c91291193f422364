package calibrate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/Jeremy-Prior/OnStove/pkg/table"
)

func TestPopulationMatchesTarget(t *testing.T) {
	tbl := table.New(table.SequentialIDs(4))
	require.NoError(t, tbl.SetColumn(table.ColPop, []float64{10, 20, 30, 40}))

	require.NoError(t, Population(tbl, 1000))

	calibrated, err := tbl.Column(table.ColCalibratedPop)
	require.NoError(t, err)
	assert.InDelta(t, 1000, floats.Sum(calibrated), 1e-9)
	assert.InDelta(t, 100, calibrated[0], 1e-9)
	assert.InDelta(t, 400, calibrated[3], 1e-9)
}

func TestPopulationPreservesProportions(t *testing.T) {
	tbl := table.New(table.SequentialIDs(2))
	require.NoError(t, tbl.SetColumn(table.ColPop, []float64{1, 3}))

	require.NoError(t, Population(tbl, 800))

	calibrated, _ := tbl.Column(table.ColCalibratedPop)
	assert.InDelta(t, 3, calibrated[1]/calibrated[0], 1e-12)
}

func TestPopulationSkipsNaNCells(t *testing.T) {
	tbl := table.New(table.SequentialIDs(3))
	require.NoError(t, tbl.SetColumn(table.ColPop, []float64{10, math.NaN(), 30}))

	require.NoError(t, Population(tbl, 1000))

	calibrated, err := tbl.Column(table.ColCalibratedPop)
	require.NoError(t, err)
	assert.InDelta(t, 250, calibrated[0], 1e-9)
	assert.True(t, math.IsNaN(calibrated[1]))
	assert.InDelta(t, 750, calibrated[2], 1e-9)
}

func TestPopulationAllNaN(t *testing.T) {
	tbl := table.New(table.SequentialIDs(2))
	require.NoError(t, tbl.SetColumn(table.ColPop, []float64{math.NaN(), math.NaN()}))
	assert.Error(t, Population(tbl, 1000))
}

func TestPopulationZeroTotal(t *testing.T) {
	tbl := table.New(table.SequentialIDs(2))
	require.NoError(t, tbl.SetColumn(table.ColPop, []float64{0, 0}))
	assert.Error(t, Population(tbl, 1000))
}

func TestPopulationMissingColumn(t *testing.T) {
	tbl := table.New(table.SequentialIDs(1))
	err := Population(tbl, 1000)
	var missing *table.MissingColumnError
	assert.ErrorAs(t, err, &missing)
}

func TestHouseholdsByClass(t *testing.T) {
	tbl := table.New(table.SequentialIDs(3))
	require.NoError(t, tbl.SetColumn(table.ColCalibratedPop, []float64{480, 420, 840}))
	require.NoError(t, tbl.SetColumn(table.ColIsUrban, []float64{ClassRural, ClassPeriUrban, ClassUrban}))

	require.NoError(t, Households(tbl, 4.8, 4.2))

	households, err := tbl.Column(table.ColHouseholds)
	require.NoError(t, err)
	assert.InDelta(t, 100, households[0], 1e-9)
	assert.InDelta(t, 100, households[1], 1e-9)
	assert.InDelta(t, 200, households[2], 1e-9)
}

func TestHouseholdsRejectsZeroSize(t *testing.T) {
	tbl := table.New(table.SequentialIDs(1))
	assert.Error(t, Households(tbl, 0, 4))
}

func TestValueOfTimeBounds(t *testing.T) {
	tbl := table.New(table.SequentialIDs(3))
	require.NoError(t, tbl.SetColumn(table.ColWealth, []float64{-1, 0, 1}))

	require.NoError(t, ValueOfTime(tbl, 720)) // 720/month -> 1/hour

	vot, err := tbl.Column(table.ColValueOfTime)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, vot[0], 1e-9)
	assert.InDelta(t, 0.35, vot[1], 1e-9)
	assert.InDelta(t, 0.5, vot[2], 1e-9)
}

func TestValueOfTimeDegenerateWealth(t *testing.T) {
	tbl := table.New(table.SequentialIDs(2))
	require.NoError(t, tbl.SetColumn(table.ColWealth, []float64{1, 1}))
	assert.Error(t, ValueOfTime(tbl, 720))
}
