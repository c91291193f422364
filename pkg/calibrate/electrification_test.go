package calibrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jeremy-Prior/OnStove/pkg/scenario"
	"github.com/Jeremy-Prior/OnStove/pkg/table"
)

func elecTable(t *testing.T, pops []float64) *table.Table {
	t.Helper()
	tbl := table.New(table.SequentialIDs(len(pops)))
	require.NoError(t, tbl.SetColumn(table.ColCalibratedPop, pops))
	return tbl
}

func TestMarkCurrentThresholdCrossing(t *testing.T) {
	// Four cells, current rate 0.5: target is 0.5 * 650 = 325. The scan
	// marks the 0.9 cell (100), keeps descending, and stops right after
	// the 0.7 cell pushes the electrified total to 400.
	tbl := elecTable(t, []float64{100, 200, 300, 50})
	e := NewElectrification([]float64{0.9, 0.4, 0.7, 0.1}, scenario.Search{})

	require.NoError(t, e.MarkCurrent(context.Background(), tbl, 0.5))

	current, err := tbl.Column(table.ColCurrentElec)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 1, 0}, current)

	// The retained threshold sits one step past the crossing score.
	assert.Less(t, e.Threshold, 0.7)
	assert.Greater(t, e.Threshold, 0.69)
}

func TestMarkCurrentMonotone(t *testing.T) {
	tbl := elecTable(t, []float64{10, 10, 10, 10, 10})
	scores := []float64{0.95, 0.8, 0.6, 0.4, 0.2}
	e := NewElectrification(scores, scenario.Search{})

	require.NoError(t, e.MarkCurrent(context.Background(), tbl, 0.5))

	// Marked cells must form a prefix of the score ordering: once a
	// higher-scored cell is unmarked, no lower-scored cell may be marked.
	current, _ := tbl.Column(table.ColCurrentElec)
	for i := 1; i < len(scores); i++ {
		if current[i] == 1 {
			assert.Equal(t, 1.0, current[i-1], "cell %d marked but higher-scored cell %d is not", i, i-1)
		}
	}
}

func TestMarkCurrentZeroPopulation(t *testing.T) {
	tbl := elecTable(t, []float64{0, 0})
	e := NewElectrification([]float64{0.5, 0.5}, scenario.Search{})

	err := e.MarkCurrent(context.Background(), tbl, 0.5)
	var nc *NonConvergenceError
	require.ErrorAs(t, err, &nc)
	assert.Equal(t, "current_elec", nc.Stage)
}

func TestMarkCurrentIterationCap(t *testing.T) {
	// No cell can ever cross the target: the scan must stop at the cap
	// instead of looping forever.
	tbl := elecTable(t, []float64{0, 100})
	e := NewElectrification([]float64{0.9, -5}, scenario.Search{MaxIterations: 100})

	err := e.MarkCurrent(context.Background(), tbl, 0.5)
	var nc *NonConvergenceError
	require.ErrorAs(t, err, &nc)
	assert.Equal(t, 100, nc.Iterations)
}

func TestMarkCurrentCancellation(t *testing.T) {
	tbl := elecTable(t, []float64{100, 200})
	e := NewElectrification([]float64{0.9, 0.1}, scenario.Search{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, e.MarkCurrent(ctx, tbl, 0.5), context.Canceled)
}

func TestCapFutureShrinksToTarget(t *testing.T) {
	tbl := elecTable(t, []float64{100, 200, 300, 50})
	e := NewElectrification([]float64{0.9, 0.4, 0.7, 0.1}, scenario.Search{})

	ctx := context.Background()
	require.NoError(t, e.MarkCurrent(ctx, tbl, 0.5))
	require.NoError(t, e.CapFuture(ctx, tbl, 0.5))

	pop, _ := tbl.Column(table.ColCalibratedPop)
	current, _ := tbl.Column(table.ColCurrentElec)
	elec, err := tbl.Column(table.ColElecPopCalib)
	require.NoError(t, err)

	elecTotal := 0.0
	for i := range elec {
		assert.GreaterOrEqual(t, elec[i], 0.0)
		assert.LessOrEqual(t, elec[i], pop[i])
		if current[i] == 0 {
			assert.Equal(t, 0.0, elec[i])
		}
		elecTotal += elec[i]
	}
	// Total 650, future rate 0.5: electrified population trimmed to 325.
	assert.InDelta(t, 325, elecTotal, 1e-6)
	// The unmarked cells are untouched; the band cell absorbs the cut.
	assert.InDelta(t, 100, elec[0], 1e-6)
	assert.InDelta(t, 225, elec[2], 1e-6)
}

func TestCapFutureAlreadyBelowTarget(t *testing.T) {
	tbl := elecTable(t, []float64{100, 200, 300, 50})
	e := NewElectrification([]float64{0.9, 0.4, 0.7, 0.1}, scenario.Search{})

	ctx := context.Background()
	require.NoError(t, e.MarkCurrent(ctx, tbl, 0.5))
	// Future target above the current electrified total: nothing shrinks.
	require.NoError(t, e.CapFuture(ctx, tbl, 0.95))

	elec, _ := tbl.Column(table.ColElecPopCalib)
	assert.Equal(t, 100.0, elec[0])
	assert.Equal(t, 300.0, elec[2])
	assert.Equal(t, 0.0, elec[1])
	assert.Equal(t, 0.0, elec[3])
}

func TestCapFutureDeactivatesZeroedCells(t *testing.T) {
	// Two electrified cells, one tiny: the uniform decrement drives the
	// tiny cell to zero, which must also clear its electrified mark.
	tbl := elecTable(t, []float64{100, 2, 500})
	e := NewElectrification([]float64{0.9, 0.85, 0.3}, scenario.Search{})

	ctx := context.Background()
	require.NoError(t, e.MarkCurrent(ctx, tbl, 0.168))
	require.NoError(t, e.CapFuture(ctx, tbl, 0.168))

	current, _ := tbl.Column(table.ColCurrentElec)
	require.Equal(t, 0.0, current[2], "phase A must stop before the low-score cell")

	elec, _ := tbl.Column(table.ColElecPopCalib)
	pop, _ := tbl.Column(table.ColCalibratedPop)

	elecTotal := 0.0
	for i := range elec {
		assert.GreaterOrEqual(t, elec[i], 0.0)
		assert.LessOrEqual(t, elec[i], pop[i])
		elecTotal += elec[i]
	}
	assert.LessOrEqual(t, elecTotal, 0.168*602+1e-9)
	assert.Equal(t, 0.0, current[1])
	assert.Equal(t, 0.0, elec[1])
}

func TestCapFutureIterationCap(t *testing.T) {
	tbl := elecTable(t, []float64{100, 200, 300, 50})
	e := NewElectrification([]float64{0.9, 0.4, 0.7, 0.1}, scenario.Search{})

	ctx := context.Background()
	require.NoError(t, e.MarkCurrent(ctx, tbl, 0.5))

	e.Search.MaxIterations = 1
	err := e.CapFuture(ctx, tbl, 0.3)
	var nc *NonConvergenceError
	require.ErrorAs(t, err, &nc)
	assert.Equal(t, "final_elec", nc.Stage)
}
