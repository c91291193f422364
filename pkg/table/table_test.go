package table

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnRoundTrip(t *testing.T) {
	tbl := New(SequentialIDs(3))
	require.NoError(t, tbl.SetColumn(ColPop, []float64{10, 20, 30}))

	values, err := tbl.Column(ColPop)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30}, values)
}

func TestColumnMissing(t *testing.T) {
	tbl := New(SequentialIDs(2))
	_, err := tbl.Column("nope")
	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "nope", missing.Column)
}

func TestSetColumnLengthMismatch(t *testing.T) {
	tbl := New(SequentialIDs(3))
	assert.Error(t, tbl.SetColumn(ColPop, []float64{1, 2}))
}

func TestAppendRowDuplicatesAllColumns(t *testing.T) {
	tbl := New([]CellID{{Row: 4, Col: 7}, {Row: 5, Col: 7}})
	require.NoError(t, tbl.SetColumn(ColPop, []float64{100, 200}))
	tbl.FillLabelColumn(ColMaxBenefitTech, "LPG")

	j := tbl.AppendRow(0)
	assert.Equal(t, 2, j)
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, CellID{Row: 4, Col: 7}, tbl.ID(j))

	pop, _ := tbl.Column(ColPop)
	assert.Equal(t, 100.0, pop[j])

	labels, err := tbl.LabelColumn(ColMaxBenefitTech)
	require.NoError(t, err)
	assert.Equal(t, "LPG", labels[j])
}

func TestGroupTotal(t *testing.T) {
	tbl := New([]CellID{{Row: 1}, {Row: 2}})
	require.NoError(t, tbl.SetColumn(ColPop, []float64{100, 50}))
	j := tbl.AppendRow(0)
	pop, _ := tbl.Column(ColPop)
	pop[0] = 40
	pop[j] = 60

	total, err := tbl.GroupTotal(ColPop, CellID{Row: 1})
	require.NoError(t, err)
	assert.Equal(t, 100.0, total)
}

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"row,col,Pop,Night_lights",
		"0,0,120,0.4",
		"0,1,80,",
		"1,0,abc,0.9",
	}, "\n")

	tbl, warnings, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, CellID{Row: 0, Col: 1}, tbl.ID(1))

	pop, err := tbl.Column("Pop")
	require.NoError(t, err)
	assert.Equal(t, 120.0, pop[0])
	assert.True(t, math.IsNaN(pop[2]))

	ntl, err := tbl.Column("Night_lights")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(ntl[1]))
}

func TestReadCSVDuplicateColumn(t *testing.T) {
	input := strings.Join([]string{
		"row,col,Pop,Pop",
		"0,0,120,999",
		"0,1,80,999",
	}, "\n")

	tbl, warnings, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "duplicate column")

	pop, err := tbl.Column("Pop")
	require.NoError(t, err)
	require.Len(t, pop, 2)
	assert.Equal(t, 120.0, pop[0])
	assert.Equal(t, 80.0, pop[1])
}

func TestReadCSVEmpty(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader("row,col,Pop\n"))
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	tbl := New([]CellID{{Row: 2, Col: 3}})
	require.NoError(t, tbl.SetColumn(ColPop, []float64{42.5}))
	tbl.FillLabelColumn(ColMaxBenefitTech, "Biomass")

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "row,col,max_benefit_tech,Pop", lines[0])
	assert.Equal(t, "2,3,Biomass,42.5", lines[1])
}
