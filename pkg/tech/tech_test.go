package tech

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jeremy-Prior/OnStove/pkg/scenario"
	"github.com/Jeremy-Prior/OnStove/pkg/table"
)

func TestNewCatalogOrder(t *testing.T) {
	c, err := NewCatalog(1,
		&Technology{Name: "Electricity", IsGrid: true, NetBenefit: []float64{1}},
		&Technology{Name: "LPG", NetBenefit: []float64{2}},
		&Technology{Name: "Biomass", IsBase: true, NetBenefit: []float64{3}},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"Electricity", "LPG", "Biomass"}, c.Order())
	assert.Equal(t, 3, c.Len())

	grid, ok := c.Grid()
	require.True(t, ok)
	assert.Equal(t, "Electricity", grid.Name)

	base, ok := c.Base()
	require.True(t, ok)
	assert.Equal(t, "Biomass", base.Name)
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewCatalog(1,
		&Technology{Name: "LPG", NetBenefit: []float64{1}},
		&Technology{Name: "LPG", NetBenefit: []float64{2}},
	)
	assert.Error(t, err)
}

func TestNewCatalogRejectsWrongSeriesLength(t *testing.T) {
	_, err := NewCatalog(3, &Technology{Name: "LPG", NetBenefit: []float64{1}})
	assert.Error(t, err)
}

func TestNilSeriesReadAsZero(t *testing.T) {
	tech := &Technology{Name: "LPG", NetBenefit: []float64{1, 2}}
	assert.Equal(t, 0.0, tech.DeathsAvoidedAt(0))
	assert.Equal(t, 0.0, tech.HealthCostsAvoidedAt(1))
	assert.Equal(t, 0.0, tech.TimeSavedAt(1))
}

func TestHealthCostsAvoidedSums(t *testing.T) {
	tech := &Technology{
		Name:                 "LPG",
		NetBenefit:           []float64{1},
		DistributedMorbidity: []float64{3},
		DistributedMortality: []float64{4},
	}
	assert.Equal(t, 7.0, tech.HealthCostsAvoidedAt(0))
}

func TestFromTable(t *testing.T) {
	tbl := table.New(table.SequentialIDs(2))
	require.NoError(t, tbl.SetColumn("net_benefit_Electricity", []float64{10, 20}))
	require.NoError(t, tbl.SetColumn("net_benefit_LPG", []float64{6, 7}))
	require.NoError(t, tbl.SetColumn("deaths_avoided_LPG", []float64{0.1, 0.2}))

	defs := []scenario.TechnologyDef{
		{Name: "Electricity", IsGrid: true},
		{Name: "LPG", DiscountedInvestment: 40},
	}
	c, err := FromTable(tbl, defs)
	require.NoError(t, err)

	lpg, ok := c.Get("LPG")
	require.True(t, ok)
	assert.Equal(t, 0.2, lpg.DeathsAvoidedAt(1))
	assert.Equal(t, 40.0, lpg.DiscountedInvestment)

	elec, _ := c.Get("Electricity")
	assert.Nil(t, elec.DeathsAvoided)
}

func TestFromTableMissingBenefitColumn(t *testing.T) {
	tbl := table.New(table.SequentialIDs(1))
	_, err := FromTable(tbl, []scenario.TechnologyDef{{Name: "LPG"}})
	var missing *table.MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "net_benefit_LPG", missing.Column)
}

func TestCatalogSeriesDoNotAliasTable(t *testing.T) {
	tbl := table.New(table.SequentialIDs(1))
	require.NoError(t, tbl.SetColumn("net_benefit_LPG", []float64{5}))

	c, err := FromTable(tbl, []scenario.TechnologyDef{{Name: "LPG"}})
	require.NoError(t, err)

	benefits, _ := tbl.Column("net_benefit_LPG")
	benefits[0] = 99

	lpg, _ := c.Get("LPG")
	assert.Equal(t, 5.0, lpg.NetBenefitAt(0))
}
