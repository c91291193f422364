// Package tech models the technology catalog the allocator reads from:
// each candidate cooking technology with its per-cell net benefit and
// impact series, in a declared canonical order. The catalog is built
// once per run and treated as read-only afterwards.
package tech

import "fmt"

// Technology is one candidate cooking technology. Per-cell slices are
// indexed by the original cell row (before any allocator splits); a nil
// slice means the quantity is not modelled and reads as zero. Scalar
// quantities apply uniformly per household.
type Technology struct {
	Name   string
	IsGrid bool
	IsBase bool

	// Per-cell series.
	NetBenefit           []float64
	DeathsAvoided        []float64
	DistributedMorbidity []float64
	DistributedMortality []float64
	TimeSaved            []float64
	DiscountedFuelCost   []float64

	// Per-household scalars.
	DiscountedInvestment   float64
	DiscountedOMCost       float64
	DecreasedEmissions     float64
	DecreasedEmissionCosts float64
}

func at(series []float64, i int) float64 {
	if i < 0 || i >= len(series) {
		return 0
	}
	return series[i]
}

// NetBenefitAt returns the technology's net benefit for cell i.
func (t *Technology) NetBenefitAt(i int) float64 { return at(t.NetBenefit, i) }

// DeathsAvoidedAt returns the avoided deaths per household for cell i.
func (t *Technology) DeathsAvoidedAt(i int) float64 { return at(t.DeathsAvoided, i) }

// HealthCostsAvoidedAt returns the avoided morbidity plus mortality
// costs per household for cell i.
func (t *Technology) HealthCostsAvoidedAt(i int) float64 {
	return at(t.DistributedMorbidity, i) + at(t.DistributedMortality, i)
}

// TimeSavedAt returns the time saved per household for cell i.
func (t *Technology) TimeSavedAt(i int) float64 { return at(t.TimeSaved, i) }

// FuelCostAt returns the discounted fuel cost per household for cell i.
func (t *Technology) FuelCostAt(i int) float64 { return at(t.DiscountedFuelCost, i) }

// Catalog is an ordered, read-only set of technologies. The declaration
// order is the canonical order: argmax ties in the allocator resolve to
// the earliest entry, never to incidental storage order.
type Catalog struct {
	order []string
	techs map[string]*Technology
}

// NewCatalog builds a catalog from technologies in canonical order.
// Every technology needs a unique, non-empty name and a net benefit
// series of the given cell count.
func NewCatalog(cells int, techs ...*Technology) (*Catalog, error) {
	if len(techs) == 0 {
		return nil, fmt.Errorf("tech: catalog needs at least one technology")
	}
	c := &Catalog{techs: make(map[string]*Technology, len(techs))}
	for _, tech := range techs {
		if tech.Name == "" {
			return nil, fmt.Errorf("tech: technology with empty name")
		}
		if _, dup := c.techs[tech.Name]; dup {
			return nil, fmt.Errorf("tech: duplicate technology %q", tech.Name)
		}
		if len(tech.NetBenefit) != cells {
			return nil, fmt.Errorf("tech: %s has %d net benefit values for %d cells",
				tech.Name, len(tech.NetBenefit), cells)
		}
		c.order = append(c.order, tech.Name)
		c.techs[tech.Name] = tech
	}
	return c, nil
}

// Order returns the canonical technology order.
func (c *Catalog) Order() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of technologies.
func (c *Catalog) Len() int { return len(c.order) }

// Get returns a technology by name.
func (c *Catalog) Get(name string) (*Technology, bool) {
	t, ok := c.techs[name]
	return t, ok
}

// Grid returns the grid-connected technology, if any.
func (c *Catalog) Grid() (*Technology, bool) {
	for _, name := range c.order {
		if c.techs[name].IsGrid {
			return c.techs[name], true
		}
	}
	return nil, false
}

// Base returns the baseline (currently used) technology, if any.
func (c *Catalog) Base() (*Technology, bool) {
	for _, name := range c.order {
		if c.techs[name].IsBase {
			return c.techs[name], true
		}
	}
	return nil, false
}
