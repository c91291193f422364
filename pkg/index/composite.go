package index

import (
	"fmt"

	"github.com/Jeremy-Prior/OnStove/pkg/table"
)

// LayerSpec names a table column contributing to a composite index,
// with its weight and normalization direction. Inverse layers are
// signals where smaller is better, such as distance to infrastructure.
type LayerSpec struct {
	Column  string  `yaml:"column"`
	Weight  float64 `yaml:"weight"`
	Inverse bool    `yaml:"inverse"`
}

// Build normalizes each named column and combines them into a single
// composite score over the table.
func Build(t *table.Table, specs []LayerSpec) ([]float64, error) {
	layers := make([]Layer, 0, len(specs))
	for _, spec := range specs {
		values, err := t.Column(spec.Column)
		if err != nil {
			return nil, err
		}
		normalized, err := Normalize(values, spec.Inverse)
		if err != nil {
			return nil, fmt.Errorf("index: normalizing %q: %w", spec.Column, err)
		}
		layers = append(layers, Layer{Values: normalized, Weight: spec.Weight})
	}
	return Combine(layers)
}

// electricityDistanceSources lists, in preference order, the distance
// columns that can stand in for distance to the electricity network.
var electricityDistanceSources = []string{
	"Transformers_dist",
	"MV_lines_dist",
	"HV_lines_dist",
}

// ElectricityDistance copies the best available infrastructure distance
// column into Elec_dist: transformers if present, else MV lines, else
// HV lines.
func ElectricityDistance(t *table.Table) error {
	for _, source := range electricityDistanceSources {
		if !t.HasColumn(source) {
			continue
		}
		values, err := t.Column(source)
		if err != nil {
			return err
		}
		copied := make([]float64, len(values))
		copy(copied, values)
		return t.SetColumn(table.ColElecDist, copied)
	}
	return &table.MissingColumnError{Column: "Transformers_dist|MV_lines_dist|HV_lines_dist"}
}

// ElectrificationComposite builds the composite electrification score
// from distance to the network (inverse), night-time lights and
// calibrated population, weighted by the scenario.
func ElectrificationComposite(t *table.Table, infraWeight, popWeight, ntlWeight float64) ([]float64, error) {
	if err := ElectricityDistance(t); err != nil {
		return nil, err
	}
	return Build(t, []LayerSpec{
		{Column: table.ColElecDist, Weight: infraWeight, Inverse: true},
		{Column: table.ColCalibratedPop, Weight: popWeight},
		{Column: table.ColNightLights, Weight: ntlWeight},
	})
}
