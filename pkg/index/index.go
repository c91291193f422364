// Package index implements min-max normalization and the weighted index
// combiner used to build the demand, supply and electrification
// composites. Layers must be normalized before combining; the combiner
// never rescales its inputs.
package index

import (
	"fmt"
	"math"
)

// DegenerateRangeError reports a normalization over a column whose
// minimum equals its maximum, which would divide by zero.
type DegenerateRangeError struct {
	Min, Max float64
}

func (e *DegenerateRangeError) Error() string {
	return fmt.Sprintf("index: degenerate range: min == max == %g", e.Min)
}

// InvalidWeightsError reports a combination whose weights sum to a
// non-positive total.
type InvalidWeightsError struct {
	Total float64
}

func (e *InvalidWeightsError) Error() string {
	return fmt.Sprintf("index: weights must sum to a positive total, got %g", e.Total)
}

// Normalize rescales values into [0,1] by min-max. With inverse set the
// scale is flipped: the minimum maps to 1 and the maximum to 0. NaN
// values are ignored when finding the range and stay NaN in the output.
// A column with min == max yields a DegenerateRangeError; the caller
// decides whether to guard, never this function.
func Normalize(values []float64, inverse bool) ([]float64, error) {
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min >= max {
		return nil, &DegenerateRangeError{Min: min, Max: max}
	}

	span := max - min
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = v
			continue
		}
		if inverse {
			out[i] = (max - v) / span
		} else {
			out[i] = (v - min) / span
		}
	}
	return out, nil
}

// Layer is one pre-normalized signal and its weight in a composite.
type Layer struct {
	Values []float64
	Weight float64
}

// Combine blends layers into a composite: per element, the weighted sum
// of layer values divided by the total weight.
func Combine(layers []Layer) ([]float64, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("index: no layers to combine")
	}

	var totalWeight float64
	n := len(layers[0].Values)
	for _, layer := range layers {
		if len(layer.Values) != n {
			return nil, fmt.Errorf("index: layer length %d does not match %d", len(layer.Values), n)
		}
		totalWeight += layer.Weight
	}
	if totalWeight <= 0 {
		return nil, &InvalidWeightsError{Total: totalWeight}
	}

	out := make([]float64, n)
	for _, layer := range layers {
		for i, v := range layer.Values {
			out[i] += layer.Weight * v
		}
	}
	for i := range out {
		out[i] /= totalWeight
	}
	return out, nil
}

// Rescale maps values linearly from their own min-max range onto
// [lo, hi]. Used for the value-of-time bounds on the wealth index.
func Rescale(values []float64, lo, hi float64) ([]float64, error) {
	normalized, err := Normalize(values, false)
	if err != nil {
		return nil, err
	}
	for i, v := range normalized {
		normalized[i] = v*(hi-lo) + lo
	}
	return normalized, nil
}
