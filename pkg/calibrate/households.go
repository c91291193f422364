package calibrate

import (
	"fmt"
	"math"

	"github.com/Jeremy-Prior/OnStove/pkg/index"
	"github.com/Jeremy-Prior/OnStove/pkg/table"
)

// Households derives the household count per cell from the calibrated
// population and the household size of the cell's settlement class:
// rural cells use the rural size, peri-urban and urban cells the urban
// size.
func Households(t *table.Table, ruralSize, urbanSize float64) error {
	if ruralSize <= 0 || urbanSize <= 0 {
		return fmt.Errorf("calibrate: household sizes must be positive, got rural %g urban %g", ruralSize, urbanSize)
	}
	pop, err := t.Column(table.ColCalibratedPop)
	if err != nil {
		return err
	}
	classes, err := t.Column(table.ColIsUrban)
	if err != nil {
		return err
	}

	households := make([]float64, len(pop))
	for i, p := range pop {
		size := ruralSize
		if classes[i] > ClassRural {
			size = urbanSize
		}
		households[i] = p / size
	}
	return t.SetColumn(table.ColHouseholds, households)
}

// Value-of-time bounds as fractions of the minimum wage.
const (
	valueOfTimeFloor   = 0.2
	valueOfTimeCeiling = 0.5
)

// ValueOfTime derives the opportunity cost of time per cell from the
// relative wealth column: wealth is rescaled into [0.2, 0.5] of the
// minimum monthly wage, converted to an hourly rate.
func ValueOfTime(t *table.Table, minimumWage float64) error {
	wealth, err := t.Column(table.ColWealth)
	if err != nil {
		return err
	}
	scaled, err := index.Rescale(wealth, valueOfTimeFloor, valueOfTimeCeiling)
	if err != nil {
		return fmt.Errorf("calibrate: rescaling wealth index: %w", err)
	}

	hourlyWage := minimumWage / 30 / 24
	for i, v := range scaled {
		if math.IsNaN(v) {
			continue
		}
		scaled[i] = v * hourlyWage
	}
	return t.SetColumn(table.ColValueOfTime, scaled)
}
