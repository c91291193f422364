package table

// Column names shared across pipeline stages. The raw and calibrated
// population names follow the source raster conventions; derived names
// are written by the stage that owns them.
const (
	ColPop           = "Pop"
	ColCalibratedPop = "Calibrated_pop"
	ColCurrentElec   = "Current_elec"
	ColElecPopCalib  = "Elec_pop_calib"
	ColIsUrban       = "IsUrban"
	ColHouseholds    = "Households"
	ColElecDist      = "Elec_dist"
	ColNightLights   = "Night_lights"
	ColWealth        = "relative_wealth"
	ColValueOfTime   = "value_of_time"
	ColMaxNetBenefit = "maximum_net_benefit"

	// Optional multi-criteria composites.
	ColDemandIndex      = "demand_index"
	ColSupplyIndex      = "supply_index"
	ColCookingPotential = "clean_cooking_potential"

	// Label columns.
	ColMaxBenefitTech = "max_benefit_tech"
)

// NetBenefitPrefix prefixes the per-technology net benefit columns, e.g.
// net_benefit_Electricity.
const NetBenefitPrefix = "net_benefit_"
