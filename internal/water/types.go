package water

import "github.com/rshade/biogas-balance/internal/feedstock"

// FeedSource records where the feed totals came from.
type FeedSource string

const (
	// SourceYieldStage means the totals were published by the feedstock yield stage.
	SourceYieldStage FeedSource = "yield_stage"

	// SourceManual means the totals were entered directly.
	SourceManual FeedSource = "manual"
)

// FeedTotals are the aggregate daily feed quantities the balance starts from.
type FeedTotals struct {
	// WetMassTonnesPerDay is the total wet feed mass in t/day.
	WetMassTonnesPerDay float64 `yaml:"wet_mass_t_day" json:"wet_mass_t_day"`

	// TSTonnesPerDay is the total solids fed in t/day.
	TSTonnesPerDay float64 `yaml:"ts_t_day" json:"ts_t_day"`

	// RawBiogasM3PerDay is the raw biogas produced by the feed, 0 when unknown.
	RawBiogasM3PerDay float64 `yaml:"raw_biogas_m3_day" json:"raw_biogas_m3_day"`

	Source FeedSource `yaml:"source" json:"source"`
}

// FromPlantTotals takes the feed totals from a yield-stage snapshot.
// Total solids are passed through directly, not re-derived from an average.
func FromPlantTotals(t feedstock.PlantTotals) FeedTotals {
	return FeedTotals{
		WetMassTonnesPerDay: t.TotalWetMassTonnesPerDay,
		TSTonnesPerDay:      t.TotalTSTonnesPerDay,
		RawBiogasM3PerDay:   t.TotalRawBiogasM3PerDay,
		Source:              SourceYieldStage,
	}
}

// ManualFeedTotals builds feed totals from a wet mass and an average TS content in %.
func ManualFeedTotals(wetMassTonnesPerDay, averageTSPct float64) FeedTotals {
	return FeedTotals{
		WetMassTonnesPerDay: wetMassTonnesPerDay,
		TSTonnesPerDay:      wetMassTonnesPerDay * averageTSPct / percent,
		Source:              SourceManual,
	}
}

// AverageTSPct returns TS as % of wet mass, or DefaultAverageTSPct when there is no wet mass.
func (f FeedTotals) AverageTSPct() float64 {
	if f.WetMassTonnesPerDay > 0 {
		return f.TSTonnesPerDay / f.WetMassTonnesPerDay * percent
	}
	return DefaultAverageTSPct
}

// Parameters configures the digester process.
type Parameters struct {
	// DirectDilutionWaterM3PerDay is fresh water added directly to the feed.
	DirectDilutionWaterM3PerDay float64 `yaml:"direct_dilution_water_m3_day" json:"direct_dilution_water_m3_day" validate:"gte=0,finite"`

	// CleaningWaterM3PerDay is cleaning water that ends up in the process.
	CleaningWaterM3PerDay float64 `yaml:"cleaning_water_m3_day" json:"cleaning_water_m3_day" validate:"gte=0,finite"`

	// TargetTSPct is the total-solids content to hold in the digester, in %.
	TargetTSPct float64 `yaml:"target_ts_pct" json:"target_ts_pct" validate:"gt=0,lte=100"`

	// RecirculationFraction is the share of liquid effluent routed back.
	RecirculationFraction float64 `yaml:"recirculation_fraction" json:"recirculation_fraction" validate:"gte=0,lte=1"`

	// EvaporationFraction is the share of digester content lost to evaporation.
	EvaporationFraction float64 `yaml:"evaporation_fraction" json:"evaporation_fraction" validate:"gte=0,lte=0.1"`

	// CakeMoisturePct is the water content of the separated solid cake, in %.
	CakeMoisturePct float64 `yaml:"cake_moisture_pct" json:"cake_moisture_pct" validate:"gte=50,lte=95"`

	// TSCaptureEfficiency is the share of solids retained in the cake.
	TSCaptureEfficiency float64 `yaml:"ts_capture_efficiency" json:"ts_capture_efficiency" validate:"gte=0,lte=1"`

	// BiogasVolumeNm3PerDay is the raw biogas flow.
	BiogasVolumeNm3PerDay float64 `yaml:"biogas_volume_nm3_day" json:"biogas_volume_nm3_day" validate:"gte=0,finite"`

	// BiogasTempC is the temperature at which the biogas is saturated.
	BiogasTempC float64 `yaml:"biogas_temp_c" json:"biogas_temp_c" validate:"gte=0,lte=60"`

	// WaterPerNm3Biogas is the water carried by the biogas in g H2O/Nm3.
	WaterPerNm3Biogas float64 `yaml:"water_per_nm3_biogas" json:"water_per_nm3_biogas" validate:"gte=0,finite"`
}

// DefaultParameters returns typical process parameters for a wet digester.
// WaterPerNm3Biogas is the saturation value at the default temperature.
func DefaultParameters() Parameters {
	const tempC = 35.0
	return Parameters{
		DirectDilutionWaterM3PerDay: 0,
		CleaningWaterM3PerDay:       5,
		TargetTSPct:                 10,
		RecirculationFraction:       0.3,
		EvaporationFraction:         0.01,
		CakeMoisturePct:             75,
		TSCaptureEfficiency:         0.85,
		BiogasVolumeNm3PerDay:       DefaultBiogasVolumeNm3PerDay,
		BiogasTempC:                 tempC,
		WaterPerNm3Biogas:           SaturationWaterContent(tempC),
	}
}

// BalanceStatus is the outcome of the closure check.
type BalanceStatus string

const (
	StatusBalanced   BalanceStatus = "balanced"
	StatusImbalanced BalanceStatus = "imbalanced"
)

// AdvisoryCode identifies a non-fatal condition found while balancing.
type AdvisoryCode string

const (
	// AdvisoryDilutionClamped: feed and process water already exceed the water
	// needed for the target TS, so computed dilution was set to zero.
	AdvisoryDilutionClamped AdvisoryCode = "dilution_clamped"

	// AdvisoryImbalanced: the residual exceeds ImbalanceTolerance of entering water.
	AdvisoryImbalanced AdvisoryCode = "imbalanced"
)

// Advisory is a non-fatal condition with its numeric context.
//
// For AdvisoryDilutionClamped, Value is the TS % before dilution and Threshold
// the target TS %. For AdvisoryImbalanced, Value is the residual and Threshold
// the tolerated residual, both in m3/day.
type Advisory struct {
	Code      AdvisoryCode `json:"code"`
	Value     float64      `json:"value"`
	Threshold float64      `json:"threshold"`
}

// Flow is one named line of the ledger.
type Flow struct {
	Code     string  `json:"code"`
	Label    string  `json:"label"`
	M3PerDay float64 `json:"m3_day"`
}

// Result is the full water-balance ledger. It is recomputed from scratch on
// every call and carries no identity.
type Result struct {
	Feed   FeedTotals `json:"feed"`
	Params Parameters `json:"parameters"`

	// Digester make-up
	WaterInFeed             float64 `json:"water_in_feed_m3_day"`
	TargetSlurryMass        float64 `json:"target_slurry_mass_t_day"`
	WaterRequiredInDigester float64 `json:"water_required_in_digester_m3_day"`
	WaterAlreadyPresent     float64 `json:"water_already_present_m3_day"`
	TSBeforeDilutionPct     float64 `json:"ts_before_dilution_pct"`
	ComputedDilutionWater   float64 `json:"computed_dilution_water_m3_day"`
	DilutionClamped         bool    `json:"dilution_clamped"`

	// Entering
	TotalEntering         float64 `json:"total_entering_m3_day"`
	TotalSlurryInDigester float64 `json:"total_slurry_in_digester_t_day"`

	// Losses
	Evaporation      float64 `json:"evaporation_m3_day"`
	Condensate       float64 `json:"condensate_m3_day"`
	SlurryPostLosses float64 `json:"slurry_post_losses_t_day"`
	TSPostLosses     float64 `json:"ts_post_losses_t_day"`

	// Solids separation
	CakeTSFraction float64 `json:"cake_ts_fraction"`
	TSInCake       float64 `json:"ts_in_cake_t_day"`
	CakeMass       float64 `json:"cake_mass_t_day"`
	WaterInCake    float64 `json:"water_in_cake_m3_day"`

	// Liquid effluent
	LiquidEffluentMass     float64 `json:"liquid_effluent_mass_t_day"`
	TSInLiquidEffluent     float64 `json:"ts_in_liquid_effluent_t_day"`
	WaterInLiquidEffluent  float64 `json:"water_in_liquid_effluent_m3_day"`
	RecirculatedWater      float64 `json:"recirculated_water_m3_day"`
	NetLiquidEffluentWater float64 `json:"net_liquid_effluent_water_m3_day"`

	// Closure
	TotalLeaving    float64       `json:"total_leaving_m3_day"`
	BalanceResidual float64       `json:"balance_residual_m3_day"`
	Status          BalanceStatus `json:"status"`
	Advisories      []Advisory    `json:"advisories"`
}

// Entering returns the entering flows E1..E4.
func (r Result) Entering() []Flow {
	return []Flow{
		{Code: "E1", Label: "Water in feedstock", M3PerDay: r.WaterInFeed},
		{Code: "E2", Label: "Direct dilution water", M3PerDay: r.Params.DirectDilutionWaterM3PerDay},
		{Code: "E3", Label: "Cleaning water", M3PerDay: r.Params.CleaningWaterM3PerDay},
		{Code: "E4", Label: "Computed dilution water", M3PerDay: r.ComputedDilutionWater},
	}
}

// Leaving returns the leaving flows S1..S4.
func (r Result) Leaving() []Flow {
	return []Flow{
		{Code: "S1", Label: "Evaporation", M3PerDay: r.Evaporation},
		{Code: "S2", Label: "Biogas condensate", M3PerDay: r.Condensate},
		{Code: "S3", Label: "Water in solid cake", M3PerDay: r.WaterInCake},
		{Code: "S4", Label: "Net liquid effluent water", M3PerDay: r.NetLiquidEffluentWater},
	}
}

// HasAdvisory reports whether the result carries the given advisory.
func (r Result) HasAdvisory(code AdvisoryCode) bool {
	for _, a := range r.Advisories {
		if a.Code == code {
			return true
		}
	}
	return false
}
