package feedstock

// Record is one input material fed to the digester.
type Record struct {
	// Name identifies the material in reports.
	Name string `yaml:"name" json:"name"`

	// VolumeTonnesPerYear is the wet mass flow in t/yr.
	VolumeTonnesPerYear float64 `yaml:"volume_t_yr" json:"volume_t_yr" validate:"gte=0,finite"`

	// LivestockResidue marks manure and other livestock residues. Informational only.
	LivestockResidue bool `yaml:"livestock_residue" json:"livestock_residue"`

	// MoisturePct is the water content as % of wet mass.
	MoisturePct float64 `yaml:"moisture_pct" json:"moisture_pct" validate:"gte=0,lte=100"`

	// TSPct is total solids as % of wet mass.
	TSPct float64 `yaml:"ts_pct" json:"ts_pct" validate:"gte=0,lte=100"`

	// SVPct is volatile solids as % of total solids.
	SVPct float64 `yaml:"sv_pct" json:"sv_pct" validate:"gte=0,lte=100"`

	// MethanePotential is the methane yield in m3 CH4 per tonne of volatile solids.
	MethanePotential float64 `yaml:"m3ch4_per_tsv" json:"m3ch4_per_tsv" validate:"gte=0,finite"`

	// CH4Pct is the methane content of the raw biogas in %.
	CH4Pct float64 `yaml:"ch4_pct" json:"ch4_pct" validate:"gte=0,lte=100"`

	// UpgradingPct is the share of methane retained by the upgrading unit in %.
	UpgradingPct float64 `yaml:"upgrading_pct" json:"upgrading_pct" validate:"gte=0,lte=100"`
}

// Result holds the annual quantities derived from one Record.
type Result struct {
	Name                      string  `json:"name"`
	VolumeTonnesPerYear       float64 `json:"volume_t_yr"`
	TSTonnesPerYear           float64 `json:"ts_t_yr"`
	SVTonnesPerYear           float64 `json:"sv_t_yr"`
	RawBiogasM3PerYear        float64 `json:"raw_biogas_m3_yr"`
	UsableBiomethaneM3PerYear float64 `json:"usable_biomethane_m3_yr"`
	FinalBiomethaneM3PerYear  float64 `json:"final_biomethane_m3_yr"`
	WaterInFeedTonnesPerYear  float64 `json:"water_in_feed_t_yr"`
}

// PlantTotals aggregates a batch of results on a daily basis.
//
// TotalWetMassTonnesPerDay, TotalTSTonnesPerDay and TotalRawBiogasM3PerDay are
// the values handed to the water balance; the remaining fields are reported only.
type PlantTotals struct {
	TotalWetMassTonnesPerDay      float64 `json:"total_wet_mass_t_day"`
	TotalTSTonnesPerDay           float64 `json:"total_ts_t_day"`
	TotalRawBiogasM3PerDay        float64 `json:"total_raw_biogas_m3_day"`
	TotalSVTonnesPerDay           float64 `json:"total_sv_t_day"`
	TotalUsableBiomethaneM3PerDay float64 `json:"total_usable_biomethane_m3_day"`
	TotalFinalBiomethaneM3PerDay  float64 `json:"total_final_biomethane_m3_day"`
	TotalWaterInFeedTonnesPerDay  float64 `json:"total_water_in_feed_t_day"`
}

// AverageTSPct returns the mass-weighted total solids content of the batch in %.
// The second return value is false when there is no wet mass to average over.
func (p PlantTotals) AverageTSPct() (float64, bool) {
	if p.TotalWetMassTonnesPerDay <= 0 {
		return 0, false
	}
	return p.TotalTSTonnesPerDay / p.TotalWetMassTonnesPerDay * percent, true
}
