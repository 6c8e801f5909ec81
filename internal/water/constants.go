// Package water computes the daily water balance of an anaerobic digester:
// water entering with feed and process water, losses to evaporation and biogas
// condensate, solids separation into cake and liquid effluent, and the internal
// recirculation loop.
//
// All flows are in m3/day or t/day; for water 1 t is taken as 1 m3.
package water

const (
	// DefaultAverageTSPct is the feed total-solids content assumed when the
	// average cannot be derived from stage-1 totals.
	DefaultAverageTSPct = 15.0

	// ImbalanceTolerance is the residual, as a fraction of total entering water,
	// above which a balance is flagged as imbalanced.
	ImbalanceTolerance = 0.02

	// MinEnteringForClosure is the total entering flow (m3/day) below which the
	// closure check is skipped.
	MinEnteringForClosure = 0.01

	// GramsPerTonne converts g H2O to t (≈ m3) of water.
	GramsPerTonne = 1_000_000.0

	// DefaultBiogasVolumeNm3PerDay is used when neither an explicit biogas volume
	// nor a stage-1 raw biogas figure is available.
	DefaultBiogasVolumeNm3PerDay = 500.0

	// LinkThreshold is the smallest flow (m3/day) kept in flow-diagram links.
	LinkThreshold = 0.001

	percent = 100.0
)
