// Package feedstock computes biogas and biomethane yields for a batch of
// digester feedstocks and aggregates them into plant-wide daily totals.
package feedstock

const (
	// DaysPerYear converts annual feedstock quantities to the daily basis used by
	// the process parameters downstream. Fixed by convention, not configurable.
	DaysPerYear = 365.0

	// MinRecords is the smallest accepted batch.
	MinRecords = 1

	// MaxRecords is the largest accepted batch. The plant model is sized for
	// at most ten co-digested materials.
	MaxRecords = 10

	// percent converts a percentage field to a fraction.
	percent = 100.0
)
