package feedstock

import "github.com/go-playground/validator/v10"

// Calculator computes per-feedstock yields and plant totals.
// It holds no state between calls and is safe for concurrent use.
type Calculator struct {
	validate *validator.Validate
}

// NewCalculator creates a new yield calculator.
func NewCalculator() *Calculator {
	return &Calculator{validate: newValidate()}
}

// Compute validates the batch and derives one Result per Record plus the
// plant-wide daily totals.
//
// Each result follows a multiplicative chain:
//  1. TS = volume × TS% / 100
//  2. SV = TS × SV% / 100
//  3. Raw biogas = SV × methane potential
//  4. Usable biomethane = raw biogas × CH4% / 100
//  5. Final biomethane = usable biomethane × upgrading% / 100
//  6. Water in feed = volume × moisture% / 100
//
// Totals are accumulated in record order and divided by DaysPerYear.
// Any out-of-range field rejects the whole batch with a *ValidationError.
func (c *Calculator) Compute(records []Record) ([]Result, PlantTotals, error) {
	if err := validateBatch(c.validate, records); err != nil {
		return nil, PlantTotals{}, err
	}

	results := make([]Result, len(records))
	var annual Result
	for i, r := range records {
		res := ComputeRecord(r)
		results[i] = res

		annual.VolumeTonnesPerYear += res.VolumeTonnesPerYear
		annual.TSTonnesPerYear += res.TSTonnesPerYear
		annual.SVTonnesPerYear += res.SVTonnesPerYear
		annual.RawBiogasM3PerYear += res.RawBiogasM3PerYear
		annual.UsableBiomethaneM3PerYear += res.UsableBiomethaneM3PerYear
		annual.FinalBiomethaneM3PerYear += res.FinalBiomethaneM3PerYear
		annual.WaterInFeedTonnesPerYear += res.WaterInFeedTonnesPerYear
	}

	totals := PlantTotals{
		TotalWetMassTonnesPerDay:      annual.VolumeTonnesPerYear / DaysPerYear,
		TotalTSTonnesPerDay:           annual.TSTonnesPerYear / DaysPerYear,
		TotalRawBiogasM3PerDay:        annual.RawBiogasM3PerYear / DaysPerYear,
		TotalSVTonnesPerDay:           annual.SVTonnesPerYear / DaysPerYear,
		TotalUsableBiomethaneM3PerDay: annual.UsableBiomethaneM3PerYear / DaysPerYear,
		TotalFinalBiomethaneM3PerDay:  annual.FinalBiomethaneM3PerYear / DaysPerYear,
		TotalWaterInFeedTonnesPerDay:  annual.WaterInFeedTonnesPerYear / DaysPerYear,
	}

	return results, totals, nil
}

// ComputeRecord applies the yield chain to a single record without validation.
func ComputeRecord(r Record) Result {
	ts := r.VolumeTonnesPerYear * r.TSPct / percent
	sv := ts * r.SVPct / percent
	raw := sv * r.MethanePotential
	usable := raw * r.CH4Pct / percent

	return Result{
		Name:                      r.Name,
		VolumeTonnesPerYear:       r.VolumeTonnesPerYear,
		TSTonnesPerYear:           ts,
		SVTonnesPerYear:           sv,
		RawBiogasM3PerYear:        raw,
		UsableBiomethaneM3PerYear: usable,
		FinalBiomethaneM3PerYear:  usable * r.UpgradingPct / percent,
		WaterInFeedTonnesPerYear:  r.VolumeTonnesPerYear * r.MoisturePct / percent,
	}
}

// Validate runs the validation gate alone.
func (c *Calculator) Validate(records []Record) error {
	return validateBatch(c.validate, records)
}
