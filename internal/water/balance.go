package water

import (
	"math"

	"github.com/go-playground/validator/v10"
)

// Calculator computes digester water balances.
// It holds no state between calls and is safe for concurrent use.
type Calculator struct {
	validate *validator.Validate
}

// NewCalculator creates a new water balance calculator.
func NewCalculator() *Calculator {
	return &Calculator{validate: newValidate()}
}

// Validate checks feed totals and parameters without computing a balance.
func (c *Calculator) Validate(feed FeedTotals, p Parameters) error {
	if err := validateParameters(c.validate, p); err != nil {
		return err
	}
	return validateFeed(feed)
}

// Compute balances the digester for one day of operation.
//
// The sequence is fixed:
//  1. Water in feed = wet mass − TS
//  2. Target slurry = TS / target fraction; water required = target slurry − TS
//  3. Water already present = feed water + cleaning water + direct dilution
//  4. Computed dilution = required − present, clamped at zero (advisory)
//  5. Entering = E1 + E2 + E3 + E4; slurry = TS + entering
//  6. Evaporation = slurry × fraction; condensate = biogas × g/Nm3 / 1e6
//  7. Cake = captured TS / cake TS fraction; cake water = cake − captured TS
//  8. Liquid effluent = slurry after losses − cake
//  9. Recirculated = effluent × fraction; net effluent water = effluent water × (1 − fraction)
//  10. Leaving = S1 + S2 + cake water + net effluent water; residual = entering − leaving
//  11. Closure: imbalanced when |residual| > 2 % of entering (entering > 0.01)
//
// Recirculated water is reported but not fed back into the entering flows.
// Invalid parameters return a *ConfigurationError and no result.
func (c *Calculator) Compute(feed FeedTotals, p Parameters) (Result, error) {
	if err := c.Validate(feed, p); err != nil {
		return Result{}, err
	}

	r := Result{Feed: feed, Params: p}
	ts := feed.TSTonnesPerDay

	// Step 1-3: digester make-up
	r.WaterInFeed = feed.WetMassTonnesPerDay - ts
	r.TargetSlurryMass = ts / (p.TargetTSPct / percent)
	r.WaterRequiredInDigester = r.TargetSlurryMass - ts
	r.WaterAlreadyPresent = r.WaterInFeed + p.CleaningWaterM3PerDay + p.DirectDilutionWaterM3PerDay
	if mix := r.WaterAlreadyPresent + ts; mix > 0 {
		r.TSBeforeDilutionPct = ts / mix * percent
	}

	// Step 4: dilution still needed, never negative
	r.ComputedDilutionWater = r.WaterRequiredInDigester - r.WaterAlreadyPresent
	if r.ComputedDilutionWater < 0 {
		r.ComputedDilutionWater = 0
		r.DilutionClamped = true
		r.Advisories = append(r.Advisories, Advisory{
			Code:      AdvisoryDilutionClamped,
			Value:     r.TSBeforeDilutionPct,
			Threshold: p.TargetTSPct,
		})
	}

	// Step 5: entering flows
	r.TotalEntering = r.WaterInFeed + p.DirectDilutionWaterM3PerDay + p.CleaningWaterM3PerDay + r.ComputedDilutionWater
	r.TotalSlurryInDigester = ts + r.TotalEntering

	// Step 6: losses; solids stay in the slurry
	r.Evaporation = r.TotalSlurryInDigester * p.EvaporationFraction
	r.Condensate = p.BiogasVolumeNm3PerDay * p.WaterPerNm3Biogas / GramsPerTonne
	r.SlurryPostLosses = r.TotalSlurryInDigester - r.Evaporation - r.Condensate
	r.TSPostLosses = ts

	// Step 7: solids separation
	r.CakeTSFraction = (percent - p.CakeMoisturePct) / percent
	if r.CakeTSFraction <= 0 {
		return Result{}, &ConfigurationError{
			Field:  "cake_moisture_pct",
			Value:  p.CakeMoisturePct,
			Reason: "must be < 100 (cake solids fraction would be zero)",
		}
	}
	r.TSInCake = r.TSPostLosses * p.TSCaptureEfficiency
	r.CakeMass = r.TSInCake / r.CakeTSFraction
	r.WaterInCake = r.CakeMass - r.TSInCake

	// Step 8: liquid effluent before the recirculation split
	r.LiquidEffluentMass = r.SlurryPostLosses - r.CakeMass
	r.TSInLiquidEffluent = r.TSPostLosses - r.TSInCake
	r.WaterInLiquidEffluent = r.LiquidEffluentMass - r.TSInLiquidEffluent

	// Step 9: recirculation is an internal loop
	r.RecirculatedWater = r.LiquidEffluentMass * p.RecirculationFraction
	r.NetLiquidEffluentWater = r.WaterInLiquidEffluent * (1 - p.RecirculationFraction)

	// Step 10-11: closure
	r.TotalLeaving = r.Evaporation + r.Condensate + r.WaterInCake + r.NetLiquidEffluentWater
	r.BalanceResidual = r.TotalEntering - r.TotalLeaving
	if math.IsInf(r.BalanceResidual, 0) || math.IsNaN(r.BalanceResidual) {
		return Result{}, &ConfigurationError{
			Field:  "total_entering",
			Value:  r.TotalEntering,
			Reason: "must be finite (feed or water flows too large)",
		}
	}

	tolerance := ImbalanceTolerance * r.TotalEntering
	if math.Abs(r.BalanceResidual) > tolerance && r.TotalEntering > MinEnteringForClosure {
		r.Status = StatusImbalanced
		r.Advisories = append(r.Advisories, Advisory{
			Code:      AdvisoryImbalanced,
			Value:     r.BalanceResidual,
			Threshold: tolerance,
		})
	} else {
		r.Status = StatusBalanced
	}

	return r, nil
}
