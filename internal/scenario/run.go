package scenario

import (
	"errors"
	"fmt"

	"github.com/rshade/biogas-balance/internal/feedstock"
	"github.com/rshade/biogas-balance/internal/handoff"
	"github.com/rshade/biogas-balance/internal/water"
)

var (
	// ErrNoFeedstocks is returned when the yield stage is requested without feedstocks.
	ErrNoFeedstocks = errors.New("scenario has no feedstocks")

	// ErrMissingFeed is returned when the water balance has neither yield-stage
	// totals nor a manual wet mass to start from.
	ErrMissingFeed = errors.New("water balance needs feed totals: add feedstocks or water_balance.feed.wet_mass_t_day")
)

// Stage selects which calculators a run executes.
type Stage uint8

const (
	StageYield Stage = 1 << iota
	StageWater

	StageAll = StageYield | StageWater
)

// YieldReport is the output of the yield stage.
type YieldReport struct {
	// Feedstocks are the resolved input records, in the order of Results.
	Feedstocks []feedstock.Record    `json:"feedstocks"`
	Results    []feedstock.Result    `json:"results"`
	Totals     feedstock.PlantTotals `json:"totals"`
}

// Report is the output of a scenario run.
type Report struct {
	Name  string        `json:"name"`
	Yield *YieldReport  `json:"yield,omitempty"`
	Water *water.Result `json:"water_balance,omitempty"`
}

// Runner executes scenario documents.
type Runner struct {
	yield *feedstock.Calculator
	water *water.Calculator
}

// NewRunner creates a runner with fresh calculators.
func NewRunner() *Runner {
	return &Runner{
		yield: feedstock.NewCalculator(),
		water: water.NewCalculator(),
	}
}

// Run executes the requested stages.
//
// When the document has feedstocks the yield stage always runs, since its
// totals are published to the water balance through a handoff.Snapshot.
// Yield errors are *feedstock.ValidationError; water errors are
// *water.ConfigurationError, both wrapped.
func (r *Runner) Run(doc *Document, stages Stage) (*Report, error) {
	report := &Report{Name: doc.Name}
	var snap handoff.Snapshot

	if len(doc.Feedstocks) > 0 {
		records := doc.Records()
		results, totals, err := r.yield.Compute(records)
		if err != nil {
			return nil, fmt.Errorf("yield stage: %w", err)
		}
		if err := snap.Publish(totals); err != nil {
			return nil, err
		}
		report.Yield = &YieldReport{Feedstocks: records, Results: results, Totals: totals}
	} else if stages&StageWater == 0 {
		return nil, ErrNoFeedstocks
	}

	if stages&StageWater == 0 {
		return report, nil
	}

	feed, err := resolveFeed(doc.WaterBalance, &snap)
	if err != nil {
		return nil, err
	}
	result, err := r.water.Compute(feed, doc.WaterBalance.Parameters(feed))
	if err != nil {
		return nil, fmt.Errorf("water balance stage: %w", err)
	}
	report.Water = &result

	return report, nil
}

// Validate runs both validation gates without keeping any results.
func (r *Runner) Validate(doc *Document) error {
	var snap handoff.Snapshot

	if len(doc.Feedstocks) > 0 {
		_, totals, err := r.yield.Compute(doc.Records())
		if err != nil {
			return fmt.Errorf("yield stage: %w", err)
		}
		if err := snap.Publish(totals); err != nil {
			return err
		}
	}

	feed, err := resolveFeed(doc.WaterBalance, &snap)
	if err != nil {
		return err
	}
	if err := r.water.Validate(feed, doc.WaterBalance.Parameters(feed)); err != nil {
		return fmt.Errorf("water balance stage: %w", err)
	}
	return nil
}

// resolveFeed picks the water-balance feed totals.
//
// A manual wet mass wins. Otherwise the published yield totals are used when
// their wet mass is positive. A manual entry without an average TS takes the
// yield-stage average, then water.DefaultAverageTSPct.
func resolveFeed(spec *WaterBalanceSpec, snap *handoff.Snapshot) (water.FeedTotals, error) {
	totals, published := snap.Load()
	fromYield := water.FromPlantTotals(totals)

	var manual *ManualFeed
	if spec != nil {
		manual = spec.Feed
	}

	if manual != nil && manual.WetMassTonnesPerDay != nil {
		avg := water.DefaultAverageTSPct
		if published && totals.TotalWetMassTonnesPerDay > 0 {
			avg = fromYield.AverageTSPct()
		}
		if manual.AverageTSPct != nil {
			avg = *manual.AverageTSPct
		}
		if !(avg >= 0 && avg <= 100) {
			return water.FeedTotals{}, &water.ConfigurationError{
				Field:  "avg_ts_pct",
				Value:  avg,
				Reason: "must be >= 0 and <= 100",
			}
		}
		feed := water.ManualFeedTotals(*manual.WetMassTonnesPerDay, avg)
		if published {
			feed.RawBiogasM3PerDay = totals.TotalRawBiogasM3PerDay
		}
		return feed, nil
	}

	if published && totals.TotalWetMassTonnesPerDay > 0 {
		return fromYield, nil
	}
	return water.FeedTotals{}, ErrMissingFeed
}
