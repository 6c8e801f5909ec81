package scenario

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/biogas-balance/internal/feedstock"
	"github.com/rshade/biogas-balance/internal/water"
)

// TestRunner_Run_Handoff verifies the water balance starts from the yield-stage totals.
func TestRunner_Run_Handoff(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "plant.yaml"))
	require.NoError(t, err)

	report, err := NewRunner().Run(doc, StageAll)
	require.NoError(t, err)
	require.NotNil(t, report.Yield)
	require.NotNil(t, report.Water)

	totals := report.Yield.Totals
	assert.InDelta(t, 8200.0/365.0, totals.TotalWetMassTonnesPerDay, 1e-9)
	// 500 + 1700 + 300 t TS per year
	assert.InDelta(t, 2500.0/365.0, totals.TotalTSTonnesPerDay, 1e-9)

	w := report.Water
	assert.Equal(t, water.SourceYieldStage, w.Feed.Source)
	assert.Equal(t, totals.TotalTSTonnesPerDay, w.Feed.TSTonnesPerDay)
	assert.Equal(t, totals.TotalRawBiogasM3PerDay, w.Params.BiogasVolumeNm3PerDay)
	assert.Equal(t, 51.1, w.Params.WaterPerNm3Biogas, "saturation at 38 °C")
	assert.Equal(t, 8.0, w.Params.TargetTSPct)
	assert.Equal(t, 4.0, w.Params.CleaningWaterM3PerDay)
	assert.Equal(t, w.TotalEntering-w.TotalLeaving, w.BalanceResidual)
}

// TestRunner_Run_ManualFeed verifies a scenario without feedstocks uses manual totals.
func TestRunner_Run_ManualFeed(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "manual.yaml"))
	require.NoError(t, err)

	report, err := NewRunner().Run(doc, StageWater)
	require.NoError(t, err)
	assert.Nil(t, report.Yield)
	require.NotNil(t, report.Water)

	w := report.Water
	assert.Equal(t, water.SourceManual, w.Feed.Source)
	assert.InDelta(t, 10.0, w.Feed.TSTonnesPerDay, 1e-12)
	assert.Equal(t, water.DefaultBiogasVolumeNm3PerDay, w.Params.BiogasVolumeNm3PerDay)
	assert.Equal(t, 40.0, w.Params.WaterPerNm3Biogas)
	assert.True(t, w.DilutionClamped)
	assert.Equal(t, 0.0, w.ComputedDilutionWater)
}

func TestRunner_Run_YieldOnly(t *testing.T) {
	report, err := NewRunner().Run(Default(), StageYield)
	require.NoError(t, err)
	require.NotNil(t, report.Yield)
	assert.Len(t, report.Yield.Results, 3)
	require.Len(t, report.Yield.Feedstocks, 3)
	assert.Equal(t, 85.0, report.Yield.Feedstocks[1].TSPct, "inputs are reported beside their results")
	assert.Nil(t, report.Water)
}

func TestRunner_Run_Errors(t *testing.T) {
	r := NewRunner()

	t.Run("yield without feedstocks", func(t *testing.T) {
		_, err := r.Run(&Document{}, StageYield)
		assert.ErrorIs(t, err, ErrNoFeedstocks)
	})

	t.Run("water without any feed", func(t *testing.T) {
		_, err := r.Run(&Document{}, StageWater)
		assert.ErrorIs(t, err, ErrMissingFeed)
	})

	t.Run("invalid feedstock rejects the run", func(t *testing.T) {
		doc, err := Load(filepath.Join("testdata", "invalid.yaml"))
		require.NoError(t, err)

		report, err := r.Run(doc, StageAll)
		assert.Nil(t, report)

		var verr *feedstock.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, 0, verr.Index)
		assert.Equal(t, "moisture_pct", verr.Field)
	})

	t.Run("zero target TS", func(t *testing.T) {
		doc := Default()
		doc.WaterBalance = &WaterBalanceSpec{TargetTSPct: float(0)}

		_, err := r.Run(doc, StageAll)
		var cerr *water.ConfigurationError
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, "target_ts_pct", cerr.Field)
	})

	t.Run("manual average TS out of range", func(t *testing.T) {
		doc := &Document{WaterBalance: &WaterBalanceSpec{
			Feed: &ManualFeed{WetMassTonnesPerDay: float(10), AverageTSPct: float(120)},
		}}
		_, err := r.Run(doc, StageWater)
		assert.ErrorIs(t, err, water.ErrInvalidConfiguration)
	})
}

// TestResolveFeed covers the manual / yield-stage priority.
func TestResolveFeed(t *testing.T) {
	yieldTotals := feedstock.PlantTotals{
		TotalWetMassTonnesPerDay: 50,
		TotalTSTonnesPerDay:      10,
		TotalRawBiogasM3PerDay:   3000,
	}

	t.Run("yield totals used when published", func(t *testing.T) {
		snap := publishedSnapshot(t, yieldTotals)
		feed, err := resolveFeed(nil, snap)
		require.NoError(t, err)
		assert.Equal(t, water.FromPlantTotals(yieldTotals), feed)
	})

	t.Run("zero wet mass from yield falls through to manual requirement", func(t *testing.T) {
		snap := publishedSnapshot(t, feedstock.PlantTotals{})
		_, err := resolveFeed(&WaterBalanceSpec{}, snap)
		assert.ErrorIs(t, err, ErrMissingFeed)
	})

	t.Run("manual wet mass takes yield average TS", func(t *testing.T) {
		snap := publishedSnapshot(t, yieldTotals)
		feed, err := resolveFeed(&WaterBalanceSpec{Feed: &ManualFeed{WetMassTonnesPerDay: float(100)}}, snap)
		require.NoError(t, err)
		assert.Equal(t, water.SourceManual, feed.Source)
		assert.InDelta(t, 20.0, feed.TSTonnesPerDay, 1e-12)
		assert.Equal(t, 3000.0, feed.RawBiogasM3PerDay)
	})

	t.Run("manual wet mass without yield uses 15 percent", func(t *testing.T) {
		snap := publishedSnapshot(t, feedstock.PlantTotals{})
		feed, err := resolveFeed(&WaterBalanceSpec{Feed: &ManualFeed{WetMassTonnesPerDay: float(100)}}, snap)
		require.NoError(t, err)
		assert.InDelta(t, 15.0, feed.TSTonnesPerDay, 1e-12)
	})
}

func TestRunner_Validate(t *testing.T) {
	r := NewRunner()

	doc, err := Load(filepath.Join("testdata", "plant.yaml"))
	require.NoError(t, err)
	assert.NoError(t, r.Validate(doc))

	bad, err := Load(filepath.Join("testdata", "invalid.yaml"))
	require.NoError(t, err)
	assert.ErrorIs(t, r.Validate(bad), feedstock.ErrInvalidRecord)

	doc.WaterBalance.CakeMoisturePct = float(100)
	assert.ErrorIs(t, r.Validate(doc), water.ErrInvalidConfiguration)
}

func TestRunner_Run_AllStagesManualFeed(t *testing.T) {
	doc, err := Load(filepath.Join("testdata", "manual.yaml"))
	require.NoError(t, err)

	report, err := NewRunner().Run(doc, StageAll)
	require.NoError(t, err)
	assert.Nil(t, report.Yield)
	assert.NotNil(t, report.Water)
}
