// Package export renders engine results as tables and serializes them.
//
// The engine emits raw float64 values; rounding happens only here, in the
// writers, according to Options.Precision.
package export

import (
	"github.com/rshade/biogas-balance/internal/feedstock"
	"github.com/rshade/biogas-balance/internal/scenario"
	"github.com/rshade/biogas-balance/internal/water"
)

// Sheet names used by the xlsx writer.
const (
	SheetProduction = "Production"
	SheetTotals     = "Totals"
	SheetEntering   = "Entering"
	SheetLeaving    = "Leaving"
	SheetSummary    = "Summary"
)

// Table is one titled block of rows. Cells hold string, float64 or bool values.
type Table struct {
	Title  string
	Sheet  string
	Header []string
	Rows   [][]any
}

// Document is the unit every writer renders. Tables feed the tabular formats
// and Data is what the JSON writer encodes.
type Document struct {
	Title  string
	Tables []Table
	Data   any
}

// FeedstockTables builds the production table, with each feedstock's input
// composition beside its yields, and the daily plant totals.
func FeedstockTables(y scenario.YieldReport) []Table {
	results, totals := y.Results, y.Totals
	production := Table{
		Title: "Biogas and biomethane production",
		Sheet: SheetProduction,
		Header: []string{
			"Feedstock", "Volume (t/yr)",
			"Moisture (%)", "TS (%)", "SV (% TS)", "m3 CH4/t SV", "CH4 (%)", "Upgrading (%)",
			"TS (t/yr)", "SV (t/yr)",
			"Raw biogas (m3/yr)", "Usable CH4 (m3/yr)", "Final CH4 (m3/yr)", "Water in feed (t/yr)",
		},
	}
	for i, r := range results {
		var in feedstock.Record
		if i < len(y.Feedstocks) {
			in = y.Feedstocks[i]
		}
		production.Rows = append(production.Rows, []any{
			r.Name,
			r.VolumeTonnesPerYear,
			in.MoisturePct,
			in.TSPct,
			in.SVPct,
			in.MethanePotential,
			in.CH4Pct,
			in.UpgradingPct,
			r.TSTonnesPerYear,
			r.SVTonnesPerYear,
			r.RawBiogasM3PerYear,
			r.UsableBiomethaneM3PerYear,
			r.FinalBiomethaneM3PerYear,
			r.WaterInFeedTonnesPerYear,
		})
	}

	daily := Table{
		Title:  "Plant totals",
		Sheet:  SheetTotals,
		Header: []string{"Quantity", "Value", "Unit"},
		Rows: [][]any{
			{"Wet mass", totals.TotalWetMassTonnesPerDay, "t/d"},
			{"Total solids", totals.TotalTSTonnesPerDay, "t/d"},
			{"Volatile solids", totals.TotalSVTonnesPerDay, "t/d"},
			{"Raw biogas", totals.TotalRawBiogasM3PerDay, "m3/d"},
			{"Usable biomethane", totals.TotalUsableBiomethaneM3PerDay, "m3/d"},
			{"Final biomethane", totals.TotalFinalBiomethaneM3PerDay, "m3/d"},
			{"Water in feed", totals.TotalWaterInFeedTonnesPerDay, "t/d"},
		},
	}
	if avg, ok := totals.AverageTSPct(); ok {
		daily.Rows = append(daily.Rows, []any{"Average TS", avg, "%"})
	}

	return []Table{production, daily}
}

// WaterBalanceTables builds the entering, leaving and summary tables.
func WaterBalanceTables(r water.Result) []Table {
	return []Table{
		flowTable("Water entering the system", SheetEntering, r.Entering()),
		flowTable("Water leaving the system", SheetLeaving, r.Leaving()),
		{
			Title:  "Water balance summary",
			Sheet:  SheetSummary,
			Header: []string{"Quantity", "Value", "Unit"},
			Rows: [][]any{
				{"Total water entering", r.TotalEntering, "m3/d"},
				{"Total water leaving", r.TotalLeaving, "m3/d"},
				{"Balance residual", r.BalanceResidual, "m3/d"},
				{"Recirculated water", r.RecirculatedWater, "m3/d"},
				{"Total slurry in digester", r.TotalSlurryInDigester, "t/d"},
				{"TS before dilution", r.TSBeforeDilutionPct, "%"},
				{"Solid cake", r.CakeMass, "t/d"},
				{"Dilution clamped", r.DilutionClamped, ""},
				{"Status", string(r.Status), ""},
			},
		},
	}
}

func flowTable(title, sheet string, flows []water.Flow) Table {
	t := Table{
		Title:  title,
		Sheet:  sheet,
		Header: []string{"Code", "Flow", "m3/d"},
	}
	for _, f := range flows {
		t.Rows = append(t.Rows, []any{f.Code, f.Label, f.M3PerDay})
	}
	return t
}

// FromYield wraps the yield stage output.
func FromYield(y scenario.YieldReport) Document {
	return Document{
		Title:  "Feedstock yield",
		Tables: FeedstockTables(y),
		Data:   y,
	}
}

// FromWater wraps a water balance result.
func FromWater(r water.Result) Document {
	return Document{
		Title:  "Water balance",
		Tables: WaterBalanceTables(r),
		Data:   r,
	}
}

// FromReport wraps whatever stages a scenario run produced.
func FromReport(r *scenario.Report) Document {
	doc := Document{Title: r.Name, Data: r}
	if doc.Title == "" {
		doc.Title = "Biogas plant balance"
	}
	if r.Yield != nil {
		doc.Tables = append(doc.Tables, FeedstockTables(*r.Yield)...)
	}
	if r.Water != nil {
		doc.Tables = append(doc.Tables, WaterBalanceTables(*r.Water)...)
	}
	return doc
}
