// Package scenario reads plant scenario documents and runs the yield and
// water-balance stages over them.
package scenario

import (
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rshade/biogas-balance/internal/feedstock"
	"github.com/rshade/biogas-balance/internal/water"
)

// ErrUnknownPreset is returned for a feedstock entry naming a preset that does not exist.
var ErrUnknownPreset = errors.New("unknown feedstock preset")

// Document is a complete plant scenario.
type Document struct {
	Name         string            `yaml:"name" json:"name"`
	Feedstocks   []FeedstockEntry  `yaml:"feedstocks" json:"feedstocks"`
	WaterBalance *WaterBalanceSpec `yaml:"water_balance" json:"water_balance"`
}

// FeedstockEntry is one feedstock line. When Preset is set, the preset's
// composition is used and any field given alongside it overrides the preset.
type FeedstockEntry struct {
	Preset           string `yaml:"preset,omitempty" json:"preset,omitempty"`
	feedstock.Record `yaml:",inline"`
}

type presetRef struct {
	Preset string `yaml:"preset" json:"preset"`
}

func presetRecord(key string) (feedstock.Record, error) {
	if key == "" {
		return feedstock.Record{}, nil
	}
	p, ok := feedstock.LookupPreset(key)
	if !ok {
		return feedstock.Record{}, fmt.Errorf("%w: %q", ErrUnknownPreset, key)
	}
	return p.Record, nil
}

// UnmarshalYAML decodes the entry over its preset, if any.
func (e *FeedstockEntry) UnmarshalYAML(value *yaml.Node) error {
	var ref presetRef
	if err := value.Decode(&ref); err != nil {
		return err
	}
	rec, err := presetRecord(ref.Preset)
	if err != nil {
		return err
	}
	if err := value.Decode(&rec); err != nil {
		return err
	}
	e.Preset = ref.Preset
	e.Record = rec
	return nil
}

// UnmarshalJSON decodes the entry over its preset, if any.
func (e *FeedstockEntry) UnmarshalJSON(data []byte) error {
	var ref presetRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return err
	}
	rec, err := presetRecord(ref.Preset)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	e.Preset = ref.Preset
	e.Record = rec
	return nil
}

// ManualFeed holds feed totals entered directly instead of computed by the yield stage.
type ManualFeed struct {
	// WetMassTonnesPerDay is the total wet feed in t/day.
	WetMassTonnesPerDay *float64 `yaml:"wet_mass_t_day" json:"wet_mass_t_day"`

	// AverageTSPct is the average feed TS in %. Defaults to the yield-stage
	// average when available, otherwise water.DefaultAverageTSPct.
	AverageTSPct *float64 `yaml:"avg_ts_pct" json:"avg_ts_pct"`
}

// WaterBalanceSpec holds the water-balance inputs. Nil fields take defaults
// from water.DefaultParameters; biogas volume and water content are resolved
// with water.ResolveBiogasVolume and water.ResolveWaterContent.
type WaterBalanceSpec struct {
	Feed *ManualFeed `yaml:"feed" json:"feed"`

	DirectDilutionWaterM3PerDay *float64 `yaml:"direct_dilution_water_m3_day" json:"direct_dilution_water_m3_day"`
	CleaningWaterM3PerDay       *float64 `yaml:"cleaning_water_m3_day" json:"cleaning_water_m3_day"`
	TargetTSPct                 *float64 `yaml:"target_ts_pct" json:"target_ts_pct"`
	RecirculationFraction       *float64 `yaml:"recirculation_fraction" json:"recirculation_fraction"`
	EvaporationFraction         *float64 `yaml:"evaporation_fraction" json:"evaporation_fraction"`
	CakeMoisturePct             *float64 `yaml:"cake_moisture_pct" json:"cake_moisture_pct"`
	TSCaptureEfficiency         *float64 `yaml:"ts_capture_efficiency" json:"ts_capture_efficiency"`
	BiogasVolumeNm3PerDay       *float64 `yaml:"biogas_volume_nm3_day" json:"biogas_volume_nm3_day"`
	BiogasTempC                 *float64 `yaml:"biogas_temp_c" json:"biogas_temp_c"`
	WaterPerNm3Biogas           *float64 `yaml:"water_per_nm3_biogas" json:"water_per_nm3_biogas"`
}

// Parameters resolves the process parameters for the given feed.
func (s *WaterBalanceSpec) Parameters(feed water.FeedTotals) water.Parameters {
	p := water.DefaultParameters()
	if s == nil {
		s = &WaterBalanceSpec{}
	}

	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.DirectDilutionWaterM3PerDay, s.DirectDilutionWaterM3PerDay)
	set(&p.CleaningWaterM3PerDay, s.CleaningWaterM3PerDay)
	set(&p.TargetTSPct, s.TargetTSPct)
	set(&p.RecirculationFraction, s.RecirculationFraction)
	set(&p.EvaporationFraction, s.EvaporationFraction)
	set(&p.CakeMoisturePct, s.CakeMoisturePct)
	set(&p.TSCaptureEfficiency, s.TSCaptureEfficiency)
	set(&p.BiogasTempC, s.BiogasTempC)

	p.BiogasVolumeNm3PerDay = water.ResolveBiogasVolume(s.BiogasVolumeNm3PerDay, feed)
	p.WaterPerNm3Biogas = water.ResolveWaterContent(s.WaterPerNm3Biogas, p.BiogasTempC)
	return p
}

// Records returns the resolved feedstock records in document order.
func (d *Document) Records() []feedstock.Record {
	out := make([]feedstock.Record, len(d.Feedstocks))
	for i, e := range d.Feedstocks {
		out[i] = e.Record
	}
	return out
}

// Parse decodes a YAML scenario document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	return &doc, nil
}

// ParseJSON decodes a JSON scenario document.
func ParseJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing scenario JSON: %w", err)
	}
	return &doc, nil
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return Parse(data)
}

// Default returns the example plant with default process parameters. It is
// run by the CLI's --example flag and by an empty scenario request.
func Default() *Document {
	doc := &Document{Name: "Example plant"}
	for _, p := range feedstock.DefaultPresets() {
		doc.Feedstocks = append(doc.Feedstocks, FeedstockEntry{Preset: p.Key, Record: p.Record})
	}
	return doc
}
