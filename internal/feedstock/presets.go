package feedstock

import (
	_ "embed"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// CSV column indices for the preset library.
const (
	colPresetKey              = 0 // key (cattle-manure, ...)
	colPresetName             = 1 // display name
	colPresetLivestock        = 2 // livestock_residue (true/false)
	colPresetMoisture         = 3 // moisture_pct
	colPresetTS               = 4 // ts_pct
	colPresetSV               = 5 // sv_pct
	colPresetMethanePotential = 6 // m3ch4_per_tsv
	colPresetCH4              = 7 // ch4_pct
	colPresetUpgrading        = 8 // upgrading_pct
	colPresetVolume           = 9 // volume_t_yr (typical annual quantity)
)

//go:embed data/presets.csv
var presetsCSV string

// Preset is a named, typical feedstock composition.
type Preset struct {
	// Key is the identifier used in scenario documents (e.g. "cattle-manure").
	Key string `json:"key"`

	// Record holds the typical composition and annual quantity.
	Record Record `json:"record"`
}

var (
	presets     map[string]Preset
	presetsOnce sync.Once
)

// parsePresets builds the preset map from the embedded CSV.
// Malformed rows are skipped and logged.
func parsePresets() {
	presets = make(map[string]Preset)
	log := currentLogger()

	reader := csv.NewReader(strings.NewReader(presetsCSV))

	// Skip header row
	if _, err := reader.Read(); err != nil {
		log.Error().Err(err).Msg("failed to read feedstock presets CSV header")
		return
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Err(err).Msg("skipping malformed feedstock presets CSV row")
			continue
		}
		if len(row) <= colPresetVolume {
			continue
		}

		key := strings.TrimSpace(row[colPresetKey])
		if key == "" {
			continue
		}

		livestock, err := strconv.ParseBool(strings.TrimSpace(row[colPresetLivestock]))
		if err != nil {
			log.Warn().Str("key", key).Err(err).Msg("skipping feedstock preset with invalid livestock flag")
			continue
		}

		nums, ok := parseFloats(row[colPresetMoisture : colPresetVolume+1])
		if !ok {
			log.Warn().Str("key", key).Msg("skipping feedstock preset with invalid numeric column")
			continue
		}

		presets[key] = Preset{
			Key: key,
			Record: Record{
				Name:                strings.TrimSpace(row[colPresetName]),
				LivestockResidue:    livestock,
				MoisturePct:         nums[colPresetMoisture-colPresetMoisture],
				TSPct:               nums[colPresetTS-colPresetMoisture],
				SVPct:               nums[colPresetSV-colPresetMoisture],
				MethanePotential:    nums[colPresetMethanePotential-colPresetMoisture],
				CH4Pct:              nums[colPresetCH4-colPresetMoisture],
				UpgradingPct:        nums[colPresetUpgrading-colPresetMoisture],
				VolumeTonnesPerYear: nums[colPresetVolume-colPresetMoisture],
			},
		}
	}
}

func parseFloats(cols []string) ([]float64, bool) {
	out := make([]float64, len(cols))
	for i, c := range cols {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// LookupPreset returns the preset with the given key.
func LookupPreset(key string) (Preset, bool) {
	presetsOnce.Do(parsePresets)
	p, ok := presets[strings.ToLower(strings.TrimSpace(key))]
	return p, ok
}

// Presets returns all presets sorted by key.
func Presets() []Preset {
	presetsOnce.Do(parsePresets)
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// DefaultPresets returns the example plant: liquid cattle manure, maize
// straw and OFMSW, in that order.
func DefaultPresets() []Preset {
	keys := []string{"cattle-manure", "maize-straw", "ofmsw"}
	out := make([]Preset, 0, len(keys))
	for _, k := range keys {
		if p, ok := LookupPreset(k); ok {
			out = append(out, p)
		}
	}
	return out
}
