package water

import "sort"

// HumidityStep is one band of the biogas saturation table: biogas at or below
// MaxTempC carries GramsPerNm3 of water vapour.
type HumidityStep struct {
	MaxTempC    float64 `json:"max_temp_c"`
	GramsPerNm3 float64 `json:"g_per_nm3"`
}

// SaturationHumidityTable lists saturation water content of biogas by
// temperature band, ordered by MaxTempC.
var SaturationHumidityTable = []HumidityStep{
	{MaxTempC: 5, GramsPerNm3: 6.8},
	{MaxTempC: 10, GramsPerNm3: 9.4},
	{MaxTempC: 15, GramsPerNm3: 12.8},
	{MaxTempC: 20, GramsPerNm3: 17.3},
	{MaxTempC: 25, GramsPerNm3: 23.0},
	{MaxTempC: 30, GramsPerNm3: 30.4},
	{MaxTempC: 35, GramsPerNm3: 39.6},
	{MaxTempC: 40, GramsPerNm3: 51.1},
	{MaxTempC: 45, GramsPerNm3: 65.6},
	{MaxTempC: 50, GramsPerNm3: 83.0},
}

// AboveTableGramsPerNm3 approximates saturation above the last band (> 50 °C).
const AboveTableGramsPerNm3 = 100.0

// SaturationWaterContent returns the water carried by saturated biogas at
// tempC, in g H2O/Nm3. The value is that of the first band whose MaxTempC is
// not below tempC.
func SaturationWaterContent(tempC float64) float64 {
	i := sort.Search(len(SaturationHumidityTable), func(i int) bool {
		return SaturationHumidityTable[i].MaxTempC >= tempC
	})
	if i < len(SaturationHumidityTable) {
		return SaturationHumidityTable[i].GramsPerNm3
	}
	return AboveTableGramsPerNm3
}
