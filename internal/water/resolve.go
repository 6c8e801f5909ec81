package water

// ResolveWaterContent determines the biogas water content to use, in g H2O/Nm3.
// Priority order: a non-nil override, then the saturation table at tempC.
// Overrides are returned as given; range checks belong to Calculator.Validate.
func ResolveWaterContent(override *float64, tempC float64) float64 {
	if override != nil {
		return *override
	}
	return SaturationWaterContent(tempC)
}

// ResolveBiogasVolume determines the biogas flow to use, in Nm3/day.
// Priority order: a non-nil override, then the feed's raw biogas when
// positive, then DefaultBiogasVolumeNm3PerDay.
func ResolveBiogasVolume(override *float64, feed FeedTotals) float64 {
	if override != nil {
		return *override
	}
	if feed.RawBiogasM3PerDay > 0 {
		return feed.RawBiogasM3PerDay
	}
	return DefaultBiogasVolumeNm3PerDay
}
