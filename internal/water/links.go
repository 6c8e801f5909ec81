package water

// Flow-diagram node names.
const (
	NodeFeed             = "Feedstock"
	NodeDirectDilution   = "Direct dilution"
	NodeCleaning         = "Cleaning"
	NodeComputedDilution = "Computed dilution"
	NodeDigester         = "Digester"
	NodeEvaporation      = "Evaporation"
	NodeCondensate       = "Condensate"
	NodeCake             = "Solid cake"
	NodeNetEffluent      = "Net effluent"
	NodeRecirculation    = "Recirculation"
)

// Link is one edge of the simplified water flow diagram.
type Link struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	M3PerDay float64 `json:"m3_day"`
}

// Links returns the flow-diagram edges: every source into the digester, the
// digester into each sink, and the recirculation loop back into the digester.
// Edges carrying LinkThreshold or less are omitted.
func (r Result) Links() []Link {
	all := []Link{
		{NodeFeed, NodeDigester, r.WaterInFeed},
		{NodeDirectDilution, NodeDigester, r.Params.DirectDilutionWaterM3PerDay},
		{NodeCleaning, NodeDigester, r.Params.CleaningWaterM3PerDay},
		{NodeComputedDilution, NodeDigester, r.ComputedDilutionWater},
		{NodeDigester, NodeEvaporation, r.Evaporation},
		{NodeDigester, NodeCondensate, r.Condensate},
		{NodeDigester, NodeCake, r.WaterInCake},
		{NodeDigester, NodeNetEffluent, r.NetLiquidEffluentWater},
		{NodeRecirculation, NodeDigester, r.RecirculatedWater},
	}

	out := make([]Link, 0, len(all))
	for _, l := range all {
		if l.M3PerDay > LinkThreshold {
			out = append(out, l)
		}
	}
	return out
}
