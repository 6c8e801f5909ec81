package feedstock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupPreset(t *testing.T) {
	p, ok := LookupPreset("cattle-manure")
	require.True(t, ok)
	assert.Equal(t, "Cattle manure (liquid)", p.Record.Name)
	assert.True(t, p.Record.LivestockResidue)
	assert.Equal(t, 5000.0, p.Record.VolumeTonnesPerYear)
	assert.Equal(t, 300.0, p.Record.MethanePotential)

	p, ok = LookupPreset("  OFMSW ")
	require.True(t, ok, "lookup is case and whitespace insensitive")
	assert.Equal(t, 62.0, p.Record.CH4Pct)

	_, ok = LookupPreset("unknown")
	assert.False(t, ok)
}

func TestPresets_SortedAndValid(t *testing.T) {
	all := Presets()
	require.Len(t, all, 3)
	assert.Equal(t, "cattle-manure", all[0].Key)
	assert.Equal(t, "maize-straw", all[1].Key)
	assert.Equal(t, "ofmsw", all[2].Key)

	records := make([]Record, len(all))
	for i, p := range all {
		records[i] = p.Record
	}
	assert.NoError(t, NewCalculator().Validate(records), "embedded presets must pass validation")
}

func TestDefaultPresets_Order(t *testing.T) {
	presets := DefaultPresets()
	require.Len(t, presets, 3)
	assert.Equal(t, "cattle-manure", presets[0].Key)
	assert.Equal(t, "Cattle manure (liquid)", presets[0].Record.Name)
	assert.Equal(t, "Crop residue (maize straw)", presets[1].Record.Name)
	assert.Equal(t, "OFMSW (organic fraction of municipal solid waste)", presets[2].Record.Name)
}
