package water

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResult_Links verifies zero flows are dropped and the recirculation loop returns to the digester.
func TestResult_Links(t *testing.T) {
	r, err := NewCalculator().Compute(ManualFeedTotals(100, 10), DefaultParameters())
	require.NoError(t, err)

	links := r.Links()

	// direct and computed dilution are zero for the reference plant
	require.Len(t, links, 7)
	for _, l := range links {
		assert.Greater(t, l.M3PerDay, LinkThreshold)
		assert.NotEqual(t, NodeDirectDilution, l.Source)
		assert.NotEqual(t, NodeComputedDilution, l.Source)
	}

	last := links[len(links)-1]
	assert.Equal(t, NodeRecirculation, last.Source)
	assert.Equal(t, NodeDigester, last.Target)
	assert.Equal(t, r.RecirculatedWater, last.M3PerDay)
}
