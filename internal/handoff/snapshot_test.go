package handoff

import (
	"sync"
	"testing"

	"github.com/rshade/biogas-balance/internal/feedstock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_LoadBeforePublish(t *testing.T) {
	var s Snapshot

	got, ok := s.Load()
	assert.False(t, ok)
	assert.Equal(t, feedstock.PlantTotals{}, got)
	assert.False(t, s.Published())
}

// TestSnapshot_CopyOnPublish verifies later changes by the publisher are not observed.
func TestSnapshot_CopyOnPublish(t *testing.T) {
	var s Snapshot
	totals := feedstock.PlantTotals{TotalWetMassTonnesPerDay: 26, TotalTSTonnesPerDay: 7}

	require.NoError(t, s.Publish(totals))
	totals.TotalWetMassTonnesPerDay = 999

	got, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, 26.0, got.TotalWetMassTonnesPerDay)

	got.TotalTSTonnesPerDay = -1
	again, _ := s.Load()
	assert.Equal(t, 7.0, again.TotalTSTonnesPerDay, "readers get copies")
}

func TestSnapshot_PublishOnce(t *testing.T) {
	var s Snapshot

	require.NoError(t, s.Publish(feedstock.PlantTotals{TotalWetMassTonnesPerDay: 1}))
	assert.ErrorIs(t, s.Publish(feedstock.PlantTotals{TotalWetMassTonnesPerDay: 2}), ErrAlreadyPublished)

	got, _ := s.Load()
	assert.Equal(t, 1.0, got.TotalWetMassTonnesPerDay)
}

// TestSnapshot_ConcurrentReaders verifies readers see either nothing or the full value.
func TestSnapshot_ConcurrentReaders(t *testing.T) {
	var s Snapshot
	want := feedstock.PlantTotals{
		TotalWetMassTonnesPerDay: 26,
		TotalTSTonnesPerDay:      7.3,
		TotalRawBiogasM3PerDay:   2100,
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if got, ok := s.Load(); ok {
					assert.Equal(t, want, got)
					return
				}
			}
		}()
	}

	require.NoError(t, s.Publish(want))
	wg.Wait()
}
