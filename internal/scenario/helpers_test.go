package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/biogas-balance/internal/feedstock"
	"github.com/rshade/biogas-balance/internal/handoff"
)

func publishedSnapshot(t *testing.T, totals feedstock.PlantTotals) *handoff.Snapshot {
	t.Helper()
	var s handoff.Snapshot
	require.NoError(t, s.Publish(totals))
	return &s
}
