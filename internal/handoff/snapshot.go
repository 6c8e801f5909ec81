// Package handoff carries the yield stage's plant totals to the water balance
// as a one-shot, immutable snapshot.
package handoff

import (
	"errors"
	"sync/atomic"

	"github.com/rshade/biogas-balance/internal/feedstock"
)

// ErrAlreadyPublished is returned when a snapshot is published twice.
var ErrAlreadyPublished = errors.New("plant totals already published")

// Snapshot holds at most one published PlantTotals value.
//
// Publish stores a private copy, so readers never observe a partially written
// value or later changes made by the publisher. The zero value is ready to use
// and safe for concurrent use.
type Snapshot struct {
	totals atomic.Pointer[feedstock.PlantTotals]
}

// Publish makes totals visible to readers. Only the first call succeeds.
func (s *Snapshot) Publish(totals feedstock.PlantTotals) error {
	published := totals
	if !s.totals.CompareAndSwap(nil, &published) {
		return ErrAlreadyPublished
	}
	return nil
}

// Load returns a copy of the published totals and whether any were published.
func (s *Snapshot) Load() (feedstock.PlantTotals, bool) {
	p := s.totals.Load()
	if p == nil {
		return feedstock.PlantTotals{}, false
	}
	return *p, true
}

// Published reports whether Publish has succeeded.
func (s *Snapshot) Published() bool {
	return s.totals.Load() != nil
}
