//go:build integration

// Package integration provides end-to-end tests for the balance engine and its HTTP API.
//
// This file verifies that concurrent requests share one server without
// interfering: every caller gets the same result for the same scenario.
//
// Run with: go test -tags integration ./test/integration/... -v -run Concurrent
package integration

import (
	"net/http"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/biogas-balance/internal/scenario"
)

const (
	// numGoroutines is the number of concurrent clients.
	numGoroutines = 100

	// numIterations is the number of requests per client.
	numIterations = 5
)

func TestConcurrentAccess_ScenarioEndpoint(t *testing.T) {
	ts := newAPI(t)
	body := scenarioJSON(t, "plant.yaml")

	var wg sync.WaitGroup
	errs := make(chan error, numGoroutines*numIterations)
	residuals := make(chan float64, numGoroutines*numIterations)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numIterations; j++ {
				resp, err := http.Post(ts.URL+"/api/v1/scenario", "application/json", bytesReader(body))
				if err != nil {
					errs <- err
					return
				}
				var report scenario.Report
				err = json.NewDecoder(resp.Body).Decode(&report)
				resp.Body.Close()
				if err != nil {
					errs <- err
					return
				}
				if resp.StatusCode != http.StatusOK || report.Water == nil {
					errs <- assert.AnError
					return
				}
				residuals <- report.Water.BalanceResidual
			}
		}()
	}

	wg.Wait()
	close(errs)
	close(residuals)

	for err := range errs {
		require.NoError(t, err)
	}

	var first *float64
	count := 0
	for r := range residuals {
		count++
		if first == nil {
			v := r
			first = &v
			continue
		}
		assert.Equal(t, *first, r, "results must be identical across requests")
	}
	assert.Equal(t, numGoroutines*numIterations, count)
}

// TestConcurrentAccess_Runner shares one runner across goroutines in-process.
func TestConcurrentAccess_Runner(t *testing.T) {
	runner := scenario.NewRunner()
	doc := scenario.Default()
	want, err := runner.Run(doc, scenario.StageAll)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numIterations; j++ {
				got, err := runner.Run(doc, scenario.StageAll)
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, want.Water.TotalLeaving, got.Water.TotalLeaving)
				assert.Equal(t, want.Yield.Totals, got.Yield.Totals)
			}
		}()
	}
	wg.Wait()
}
