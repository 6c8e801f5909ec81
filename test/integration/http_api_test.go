//go:build integration

package integration

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/rshade/biogas-balance/internal/export"
	"github.com/rshade/biogas-balance/internal/scenario"
	"github.com/rshade/biogas-balance/internal/server"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := server.New(server.Config{
		Listen:          "127.0.0.1:0",
		ShutdownTimeout: time.Second,
		Export:          export.DefaultOptions(),
	}, zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url string, body []byte) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

// scenarioJSON converts a YAML scenario fixture into the JSON request body.
func scenarioJSON(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "internal", "scenario", "testdata", name))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	body, err := json.Marshal(raw)
	require.NoError(t, err)
	return body
}

// TestScenarioRoundTrip verifies the HTTP API returns exactly what the runner
// computes in-process for the same document.
func TestScenarioRoundTrip(t *testing.T) {
	ts := newAPI(t)
	body := scenarioJSON(t, "plant.yaml")

	resp, data := post(t, ts.URL+"/api/v1/scenario", body)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var got scenario.Report
	require.NoError(t, json.Unmarshal(data, &got))

	doc, err := scenario.ParseJSON(body)
	require.NoError(t, err)
	want, err := scenario.NewRunner().Run(doc, scenario.StageAll)
	require.NoError(t, err)

	require.NotNil(t, got.Yield)
	require.NotNil(t, got.Water)
	assert.Equal(t, want.Yield.Totals, got.Yield.Totals)
	assert.Equal(t, want.Water.TotalEntering, got.Water.TotalEntering)
	assert.Equal(t, want.Water.BalanceResidual, got.Water.BalanceResidual)
	assert.Equal(t, want.Water.Status, got.Water.Status)
}

func TestScenarioExport_XLSX(t *testing.T) {
	ts := newAPI(t)

	resp, data := post(t, ts.URL+"/api/v1/scenario?format=xlsx", scenarioJSON(t, "plant.yaml"))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		export.SheetProduction, export.SheetTotals, export.SheetEntering, export.SheetLeaving, export.SheetSummary,
	}, f.GetSheetList())

	rows, err := f.GetRows(export.SheetProduction)
	require.NoError(t, err)
	// title, header and three feedstocks
	assert.Len(t, rows, 5)
}

func TestManualFeedScenario(t *testing.T) {
	ts := newAPI(t)

	resp, data := post(t, ts.URL+"/api/v1/water-balance", scenarioJSON(t, "manual.yaml"))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var got struct {
		DilutionClamped bool `json:"dilution_clamped"`
		Advisories      []struct {
			Code string `json:"code"`
		} `json:"advisories"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, got.DilutionClamped)
	require.NotEmpty(t, got.Advisories)
	assert.Equal(t, "dilution_clamped", got.Advisories[0].Code)
}

func TestInvalidScenario(t *testing.T) {
	ts := newAPI(t)

	resp, data := post(t, ts.URL+"/api/v1/scenario", scenarioJSON(t, "invalid.yaml"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var got struct {
		Error string `json:"error"`
		Field string `json:"field"`
		Index *int   `json:"index"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "moisture_pct", got.Field)
	require.NotNil(t, got.Index)
	assert.Equal(t, 0, *got.Index)
}

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}
