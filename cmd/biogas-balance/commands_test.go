package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI in an empty working directory so no local config or
// .env file leaks into the test.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// testdata resolves a fixture path; call it before execute changes directory.
func testdata(t *testing.T, name string) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)
	return path
}

func TestYieldCmd(t *testing.T) {
	out, _, err := execute(t, "", "yield", testdata(t, "plant.yaml"))
	require.NoError(t, err)

	assert.Contains(t, out, "Biogas and biomethane production")
	assert.Contains(t, out, "Crop residue (maize straw)")
	assert.Contains(t, out, "1275.00")
	assert.NotContains(t, out, "Water balance summary")
}

func TestYieldCmd_Precision(t *testing.T) {
	out, _, err := execute(t, "", "yield", testdata(t, "plant.yaml"), "--precision", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "1275")
	assert.NotContains(t, out, "1275.00")
}

func TestWaterCmd_ManualFeedWarnsWhenClamped(t *testing.T) {
	out, stderr, err := execute(t, "", "water", testdata(t, "manual.yaml"), "--format", "csv")
	require.NoError(t, err)

	assert.Contains(t, out, "Water entering the system")
	assert.Contains(t, out, "E1,Water in feedstock,90.00")
	assert.Contains(t, stderr, "no dilution water added")
	assert.Contains(t, stderr, "water balance does not close")
}

func TestRunCmd_JSON(t *testing.T) {
	out, _, err := execute(t, "", "run", testdata(t, "plant.yaml"), "-f", "json")
	require.NoError(t, err)

	var report struct {
		Name  string `json:"name"`
		Yield struct {
			Results []json.RawMessage `json:"results"`
		} `json:"yield"`
		Water struct {
			Feed struct {
				Source string `json:"source"`
			} `json:"feed"`
		} `json:"water_balance"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "Co-digestion plant", report.Name)
	assert.Len(t, report.Yield.Results, 3)
	assert.NotEmpty(t, report.Water.Feed.Source)
}

func TestRunCmd_Example(t *testing.T) {
	out, _, err := execute(t, "", "run", "--example", "-f", "json")
	require.NoError(t, err)

	var report struct {
		Name  string `json:"name"`
		Yield struct {
			Results []json.RawMessage `json:"results"`
		} `json:"yield"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "Example plant", report.Name)
	assert.Len(t, report.Yield.Results, 3)
}

func TestScenarioArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no scenario", []string{"yield"}},
		{"scenario and example", []string{"water", "plant.yaml", "--example"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestRunCmd_Stdin(t *testing.T) {
	scenario, err := os.ReadFile(testdata(t, "plant.yaml"))
	require.NoError(t, err)

	out, _, err := execute(t, string(scenario), "run", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Water balance summary")
}

func TestRunCmd_BinaryOutput(t *testing.T) {
	plant := testdata(t, "plant.yaml")

	_, _, err := execute(t, "", "run", plant, "--format", "xlsx")
	assert.ErrorContains(t, err, "use --output")

	for _, tt := range []struct {
		format string
		prefix string
	}{
		{format: "xlsx", prefix: "PK"},
		{format: "pdf", prefix: "%PDF-"},
	} {
		t.Run(tt.format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "plant."+tt.format)
			_, _, err := execute(t, "", "run", plant, "--format", tt.format, "--output", path)
			require.NoError(t, err)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte(tt.prefix)))
		})
	}
}

func TestValidateCmd(t *testing.T) {
	plant, invalid := testdata(t, "plant.yaml"), testdata(t, "invalid.yaml")

	out, _, err := execute(t, "", "validate", plant)
	require.NoError(t, err)
	assert.Contains(t, out, "Result: VALID (3 feedstocks)")

	_, stderr, err := execute(t, "", "validate", invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ts_pct")
	assert.Contains(t, stderr, "ts_pct")
}

func TestHumidityCmd(t *testing.T) {
	out, _, err := execute(t, "", "humidity", "--temp", "38")
	require.NoError(t, err)
	assert.Equal(t, "51.1 g H2O/Nm3 at 38 C\n", out)

	out, _, err = execute(t, "", "humidity", "--table")
	require.NoError(t, err)
	assert.Contains(t, out, "Biogas saturation water content")
	assert.Contains(t, out, "> 50")
	assert.Contains(t, out, "100.0")
}

func TestFeedstocksCmd(t *testing.T) {
	out, _, err := execute(t, "", "feedstocks", "--format", "csv")
	require.NoError(t, err)

	assert.Contains(t, out, "cattle-manure,Cattle manure (liquid),yes")
	assert.Contains(t, out, "maize-straw")
	assert.Contains(t, out, "ofmsw")
}

func TestRootCmd_InvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "", "--log-level", "loud", "feedstocks")
	assert.Error(t, err)
}

func TestUnknownFormat(t *testing.T) {
	_, _, err := execute(t, "", "yield", testdata(t, "plant.yaml"), "--format", "docx")
	assert.ErrorContains(t, err, "unknown export format")
}
