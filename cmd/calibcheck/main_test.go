package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jecYAML = `
table_version: cli-test
csv_loose: 0.5
csv_medium: 0.8
csv_tight: 0.95
jet_correction:
  l1_fastjet_offsets:
    edges: [0, 5]
    values: [1.0]
  levels:
    - name: L2L3
      eta_edges: [0, 5]
      curves:
        - pt: [10, 100]
          value: [1.2, 1.2]
  uncertainty:
    eta_edges: [0, 5]
    up:
      - pt: [10, 100]
        value: [0.03, 0.03]
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRun_BuiltInTables(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(nil, &stdout, &stderr))

	out := stdout.String()
	assert.Contains(t, out, "tables phys14-csvv2ivf-v1")
	assert.Contains(t, out, "csv combinedInclusiveSecondaryVertexV2BJetTags L=0.423 M=0.814 T=0.941")
	assert.Contains(t, out, "era=2015_74x sample=1 data=false")
	assert.Contains(t, out, "phys14 tight  barrel relIso<0.074355 endcap relIso<0.090185")
}

func TestRun_CorrectsJet(t *testing.T) {
	path := writeFile(t, "calib.yaml", jecYAML)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-config", path, "-jet", "50,1.0,0.5", "-rho", "10", "-era", "2012_53x", "-data"}, &stdout, &stderr)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "tables cli-test")
	assert.Contains(t, out, "era=2012_53x sample=1 data=true")
	assert.Contains(t, out, "jet nominal pt=54.00")
	assert.Contains(t, out, "jet JESUp   pt=55.62")
	assert.Contains(t, out, "jet JESDown pt=52.38")
}

func TestRun_Errors(t *testing.T) {
	noJEC := writeFile(t, "plain.json", `{"table_version": "v"}`)

	tests := []struct {
		name string
		args []string
	}{
		{"unsupported era", []string{"-era", "2016"}},
		{"zero sample", []string{"-sample", "0"}},
		{"missing config", []string{"-config", "/nonexistent/calib.json"}},
		{"bad jet spec", []string{"-config", noJEC, "-jet", "50,1.0"}},
		{"no jet_correction", []string{"-config", noJEC, "-jet", "50,1.0,0.5"}},
		{"unknown flag", []string{"-bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Error(t, run(tt.args, &stdout, &stderr))
		})
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "miniaod dev")
}

func TestParseCSVFloatSlice(t *testing.T) {
	got, err := parseCSVFloatSlice(" 50, 1.5 ,0.4")
	require.NoError(t, err)
	assert.Equal(t, []float64{50, 1.5, 0.4}, got)

	got, err = parseCSVFloatSlice("")
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseCSVFloatSlice("50,abc")
	assert.ErrorContains(t, err, "invalid float 'abc'")
}
