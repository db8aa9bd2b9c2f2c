package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-greeks/internal/greeks"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GREEKS_ENV_FILE", filepath.Join(t.TempDir(), "none.env"))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEvaluateJSON(t *testing.T) {
	out, err := run(t,
		"--spot", "64.68", "--strike", "65", "--days", "23",
		"--rate", "0.015", "--div", "0.021", "--vol", "0.5051",
		"--format", "json", "--verbosity", "0")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.InDelta(t, 0.5079, rows[0]["delta"], 1e-4)
	assert.InDelta(t, -0.0703, rows[0]["theta"], 1e-4)
	assert.InDelta(t, 0.0647, rows[1]["vega"], 1e-4)
}

func TestEvaluateYearFractionCSV(t *testing.T) {
	out, err := run(t,
		"--spot", "36.07", "--strike", "35", "--t", "0.0712328767",
		"--rate", "0.01", "--vol", "0.4825", "--right", "call",
		"--format", "csv", "--precision", "2", "--cdf", "gonum", "--verbosity", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "right,spot,strike")
	assert.Contains(t, out, "call,36.07,35.00")
	assert.Contains(t, out, ",0.62,")
}

func TestEvaluateTableDefault(t *testing.T) {
	out, err := run(t, "--spot", "100", "--strike", "100", "--days", "30", "--vol", "0.2", "--verbosity", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "GAMMA")
	assert.Contains(t, out, "put")
}

func TestEvaluateDomainViolation(t *testing.T) {
	_, err := run(t, "--spot", "100", "--strike", "100", "--t", "0", "--vol", "0.2", "--verbosity", "0")
	assert.ErrorIs(t, err, greeks.ErrDomain)
}

func TestEvaluateRequiresExpiry(t *testing.T) {
	_, err := run(t, "--spot", "100", "--strike", "100", "--vol", "0.2", "--verbosity", "0")
	assert.Error(t, err)
}

func TestEvaluateDaysAndTExclusive(t *testing.T) {
	_, err := run(t, "--spot", "100", "--strike", "100", "--vol", "0.2", "--days", "3", "--t", "0.1")
	assert.Error(t, err)
}

func TestEvaluateBadProvider(t *testing.T) {
	_, err := run(t, "--spot", "100", "--strike", "100", "--days", "3", "--vol", "0.2", "--cdf", "table")
	assert.Error(t, err)
}
