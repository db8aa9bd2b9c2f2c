package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-greeks/internal/greeks"
)

func sampleRows(t *testing.T) []Row {
	t.Helper()
	st, err := greeks.NewCalculator(nil).Evaluate(greeks.Params{
		S0: 64.68, X: 65, T: 23.0 / 365, R: 0.015, Q: 0.021, Sigma: 0.5051,
	})
	require.NoError(t, err)
	rows, err := Rows(st, greeks.Rights, 365)
	require.NoError(t, err)
	return rows
}

func TestRows(t *testing.T) {
	rows := sampleRows(t)
	require.Len(t, rows, 2)
	assert.Equal(t, greeks.Call, rows[0].Right)
	assert.Equal(t, greeks.Put, rows[1].Right)
	assert.Equal(t, 64.68, rows[1].S0)
	assert.Equal(t, rows[0].Gamma, rows[1].Gamma)
}

func TestRowsRejectsDaysPerYear(t *testing.T) {
	st, err := greeks.NewCalculator(nil).Evaluate(greeks.Params{S0: 100, X: 100, T: 1, R: 0, Q: 0, Sigma: 0.2})
	require.NoError(t, err)
	_, err = Rows(st, greeks.Rights, 0)
	assert.ErrorIs(t, err, greeks.ErrDomain)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(4).Write(&buf, "json", sampleRows(t)))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "call", got[0]["right"])
	assert.Equal(t, 0.5079, got[0]["delta"])
	assert.Equal(t, -0.4908, got[1]["delta"])
	assert.Equal(t, 64.68, got[0]["spot"])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(3).Write(&buf, "csv", sampleRows(t)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, headers, records[0])
	assert.Equal(t, "put", records[2][0])
	assert.Equal(t, "-0.491", records[2][10])
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(4).Write(&buf, "table", sampleRows(t)))

	out := buf.String()
	assert.Contains(t, out, "DELTA")
	assert.Contains(t, out, "0.5079")
	assert.Contains(t, out, "-0.4908")
	assert.Equal(t, 2, strings.Count(out, "call")+strings.Count(out, "put"))
}

func TestWriteUnknownFormat(t *testing.T) {
	err := NewWriter(4).Write(&bytes.Buffer{}, "xml", sampleRows(t))
	assert.Error(t, err)
}

func TestFormatNonFinite(t *testing.T) {
	w := NewWriter(2)
	assert.Equal(t, "+Inf", w.format(math.Inf(1)))
	assert.Equal(t, "1.24", w.format(1.235))
	assert.Equal(t, math.Inf(-1), w.roundFloat(math.Inf(-1)))
}

func TestWriteJSONRejectsOverflow(t *testing.T) {
	st, err := greeks.NewCalculator(nil).Evaluate(greeks.Params{S0: 100, X: 100, T: 1e6, R: 0, Q: -0.01, Sigma: 0.1})
	require.NoError(t, err)
	rows, err := Rows(st, []greeks.Right{greeks.Call}, 365)
	require.NoError(t, err)

	_, err = NewWriter(4).EncodeJSON(rows)
	require.Error(t, err)

	var out bytes.Buffer
	require.Error(t, NewWriter(4).WriteJSON(&out, rows))
	assert.Zero(t, out.Len())
}
