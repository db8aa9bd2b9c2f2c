package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-greeks/internal/greeks"
	"github.com/contactkeval/option-greeks/internal/norm"
)

func newTestServer() *Server {
	return New(greeks.NewCalculator(norm.Erf{}), 365, 4)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer().Router(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestGreeksBothRights(t *testing.T) {
	rec := get(t, newTestServer().Router(),
		"/greeks?spot=64.68&strike=65&days=23&rate=0.015&div=0.021&vol=0.5051")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "call", rows[0]["right"])
	assert.InDelta(t, 0.5079, rows[0]["delta"], 1e-4)
	assert.InDelta(t, -0.0714, rows[1]["theta"], 1e-4)
	assert.InDelta(t, -0.0222, rows[1]["rho"], 1e-4)
}

func TestGreeksSingleRightWithYearFraction(t *testing.T) {
	rec := get(t, newTestServer().Router(),
		"/greeks?spot=36.07&strike=35&t=0.0712328767&rate=0.01&vol=0.4825&right=put")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "put", rows[0]["right"])
	assert.InDelta(t, -0.3806, rows[0]["delta"], 1e-3)
}

func TestGreeksRejections(t *testing.T) {
	cases := map[string]string{
		"zero vol":        "/greeks?spot=100&strike=100&days=30&vol=0",
		"missing time":    "/greeks?spot=100&strike=100&vol=0.2",
		"missing spot":    "/greeks?strike=100&days=30&vol=0.2",
		"not a number":    "/greeks?spot=abc&strike=100&days=30&vol=0.2",
		"bad right":       "/greeks?spot=100&strike=100&days=30&vol=0.2&right=straddle",
		"days and t":      "/greeks?spot=100&strike=100&days=30&t=0.1&vol=0.2",
		"negative strike": "/greeks?spot=100&strike=-5&days=30&vol=0.2",
	}
	router := newTestServer().Router()
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			rec := get(t, router, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestGreeksOverflowIsAnError(t *testing.T) {
	rec := get(t, newTestServer().Router(),
		"/greeks?spot=100&strike=100&t=1000000&rate=0&div=-0.01&vol=0.1&right=call")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "non-finite")
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/greeks", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestServer().Run(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-done)
}

func TestRouterServesOverNetwork(t *testing.T) {
	ts := httptest.NewServer(newTestServer().Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/greeks?spot=100&strike=100&days=365&rate=0.05&vol=0.2&right=call")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"price": 10.4506`)
}
