// Package server exposes Greek evaluation over HTTP.
//
//	GET /greeks?spot=64.68&strike=65&days=23&rate=0.015&div=0.021&vol=0.5051&right=both
//	GET /health
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"github.com/contactkeval/option-greeks/internal/greeks"
	"github.com/contactkeval/option-greeks/internal/logger"
	"github.com/contactkeval/option-greeks/internal/report"
)

// Query is the decoded /greeks query string. Exactly one of Days or T sets
// the time to expiry; Days is converted with the server's day-count basis.
type Query struct {
	Spot   float64 `schema:"spot,required"`
	Strike float64 `schema:"strike,required"`
	Days   float64 `schema:"days"`
	T      float64 `schema:"t"`
	Rate   float64 `schema:"rate"`
	Div    float64 `schema:"div"`
	Vol    float64 `schema:"vol,required"`
	Right  string  `schema:"right"`
}

// Server evaluates /greeks requests with one Calculator and day-count basis.
type Server struct {
	calc        *greeks.Calculator
	daysPerYear float64
	out         *report.Writer
	decoder     *schema.Decoder
}

// New returns a Server rendering results with precision decimal places.
func New(calc *greeks.Calculator, daysPerYear float64, precision int) *Server {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return &Server{
		calc:        calc,
		daysPerYear: daysPerYear,
		out:         report.NewWriter(precision),
		decoder:     dec,
	}
}

// Router returns the routes served by s.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/greeks", s.handleGreeks).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	return router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Infof("starting HTTP server on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleGreeks(w http.ResponseWriter, r *http.Request) {
	var q Query
	if err := s.decoder.Decode(&q, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rows, err := s.evaluate(q)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, greeks.ErrDomain) && !errors.Is(err, errBadQuery) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, err)
		return
	}

	logger.WithFields(logrus.Fields{
		"spot":   q.Spot,
		"strike": q.Strike,
		"vol":    q.Vol,
		"rows":   len(rows),
	}).Debug("evaluated greeks")

	body, err := s.out.EncodeJSON(rows)
	if err != nil {
		// overflowed greeks have no JSON form
		writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("non-finite result: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(body); err != nil {
		logger.Errorf("writing greeks response: %v", err)
	}
}

var errBadQuery = errors.New("bad query")

func (s *Server) evaluate(q Query) ([]report.Row, error) {
	rights, err := greeks.ParseRights(q.Right)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadQuery, err)
	}

	t := q.T
	switch {
	case q.Days != 0 && q.T != 0:
		return nil, fmt.Errorf("%w: set either days or t, not both", errBadQuery)
	case q.Days != 0:
		if t, err = greeks.YearFraction(q.Days, s.daysPerYear); err != nil {
			return nil, err
		}
	}

	st, err := s.calc.Evaluate(greeks.Params{S0: q.Spot, X: q.Strike, T: t, R: q.Rate, Q: q.Div, Sigma: q.Vol})
	if err != nil {
		return nil, err
	}
	return report.Rows(st, rights, s.daysPerYear)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger.Debugf("greeks request rejected: %v", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
