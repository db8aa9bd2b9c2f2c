// Package norm provides the standard normal distribution functions used by
// the Black-Scholes formulas.
//
// The cumulative distribution is exposed through the Provider interface so the
// pricing code does not depend on one particular approximation. Every provider
// in this package is a stateless value and safe for concurrent use.
package norm

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

const sqrt2Pi = 2.5066282746310002

// ErrUnknownProvider is returned by Lookup for an unrecognised provider name.
var ErrUnknownProvider = errors.New("unknown normal cdf provider")

// Provider evaluates the standard normal cumulative distribution function.
//
// Implementations must satisfy CDF(-x) = 1 - CDF(x), CDF(0) = 0.5, be
// monotonically non-decreasing and hold no mutable state.
type Provider interface {
	CDF(x float64) float64
}

// Erf computes the CDF from the error function: 0.5 * (1 + erf(x/√2)).
type Erf struct{}

func (Erf) CDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// Gonum delegates to gonum's unit normal distribution.
type Gonum struct{}

func (Gonum) CDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// Stats delegates to montanaflynn/stats.
type Stats struct{}

func (Stats) CDF(x float64) float64 {
	return stats.NormCdf(x, 0, 1)
}

// Default returns the provider used when none is configured.
func Default() Provider {
	return Erf{}
}

// PDF calculates the probability density function of the standard normal
// distribution: exp(-0.5 * x^2) / sqrt(2π).
func PDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / sqrt2Pi
}

// Names lists the provider names accepted by Lookup.
func Names() []string {
	return []string{"erf", "gonum", "stats"}
}

// Lookup resolves a provider by name. The empty name selects Default.
func Lookup(name string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return Default(), nil
	case "erf":
		return Erf{}, nil
	case "gonum":
		return Gonum{}, nil
	case "stats", "montanaflynn":
		return Stats{}, nil
	}
	return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownProvider, name, strings.Join(Names(), ", "))
}
