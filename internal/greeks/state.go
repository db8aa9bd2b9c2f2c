package greeks

import (
	"math"

	"github.com/contactkeval/option-greeks/internal/norm"
)

// Calculator evaluates market states against one normal CDF provider.
// A Calculator holds no mutable state and may be shared between goroutines.
type Calculator struct {
	cdf norm.Provider
}

// NewCalculator returns a Calculator using cdf, or norm.Default() when cdf is nil.
func NewCalculator(cdf norm.Provider) *Calculator {
	return &Calculator{cdf: cdf}
}

func (c *Calculator) provider() norm.Provider {
	if c == nil || c.cdf == nil {
		return norm.Default()
	}
	return c.cdf
}

// Evaluate validates p and computes the quantities shared by every Greek.
//
// The returned State is an immutable value: d1, d2 and the discount factors
// are computed exactly once here and reused by each method, so requesting
// several Greeks for one market state costs a single d1 evaluation.
func (c *Calculator) Evaluate(p Params) (State, error) {
	if err := p.Validate(); err != nil {
		return State{}, err
	}
	cdf := c.provider()
	sqrtT := math.Sqrt(p.T)
	d1 := d1Of(p, sqrtT)
	d2 := D2FromD1(p.T, p.Sigma, d1)
	return State{
		p:        p,
		cdf:      cdf,
		sqrtT:    sqrtT,
		d1:       d1,
		d2:       d2,
		nd1:      cdf.CDF(d1),
		nd2:      cdf.CDF(d2),
		pdf1:     norm.PDF(d1),
		divDisc:  math.Exp(-p.Q * p.T),
		rateDisc: math.Exp(-p.R * p.T),
	}, nil
}

// GammaD1 computes gamma from a precomputed d1. Only s0, t and sigma are
// validated; d1 is trusted.
func (c *Calculator) GammaD1(s0, t, q, sigma, d1 float64) (float64, error) {
	for _, v := range []struct {
		name string
		v    float64
	}{{"s0", s0}, {"t", t}, {"sigma", sigma}} {
		if err := positive(v.name, v.v); err != nil {
			return 0, err
		}
	}
	if err := finite("q", q); err != nil {
		return 0, err
	}
	return gamma(s0, math.Sqrt(t), math.Exp(-q*t), sigma, norm.PDF(d1)), nil
}

// VegaD1 computes vega from a precomputed d1.
func (c *Calculator) VegaD1(s0, t, q, d1 float64) (float64, error) {
	if err := positive("s0", s0); err != nil {
		return 0, err
	}
	if err := positive("t", t); err != nil {
		return 0, err
	}
	if err := finite("q", q); err != nil {
		return 0, err
	}
	return vega(s0, math.Sqrt(t), math.Exp(-q*t), norm.PDF(d1)), nil
}

// State is a validated market state with its memoized intermediates.
// The zero State is not usable; obtain one from Calculator.Evaluate.
type State struct {
	p        Params
	cdf      norm.Provider
	sqrtT    float64
	d1, d2   float64
	nd1, nd2 float64 // Φ(d1), Φ(d2)
	pdf1     float64 // φ(d1)
	divDisc  float64 // e^(-qt)
	rateDisc float64 // e^(-rt)
}

// Greeks is the full sensitivity set for one option right.
type Greeks struct {
	Right Right   `json:"right"`
	D1    float64 `json:"d1"`
	D2    float64 `json:"d2"`
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// Params returns the validated market state the State was built from.
func (s State) Params() Params { return s.p }

// D1 returns the memoized d1.
func (s State) D1() float64 { return s.d1 }

// D2 returns the memoized d2, derived from d1 without re-evaluating it.
func (s State) D2() float64 { return s.d2 }

// DeltaCall is e^(-qt)·Φ(d1), in (0, e^(-qt)).
func (s State) DeltaCall() float64 {
	return s.divDisc * s.nd1
}

// DeltaPut is e^(-qt)·(Φ(d1) - 1), in (-e^(-qt), 0).
func (s State) DeltaPut() float64 {
	return s.divDisc * (s.nd1 - 1)
}

// Delta returns DeltaCall or DeltaPut for right r.
func (s State) Delta(r Right) float64 {
	if r == Put {
		return s.DeltaPut()
	}
	return s.DeltaCall()
}

// Gamma is identical for calls and puts.
func (s State) Gamma() float64 {
	return gamma(s.p.S0, s.sqrtT, s.divDisc, s.p.Sigma, s.pdf1)
}

// ThetaCall returns the per-day time decay of a call. daysPerYear scales the
// annualised figure down to one day and must be positive.
func (s State) ThetaCall(daysPerYear float64) (float64, error) {
	if err := positive("days_per_year", daysPerYear); err != nil {
		return 0, err
	}
	p := s.p
	decay := thetaDecay(p.S0, s.sqrtT, s.divDisc, p.Sigma, s.pdf1)
	rate := thetaCarry(p.R, p.X, s.rateDisc, s.nd2)
	div := thetaCarry(p.Q, p.S0, s.divDisc, s.nd1)
	return (1 / daysPerYear) * (decay - rate + div), nil
}

// ThetaPut returns the per-day time decay of a put. The rate and dividend
// terms are evaluated at -d2 and -d1.
func (s State) ThetaPut(daysPerYear float64) (float64, error) {
	if err := positive("days_per_year", daysPerYear); err != nil {
		return 0, err
	}
	p := s.p
	decay := thetaDecay(p.S0, s.sqrtT, s.divDisc, p.Sigma, s.pdf1)
	rate := thetaCarry(p.R, p.X, s.rateDisc, s.cdf.CDF(-s.d2))
	div := thetaCarry(p.Q, p.S0, s.divDisc, s.cdf.CDF(-s.d1))
	return (1 / daysPerYear) * (decay + rate - div), nil
}

// Theta returns ThetaCall or ThetaPut for right r.
func (s State) Theta(r Right, daysPerYear float64) (float64, error) {
	if r == Put {
		return s.ThetaPut(daysPerYear)
	}
	return s.ThetaCall(daysPerYear)
}

// Vega is quoted per 1 percentage point of volatility.
func (s State) Vega() float64 {
	return vega(s.p.S0, s.sqrtT, s.divDisc, s.pdf1)
}

// RhoCall is quoted per 1 percentage point of rate.
func (s State) RhoCall() float64 {
	return (1.0 / 100.0) * s.p.X * s.p.T * s.rateDisc * s.nd2
}

// RhoPut is quoted per 1 percentage point of rate.
func (s State) RhoPut() float64 {
	return -(1.0 / 100.0) * s.p.X * s.p.T * s.rateDisc * s.cdf.CDF(-s.d2)
}

// Rho returns RhoCall or RhoPut for right r.
func (s State) Rho(r Right) float64 {
	if r == Put {
		return s.RhoPut()
	}
	return s.RhoCall()
}

// Price returns the theoretical Black-Scholes value of a European option with
// continuous dividend yield.
func (s State) Price(r Right) float64 {
	spot := s.p.S0 * s.divDisc
	strike := s.p.X * s.rateDisc
	if r == Put {
		return strike*s.cdf.CDF(-s.d2) - spot*s.cdf.CDF(-s.d1)
	}
	return spot*s.nd1 - strike*s.nd2
}

// Greeks collects every sensitivity for right r.
func (s State) Greeks(r Right, daysPerYear float64) (Greeks, error) {
	theta, err := s.Theta(r, daysPerYear)
	if err != nil {
		return Greeks{}, err
	}
	return Greeks{
		Right: r,
		D1:    s.d1,
		D2:    s.d2,
		Price: s.Price(r),
		Delta: s.Delta(r),
		Gamma: s.Gamma(),
		Theta: theta,
		Vega:  s.Vega(),
		Rho:   s.Rho(r),
	}, nil
}

func gamma(s0, sqrtT, divDisc, sigma, pdf1 float64) float64 {
	return divDisc / (s0 * sigma * sqrtT) * pdf1
}

func vega(s0, sqrtT, divDisc, pdf1 float64) float64 {
	return (1.0 / 100.0) * s0 * divDisc * sqrtT * pdf1
}

func thetaDecay(s0, sqrtT, divDisc, sigma, pdf1 float64) float64 {
	return -(s0 * sigma * divDisc) / (2 * sqrtT) * pdf1
}

// thetaCarry is rate·amount·disc·n, shared by the rate and dividend terms.
func thetaCarry(rate, amount, disc, n float64) float64 {
	return rate * amount * disc * n
}
