// Package greeks computes the closed-form Black-Scholes sensitivities of
// European options on an asset paying a continuous dividend yield.
//
// Market state parameters (shared by every function):
//   - s0: spot price of the underlying
//   - x: strike price
//   - t: time to expiry, as a fraction of a year
//   - r: continuously compounded risk-free rate
//   - q: continuously compounded dividend yield
//   - sigma: annualised volatility (as a decimal)
//
// The free functions validate their inputs and return a *DomainError (which
// matches ErrDomain) instead of propagating NaN or Inf. Callers asking for
// several Greeks of one market state should build a State once with
// Calculator.Evaluate and read every Greek from it.
//
// Overflow is not masked: extreme t combined with large r or q can drive the
// exponential terms to +Inf or 0 and the result is returned as IEEE
// arithmetic produces it.
//
// Every function is pure and safe for concurrent use.
package greeks

import (
	"math"

	"github.com/contactkeval/option-greeks/internal/norm"
)

var std Calculator

func eval(s0, x, t, r, q, sigma float64) (State, error) {
	return std.Evaluate(Params{S0: s0, X: x, T: t, R: r, Q: q, Sigma: sigma})
}

func d1Of(p Params, sqrtT float64) float64 {
	return (math.Log(p.S0/p.X) + p.T*(p.R-p.Q+(p.Sigma*p.Sigma)/2)) / (p.Sigma * sqrtT)
}

// D1 returns the standardized log-moneyness
// [ln(s0/x) + t(r - q + sigma²/2)] / (sigma·sqrt(t)).
func D1(s0, x, t, r, q, sigma float64) (float64, error) {
	st, err := eval(s0, x, t, r, q, sigma)
	if err != nil {
		return 0, err
	}
	return st.D1(), nil
}

// D2 returns d1 - sigma·sqrt(t).
func D2(s0, x, t, r, q, sigma float64) (float64, error) {
	st, err := eval(s0, x, t, r, q, sigma)
	if err != nil {
		return 0, err
	}
	return st.D2(), nil
}

// D2FromD1 derives d2 from an already computed d1.
func D2FromD1(t, sigma, d1 float64) float64 {
	// explicit conversion forbids a fused multiply-add, fixing the rounding path
	return d1 - float64(sigma*math.Sqrt(t))
}

// DeltaCall returns e^(-qt)·Φ(d1), the change in call value per unit move
// of the underlying.
func DeltaCall(s0, x, t, r, q, sigma float64) (float64, error) {
	st, err := eval(s0, x, t, r, q, sigma)
	if err != nil {
		return 0, err
	}
	return st.DeltaCall(), nil
}

// DeltaPut returns e^(-qt)·(Φ(d1) - 1).
func DeltaPut(s0, x, t, r, q, sigma float64) (float64, error) {
	st, err := eval(s0, x, t, r, q, sigma)
	if err != nil {
		return 0, err
	}
	return st.DeltaPut(), nil
}

// Gamma measures the rate of change of delta with respect to the underlying
// price. It is the same for calls and puts.
func Gamma(s0, x, t, r, q, sigma float64) (float64, error) {
	st, err := eval(s0, x, t, r, q, sigma)
	if err != nil {
		return 0, err
	}
	return st.Gamma(), nil
}

// GammaD1 is Gamma for a caller that already holds d1.
func GammaD1(s0, t, q, sigma, d1 float64) (float64, error) {
	return std.GammaD1(s0, t, q, sigma, d1)
}

// ThetaCall returns the change in call value per day; daysPerYear is the
// day-count basis used to scale the annual figure.
func ThetaCall(s0, x, t, r, q, sigma, daysPerYear float64) (float64, error) {
	st, err := eval(s0, x, t, r, q, sigma)
	if err != nil {
		return 0, err
	}
	return st.ThetaCall(daysPerYear)
}

// ThetaPut returns the change in put value per day.
func ThetaPut(s0, x, t, r, q, sigma, daysPerYear float64) (float64, error) {
	st, err := eval(s0, x, t, r, q, sigma)
	if err != nil {
		return 0, err
	}
	return st.ThetaPut(daysPerYear)
}

// ThetaDecay is the volatility decay term of theta, identical for calls and
// puts: -(s0·sigma·e^(-qt)) / (2·sqrt(t)) · φ(d1).
//
// The theta term functions are building blocks and do not validate.
func ThetaDecay(s0, t, q, sigma, d1 float64) float64 {
	return thetaDecay(s0, math.Sqrt(t), math.Exp(-q*t), sigma, norm.PDF(d1))
}

// ThetaRate is r·x·e^(-rt)·Φ(d2). Puts pass -d2. A nil cdf uses norm.Default().
func ThetaRate(cdf norm.Provider, x, t, r, d2 float64) float64 {
	return thetaCarry(r, x, math.Exp(-r*t), orDefault(cdf).CDF(d2))
}

// ThetaDividend is q·s0·e^(-qt)·Φ(d1). Puts pass -d1. A nil cdf uses norm.Default().
func ThetaDividend(cdf norm.Provider, s0, t, q, d1 float64) float64 {
	return thetaCarry(q, s0, math.Exp(-q*t), orDefault(cdf).CDF(d1))
}

// Vega measures sensitivity to volatility, per 1 percentage point of sigma.
func Vega(s0, x, t, r, q, sigma float64) (float64, error) {
	st, err := eval(s0, x, t, r, q, sigma)
	if err != nil {
		return 0, err
	}
	return st.Vega(), nil
}

// VegaD1 is Vega for a caller that already holds d1.
func VegaD1(s0, t, q, d1 float64) (float64, error) {
	return std.VegaD1(s0, t, q, d1)
}

// RhoCall measures sensitivity to the risk-free rate, per 1 percentage point.
func RhoCall(s0, x, t, r, q, sigma float64) (float64, error) {
	st, err := eval(s0, x, t, r, q, sigma)
	if err != nil {
		return 0, err
	}
	return st.RhoCall(), nil
}

// RhoPut is the put counterpart of RhoCall and is never positive.
func RhoPut(s0, x, t, r, q, sigma float64) (float64, error) {
	st, err := eval(s0, x, t, r, q, sigma)
	if err != nil {
		return 0, err
	}
	return st.RhoPut(), nil
}

func orDefault(cdf norm.Provider) norm.Provider {
	if cdf == nil {
		return norm.Default()
	}
	return cdf
}
