package greeks

import (
	"errors"
	"fmt"
	"math"
)

// ErrDomain marks an input outside the domain of the Black-Scholes formulas.
// Every *DomainError unwraps to it.
var ErrDomain = errors.New("domain violation")

// DomainError identifies the parameter that failed validation.
type DomainError struct {
	Param  string  // parameter name, e.g. "sigma"
	Value  float64 // offending value
	Reason string  // "must be positive" or "must be finite"
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%v: %s %s, got %v", ErrDomain, e.Param, e.Reason, e.Value)
}

func (e *DomainError) Unwrap() error { return ErrDomain }

// Params is the market state shared by every formula.
type Params struct {
	S0    float64 `json:"spot"`   // underlying spot price
	X     float64 `json:"strike"` // strike price
	T     float64 `json:"t"`      // time to expiry in years
	R     float64 `json:"rate"`   // continuously compounded risk-free rate
	Q     float64 `json:"div"`    // continuously compounded dividend yield
	Sigma float64 `json:"vol"`    // annualised volatility
}

// Validate reports the first parameter outside its domain. The spot, strike,
// time and volatility must be strictly positive; the rate and dividend yield
// may take any finite value.
func (p Params) Validate() error {
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"s0", p.S0},
		{"x", p.X},
		{"t", p.T},
		{"sigma", p.Sigma},
	} {
		if err := positive(c.name, c.v); err != nil {
			return err
		}
	}
	if err := finite("r", p.R); err != nil {
		return err
	}
	return finite("q", p.Q)
}

func positive(name string, v float64) error {
	if err := finite(name, v); err != nil {
		return err
	}
	if v <= 0 {
		return &DomainError{Param: name, Value: v, Reason: "must be positive"}
	}
	return nil
}

func finite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &DomainError{Param: name, Value: v, Reason: "must be finite"}
	}
	return nil
}

// YearFraction converts a day count into the time-to-expiry argument t using
// the supplied day-count basis (conventionally 365).
func YearFraction(days, daysPerYear float64) (float64, error) {
	if err := positive("days", days); err != nil {
		return 0, err
	}
	if err := positive("days_per_year", daysPerYear); err != nil {
		return 0, err
	}
	return days / daysPerYear, nil
}
