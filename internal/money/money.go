// Package money implements fixed-point currency arithmetic in minor units
// (cents). All amounts in the application are carried as Money values so no
// computation ever touches binary floating point.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned when an amount is zero, negative, or not a
// parseable decimal number.
var ErrInvalidAmount = errors.New("amount must be a positive number")

// Money is a currency amount in minor units (cents).
type Money int64

// FromMinorUnits wraps a raw minor-unit value.
func FromMinorUnits(v int64) Money {
	return Money(v)
}

// Parse converts a decimal string like "12.34" into Money.
// At most two fractional digits are accepted. Amounts that are not strictly
// positive fail with ErrInvalidAmount.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: more than two decimal places", ErrInvalidAmount)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if units >= math.MaxInt64/100 {
		return 0, fmt.Errorf("%w: amount too large", ErrInvalidAmount)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	m := Money(units*100 + cents)
	if m <= 0 {
		return 0, ErrInvalidAmount
	}
	return m, nil
}

// Validate reports ErrInvalidAmount unless the amount is strictly positive.
func (m Money) Validate() error {
	if m <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return m + o
}

// Sub returns m - o. The result may be negative; net balances rely on this.
func (m Money) Sub(o Money) Money {
	return m - o
}

// MulRatio returns m scaled by num/den, rounded half up.
// den must be non-zero.
func (m Money) MulRatio(num, den int64) Money {
	p := int64(m) * num
	if (p >= 0) == (den > 0) {
		return Money((p + den/2) / den)
	}
	return Money((p - den/2) / den)
}

// SplitEven divides m into n shares that sum to m exactly. Each share is
// either floor(m/n) or floor(m/n)+1: the remainder is handed out one minor
// unit at a time to the leading shares, so the allocation is deterministic
// in the order participants were supplied.
func (m Money) SplitEven(n int) ([]Money, error) {
	if n <= 0 {
		return nil, fmt.Errorf("cannot split among %d participants", n)
	}
	if m < 0 {
		return nil, ErrInvalidAmount
	}

	base := int64(m) / int64(n)
	remainder := int64(m) - base*int64(n)

	shares := make([]Money, n)
	for i := range shares {
		shares[i] = Money(base)
		if int64(i) < remainder {
			shares[i]++
		}
	}
	return shares, nil
}

// String formats the amount as a currency string, e.g. "$12.34".
func (m Money) String() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}
