// Package types holds small value objects shared across modules.
package types

// Money is an amount in minor units (cents).
type Money int64

// Percent returns pct% of the amount, truncated toward zero.
func (m Money) Percent(pct int) Money {
	return m * Money(pct) / 100
}

// Sub returns m-o floored at zero.
func (m Money) Sub(o Money) Money {
	if o >= m {
		return 0
	}
	return m - o
}
