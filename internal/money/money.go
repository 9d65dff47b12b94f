// Package money centralises monetary rounding and display formatting.
package money

import "github.com/shopspring/decimal"

// Round2 rounds v to two decimal places, half away from zero. Aggregates
// are rounded once on the summed value, never accumulated from
// pre-rounded parts.
func Round2(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}
