// Package money rounds currency amounts to cents.
//
// Amounts are float64 in the API and DECIMAL in the store; every computed
// amount passes through Round before it is stored.
package money

import (
	"math"
	"strconv"
	"strings"
)

const (
	// MaxPrice is the largest unit price a DECIMAL(10,2) column holds.
	MaxPrice = 99_999_999.99

	// MaxAmount is the largest subtotal or total a DECIMAL(12,2) column holds.
	MaxAmount = 9_999_999_999.99
)

// Round rounds v to two decimals, halves away from zero.
//
// The halfway test applies to the shortest decimal form of v, so 1.005 rounds
// to 1.01 although its binary value lies just below 1.005.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}

	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")

	e, err := strconv.Atoi(exp)
	if err != nil {
		return math.Round(v*100) / 100
	}

	cents, err := strconv.ParseFloat(mantissa+"e"+strconv.Itoa(e+2), 64)
	if err != nil {
		return math.Round(v*100) / 100
	}

	return math.Round(cents) / 100
}

// Subtotal is quantity × unitPrice rounded to cents.
func Subtotal(quantity int, unitPrice float64) float64 {
	return Round(float64(quantity) * unitPrice)
}

// Sum adds the amounts and rounds the result.
func Sum(amounts ...float64) float64 {
	var total float64
	for _, a := range amounts {
		total += a
	}

	return Round(total)
}

// Fits reports whether amount can be stored as a subtotal or total.
func Fits(amount float64) bool {
	return amount >= 0 && amount <= MaxAmount
}
