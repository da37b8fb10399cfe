package anova

import (
	"math"
	"strconv"
)

// Precision is the number of decimals every derived scalar is rounded to
const Precision = 2

// pValuePrecision keeps small tail probabilities readable
const pValuePrecision = 4

// round rounds through the shortest decimal representation so that ties are
// resolved on the exact binary value (0.125 -> 0.12, 2.675 -> 2.67), matching
// decimal-string rounding used by reference tables. Negative zero is folded.
func round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		p := math.Pow(10, float64(places))
		v = math.Round(x*p) / p
	}
	if v == 0 {
		return 0
	}
	return v
}

func round2(x float64) float64 {
	return round(x, Precision)
}
