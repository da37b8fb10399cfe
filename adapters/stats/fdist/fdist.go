// Package fdist provides the gonum-backed F distribution used for critical
// values and p-values.
package fdist

import (
	"fmt"
	"math"

	"goanova/internal/errors"

	"gonum.org/v1/gonum/mathext"
)

// ErrInvalidDistributionArgs is returned for p outside (0,1) or non-positive DF
var ErrInvalidDistributionArgs = errors.New(errors.CodeInvalidInput, "fdist: invalid distribution arguments")

// Distribution implements ports.FDistribution
type Distribution struct{}

// New creates a new F distribution adapter
func New() *Distribution {
	return &Distribution{}
}

// Quantile inverts the F CDF through the regularized incomplete beta
// function: if X ~ Beta(d1/2, d2/2) then d2*X / (d1*(1-X)) ~ F(d1, d2).
func (d *Distribution) Quantile(p, df1, df2 float64) (float64, error) {
	if err := checkDF(df1, df2); err != nil {
		return 0, err
	}
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return 0, errors.Wrapf(ErrInvalidDistributionArgs, "probability %v outside (0,1)", p)
	}

	x := mathext.InvRegIncBeta(df1/2, df2/2, p)
	if x >= 1 {
		return math.Inf(1), nil
	}
	return df2 * x / (df1 * (1 - x)), nil
}

// Survival computes the upper-tail probability P(F > x)
func (d *Distribution) Survival(x, df1, df2 float64) (float64, error) {
	if err := checkDF(df1, df2); err != nil {
		return 0, err
	}
	if math.IsNaN(x) {
		return 0, errors.Wrap(ErrInvalidDistributionArgs, "statistic is NaN")
	}
	if x <= 0 {
		return 1, nil
	}

	// I_{d2/(d2+d1x)}(d2/2, d1/2) keeps precision where 1-CDF cancels to 0
	return mathext.RegIncBeta(df2/2, df1/2, df2/(df2+df1*x)), nil
}

func checkDF(df1, df2 float64) error {
	if !(df1 > 0) || !(df2 > 0) || math.IsInf(df1, 0) || math.IsInf(df2, 0) {
		return errors.Wrap(ErrInvalidDistributionArgs, fmt.Sprintf("degrees of freedom (%v, %v) must be positive", df1, df2))
	}
	return nil
}
