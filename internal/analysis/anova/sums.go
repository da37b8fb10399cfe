package anova

import (
	domainAnova "goanova/domain/anova"
	"goanova/internal/errors"

	"github.com/montanaflynn/stats"
)

// marginals holds the raw (unrounded) sums the sums of squares are built from
type marginals struct {
	grandSum   float64
	sumSquares float64 // sum of x^2 over every observation
	rowSums    []float64
	colSums    []float64
	correction float64 // grandSum^2 / n
}

func computeMarginals(m domainAnova.Matrix) (marginals, error) {
	mg := marginals{
		rowSums: make([]float64, m.Treatments()),
		colSums: make([]float64, m.Replicates()),
	}

	for i := 0; i < m.Treatments(); i++ {
		s, err := stats.Sum(m.Row(i))
		if err != nil {
			return marginals{}, errors.Wrapf(err, "summing treatment %d", i)
		}
		mg.rowSums[i] = s
	}
	for j := 0; j < m.Replicates(); j++ {
		s, err := stats.Sum(m.Column(j))
		if err != nil {
			return marginals{}, errors.Wrapf(err, "summing block %d", j)
		}
		mg.colSums[j] = s
	}

	values := m.Values()
	grand, err := stats.Sum(values)
	if err != nil {
		return marginals{}, errors.Wrap(err, "summing observations")
	}
	mg.grandSum = grand

	squares := make([]float64, len(values))
	for i, v := range values {
		squares[i] = v * v
	}
	if mg.sumSquares, err = stats.Sum(squares); err != nil {
		return marginals{}, errors.Wrap(err, "summing squared observations")
	}

	mg.correction = grand * grand / float64(len(values))
	return mg, nil
}

// totalSS = sum(x^2) - CF
func (mg marginals) totalSS() float64 {
	return round2(mg.sumSquares - mg.correction)
}

// treatmentSS = sum(row^2) / replicates - CF
func (mg marginals) treatmentSS() float64 {
	return round2(sumOfSquared(mg.rowSums)/float64(len(mg.colSums)) - mg.correction)
}

// blockSS = sum(col^2) / treatments - CF
func (mg marginals) blockSS() float64 {
	return round2(sumOfSquared(mg.colSums)/float64(len(mg.rowSums)) - mg.correction)
}

func sumOfSquared(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x * x
	}
	return total
}
