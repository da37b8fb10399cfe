// Package anova computes one-way and randomized-block analysis of variance
// tables. Every derived scalar is rounded to Precision decimals and the
// rounded value is what later steps consume, so F ratios are built from
// rounded mean squares.
package anova

import (
	"math"

	domainAnova "goanova/domain/anova"
	"goanova/internal/errors"
	"goanova/ports"

	"github.com/montanaflynn/stats"
)

// Confidence levels for the critical F values
const (
	Confidence95 = 0.95
	Confidence99 = 0.99
)

// Engine holds one observation matrix under one design. Sums of squares and
// degrees of freedom are computed at construction; the engine is immutable
// afterwards and safe for concurrent use.
type Engine struct {
	matrix domainAnova.Matrix
	design domainAnova.Design
	dist   ports.FDistribution

	marginals marginals

	ssTotal     float64
	ssTreatment float64
	ssBlock     float64 // zero unless design has blocks
	ssError     float64

	df domainAnova.DegreesOfFreedom
}

// NewEngine validates values and precomputes the sums of squares and degrees
// of freedom. Rows are treatments; with block set, columns are blocks.
func NewEngine(values [][]float64, block bool, dist ports.FDistribution) (*Engine, error) {
	if dist == nil {
		return nil, errors.InvalidInput("anova: F distribution is required")
	}

	m, err := domainAnova.NewMatrix(values)
	if err != nil {
		return nil, err
	}

	mg, err := computeMarginals(m)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		matrix:    m,
		design:    domainAnova.DesignFromBlock(block),
		dist:      dist,
		marginals: mg,
	}

	e.df = degreesOfFreedom(m, e.design)
	if e.df.Error <= 0 {
		return nil, errors.Wrapf(domainAnova.ErrDegenerateDesign,
			"error degrees of freedom is %d", e.df.Error)
	}

	e.ssTotal = mg.totalSS()
	e.ssTreatment = mg.treatmentSS()
	if e.design.HasBlock() {
		e.ssBlock = mg.blockSS()
	}
	// separately rounded parts can leave a residual of -0.01 on exact data
	e.ssError = math.Max(0, round2(e.ssTotal-e.ssTreatment-e.ssBlock))

	return e, nil
}

func degreesOfFreedom(m domainAnova.Matrix, design domainAnova.Design) domainAnova.DegreesOfFreedom {
	df := domainAnova.DegreesOfFreedom{
		Treatment: m.Treatments() - 1,
		Total:     m.Size() - 1,
	}
	if design.HasBlock() {
		df.Block = m.Replicates() - 1
	}
	df.Error = df.Total - df.Treatment - df.Block
	return df
}

// Design returns the design the engine was built with
func (e *Engine) Design() domainAnova.Design {
	return e.design
}

// DegreesOfFreedom returns the DF record; Block is 0 without blocks
func (e *Engine) DegreesOfFreedom() domainAnova.DegreesOfFreedom {
	return e.df
}

// GrandSum returns the unrounded sum of all observations
func (e *Engine) GrandSum() float64 {
	return e.marginals.grandSum
}

// CorrectionFactor returns grand sum squared over element count, unrounded
func (e *Engine) CorrectionFactor() float64 {
	return e.marginals.correction
}

// ----------------------------------------------------------------------------
// Sums of squares
// ----------------------------------------------------------------------------

func (e *Engine) TotalSumOfSquares() float64 {
	return e.ssTotal
}

func (e *Engine) TreatmentSumOfSquares() float64 {
	return e.ssTreatment
}

// BlockSumOfSquares returns ErrNotApplicable for a completely randomized design
func (e *Engine) BlockSumOfSquares() (float64, error) {
	if err := e.requireBlock("block sum of squares"); err != nil {
		return 0, err
	}
	return e.ssBlock, nil
}

// ErrorSumOfSquares is the residual: total - treatment - block
func (e *Engine) ErrorSumOfSquares() float64 {
	return e.ssError
}

// ----------------------------------------------------------------------------
// Mean squares and F ratios
// ----------------------------------------------------------------------------

func (e *Engine) MeanSquareTreatment() (float64, error) {
	return meanSquare(e.ssTreatment, e.df.Treatment, domainAnova.FactorTreatment)
}

func (e *Engine) MeanSquareBlock() (float64, error) {
	if err := e.requireBlock("block mean square"); err != nil {
		return 0, err
	}
	return meanSquare(e.ssBlock, e.df.Block, domainAnova.FactorBlock)
}

func (e *Engine) MeanSquareError() (float64, error) {
	return meanSquare(e.ssError, e.df.Error, domainAnova.FactorError)
}

func meanSquare(ss float64, df int, factor domainAnova.Factor) (float64, error) {
	if df <= 0 {
		return 0, errors.Wrapf(domainAnova.ErrDegenerateDesign,
			"%s degrees of freedom is %d", factor, df)
	}
	return round2(ss / float64(df)), nil
}

// FStatisticTreatment is MS treatment / MS error, both already rounded
func (e *Engine) FStatisticTreatment() (float64, error) {
	ms, err := e.MeanSquareTreatment()
	if err != nil {
		return 0, err
	}
	return e.fRatio(ms, domainAnova.FactorTreatment)
}

// FStatisticBlock is MS block / MS error, both already rounded
func (e *Engine) FStatisticBlock() (float64, error) {
	ms, err := e.MeanSquareBlock()
	if err != nil {
		return 0, err
	}
	return e.fRatio(ms, domainAnova.FactorBlock)
}

func (e *Engine) fRatio(ms float64, factor domainAnova.Factor) (float64, error) {
	mse, err := e.MeanSquareError()
	if err != nil {
		return 0, err
	}
	if mse <= 0 {
		return 0, errors.Wrapf(domainAnova.ErrDegenerateDesign,
			"mean square error is zero, %s F ratio is undefined", factor)
	}
	return round2(ms / mse), nil
}

// ----------------------------------------------------------------------------
// Critical values
// ----------------------------------------------------------------------------

// CriticalValues looks up F(0.95) and F(0.99) with (factor DF, error DF).
// Only treatment and block (in a block design) have critical values.
func (e *Engine) CriticalValues(factor domainAnova.Factor) (domainAnova.CriticalValues, error) {
	df1, err := e.factorDF(factor)
	if err != nil {
		return domainAnova.CriticalValues{}, err
	}
	df2 := e.df.Error

	f95, err := e.dist.Quantile(Confidence95, float64(df1), float64(df2))
	if err != nil {
		return domainAnova.CriticalValues{}, errors.Wrapf(err, "critical value F(%.2f; %d, %d)", Confidence95, df1, df2)
	}
	f99, err := e.dist.Quantile(Confidence99, float64(df1), float64(df2))
	if err != nil {
		return domainAnova.CriticalValues{}, errors.Wrapf(err, "critical value F(%.2f; %d, %d)", Confidence99, df1, df2)
	}

	return domainAnova.CriticalValues{F95: round2(f95), F99: round2(f99)}, nil
}

func (e *Engine) factorDF(factor domainAnova.Factor) (int, error) {
	switch factor {
	case domainAnova.FactorTreatment:
		return e.df.Treatment, nil
	case domainAnova.FactorBlock:
		if err := e.requireBlock("block critical values"); err != nil {
			return 0, err
		}
		return e.df.Block, nil
	default:
		return 0, errors.Wrapf(domainAnova.ErrNotApplicable, "%s has no F test", factor)
	}
}

func (e *Engine) requireBlock(what string) error {
	if !e.design.HasBlock() {
		return errors.Wrapf(domainAnova.ErrNotApplicable, "%s requested on a %s design", what, e.design)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Full table
// ----------------------------------------------------------------------------

// Analyze assembles the complete table. Either every row is filled in or an
// error is returned; there are no partial tables.
func (e *Engine) Analyze() (*domainAnova.Table, error) {
	treatment, err := e.factorRow(domainAnova.FactorTreatment)
	if err != nil {
		return nil, err
	}

	mse, err := e.MeanSquareError()
	if err != nil {
		return nil, err
	}

	n := e.matrix.Size()
	grandMean := round2(e.marginals.grandSum / float64(n))

	table := &domainAnova.Table{
		Design:           e.design,
		Treatments:       e.matrix.Treatments(),
		Replicates:       e.matrix.Replicates(),
		Observations:     n,
		GrandSum:         round2(e.marginals.grandSum),
		GrandMean:        grandMean,
		CorrectionFactor: round2(e.marginals.correction),
		Treatment:        treatment,
		Error: domainAnova.ResidualRow{
			DF:           e.df.Error,
			SumOfSquares: e.ssError,
			MeanSquare:   mse,
		},
		Total: domainAnova.TotalRow{
			DF:           e.df.Total,
			SumOfSquares: e.ssTotal,
		},
	}

	if e.design.HasBlock() {
		block, err := e.factorRow(domainAnova.FactorBlock)
		if err != nil {
			return nil, err
		}
		table.Block = &block
	}

	if grandMean != 0 && mse > 0 {
		table.CoefficientOfVar = round2(math.Sqrt(mse) / math.Abs(grandMean) * 100)
	}

	if table.Groups, err = e.groupSummaries(); err != nil {
		return nil, err
	}

	return table, nil
}

func (e *Engine) factorRow(factor domainAnova.Factor) (domainAnova.FactorRow, error) {
	row := domainAnova.FactorRow{Factor: factor}

	var err error
	switch factor {
	case domainAnova.FactorTreatment:
		row.DF = e.df.Treatment
		row.SumOfSquares = e.ssTreatment
		if row.MeanSquare, err = e.MeanSquareTreatment(); err != nil {
			return row, err
		}
		if row.FStatistic, err = e.FStatisticTreatment(); err != nil {
			return row, err
		}
	case domainAnova.FactorBlock:
		row.DF = e.df.Block
		if row.SumOfSquares, err = e.BlockSumOfSquares(); err != nil {
			return row, err
		}
		if row.MeanSquare, err = e.MeanSquareBlock(); err != nil {
			return row, err
		}
		if row.FStatistic, err = e.FStatisticBlock(); err != nil {
			return row, err
		}
	default:
		return row, errors.Wrapf(domainAnova.ErrNotApplicable, "%s has no F test", factor)
	}

	if row.Critical, err = e.CriticalValues(factor); err != nil {
		return row, err
	}
	row.Significance = Classify(row.FStatistic, row.Critical)

	p, err := e.dist.Survival(row.FStatistic, float64(row.DF), float64(e.df.Error))
	if err != nil {
		return row, errors.Wrapf(err, "%s p-value", factor)
	}
	row.PValue = round(p, pValuePrecision)

	return row, nil
}

func (e *Engine) groupSummaries() ([]domainAnova.GroupSummary, error) {
	groups := make([]domainAnova.GroupSummary, e.matrix.Treatments())
	for i := range groups {
		row := e.matrix.Row(i)
		mean, err := stats.Mean(row)
		if err != nil {
			return nil, errors.Wrapf(err, "mean of treatment %d", i)
		}
		sd, err := stats.StandardDeviationSample(row)
		if err != nil {
			return nil, errors.Wrapf(err, "standard deviation of treatment %d", i)
		}
		groups[i] = domainAnova.GroupSummary{
			Index:  i,
			Sum:    round2(e.marginals.rowSums[i]),
			Mean:   round2(mean),
			StdDev: round2(sd),
		}
	}
	return groups, nil
}
