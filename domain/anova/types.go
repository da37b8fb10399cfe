package anova

// ============================================================================
// DESIGN & CLASSIFICATION
// ============================================================================

// Design selects the experimental layout the matrix is interpreted under
type Design string

const (
	DesignCompletelyRandomized Design = "crd" // rows are treatments, columns are replicates
	DesignRandomizedBlock      Design = "rbd" // rows are treatments, columns are blocks
)

// DesignFromBlock maps the block flag onto a Design
func DesignFromBlock(block bool) Design {
	if block {
		return DesignRandomizedBlock
	}
	return DesignCompletelyRandomized
}

// HasBlock reports whether the design carries a block factor
func (d Design) HasBlock() bool {
	return d == DesignRandomizedBlock
}

// Factor names a source of variation in the table
type Factor string

const (
	FactorTreatment Factor = "treatment"
	FactorBlock     Factor = "block"
	FactorError     Factor = "error"
	FactorTotal     Factor = "total"
)

// Significance is the three-level outcome of comparing F against its critical values
type Significance string

const (
	VerySignificant Significance = "vs" // F > F(0.99)
	Significant     Significance = "s"  // F(0.95) < F <= F(0.99)
	NotSignificant  Significance = "ns" // F <= F(0.95)
)

// ============================================================================
// RESULT RECORDS
// ============================================================================

// DegreesOfFreedom holds the per-source DF counts.
// Block is 0 for a completely randomized design.
type DegreesOfFreedom struct {
	Treatment int `json:"treatment"`
	Block     int `json:"block"`
	Error     int `json:"error"`
	Total     int `json:"total"`
}

// CriticalValues are the F-distribution quantiles at 95% and 99%
type CriticalValues struct {
	F95 float64 `json:"f_95"`
	F99 float64 `json:"f_99"`
}

// FactorRow is one tested source of variation (treatment or block)
type FactorRow struct {
	Factor       Factor         `json:"factor"`
	DF           int            `json:"df"`
	SumOfSquares float64        `json:"sum_of_squares"`
	MeanSquare   float64        `json:"mean_square"`
	FStatistic   float64        `json:"f_statistic"`
	Critical     CriticalValues `json:"critical"`
	PValue       float64        `json:"p_value"` // upper tail, informational only
	Significance Significance   `json:"significance"`
}

// ResidualRow is the error line of the table
type ResidualRow struct {
	DF           int     `json:"df"`
	SumOfSquares float64 `json:"sum_of_squares"`
	MeanSquare   float64 `json:"mean_square"`
}

// TotalRow is the total line of the table
type TotalRow struct {
	DF           int     `json:"df"`
	SumOfSquares float64 `json:"sum_of_squares"`
}

// GroupSummary describes a single treatment row
type GroupSummary struct {
	Index  int     `json:"index"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Table is the complete analysis of variance for one matrix.
// Block is nil when the design has no block factor.
type Table struct {
	Design           Design         `json:"design"`
	Treatments       int            `json:"treatments"`
	Replicates       int            `json:"replicates"`
	Observations     int            `json:"observations"`
	GrandSum         float64        `json:"grand_sum"`
	GrandMean        float64        `json:"grand_mean"`
	CorrectionFactor float64        `json:"correction_factor"`
	Treatment        FactorRow      `json:"treatment"`
	Block            *FactorRow     `json:"block,omitempty"`
	Error            ResidualRow    `json:"error"`
	Total            TotalRow       `json:"total"`
	CoefficientOfVar float64        `json:"coefficient_of_variation"` // percent
	Groups           []GroupSummary `json:"groups"`
}

// DegreesOfFreedom reassembles the DF record from the table rows
func (t *Table) DegreesOfFreedom() DegreesOfFreedom {
	df := DegreesOfFreedom{
		Treatment: t.Treatment.DF,
		Error:     t.Error.DF,
		Total:     t.Total.DF,
	}
	if t.Block != nil {
		df.Block = t.Block.DF
	}
	return df
}
