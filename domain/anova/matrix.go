package anova

import (
	"math"

	"goanova/internal/errors"
)

// MinTreatments and MinReplicates are the smallest dimensions that leave a
// non-zero DF for every source of variation.
const (
	MinTreatments = 2
	MinReplicates = 2
)

// Matrix is an immutable rectangular observation matrix.
// Rows are treatments; columns are replicates (or blocks).
type Matrix struct {
	rows [][]float64
	cols int
}

// NewMatrix validates and copies values. Shape problems are reported as
// ErrMalformedMatrix, too few treatments or replicates as ErrDegenerateDesign.
func NewMatrix(values [][]float64) (Matrix, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return Matrix{}, errors.Wrap(ErrMalformedMatrix, "matrix is empty")
	}

	cols := len(values[0])
	rows := make([][]float64, len(values))
	for i, row := range values {
		if len(row) != cols {
			return Matrix{}, errors.Wrapf(ErrMalformedMatrix,
				"treatment %d has %d observations, expected %d", i, len(row), cols)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return Matrix{}, errors.Wrapf(ErrMalformedMatrix,
					"non-finite value at treatment %d, replicate %d", i, j)
			}
		}
		rows[i] = append([]float64(nil), row...)
	}

	if len(rows) < MinTreatments {
		return Matrix{}, errors.Wrapf(ErrDegenerateDesign,
			"need at least %d treatments, got %d", MinTreatments, len(rows))
	}
	if cols < MinReplicates {
		return Matrix{}, errors.Wrapf(ErrDegenerateDesign,
			"need at least %d replicates per treatment, got %d", MinReplicates, cols)
	}

	return Matrix{rows: rows, cols: cols}, nil
}

// Treatments returns the number of rows
func (m Matrix) Treatments() int { return len(m.rows) }

// Replicates returns the number of columns
func (m Matrix) Replicates() int { return m.cols }

// Size returns the element count
func (m Matrix) Size() int { return len(m.rows) * m.cols }

// Row returns a copy of treatment i
func (m Matrix) Row(i int) []float64 {
	return append([]float64(nil), m.rows[i]...)
}

// Column returns a copy of replicate (block) j across all treatments
func (m Matrix) Column(j int) []float64 {
	col := make([]float64, len(m.rows))
	for i, row := range m.rows {
		col[i] = row[j]
	}
	return col
}

// Values returns all observations in row-major order
func (m Matrix) Values() []float64 {
	out := make([]float64, 0, m.Size())
	for _, row := range m.rows {
		out = append(out, row...)
	}
	return out
}
