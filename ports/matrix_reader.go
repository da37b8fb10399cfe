package ports

import "context"

// MatrixReader loads an observation matrix (rows = treatments) from a source
type MatrixReader interface {
	ReadMatrix(ctx context.Context, path string) ([][]float64, error)
}
