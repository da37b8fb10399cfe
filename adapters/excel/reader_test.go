package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	domainAnova "goanova/domain/anova"
	"goanova/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadMatrix_CSVWithHeaderAndLabels(t *testing.T) {
	path := writeFile(t, "yield.csv", `treatment,b1,b2,b3
# control group first
A, 8.0, 8.1, 7.5
B, 8.3, 8.2, 8.3

C, 8.9, 8.1, 8.3
`)

	matrix, err := NewDataReader("").ReadMatrix(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{8.0, 8.1, 7.5},
		{8.3, 8.2, 8.3},
		{8.9, 8.1, 8.3},
	}, matrix)
}

func TestReadMatrix_CSVPlainNumbers(t *testing.T) {
	path := writeFile(t, "plain.csv", "1,2\n3,4\n")

	matrix, err := NewDataReader("").ReadMatrix(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, matrix)
}

func TestReadMatrix_CSVDecimalComma(t *testing.T) {
	path := writeFile(t, "comma.csv", "A,\"8,5\",\"7,25\"\nB,\"1,5\",\"2\"\n")
	matrix, err := NewDataReader("").ReadMatrix(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{8.5, 7.25}, {1.5, 2}}, matrix)
}

func TestReadMatrix_NonNumericCell(t *testing.T) {
	path := writeFile(t, "bad.csv", "1,2\n3,oops\n")

	_, err := NewDataReader("").ReadMatrix(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainAnova.ErrMalformedMatrix)
	assert.Contains(t, err.Error(), "oops")
}

func TestReadMatrix_JaggedRowsAreReturnedAsIs(t *testing.T) {
	path := writeFile(t, "jagged.csv", "1,2,3\n4,5\n")

	matrix, err := NewDataReader("").ReadMatrix(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5}}, matrix)

	_, err = domainAnova.NewMatrix(matrix)
	assert.ErrorIs(t, err, domainAnova.ErrMalformedMatrix)
}

func TestReadMatrix_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yield.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"treatment", "b1", "b2"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"A", 8.0, 8.1}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"B", 9.5, 8.9}))
	_, err := f.NewSheet("Trial2")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Trial2", "A1", &[]interface{}{1, 2}))
	require.NoError(t, f.SetSheetRow("Trial2", "A2", &[]interface{}{3, 4}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	matrix, err := NewDataReader("").ReadMatrix(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{8.0, 8.1}, {9.5, 8.9}}, matrix)

	matrix, err = NewDataReader("Trial2").ReadMatrix(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, matrix)

	_, err = NewDataReader("Missing").ReadMatrix(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestReadMatrix_InputErrors(t *testing.T) {
	r := NewDataReader("")

	_, err := r.ReadMatrix(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	path := writeFile(t, "data.json", "[]")
	_, err = r.ReadMatrix(context.Background(), path)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	path = writeFile(t, "header-only.csv", "a,b,c\n")
	_, err = r.ReadMatrix(context.Background(), path)
	assert.ErrorIs(t, err, domainAnova.ErrMalformedMatrix)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.ReadMatrix(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}
