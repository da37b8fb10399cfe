package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	domainAnova "goanova/domain/anova"
	"goanova/internal/errors"
	"goanova/internal/logging"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is read when no sheet name is configured
const DefaultSheet = "Sheet1"

// DataReader loads observation matrices from Excel and CSV files.
// Each data row is one treatment. A header row and a leading label column
// are skipped when they are not numeric.
type DataReader struct {
	sheet  string
	logger *logging.Logger
}

// NewDataReader creates a reader for the given worksheet (xlsx only)
func NewDataReader(sheet string) *DataReader {
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &DataReader{sheet: sheet, logger: logging.Default().With("DataReader")}
}

// WithLogger replaces the reader logger
func (r *DataReader) WithLogger(l *logging.Logger) *DataReader {
	r.logger = l.With("DataReader")
	return r
}

// ReadMatrix implements ports.MatrixReader
func (r *DataReader) ReadMatrix(ctx context.Context, path string) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.InvalidInput(fmt.Sprintf("input file not found: %s", path))
	}

	var (
		rows [][]string
		err  error
	)
	start := time.Now()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		rows, err = r.readCSVRows(path)
	case ".xlsx", ".xlsm":
		rows, err = r.readExcelRows(path)
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", ext))
	}
	if err != nil {
		return nil, err
	}

	matrix, err := parseMatrix(rows)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filepath.Base(path))
	}

	r.logger.Debug("%s read in %.2fms (%d treatments)",
		filepath.Base(path), float64(time.Since(start).Nanoseconds())/1e6, len(matrix))
	return matrix, nil
}

func (r *DataReader) readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read sheet %q: %w", r.sheet, err))
	}
	return rows, nil
}

func (r *DataReader) readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // jagged rows are reported by the matrix check
	reader.Comment = '#'
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read CSV file: %w", err))
	}
	return rows, nil
}

// parseMatrix converts raw cells into treatment rows. The first non-blank
// row is a header when any of its cells (after an optional label) is not a
// number. Any other non-numeric cell is malformed input.
func parseMatrix(rows [][]string) ([][]float64, error) {
	var matrix [][]float64
	seenFirst := false

	for i, raw := range rows {
		cells := trimCells(raw)
		if len(cells) == 0 {
			continue
		}

		if _, err := parseCell(cells[0]); err != nil {
			cells = cells[1:] // label column
		}

		values := make([]float64, len(cells))
		var badCell = -1
		for j, cell := range cells {
			v, err := parseCell(cell)
			if err != nil {
				badCell = j
				break
			}
			values[j] = v
		}

		if badCell >= 0 {
			if !seenFirst {
				seenFirst = true
				continue // header
			}
			return nil, errors.Wrapf(domainAnova.ErrMalformedMatrix,
				"row %d: %q is not a number", i+1, cells[badCell])
		}
		seenFirst = true

		if len(values) == 0 {
			continue
		}
		matrix = append(matrix, values)
	}

	if len(matrix) == 0 {
		return nil, errors.Wrap(domainAnova.ErrMalformedMatrix, "no numeric rows found")
	}
	return matrix, nil
}

// trimCells trims whitespace and drops trailing empty cells
func trimCells(raw []string) []string {
	cells := make([]string, len(raw))
	for i, c := range raw {
		cells[i] = strings.TrimSpace(c)
	}
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

func parseCell(cell string) (float64, error) {
	// accept decimal commas from spreadsheet locales, e.g. "8,1"
	if strings.Count(cell, ",") == 1 && !strings.Contains(cell, ".") {
		cell = strings.Replace(cell, ",", ".", 1)
	}
	return strconv.ParseFloat(cell, 64)
}
