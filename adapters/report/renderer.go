// Package report renders analysis of variance tables for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	domainAnova "goanova/domain/anova"
	"goanova/internal/errors"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
)

// Format selects the output representation
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// Formats lists every supported format
var Formats = []Format{FormatText, FormatMarkdown, FormatHTML, FormatJSON}

// ParseFormat validates a user-supplied format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown report format %q", s))
}

// Columns of the conventional ANOVA layout
var Columns = []string{"Source", "DF", "SS", "MS", "F calc", "F 5%", "F 1%", "Sig"}

// Document is what gets rendered: a titled table
type Document struct {
	Title string             `json:"title"`
	Table *domainAnova.Table `json:"table"`
}

// Render writes doc to w in the requested format
func Render(w io.Writer, doc Document, format Format) error {
	if doc.Table == nil {
		return errors.InvalidInput("report: nothing to render")
	}

	var out string
	switch format {
	case FormatText:
		out = renderText(doc)
	case FormatMarkdown:
		out = renderMarkdown(doc)
	case FormatHTML:
		out = renderHTML(doc)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		// formats reach Render through ParseFormat
		return errors.InternalError(fmt.Sprintf("unknown report format %q", format))
	}

	_, err := io.WriteString(w, out)
	return err
}

// Rows returns the table body as strings, one slice per source of variation
func Rows(t *domainAnova.Table) [][]string {
	rows := [][]string{factorCells("Treatment", t.Treatment)}
	if t.Block != nil {
		rows = append(rows, factorCells("Block", *t.Block))
	}
	rows = append(rows,
		[]string{"Error", strconv.Itoa(t.Error.DF), num(t.Error.SumOfSquares), num(t.Error.MeanSquare), "", "", "", ""},
		[]string{"Total", strconv.Itoa(t.Total.DF), num(t.Total.SumOfSquares), "", "", "", "", ""},
	)
	return rows
}

func factorCells(label string, row domainAnova.FactorRow) []string {
	return []string{
		label,
		strconv.Itoa(row.DF),
		num(row.SumOfSquares),
		num(row.MeanSquare),
		num(row.FStatistic),
		num(row.Critical.F95),
		num(row.Critical.F99),
		string(row.Significance),
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func summaryLine(t *domainAnova.Table) string {
	return fmt.Sprintf("design=%s treatments=%d replicates=%d grand mean=%s CV=%s%%",
		t.Design, t.Treatments, t.Replicates, num(t.GrandMean), num(t.CoefficientOfVar))
}

func renderText(doc Document) string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(Columns...).
		Rows(Rows(doc.Table)...)

	var b strings.Builder
	if doc.Title != "" {
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(doc.Title))
		b.WriteString("\n")
	}
	b.WriteString(tbl.String())
	b.WriteString("\n")
	b.WriteString(summaryLine(doc.Table))
	b.WriteString("\n")
	return b.String()
}

func renderMarkdown(doc Document) string {
	var b strings.Builder
	if doc.Title != "" {
		fmt.Fprintf(&b, "## %s\n\n", doc.Title)
	}

	b.WriteString("| " + strings.Join(Columns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(Columns)) + "\n")
	for _, row := range Rows(doc.Table) {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}

	fmt.Fprintf(&b, "\n%s\n", summaryLine(doc.Table))
	return b.String()
}

func renderHTML(doc Document) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	return string(markdown.ToHTML([]byte(renderMarkdown(doc)), p, nil))
}
