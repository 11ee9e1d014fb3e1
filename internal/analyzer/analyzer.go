// Package analyzer locates the operations narrative column in daily
// drilling report workbooks and flags rows containing risk keywords.
package analyzer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ddrscan/internal/types"

	"github.com/xuri/excelize/v2"
)

const (
	// OperationsHeader marks the narrative column in a report sheet.
	OperationsHeader = "DETAILS OF OPERATIONS"

	// HeaderScanLimit bounds the header search to the top of the sheet.
	HeaderScanLimit = 100

	// Data begins this many rows below the header; the row in between is
	// the FROM/TO/DURATION sub-header.
	headerSkipRows = 2
)

// CellKind discriminates the value types a sheet cell can hold.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
	CellTime
)

// Cell is a single sheet cell tagged with the kind that drives header
// matching and time formatting.
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
	Time time.Time
}

// timeLayouts covers the date-bearing renderings excelize produces for
// date and datetime styled cells. Time-of-day values ("06:30") are left
// as plain strings on purpose.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/06 15:04:05",
	"1/2/06 15:04",
	"2006/01/02 15:04",
	"2006-01-02",
	"1/2/2006",
	"1/2/06",
}

// ClassifyCell builds the tagged cell for one raw sheet value.
func ClassifyCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Cell{Kind: CellEmpty}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return Cell{Kind: CellTime, Time: t}
		}
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Cell{Kind: CellNumber, Num: n}
	}
	return Cell{Kind: CellString, Str: raw}
}

// Display renders the cell the way it appears in a match's time column.
func (c Cell) Display() string {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellTime:
		return c.Time.Format("2006-01-02 15:04")
	default:
		return ""
	}
}

// Grid is a sheet's cell matrix. Rows may be ragged, matching what
// excelize returns.
type Grid [][]Cell

// LoadGrid reads one sheet into a typed grid.
func LoadGrid(f *excelize.File, sheet string) (Grid, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	g := make(Grid, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, raw := range row {
			cells[j] = ClassifyCell(raw)
		}
		g[i] = cells
	}
	return g, nil
}

// cellAt tolerates ragged rows, returning an empty cell out of range.
func cellAt(g Grid, row, col int) Cell {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return Cell{Kind: CellEmpty}
	}
	return g[row][col]
}

// FindHeaderColumn scans the first HeaderScanLimit rows in row-major
// order for a text cell containing target (case-insensitive) and returns
// its column index, or -1 when the sheet has no such header. Non-string
// cells are skipped without error.
func FindHeaderColumn(g Grid, target string) int {
	upper := strings.ToUpper(target)

	limit := len(g)
	if limit > HeaderScanLimit {
		limit = HeaderScanLimit
	}
	for row := 0; row < limit; row++ {
		for col, c := range g[row] {
			if c.Kind != CellString {
				continue
			}
			if strings.Contains(strings.ToUpper(c.Str), upper) {
				return col
			}
		}
	}
	return -1
}

// headerRow locates the row holding the operations header within opsCol.
func headerRow(g Grid, opsCol int) int {
	limit := len(g)
	if limit > HeaderScanLimit {
		limit = HeaderScanLimit
	}
	for row := 0; row < limit; row++ {
		c := cellAt(g, row, opsCol)
		if c.Kind == CellString && strings.Contains(strings.ToUpper(c.Str), OperationsHeader) {
			return row
		}
	}
	return -1
}

// OperationRow pairs a narrative with its formatted time range.
type OperationRow struct {
	TimeDate string
	Details  string
}

// OperationRows extracts the narrative rows beneath the operations
// header. Rows whose narrative cell is blank or non-text (section
// breaks, TOTAL markers) are skipped rather than ending the scan.
func OperationRows(g Grid, opsCol int) []OperationRow {
	hr := headerRow(g, opsCol)
	if hr == -1 {
		return nil
	}

	var ops []OperationRow
	for row := hr + headerSkipRows; row < len(g); row++ {
		details := cellAt(g, row, opsCol)
		if details.Kind != CellString || strings.TrimSpace(details.Str) == "" {
			continue
		}
		ops = append(ops, OperationRow{
			TimeDate: formatTimeRange(cellAt(g, row, 0), cellAt(g, row, 1)),
			Details:  details.Str,
		})
	}
	return ops
}

// formatTimeRange renders the FROM/TO cells for the time column. A
// date-styled TO cell contributes clock time only; other non-empty TO
// values are appended when a FROM value is present.
func formatTimeRange(from, to Cell) string {
	var s string
	if from.Kind != CellEmpty {
		s = from.Display()
	}
	switch {
	case to.Kind == CellTime:
		s += " to " + to.Time.Format("15:04")
	case to.Kind != CellEmpty && s != "":
		s += " to " + to.Display()
	}
	return s
}

var reportNumberRe = regexp.MustCompile(`(?i)(?:DDR\s*#?\s*|#\s*)(\d+)`)

// ReportNumber derives the report identifier from a workbook filename:
// the digits following "DDR" or "#", else the bare stem.
func ReportNumber(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if m := reportNumberRe.FindStringSubmatch(stem); m != nil {
		return m[1]
	}
	return stem
}

// ScanFile runs the keyword scan over every sheet of one workbook.
// Sheets without the operations header contribute nothing; a read
// failure aborts this file only.
func ScanFile(path string, keywords []string) ([]types.Match, error) {
	report := ReportNumber(path)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var matches []types.Match
	for _, sheet := range f.GetSheetList() {
		g, err := LoadGrid(f, sheet)
		if err != nil {
			return nil, err
		}

		opsCol := FindHeaderColumn(g, OperationsHeader)
		if opsCol == -1 {
			continue
		}

		for _, op := range OperationRows(g, opsCol) {
			if risks := MatchKeywords(op.Details, keywords); len(risks) > 0 {
				matches = append(matches, types.Match{
					ReportNumber: report,
					TimeDate:     op.TimeDate,
					Risks:        risks,
				})
			}
		}
	}
	return matches, nil
}

// ListReportFiles returns the folder's spreadsheet files, .xlsx first
// then legacy .xls, each group in Glob's lexical order.
func ListReportFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.xlsx", "*.xls"} {
		found, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// ScanFolder scans every report workbook under dir sequentially.
// Per-file failures are recorded on the result and do not stop the run.
// The report callback, when non-nil, fires once after each file.
func ScanFolder(dir string, keywords []string, report func(types.FileReport)) (*types.ScanResult, error) {
	files, err := ListReportFiles(dir)
	if err != nil {
		return nil, err
	}

	result := &types.ScanResult{}
	for _, path := range files {
		fr := types.FileReport{Name: filepath.Base(path)}

		matches, err := ScanFile(path, keywords)
		if err != nil {
			fr.Err = err
		} else {
			fr.Matches = len(matches)
			result.Matches = append(result.Matches, matches...)
		}
		result.Files = append(result.Files, fr)

		if report != nil {
			report(fr)
		}
	}
	return result, nil
}
