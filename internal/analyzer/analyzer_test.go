package analyzer

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"ddrscan/internal/types"
)

func gridFromStrings(rows [][]string) Grid {
	g := make(Grid, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, raw := range row {
			cells[j] = ClassifyCell(raw)
		}
		g[i] = cells
	}
	return g
}

func TestClassifyCell(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind CellKind
	}{
		{"Empty", "", CellEmpty},
		{"Whitespace only", "   ", CellEmpty},
		{"Integer", "42", CellNumber},
		{"Decimal", "7.5", CellNumber},
		{"ISO datetime", "2026-03-04 06:00", CellTime},
		{"ISO datetime with seconds", "2026-03-04 06:00:30", CellTime},
		{"Slash datetime", "3/4/26 6:00", CellTime},
		{"Long slash datetime", "3/4/2026 6:00", CellTime},
		{"Date only", "2026-03-04", CellTime},
		{"Clock time stays text", "06:30", CellString},
		{"Narrative", "Drilled ahead to 2,450 ft", CellString},
		{"Datetime with trailing text", "2026-03-04 rig move", CellString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyCell(tt.raw)
			if got.Kind != tt.kind {
				t.Errorf("ClassifyCell(%q).Kind = %v; want %v", tt.raw, got.Kind, tt.kind)
			}
		})
	}
}

func TestCellDisplay(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"String keeps raw text", "WOC 4 hrs", "WOC 4 hrs"},
		{"Whole number drops decimals", "6", "6"},
		{"Decimal kept", "7.5", "7.5"},
		{"Datetime normalized", "3/4/26 6:00", "2026-03-04 06:00"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyCell(tt.raw).Display(); got != tt.expected {
				t.Errorf("Display() = %q; want %q", got, tt.expected)
			}
		})
	}
}

func TestFindHeaderColumn(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]string
		expected int
	}{
		{
			name: "Header in first row",
			rows: [][]string{
				{"Details of Operations in Sequence and Remarks"},
			},
			expected: 0,
		},
		{
			name: "Header below banner rows",
			rows: [][]string{
				{"WELL ALPHA-7", "", ""},
				{"Date:", "2026-03-04", ""},
				{"", "", "DETAILS OF OPERATIONS IN SEQUENCE AND REMARKS"},
			},
			expected: 2,
		},
		{
			name: "Case-insensitive match",
			rows: [][]string{
				{"", "details of operations"},
			},
			expected: 1,
		},
		{
			name: "Numeric and empty cells skipped",
			rows: [][]string{
				{"42", "", "7.5"},
				{"", "Details of Operations", ""},
			},
			expected: 1,
		},
		{
			name: "Earlier row wins over earlier column",
			rows: [][]string{
				{"", "", ""},
				{"", "", "", "", "Details of Operations"},
				{"Details of Operations", "", ""},
			},
			expected: 4,
		},
		{
			name: "No header",
			rows: [][]string{
				{"FROM", "TO", "REMARKS"},
				{"06:00", "07:30", "Drilled ahead"},
			},
			expected: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gridFromStrings(tt.rows)
			if got := FindHeaderColumn(g, OperationsHeader); got != tt.expected {
				t.Errorf("FindHeaderColumn() = %d; want %d", got, tt.expected)
			}
		})
	}
}

func TestFindHeaderColumnBeyondScanLimit(t *testing.T) {
	rows := make([][]string, HeaderScanLimit+1)
	for i := range rows {
		rows[i] = []string{"filler"}
	}
	rows[HeaderScanLimit] = []string{"Details of Operations"}

	if got := FindHeaderColumn(gridFromStrings(rows), OperationsHeader); got != -1 {
		t.Errorf("FindHeaderColumn() = %d; want -1 for header past row %d", got, HeaderScanLimit)
	}
}

func TestFindHeaderColumnIdempotent(t *testing.T) {
	g := gridFromStrings([][]string{
		{"", ""},
		{"", "Details of Operations in Sequence and Remarks"},
	})

	first := FindHeaderColumn(g, OperationsHeader)
	second := FindHeaderColumn(g, OperationsHeader)
	if first != second {
		t.Errorf("repeated calls disagree: %d then %d", first, second)
	}
}

func TestOperationRows(t *testing.T) {
	g := gridFromStrings([][]string{
		{"DAILY DRILLING REPORT DDR #42", "", ""},
		{"", "", "Details of Operations in Sequence and Remarks"},
		{"FROM", "TO", ""},
		{"06:00", "07:30", "Rig up and pressure test BOP"},
		{"07:30", "09:00", "   "},
		{"TOTAL", "", ""},
		{"09:00"},
		{"09:00", "10:15", "2450"},
		{"10:15", "11:30", "Worked tight spot at 1,200 ft"},
	})

	got := OperationRows(g, 2)
	want := []OperationRow{
		{TimeDate: "06:00 to 07:30", Details: "Rig up and pressure test BOP"},
		{TimeDate: "10:15 to 11:30", Details: "Worked tight spot at 1,200 ft"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("OperationRows() = %+v; want %+v", got, want)
	}
}

func TestOperationRowsNoHeader(t *testing.T) {
	g := gridFromStrings([][]string{
		{"06:00", "07:30", "Drilled ahead"},
	})

	if got := OperationRows(g, 2); got != nil {
		t.Errorf("OperationRows() = %+v; want nil without a header row", got)
	}
}

func TestOperationRowsSkipsSubHeader(t *testing.T) {
	g := gridFromStrings([][]string{
		{"Details of Operations"},
		{"Narrative sub-header"},
		{"First data narrative"},
	})

	got := OperationRows(g, 0)
	if len(got) != 1 || got[0].Details != "First data narrative" {
		t.Errorf("OperationRows() = %+v; want only the row two below the header", got)
	}
}

func TestFormatTimeRange(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		expected string
	}{
		{"Plain pair", "06:00", "07:30", "06:00 to 07:30"},
		{"Timestamp pair", "2026-03-04 06:00", "2026-03-04 07:30", "2026-03-04 06:00 to 07:30"},
		{"Timestamp then plain", "2026-03-04 06:00", "late", "2026-03-04 06:00 to late"},
		{"From only", "06:00", "", "06:00"},
		{"Timestamp to without from", "", "2026-03-04 07:30", " to 07:30"},
		{"Plain to without from", "", "07:30", ""},
		{"Numeric pair", "6", "7.5", "6 to 7.5"},
		{"Neither", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatTimeRange(ClassifyCell(tt.from), ClassifyCell(tt.to))
			if got != tt.expected {
				t.Errorf("formatTimeRange(%q, %q) = %q; want %q", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestMatchKeywords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		expected []string
	}{
		{
			name:     "Case-insensitive",
			text:     "STUCK pipe while pulling out",
			keywords: []string{"Stuck"},
			expected: []string{"Stuck"},
		},
		{
			name:     "All matches in list order",
			text:     "Observed high torque and signs of stuck pipe",
			keywords: []string{"Torque", "Stuck"},
			expected: []string{"Torque", "Stuck"},
		},
		{
			name:     "List order beats text order",
			text:     "stuck pipe after torque spike",
			keywords: []string{"Torque", "Stuck"},
			expected: []string{"Torque", "Stuck"},
		},
		{
			name:     "Substring inside a word",
			text:     "ran drag chains to surface",
			keywords: []string{"Drag"},
			expected: []string{"Drag"},
		},
		{
			name:     "No match",
			text:     "Routine drilling, no events",
			keywords: []string{"Kick", "Washout"},
			expected: nil,
		},
		{
			name:     "Empty text",
			text:     "",
			keywords: []string{"Kick"},
			expected: nil,
		},
		{
			name:     "Full fixed list",
			text:     "Mud loss during connection, possible well control event",
			keywords: RiskKeywords,
			expected: []string{"Mud loss", "Well control"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchKeywords(tt.text, tt.keywords)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("MatchKeywords(%q) = %v; want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestReportNumber(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"DDR with hash", "DDR #42.xlsx", "42"},
		{"DDR without hash", "DDR 17 - Well Alpha.xlsx", "17"},
		{"Lowercase compact", "ddr#003.xls", "003"},
		{"Hash only", "#7 morning tour.xlsx", "7"},
		{"No marker falls back to stem", "morning_log.xlsx", "morning_log"},
		{"DDR glued to digits", "Report DDR55.xlsx", "55"},
		{"Directory ignored", filepath.Join("reports", "2026", "DDR #9.xlsx"), "9"},
		{"Digits without marker fall back", "shift_2_report.xlsx", "shift_2_report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReportNumber(tt.path); got != tt.expected {
				t.Errorf("ReportNumber(%q) = %q; want %q", tt.path, got, tt.expected)
			}
		})
	}
}

type sheetData struct {
	name string
	rows [][]string
}

func writeWorkbook(t *testing.T, path string, sheets []sheetData) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if def := f.GetSheetName(0); def != s.name {
				if err := f.SetSheetName(def, s.name); err != nil {
					t.Fatalf("renaming sheet: %v", err)
				}
			}
		} else {
			if _, err := f.NewSheet(s.name); err != nil {
				t.Fatalf("adding sheet %s: %v", s.name, err)
			}
		}

		for r, row := range s.rows {
			for c, v := range row {
				if v == "" {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
				if err := f.SetCellValue(s.name, cell, v); err != nil {
					t.Fatalf("setting %s!%s: %v", s.name, cell, err)
				}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}
}

func operationsSheet(rows [][]string) sheetData {
	base := [][]string{
		{"DAILY DRILLING REPORT", "", ""},
		{"", "", "Details of Operations in Sequence and Remarks"},
		{"FROM", "TO", ""},
	}
	return sheetData{name: "Operations", rows: append(base, rows...)}
}

func TestScanFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "DDR #12.xlsx")

	writeWorkbook(t, path, []sheetData{
		{name: "Cover", rows: [][]string{
			{"WELL ALPHA-7"},
			{"Spud date:", "2026-01-15"},
		}},
		operationsSheet([][]string{
			{"00:00", "06:00", "Drilled 8.5in section, no events"},
			{"06:00", "07:30", "High torque and overpull, worked string down"},
			{"07:30", "", ""},
			{"TOTAL", "", ""},
			{"07:30", "12:00", "Stuck pipe, attempted to work free, mud loss observed"},
		}),
	})

	matches, err := ScanFile(path, RiskKeywords)
	if err != nil {
		t.Fatalf("ScanFile failed: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("got %d matches; want 2: %+v", len(matches), matches)
	}

	first := matches[0]
	if first.ReportNumber != "12" || first.TimeDate != "06:00 to 07:30" {
		t.Errorf("first match = %+v; want report 12 at 06:00 to 07:30", first)
	}
	if !reflect.DeepEqual(first.Risks, []string{"Torque"}) {
		t.Errorf("first match risks = %v; want [Torque]", first.Risks)
	}

	second := matches[1]
	if second.TimeDate != "07:30 to 12:00" {
		t.Errorf("second match time = %q; want %q", second.TimeDate, "07:30 to 12:00")
	}
	if !reflect.DeepEqual(second.Risks, []string{"Stuck", "Mud loss"}) {
		t.Errorf("second match risks = %v; want [Stuck, Mud loss]", second.Risks)
	}
}

func TestScanFileNoOperationsHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.xlsx")

	writeWorkbook(t, path, []sheetData{
		{name: "Totals", rows: [][]string{
			{"Stuck pipe hours", "4"},
		}},
	})

	matches, err := ScanFile(path, RiskKeywords)
	if err != nil {
		t.Fatalf("ScanFile failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches from headerless workbook; want 0", len(matches))
	}
}

func TestScanFolder(t *testing.T) {
	dir := t.TempDir()

	writeWorkbook(t, filepath.Join(dir, "DDR #1.xlsx"), []sheetData{
		operationsSheet([][]string{
			{"06:00", "", "Mud gain noticed on trip tank"},
		}),
	})
	writeWorkbook(t, filepath.Join(dir, "DDR #2.xlsx"), []sheetData{
		operationsSheet([][]string{
			{"01:00", "02:00", "Washout suspected, pressure drop"},
			{"02:00", "03:30", "Kick while drilling, shut in well"},
		}),
	})
	if err := os.WriteFile(filepath.Join(dir, "broken.xlsx"), []byte("not a workbook"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}

	var seen []string
	result, err := ScanFolder(dir, RiskKeywords, func(fr types.FileReport) {
		seen = append(seen, fr.Name)
	})
	if err != nil {
		t.Fatalf("ScanFolder failed: %v", err)
	}

	wantOrder := []string{"DDR #1.xlsx", "DDR #2.xlsx", "broken.xlsx"}
	if !reflect.DeepEqual(seen, wantOrder) {
		t.Errorf("callback order = %v; want %v", seen, wantOrder)
	}

	if len(result.Files) != 3 {
		t.Fatalf("got %d file reports; want 3", len(result.Files))
	}
	if result.Files[0].Matches != 1 || result.Files[0].Err != nil {
		t.Errorf("DDR #1 report = %+v; want 1 match, no error", result.Files[0])
	}
	if result.Files[1].Matches != 2 || result.Files[1].Err != nil {
		t.Errorf("DDR #2 report = %+v; want 2 matches, no error", result.Files[1])
	}
	if result.Files[2].Err == nil {
		t.Error("broken.xlsx scanned without error; want a recoverable failure")
	}

	if len(result.Matches) != 3 {
		t.Fatalf("got %d matches; want 3", len(result.Matches))
	}
	wantReports := []string{"1", "2", "2"}
	for i, m := range result.Matches {
		if m.ReportNumber != wantReports[i] {
			t.Errorf("match %d report = %q; want %q", i, m.ReportNumber, wantReports[i])
		}
	}
}

func TestScanFolderEmpty(t *testing.T) {
	result, err := ScanFolder(t.TempDir(), RiskKeywords, nil)
	if err != nil {
		t.Fatalf("ScanFolder failed: %v", err)
	}
	if len(result.Files) != 0 || len(result.Matches) != 0 {
		t.Errorf("got %+v; want an empty result", result)
	}
}
