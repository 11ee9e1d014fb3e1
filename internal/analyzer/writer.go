package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ddrscan/internal/types"

	"github.com/xuri/excelize/v2"
)

// ResultHeader is the column layout of the output sheet.
var ResultHeader = []string{"Report Number", "Time/Date", "Risks"}

// WriteResults writes the match table to path under the named sheet. A
// missing file is created with that sheet alone; in an existing file the
// sheet is replaced outright while sibling sheets are kept. An empty
// table writes nothing.
func WriteResults(matches []types.Match, path, sheet string) error {
	if len(matches) == 0 {
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, created, err := openOutput(path, sheet)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := writeTable(f, sheet, matches); err != nil {
		return err
	}

	if created {
		return f.SaveAs(path)
	}
	return f.Save()
}

// openOutput readies a workbook holding an empty target sheet, reporting
// whether the file still needs to be created on disk.
func openOutput(path, sheet string) (*excelize.File, bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f := excelize.NewFile()
		if def := f.GetSheetName(0); def != sheet {
			if err := f.SetSheetName(def, sheet); err != nil {
				f.Close()
				return nil, false, err
			}
		}
		return f, true, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("opening existing output: %w", err)
	}
	if err := resetSheet(f, sheet); err != nil {
		f.Close()
		return nil, false, err
	}
	return f, false, nil
}

// resetSheet guarantees an empty sheet of the given name. Existing
// contents are removed row by row: DeleteSheet cannot drop a workbook's
// last sheet, so clearing keeps the replace semantics uniform.
func resetSheet(f *excelize.File, sheet string) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx == -1 {
		_, err := f.NewSheet(sheet)
		return err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	for row := len(rows); row >= 1; row-- {
		if err := f.RemoveRow(sheet, row); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, matches []types.Match) error {
	for col, name := range ResultHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}

	for i, m := range matches {
		row := []string{m.ReportNumber, m.TimeDate, strings.Join(m.Risks, ", ")}
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
