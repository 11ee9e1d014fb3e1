package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"ddrscan/internal/types"
)

// Banner renders the heading printed before a batch run.
func Banner(inputDir, outputFile string, keywordCount int) string {
	title := TitleStyle.Render("DDR Risk Scanner")
	details := strings.Join([]string{
		fmt.Sprintf("Input folder: %s", inputDir),
		fmt.Sprintf("Output file: %s", outputFile),
		fmt.Sprintf("Keywords: %d defined", keywordCount),
	}, "\n")
	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(details))
}

// FileLine renders the progress lines for one scanned workbook.
func FileLine(fr types.FileReport) string {
	if fr.Err != nil {
		return WarnStyle.Render(fmt.Sprintf("Skipping %s: %v", fr.Name, fr.Err))
	}

	count := fmt.Sprintf("  Found %d risk entries", fr.Matches)
	if fr.Matches > 0 {
		count = SuccessStyle.Render(count)
	} else {
		count = MutedStyle.Render(count)
	}
	return fmt.Sprintf("Processing: %s\n%s", fr.Name, count)
}

// Summary renders the end-of-run totals.
func Summary(result *types.ScanResult) string {
	scanned, skipped := 0, 0
	for _, fr := range result.Files {
		if fr.Err != nil {
			skipped++
		} else {
			scanned++
		}
	}

	line := fmt.Sprintf("Scanned %d files, %d risk entries", scanned, len(result.Matches))
	if skipped > 0 {
		line += fmt.Sprintf(" (%d files skipped)", skipped)
	}
	return TitleStyle.Render(line)
}

// Saved renders the output confirmation.
func Saved(path, sheet string) string {
	return SuccessStyle.Render(fmt.Sprintf("Results written to %s (sheet %q)", path, sheet))
}

// NoMatches renders the empty-result notice.
func NoMatches() string {
	return MutedStyle.Render("No risk keywords found in any files.")
}

// MatchTable renders matches as a bordered terminal table.
func MatchTable(matches []types.Match) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(TableBorderStyle).
		Headers("Report Number", "Time/Date", "Risks")

	for _, m := range matches {
		t.Row(m.ReportNumber, m.TimeDate, strings.Join(m.Risks, ", "))
	}
	return t.String()
}
