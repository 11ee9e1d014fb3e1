package ui

import (
	"fmt"
	"os"
	"strings"

	"ddrscan/internal/analyzer"
	"ddrscan/internal/config"
	"ddrscan/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateFolderPicker state = iota
	stateScanning
	stateComplete
	stateError
)

// recentLines bounds the per-file log shown while scanning.
const recentLines = 5

type Model struct {
	state       state
	filepicker  filepicker.Model
	cfg         *config.Config
	selectedDir string
	result      *types.ScanResult
	err         error
	width       int
	height      int
	progress    progress.Model
	table       table.Model
	processed   int
	total       int
	recent      []string
	fileChan    chan types.FileReport
	resultChan  chan scanResultMsg
}

type scanResultMsg struct {
	result *types.ScanResult
	err    error
}

type scanStartedMsg struct {
	total int
}

type fileReportMsg types.FileReport

type scanCompleteMsg struct {
	result *types.ScanResult
	err    error
}

type waitForScanMsg struct{}

func InitialModel(cfg *config.Config) Model {
	fp := filepicker.New()
	fp.DirAllowed = true
	fp.FileAllowed = false
	fp.AllowedTypes = []string{".xlsx", ".xls"}

	fp.CurrentDirectory = cfg.InputDir
	if info, err := os.Stat(fp.CurrentDirectory); err != nil || !info.IsDir() {
		fp.CurrentDirectory, _ = os.Getwd()
	}

	// Set filepicker colors to match theme
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#38BDF8"))
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#38BDF8"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E7EB"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#38BDF8")).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	prog := progress.New(progress.WithGradient("#38BDF8", "#4ADE80"))

	return Model{
		state:      stateFolderPicker,
		filepicker: fp,
		cfg:        cfg,
		progress:   prog,
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for the title, subtitle, and help text
		height := msg.Height - 10
		if height < 5 {
			height = 5
		}
		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFolderPicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case stateScanning:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}

		case stateComplete:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd

		case stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case scanStartedMsg:
		m.total = msg.total
		return m, nil

	case fileReportMsg:
		if m.state != stateScanning {
			return m, nil
		}
		m.processed++
		m.recent = append(m.recent, FileLine(types.FileReport(msg)))
		if len(m.recent) > recentLines {
			m.recent = m.recent[len(m.recent)-recentLines:]
		}

		percent := 1.0
		if m.total > 0 {
			percent = float64(m.processed) / float64(m.total)
		}
		cmd := m.progress.SetPercent(percent)
		return m, tea.Batch(cmd, waitForScan(m.fileChan, m.resultChan))

	case scanCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.table = buildMatchTable(msg.result.Matches)
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case waitForScanMsg:
		return m, waitForScan(m.fileChan, m.resultChan)
	}

	// Handle filepicker updates
	if m.state == stateFolderPicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedDir = path
			m.state = stateScanning
			return m.startScan(path)
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) startScan(dir string) (Model, tea.Cmd) {
	m.fileChan = make(chan types.FileReport, 100)
	m.resultChan = make(chan scanResultMsg, 1)

	// Capture for the goroutine
	fileChan := m.fileChan
	resultChan := m.resultChan
	outputFile := m.cfg.OutputFile
	sheetName := m.cfg.SheetName

	cmd := tea.Batch(
		func() tea.Msg {
			files, err := analyzer.ListReportFiles(dir)
			if err != nil {
				resultChan <- scanResultMsg{err: err}
				close(fileChan)
				close(resultChan)
				return waitForScanMsg{}
			}

			go func() {
				result, err := analyzer.ScanFolder(dir, analyzer.RiskKeywords, func(fr types.FileReport) {
					fileChan <- fr
				})
				if err == nil {
					err = analyzer.WriteResults(result.Matches, outputFile, sheetName)
				}

				resultChan <- scanResultMsg{result: result, err: err}

				close(fileChan)
				close(resultChan)
			}()

			return scanStartedMsg{total: len(files)}
		},
		waitForScan(m.fileChan, m.resultChan),
		m.progress.Init(), // Start progress bar animation
	)

	return m, cmd
}

func waitForScan(fileChan chan types.FileReport, resultChan chan scanResultMsg) tea.Cmd {
	return func() tea.Msg {
		if fileChan == nil {
			return nil
		}

		fr, ok := <-fileChan
		if !ok {
			// File channel closed, check result
			res, ok := <-resultChan
			if ok {
				return scanCompleteMsg(res)
			}
			return nil
		}

		return fileReportMsg(fr)
	}
}

func buildMatchTable(matches []types.Match) table.Model {
	columns := []table.Column{
		{Title: "Report Number", Width: 14},
		{Title: "Time/Date", Width: 26},
		{Title: "Risks", Width: 36},
	}

	rows := make([]table.Row, 0, len(matches))
	for _, match := range matches {
		rows = append(rows, table.Row{match.ReportNumber, match.TimeDate, strings.Join(match.Risks, ", ")})
	}

	height := len(rows)
	if height > 10 {
		height = 10
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height+1),
		table.WithFocused(true),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("#38BDF8"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#0F172A")).Background(lipgloss.Color("#38BDF8"))
	t.SetStyles(styles)

	return t
}

func (m Model) View() string {
	switch m.state {
	case stateFolderPicker:
		return m.viewFolderPicker()
	case stateScanning:
		return m.viewScanning()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFolderPicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("DDR Risk Scanner"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select a folder of daily drilling reports"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("enter: select folder • q: quit"))

	return s.String()
}

func (m Model) viewScanning() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Scanning..."))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Folder: %s\n", m.selectedDir))
	s.WriteString(fmt.Sprintf("Files: %d/%d\n", m.processed, m.total))
	s.WriteString("\n")
	s.WriteString(m.progress.View())

	if len(m.recent) > 0 {
		s.WriteString("\n\n")
		s.WriteString(strings.Join(m.recent, "\n"))
	}

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Scan Complete"))
	s.WriteString("\n\n")

	scanned, skipped := 0, 0
	for _, fr := range m.result.Files {
		if fr.Err != nil {
			skipped++
		} else {
			scanned++
		}
	}

	s.WriteString(fmt.Sprintf("Files scanned: %d\n", scanned))
	if skipped > 0 {
		s.WriteString(WarnStyle.Render(fmt.Sprintf("Files skipped: %d", skipped)))
		s.WriteString("\n")
	}
	s.WriteString(fmt.Sprintf("Risk entries: %d\n", len(m.result.Matches)))
	s.WriteString("\n")

	if len(m.result.Matches) == 0 {
		s.WriteString(NoMatches())
		s.WriteString("\n")
	} else {
		// Truncate the path if it's too long
		outputPath := m.cfg.OutputFile
		maxPathLen := m.width - 20
		if maxPathLen < 30 {
			maxPathLen = 30
		}
		if len(outputPath) > maxPathLen {
			outputPath = "..." + outputPath[len(outputPath)-maxPathLen+3:]
		}

		s.WriteString(SuccessStyle.Render(fmt.Sprintf("Saved to %s", outputPath)))
		s.WriteString("\n\n")
		s.WriteString(m.table.View())
		s.WriteString("\n")
	}

	s.WriteString(HelpStyle.Render("↑/↓: scroll results • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}
