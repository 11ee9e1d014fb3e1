package main

import (
	"fmt"
	"os"

	"ddrscan/internal/analyzer"
	"ddrscan/internal/config"
	"ddrscan/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	// Global flags
	verbose    bool
	inputDir   string
	outputFile string
	sheetName  string
	noPreview  bool

	// Logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ddrscan",
	Short: "Scan daily drilling reports for risk keywords",
	Long: `ddrscan reads a folder of daily drilling report workbooks, flags
operation narratives that mention known risk keywords, and writes the
findings to a Risk Analysis spreadsheet.

Run without arguments to scan a folder in one pass, or use the tui
subcommand for an interactive session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it has its own UI)
		if cmd.Name() == "tui" {
			return nil
		}

		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runScan,
}

// tuiCmd runs the interactive folder picker and scan
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Scan interactively with a folder picker",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := tea.NewProgram(ui.InitialModel(resolveConfig(cmd)), tea.WithAltScreen(), tea.WithMouseCellMotion())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running interface: %w", err)
		}
		return nil
	},
}

// keywordsCmd lists the fixed risk keyword set
var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "List the risk keywords the scanner looks for",
	Run: func(cmd *cobra.Command, args []string) {
		for _, kw := range analyzer.RiskKeywords {
			fmt.Println(kw)
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&inputDir, "input", "i", config.DefaultInputDir, "Folder containing report workbooks")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", config.DefaultOutputFile, "Output workbook path")
	rootCmd.PersistentFlags().StringVar(&sheetName, "sheet", config.DefaultSheetName, "Output sheet name")

	rootCmd.Flags().BoolVar(&noPreview, "no-preview", false, "Skip the results table after the scan")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("ddrscan %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(keywordsCmd)
}

func main() {
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
