package main

import (
	"fmt"
	"os"

	"ddrscan/internal/analyzer"
	"ddrscan/internal/config"
	"ddrscan/internal/types"
	"ddrscan/internal/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// previewLimit caps the match table printed after a batch run.
const previewLimit = 15

// resolveConfig layers command-line flags over environment settings.
func resolveConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	if cmd.Flags().Changed("input") {
		cfg.InputDir = inputDir
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputFile = outputFile
	}
	if cmd.Flags().Changed("sheet") {
		cfg.SheetName = sheetName
	}
	return cfg
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := resolveConfig(cmd)

	info, err := os.Stat(cfg.InputDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("input folder %q does not exist", cfg.InputDir)
	}

	fmt.Println(ui.Banner(cfg.InputDir, cfg.OutputFile, len(analyzer.RiskKeywords)))
	logger.Debug("starting scan",
		zap.String("input", cfg.InputDir),
		zap.String("output", cfg.OutputFile),
		zap.String("sheet", cfg.SheetName))

	result, err := analyzer.ScanFolder(cfg.InputDir, analyzer.RiskKeywords, func(fr types.FileReport) {
		fmt.Println(ui.FileLine(fr))
		if fr.Err != nil {
			logger.Warn("skipping file", zap.String("file", fr.Name), zap.Error(fr.Err))
		}
	})
	if err != nil {
		return fmt.Errorf("scanning %s: %w", cfg.InputDir, err)
	}

	fmt.Println(ui.Summary(result))

	if len(result.Matches) == 0 {
		fmt.Println(ui.NoMatches())
		return nil
	}

	if err := analyzer.WriteResults(result.Matches, cfg.OutputFile, cfg.SheetName); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	fmt.Println(ui.Saved(cfg.OutputFile, cfg.SheetName))

	if !noPreview {
		preview := result.Matches
		if len(preview) > previewLimit {
			preview = preview[:previewLimit]
		}
		fmt.Println(ui.MatchTable(preview))
		if rest := len(result.Matches) - len(preview); rest > 0 {
			fmt.Println(ui.MutedStyle.Render(fmt.Sprintf("and %d more entries in the output file", rest)))
		}
	}

	return nil
}
