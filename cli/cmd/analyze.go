package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fluxbase-eu/absref/cli/bundler"
	"github.com/fluxbase-eu/absref/cli/output"
)

var analyzeDetails bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [entry]...",
	Short: "Show bundle size and how each import resolved",
	Long: `Bundle entries in memory and report module sizes and resolved import
edges. Without arguments the configured bundle entry is analyzed.

Examples:
  absref analyze
  absref analyze src/index.js src/worker.js --details`,
	PreRunE: loadConfig,
	RunE:    runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeDetails, "details", false, "list every module and relative import")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	r, err := newResolver()
	if err != nil {
		return err
	}

	entries := args
	if len(entries) == 0 {
		entries = []string{cfg.Bundle.Entry}
	}

	b := bundler.NewBundler(r, cfg.Dir(), log.Logger)
	analyzer := bundler.NewAnalyzer(cfg.Dir())

	results := make([]*bundler.AnalysisResult, 0, len(entries))
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		metafile, err := b.BuildMetafile(cfg.Abs(entry))
		if err != nil {
			return err
		}
		result, err := analyzer.Analyze(filepath.ToSlash(entry), metafile)
		if err != nil {
			return err
		}
		results = append(results, result)
	}

	if len(results) == 0 {
		return fmt.Errorf("no entry to analyze: pass one or set bundle.entry")
	}

	if formatter.Format != output.FormatTable {
		return formatter.Print(results)
	}
	if formatter.Quiet {
		return nil
	}

	w := cmd.OutOrStdout()
	for _, result := range results {
		bundler.DisplayAnalysis(w, result, analyzeDetails)
	}
	if len(results) > 1 {
		bundler.DisplaySummary(w, results)
	}
	return nil
}
