package cmd

import (
	"fmt"

	"github.com/KaramelBytes/cord19/internal/analysis"
	"github.com/KaramelBytes/cord19/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	runOutputPath  string
	runReportPath  string
	runDelimiter   string
	runSheetName   string
	runSkipExplore bool
)

var runPipelineCmd = &cobra.Command{
	Use:   "run [source]",
	Short: "Run the whole pipeline: explore, clean, save and report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := cleanOptionsFrom(args, runOutputPath, runDelimiter, runSheetName, true)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		log := logger(cmd)

		src, err := dataset.ReadTable(opt.Source, opt.Read)
		if err != nil {
			return err
		}
		rows, cols := src.Shape()
		fmt.Fprintf(out, "✓ Loaded %d rows and %d columns from %s\n\n", rows, cols, opt.Source)
		if !runSkipExplore {
			popt := analysis.DefaultProfileOptions()
			popt.SampleRows = cfg.SampleRows
			fmt.Fprintln(out, analysis.ProfileTable(src, popt).Markdown())
		}

		cleaned, err := cleanAndSave(out, src, opt)
		if err != nil {
			return err
		}
		log.Debug("pipeline cleaned", "rows", cleaned.Len(), "output", opt.Output)

		fmt.Fprintln(out)
		r := analysis.Build(opt.Output, cleaned, reportOptionsFromFlags(cmd))
		return emitReport(out, r, reportOutputs{
			Markdown: runReportPath, SVGDir: repSVGDir, XLSX: repXLSXPath, Width: repWidth,
		})
	},
}

func init() {
	rootCmd.AddCommand(runPipelineCmd)
	runPipelineCmd.Flags().StringVarP(&runOutputPath, "output", "o", "", "path of the cleaned table (default from config clean_path)")
	runPipelineCmd.Flags().StringVar(&runReportPath, "report", "", "optional path to write the report (Markdown)")
	runPipelineCmd.Flags().StringVar(&runDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (by extension if omitted)")
	runPipelineCmd.Flags().StringVar(&runSheetName, "sheet-name", "", "XLSX: sheet name to read (first sheet if omitted)")
	runPipelineCmd.Flags().BoolVar(&runSkipExplore, "skip-explore", false, "do not print the exploration profile")
	addReportFlags(runPipelineCmd)
}
