package cmd

import (
	"fmt"

	"github.com/KaramelBytes/cord19/internal/analysis"
	"github.com/KaramelBytes/cord19/internal/dataset"
	"github.com/KaramelBytes/cord19/internal/utils"
	"github.com/spf13/cobra"
)

var (
	repOutputPath  string
	repSVGDir      string
	repXLSXPath    string
	repWidth       int
	repTopJournals int
	repTopWords    int
	repMinWordLen  int
)

var reportCmd = &cobra.Command{
	Use:   "report [cleaned]",
	Short: "Publications by year, top journals and frequent title words of the cleaned table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.CleanPath
		if len(args) == 1 {
			path = args[0]
		}
		if !utils.FileExists(path) {
			return fmt.Errorf("cleaned table %s not found; run 'cord19 clean' first", path)
		}
		t, err := dataset.LoadCleaned(path)
		if err != nil {
			return err
		}
		r := analysis.Build(path, t, reportOptionsFromFlags(cmd))
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Loaded %d cleaned rows from %s\n\n", t.Len(), path)
		return emitReport(cmd.OutOrStdout(), r, reportOutputs{
			Markdown: repOutputPath, SVGDir: repSVGDir, XLSX: repXLSXPath, Width: repWidth,
		})
	},
}

// reportOptionsFromFlags applies changed report flags over config.
func reportOptionsFromFlags(cmd *cobra.Command) analysis.Options {
	opt := reportOptions()
	f := cmd.Flags()
	if f.Changed("top-journals") && repTopJournals > 0 {
		opt.TopJournals = repTopJournals
	}
	if f.Changed("top-words") && repTopWords > 0 {
		opt.TopWords = repTopWords
	}
	if f.Changed("min-word-len") && repMinWordLen > 0 {
		opt.MinWordLen = repMinWordLen
	}
	return opt
}

func addReportFlags(c *cobra.Command) {
	c.Flags().StringVar(&repSVGDir, "svg-dir", "", "directory to write the charts as SVG files")
	c.Flags().StringVar(&repXLSXPath, "xlsx", "", "path to write the aggregates as an XLSX workbook")
	c.Flags().IntVar(&repWidth, "width", 80, "terminal chart width in columns")
	c.Flags().IntVar(&repTopJournals, "top-journals", 10, "number of journals to rank (overrides config)")
	c.Flags().IntVar(&repTopWords, "top-words", 15, "number of title words to rank (overrides config)")
	c.Flags().IntVar(&repMinWordLen, "min-word-len", 4, "minimum title word length (overrides config)")
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&repOutputPath, "output", "o", "", "optional path to write the report (Markdown)")
	addReportFlags(reportCmd)
}
