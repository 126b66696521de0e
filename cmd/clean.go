package cmd

import (
	"fmt"

	"github.com/KaramelBytes/cord19/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	clnOutputPath string
	clnDelimiter  string
	clnSheetName  string
	clnNoManifest bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean [source]",
	Short: "Drop incomplete records, derive year and abstract length, save the cleaned table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := cleanOptionsFrom(args, clnOutputPath, clnDelimiter, clnSheetName, !clnNoManifest)
		if err != nil {
			return err
		}
		log := logger(cmd)
		src, err := dataset.ReadTable(opt.Source, opt.Read)
		if err != nil {
			return err
		}
		rows, cols := src.Shape()
		log.Debug("source loaded", "path", opt.Source, "rows", rows, "cols", cols)
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Loaded %d rows and %d columns from %s\n", rows, cols, opt.Source)
		_, err = cleanAndSave(cmd.OutOrStdout(), src, opt)
		return err
	},
}

// cleanOptionsFrom resolves source and output paths from args, flags and config.
func cleanOptionsFrom(args []string, output, delimiter, sheet string, manifest bool) (cleanOptions, error) {
	opt := cleanOptions{
		Source:     cfg.SourcePath,
		Output:     cfg.CleanPath,
		SampleRows: cfg.SampleRows,
		Manifest:   manifest,
	}
	if len(args) == 1 {
		opt.Source = args[0]
	}
	if output != "" {
		opt.Output = output
	}
	delim, err := parseDelimiter(delimiter)
	if err != nil {
		return opt, err
	}
	opt.Read = dataset.ReadOptions{Delimiter: delim, Sheet: sheet}
	return opt, nil
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&clnOutputPath, "output", "o", "", "path of the cleaned table (default from config clean_path)")
	cleanCmd.Flags().StringVar(&clnDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (by extension if omitted)")
	cleanCmd.Flags().StringVar(&clnSheetName, "sheet-name", "", "XLSX: sheet name to read (first sheet if omitted)")
	cleanCmd.Flags().BoolVar(&clnNoManifest, "no-manifest", false, "do not write the <output>.manifest.json sidecar")
}
