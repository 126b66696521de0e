package cmd

import (
	"fmt"

	"github.com/KaramelBytes/cord19/internal/analysis"
	"github.com/KaramelBytes/cord19/internal/dataset"
	"github.com/KaramelBytes/cord19/internal/utils"
	"github.com/spf13/cobra"
)

var (
	expOutputPath string
	expDelimiter  string
	expSheetName  string
	expSampleRows int
	expMaxRows    int
	expMissingTop int
)

var exploreCmd = &cobra.Command{
	Use:   "explore [source]",
	Short: "Profile the raw metadata table: shape, column kinds, missing values, numeric summary",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.SourcePath
		if len(args) == 1 {
			path = args[0]
		}
		delim, err := parseDelimiter(expDelimiter)
		if err != nil {
			return err
		}
		tbl, err := dataset.ReadTable(path, dataset.ReadOptions{Delimiter: delim, Sheet: expSheetName, MaxRows: expMaxRows})
		if err != nil {
			return err
		}
		opt := analysis.DefaultProfileOptions()
		opt.SampleRows = cfg.SampleRows
		if cmd.Flags().Changed("sample-rows") {
			opt.SampleRows = expSampleRows
		}
		if expMissingTop >= 0 {
			opt.MissingColumns = expMissingTop
		}
		md := analysis.ProfileTable(tbl, opt).Markdown()

		if expOutputPath != "" {
			if err := utils.SafeWriteFile(expOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote profile to %s\n", expOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	exploreCmd.Flags().StringVarP(&expOutputPath, "output", "o", "", "optional path to write the profile (Markdown)")
	exploreCmd.Flags().StringVar(&expDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (by extension if omitted)")
	exploreCmd.Flags().StringVar(&expSheetName, "sheet-name", "", "XLSX: sheet name to read (first sheet if omitted)")
	exploreCmd.Flags().IntVar(&expSampleRows, "sample-rows", 5, "number of leading rows to include (overrides config)")
	exploreCmd.Flags().IntVar(&expMaxRows, "max-rows", 0, "maximum rows to read (0 = unlimited)")
	exploreCmd.Flags().IntVar(&expMissingTop, "missing-top", 10, "list missing counts for the first N columns (0 = all)")
}
