package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/cord19/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set cord19 configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "source_path: %s\n", cfg.SourcePath)
		fmt.Fprintf(out, "clean_path: %s\n", cfg.CleanPath)
		fmt.Fprintf(out, "sample_rows: %d\n", cfg.SampleRows)
		fmt.Fprintf(out, "top_journals: %d\n", cfg.TopJournals)
		fmt.Fprintf(out, "top_words: %d\n", cfg.TopWords)
		fmt.Fprintf(out, "min_word_len: %d\n", cfg.MinWordLen)
		fmt.Fprintf(out, "default_year_lo: %d\n", cfg.DefaultYearLo)
		fmt.Fprintf(out, "default_year_hi: %d\n", cfg.DefaultYearHi)
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(out, "rate_limit_rps: %.3f\n", cfg.RateLimitRPS)
		fmt.Fprintf(out, "rate_limit_burst: %d\n", cfg.RateLimitBurst)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		ints := map[string]*int{
			"sample_rows":      &cfg.SampleRows,
			"top_journals":     &cfg.TopJournals,
			"top_words":        &cfg.TopWords,
			"min_word_len":     &cfg.MinWordLen,
			"default_year_lo":  &cfg.DefaultYearLo,
			"default_year_hi":  &cfg.DefaultYearHi,
			"rate_limit_burst": &cfg.RateLimitBurst,
		}
		strs := map[string]*string{
			"source_path": &cfg.SourcePath,
			"clean_path":  &cfg.CleanPath,
			"listen_addr": &cfg.ListenAddr,
			"log_level":   &cfg.LogLevel,
			"log_format":  &cfg.LogFormat,
		}
		switch {
		case ints[key] != nil:
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			*ints[key] = i
		case strs[key] != nil:
			*strs[key] = val
		case key == "rate_limit_rps":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for rate_limit_rps: %w", err)
			}
			cfg.RateLimitRPS = f
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
