package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/cord19/internal/dashboard"
	"github.com/spf13/cobra"
)

var (
	srvAddr     string
	srvDataPath string
	srvRPS      float64
	srvBurst    int
	srvPreview  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interactive dashboard over the cleaned table",
	Long: `serve loads the cleaned table once and starts an HTTP dashboard with a
year-range selector, publications-by-year and top-journal charts and a preview
of the matching rows. JSON endpoints live under /api, live updates under /ws and
Prometheus metrics under /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		addr, path := cfg.ListenAddr, cfg.CleanPath
		rps, burst := cfg.RateLimitRPS, cfg.RateLimitBurst
		if f.Changed("addr") {
			addr = srvAddr
		}
		if f.Changed("data") {
			path = srvDataPath
		}
		if f.Changed("rps") {
			rps = srvRPS
		}
		if f.Changed("burst") {
			burst = srvBurst
		}
		log := logger(cmd)

		srv, err := dashboard.NewServer(dashboard.NewSession(path), dashboard.Options{
			TopJournals:  cfg.TopJournals,
			PreviewRows:  srvPreview,
			DefaultRange: dashboard.Range{Lo: cfg.DefaultYearLo, Hi: cfg.DefaultYearHi},
			RateRPS:      rps,
			RateBurst:    burst,
			Logger:       log,
		})
		if err != nil {
			return err
		}
		b := srv.Bounds()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving %s (years %d-%d) on http://%s\n", path, b.Min, b.Max, addr)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "127.0.0.1:8501", "listen address (overrides config listen_addr)")
	serveCmd.Flags().StringVar(&srvDataPath, "data", "", "cleaned table to serve (default from config clean_path)")
	serveCmd.Flags().Float64Var(&srvRPS, "rps", 20, "API requests per second for the API as a whole, 0 disables limiting")
	serveCmd.Flags().IntVar(&srvBurst, "burst", 40, "API burst size for the API as a whole")
	serveCmd.Flags().IntVar(&srvPreview, "preview-rows", 5, "rows shown in the data preview")
}
