package cmd

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/chukul/sagectl/internal/ui"
)

var (
	watchInterval time.Duration
	metricsAddr   string
	logFile       string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show a live dashboard of deployed SageMaker endpoints",
	Long: `Show a live dashboard of deployed SageMaker endpoints.

The table is served from the cache and re-rendered every --interval; the
listing is only fetched again once the TTL has passed. Press r to drop the
cache and fetch immediately, q to quit.`,
	Run: func(cmd *cobra.Command, args []string) {
		// The alternate screen owns the terminal, so logs go to a file or nowhere.
		var w io.Writer = io.Discard
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
			if err != nil {
				exitWithError(err)
			}
			defer f.Close()
			w = f
		}

		a, err := setup(w)
		if err != nil {
			exitWithError(err)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if metricsAddr != "" {
			srv := &http.Server{
				Addr:              metricsAddr,
				Handler:           promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					level.Error(a.logger).Log("msg", "metrics server failed", "addr", metricsAddr, "err", err)
				}
			}()
			defer srv.Close()
		}

		interval := watchInterval
		if interval <= 0 {
			interval = a.cfg.RefreshInterval
		}

		p := tea.NewProgram(ui.NewDashboard(ctx, a.cache, interval), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			exitWithError(err)
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "How often the table is re-rendered (default 30s)")
	watchCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9102")
	watchCmd.Flags().StringVar(&logFile, "log-file", "", "Append logs to this file while the dashboard runs")
	rootCmd.AddCommand(watchCmd)
}
