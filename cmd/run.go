package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/netsim/hostsched/internal/config"
	"github.com/netsim/hostsched/internal/harness"
	"github.com/netsim/hostsched/internal/metrics"
	"github.com/netsim/hostsched/internal/scheduler"
)

var (
	configPath  string
	logLevel    string
	workers     int
	hosts       int
	rounds      int
	metricsAddr string
)

// runCmd builds a SchedulerPolicy, a synthetic multi-host workload, and
// a worker pool, runs it to completion, and prints a summary.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the host-scheduler demo harness",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}
			cfg = loaded
		}

		if cmd.Flags().Changed("log") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("workers") {
			cfg.Workers = workers
		}
		if cmd.Flags().Changed("hosts") {
			cfg.Hosts = hosts
		}
		if cmd.Flags().Changed("rounds") {
			cfg.Rounds = rounds
		}
		if cmd.Flags().Changed("metrics-addr") {
			cfg.MetricsAddr = metricsAddr
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("run: %w", err)
		}

		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", cfg.LogLevel)
		}
		logrus.SetLevel(level)

		collector, err := metrics.NewSchedulerCollector(nil)
		if err != nil {
			return fmt.Errorf("run: registering metrics: %w", err)
		}

		if cfg.MetricsAddr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			server := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logrus.WithError(err).Error("metrics server stopped")
				}
			}()
			logrus.Infof("serving metrics on %s/metrics", cfg.MetricsAddr)
		}

		logrus.WithFields(logrus.Fields{
			"workers": cfg.Workers,
			"hosts":   cfg.Hosts,
			"rounds":  cfg.Rounds,
		}).Info("starting host-scheduler run")

		start := time.Now()
		summary, err := harness.Run(context.Background(), cfg, collector)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		elapsed := time.Since(start)

		fmt.Printf("rounds:              %d\n", summary.Rounds)
		fmt.Printf("events processed:    %d\n", summary.EventsProcessed)
		fmt.Printf("cross-host pushes:   %d\n", summary.CrossHostPushes)
		fmt.Printf("final barrier:       %d\n", uint64(summary.FinalBarrier))
		if summary.NextEmulatedTime == scheduler.EmuTimeInvalid {
			fmt.Printf("next pending event:  none\n")
		} else {
			fmt.Printf("next pending event:  %d (emulated)\n", uint64(summary.NextEmulatedTime))
		}
		fmt.Printf("wall time:           %s\n", elapsed)

		logrus.Info("run complete")
		return nil
	},
}

func init() {
	def := config.Default()

	runCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML run configuration file")
	runCmd.Flags().StringVar(&logLevel, "log", def.LogLevel, "log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().IntVar(&workers, "workers", def.Workers, "number of worker goroutines")
	runCmd.Flags().IntVar(&hosts, "hosts", def.Hosts, "number of synthetic hosts (ignored when the config file sets pins)")
	runCmd.Flags().IntVar(&rounds, "rounds", def.Rounds, "number of barrier rounds to run")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", def.MetricsAddr, "address to serve Prometheus /metrics on, empty to disable")

	rootCmd.AddCommand(runCmd)
}
