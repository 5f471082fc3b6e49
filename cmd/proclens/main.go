package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/srodi/proclens/pkg/config"
	"github.com/srodi/proclens/pkg/metrics"
	"github.com/srodi/proclens/pkg/monitor"
	"github.com/srodi/proclens/pkg/source"
)

var (
	// Global flags
	configPath   string
	interval     time.Duration
	cpuAlert     float64
	memAlertMB   float64
	alertTrigger int
	alertTimeout time.Duration
	catalogPath  string
	verbose      bool

	cfg      *config.Config
	registry *prometheus.Registry
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "proclens",
		Short: "Process usage monitor with grouping and high-usage alerts",
		Long: `Sample every process on the host, classify it into overlapping groups and
flag processes that stay over the CPU or memory alert threshold.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
		RunE:              runWatch,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML config file")
	flags.DurationVar(&interval, "interval", config.DefaultInterval, "sampling interval (e.g. 1s, 500ms)")
	flags.Float64Var(&cpuAlert, "cpu-alert", 0, "CPU percent that counts towards an alert")
	flags.Float64Var(&memAlertMB, "mem-alert", 0, "resident MB that counts towards an alert")
	flags.IntVar(&alertTrigger, "alert-trigger", 0, "consecutive ticks over threshold before an alert fires")
	flags.DurationVar(&alertTimeout, "alert-timeout", 0, "how long a fired alert stays visible")
	flags.StringVar(&catalogPath, "catalog", "", "YAML catalog of process names for the name-based groups")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log processes whose details cannot be read")

	addWatchFlags(rootCmd)
	rootCmd.AddCommand(
		newWatchCmd(),
		newGroupsCmd(),
		newAlertsCmd(),
		newKillCmd(),
		newSuspendCmd(),
		newResumeCmd(),
		newReniceCmd(),
	)
	return rootCmd
}

// loadConfig layers defaults, environment, the config file and finally any
// flag the user set explicitly.
func loadConfig(cmd *cobra.Command, args []string) error {
	cfg = config.NewConfig()
	if configPath != "" {
		if err := cfg.LoadFile(configPath); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("interval") {
		cfg.Interval = interval
	}
	if flags.Changed("cpu-alert") {
		cfg.CPUAlertThreshold = cpuAlert
	}
	if flags.Changed("mem-alert") {
		cfg.MemoryAlertMB = memAlertMB
	}
	if flags.Changed("alert-trigger") {
		cfg.AlertTriggerCount = alertTrigger
	}
	if flags.Changed("alert-timeout") {
		cfg.AlertTimeout = alertTimeout
	}
	if flags.Changed("catalog") {
		cfg.CatalogPath = catalogPath
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	return cfg.Validate()
}

func newMonitor(ctx context.Context) (*monitor.Monitor, error) {
	host, err := source.NewHost(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing process source: %w", err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}

	registry = prometheus.NewRegistry()
	rec, err := metrics.New(registry)
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	return monitor.New(monitor.Options{
		Source:     host,
		Alert:      cfg.Alert(),
		Thresholds: cfg.Thresholds(),
		Catalog:    catalog,
		Metrics:    rec,
		Logger:     log.Default(),
		Verbose:    cfg.Verbose,
	})
}

// prime runs n ticks one interval apart so CPU figures have a baseline.
func prime(ctx context.Context, mon *monitor.Monitor, n int) error {
	for i := 0; i < n; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cfg.Interval):
			}
		}
		if err := mon.Update(ctx); err != nil {
			return err
		}
	}
	return nil
}
