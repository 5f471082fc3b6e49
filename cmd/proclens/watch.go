package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/srodi/proclens/pkg/group"
	"github.com/srodi/proclens/pkg/monitor"
	"github.com/srodi/proclens/pkg/report"
	"github.com/srodi/proclens/pkg/types"
	"github.com/srodi/proclens/pkg/ui"
)

type viewConfig struct {
	topK       int
	hideSystem bool
	query      string
	sortBy     string
	group      string
	metricsOut string
}

var view viewConfig

func addWatchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&view.topK, "topk", types.DefaultTopK, "number of processes to display per section")
	f.BoolVar(&view.hideSystem, "hide-system", true, "hide kernel threads and other system processes")
	f.StringVar(&view.query, "filter", "", "only show processes whose name contains this text or whose pid matches")
	f.StringVar(&view.sortBy, "sort", string(report.SortCPU), "order of the process table: cpu, memory, pid, name, priority")
	f.StringVar(&view.group, "group", group.Default.String(), "restrict the process table to one group")
	f.StringVar(&view.metricsOut, "metrics-out", "", "write Prometheus text metrics to this file on exit")
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view of the busiest processes and active alerts",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
	addWatchFlags(cmd)
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	sortKey, err := report.ParseSortKey(view.sortBy)
	if err != nil {
		return err
	}
	g, err := group.Parse(view.group)
	if err != nil {
		return err
	}
	if view.topK <= 0 {
		view.topK = 1
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	mon, err := newMonitor(ctx)
	if err != nil {
		return err
	}
	defer writeMetrics(view.metricsOut)

	cleanupTerminal := enableSingleView()
	defer cleanupTerminal()

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		if err := mon.Update(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("update failed: %v", err)
		} else {
			var buf bytes.Buffer
			render(&buf, mon, g, sortKey, time.Now())
			clearScreen()
			fmt.Print(buf.String())
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// snapshot is the part of the monitor the renderer reads.
type snapshot interface {
	ProcessesByGroup(g group.Group) []types.ProcessSample
	HighUsageProcesses() []types.ProcessSample
	TotalCPUUsage() float64
	TotalMemoryUsage() uint64
	TotalMemoryAvailable() uint64
}

var _ snapshot = (*monitor.Monitor)(nil)

func render(buf *bytes.Buffer, snap snapshot, g group.Group, sortKey report.SortKey, now time.Time) {
	filterCfg := report.FilterConfig{HideSystem: &view.hideSystem, Query: view.query}
	rows := report.Filter(snap.ProcessesByGroup(g), filterCfg)
	thresholds := cfg.Thresholds()
	focus := report.SelectFocusCandidate(rows, thresholds)

	buf.WriteString(ui.Banner())
	buf.WriteString("\n")
	fmt.Fprintf(buf, "proclens (press Ctrl+C to exit)\n")
	fmt.Fprintf(buf, "Updated: %s | Interval: %v | Group: %s\n\n", now.Format(time.RFC3339), cfg.Interval, g)

	memPct := 0.0
	if total := snap.TotalMemoryAvailable(); total > 0 {
		memPct = 100 * float64(snap.TotalMemoryUsage()) / float64(total)
	}
	fmt.Fprintln(buf, ui.Meter("cpu", snap.TotalCPUUsage(), 30))
	fmt.Fprintln(buf, ui.Meter("mem", memPct, 30))
	buf.WriteString("\n")

	if focus != nil {
		fmt.Fprintf(buf, "[!] Focus: %s (pid %d)\n", focus.Name, focus.PID)
		fmt.Fprintf(buf, "   Reason: %s - %s\n\n", report.Diagnose(*focus, thresholds), report.FocusSummary(*focus, thresholds))
	} else if len(rows) == 0 {
		fmt.Fprintf(buf, "[!] No processes matched current filters (group=%s, filter=%q, hide-system=%t)\n\n", g, view.query, view.hideSystem)
	}

	fmt.Fprintf(buf, "[Alerts - over %.0f%% CPU or %.0f MB for %d ticks]\n",
		cfg.CPUAlertThreshold, cfg.MemoryAlertMB, cfg.AlertTriggerCount)
	writeAlerts(buf, snap.HighUsageProcesses())

	fmt.Fprintf(buf, "\n[Top %d by %s]\n", view.topK, sortKey)
	var top []types.ProcessSample
	switch sortKey {
	case report.SortCPU:
		top = report.CPUUsageRows(rows, view.topK)
	case report.SortMemory:
		top = report.MemoryUsageRows(rows, view.topK)
	default:
		top = append(top, rows...)
		report.Sort(top, sortKey)
		if len(top) > view.topK {
			top = top[:view.topK]
		}
	}
	if len(top) == 0 {
		fmt.Fprintln(buf, "No samples for this window")
	} else {
		writeProcessTable(buf, top, thresholds)
	}

	if sortKey != report.SortMemory {
		fmt.Fprintf(buf, "\n[Top %d by memory]\n", view.topK)
		if memRows := report.MemoryUsageRows(rows, view.topK); len(memRows) == 0 {
			fmt.Fprintln(buf, "No samples for this window")
		} else {
			writeProcessTable(buf, memRows, thresholds)
		}
	}
}

func writeProcessTable(buf *bytes.Buffer, rows []types.ProcessSample, t group.Thresholds) {
	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PID\tNAME\tCPU(%)\tRSS(MB)\tPRIORITY\tCOMPANY\tDiag")
	for _, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%.1f\t%s\t%s\t%s\n",
			row.PID, row.Name, row.CPUPercent, row.MemoryMB, row.Priority, row.Company, report.Diagnose(row, t))
	}
	tw.Flush()
}

// writeMetrics dumps the registry in the text exposition format, suitable for
// the node_exporter textfile collector.
func writeMetrics(path string) {
	if path == "" || registry == nil {
		return
	}
	families, err := registry.Gather()
	if err != nil {
		log.Printf("gathering metrics: %v", err)
		return
	}
	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			log.Printf("encoding metrics: %v", err)
			return
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		log.Printf("writing metrics: %v", err)
	}
}

func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
