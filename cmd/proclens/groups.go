package main

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/srodi/proclens/pkg/group"
	"github.com/srodi/proclens/pkg/report"
	"github.com/srodi/proclens/pkg/types"
	"github.com/srodi/proclens/pkg/ui"
)

var (
	showEmptyGroups bool
	alertTicks      int
)

func newGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups [group]",
		Short: "Count processes per group, or list the members of one group",
		Long: `Without arguments, print how many processes fall into each group. With a group
name (for example HighCpuUsage or Services), list its members.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGroups,
	}
	cmd.Flags().BoolVar(&showEmptyGroups, "all", false, "include groups with no members")
	return cmd
}

func runGroups(cmd *cobra.Command, args []string) error {
	var (
		selected group.Group
		err      error
	)
	if len(args) == 1 {
		if selected, err = group.Parse(args[0]); err != nil {
			return err
		}
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()
	mon, err := newMonitor(ctx)
	if err != nil {
		return err
	}
	// Two ticks so CPU-based groups are meaningful.
	if err := prime(ctx, mon, 2); err != nil {
		return err
	}

	var buf bytes.Buffer
	if len(args) == 1 {
		rows := mon.ProcessesByGroup(selected)
		report.Sort(rows, report.SortCPU)
		fmt.Fprintf(&buf, "[%s: %d processes]\n", selected, len(rows))
		writeProcessTable(&buf, rows, cfg.Thresholds())
	} else {
		writeGroupCounts(&buf, mon.ProcessGroupCounts(), showEmptyGroups)
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

func writeGroupCounts(buf *bytes.Buffer, counts map[group.Group]int, keepEmpty bool) {
	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tPROCESSES")
	for _, row := range report.GroupCountRows(counts, keepEmpty) {
		fmt.Fprintf(tw, "%s\t%d\n", row.Group, row.Count)
	}
	tw.Flush()
}

func newAlertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Sample for a while and report processes that raised a high-usage alert",
		Args:  cobra.NoArgs,
		RunE:  runAlerts,
	}
	cmd.Flags().IntVar(&alertTicks, "ticks", 0, "ticks to sample (default: alert trigger count + 1)")
	return cmd
}

func runAlerts(cmd *cobra.Command, args []string) error {
	ticks := alertTicks
	if ticks <= 0 {
		ticks = cfg.AlertTriggerCount + 1
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()
	mon, err := newMonitor(ctx)
	if err != nil {
		return err
	}
	if err := prime(ctx, mon, ticks); err != nil {
		return err
	}

	var buf bytes.Buffer
	writeAlerts(&buf, mon.HighUsageProcesses())
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

func writeAlerts(buf *bytes.Buffer, alerts []types.ProcessSample) {
	if len(alerts) == 0 {
		fmt.Fprintln(buf, "No active alerts")
		return
	}
	for _, p := range alerts {
		fmt.Fprintln(buf, ui.Alert(fmt.Sprintf("%s (pid %d) %.1f%% CPU, %.0f MB, %d ticks over threshold",
			p.Name, p.PID, p.CPUPercent, p.MemoryMB, p.HighUsageStreak)))
	}
}
