package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/srodi/proclens/pkg/control"
	"github.com/srodi/proclens/pkg/monitor"
	"github.com/srodi/proclens/pkg/types"
)

func newKillCmd() *cobra.Command {
	return pidCommand("kill <pid>", "Terminate a process", (*monitor.Monitor).TerminateProcess, "terminated")
}

func newSuspendCmd() *cobra.Command {
	return pidCommand("suspend <pid>", "Stop a process from being scheduled", (*monitor.Monitor).SuspendProcess, "suspended")
}

func newResumeCmd() *cobra.Command {
	return pidCommand("resume <pid>", "Continue a suspended process", (*monitor.Monitor).ResumeProcess, "resumed")
}

func pidCommand(use, short string, act func(*monitor.Monitor, int32) bool, done string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parsePID(args[0])
			if err != nil {
				return err
			}
			mon, err := newMonitor(cmd.Context())
			if err != nil {
				return err
			}
			if !act(mon, pid) {
				return fmt.Errorf("pid %d could not be %s", pid, done)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pid %d %s\n", pid, done)
			return nil
		},
	}
}

func newReniceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "renice <pid> <class>",
		Short: "Change the priority class of a process",
		Long: `Move a process into one of the priority classes Idle, BelowNormal, Normal,
AboveNormal, High or RealTime.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parsePID(args[0])
			if err != nil {
				return err
			}
			class, err := types.ParsePriorityClass(args[1])
			if err != nil {
				return err
			}
			mon, err := newMonitor(cmd.Context())
			if err != nil {
				return err
			}
			if !mon.CanModifyProcess(pid) && cfg.Verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "pid %d may need extra privileges\n", pid)
			}
			if !mon.SetPriority(pid, class) {
				return fmt.Errorf("pid %d could not be moved to %s", pid, class)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pid %d now %s\n", pid, class)
			return nil
		},
	}
}

func parsePID(s string) (int32, error) {
	pid, err := strconv.ParseInt(s, 10, 32)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("%w %q", control.ErrInvalidPID, s)
	}
	return int32(pid), nil
}
