//go:build linux
// +build linux

package source

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/srodi/proclens/pkg/collector/memory"
	"github.com/srodi/proclens/pkg/types"
)

// Host samples the local machine through /proc.
type Host struct {
	numCPU int
	now    func() time.Time
}

// NewHost prepares a /proc backed source.
func NewHost(ctx context.Context) (*Host, error) {
	n, err := cpu.CountsWithContext(ctx, true)
	if err != nil || n <= 0 {
		n = runtime.NumCPU()
	}
	return &Host{numCPU: n, now: time.Now}, nil
}

// NumCPU returns the logical processor count.
func (h *Host) NumCPU() int {
	return h.numCPU
}

// Enumerate lists live processes. Names that cannot be read fall back to
// /proc/PID/comm or a pid placeholder so the row stays visible.
func (h *Host) Enumerate(ctx context.Context) ([]types.ProcessEntry, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}
	entries := make([]types.ProcessEntry, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil || name == "" {
			name = commForPID(p.Pid)
		}
		entries = append(entries, types.ProcessEntry{PID: p.Pid, Name: name})
	}
	return entries, nil
}

// Inspect reads CPU counters, resident memory, and identity of one process.
func (h *Host) Inspect(ctx context.Context, entry types.ProcessEntry) (types.ProcessStat, error) {
	p, err := process.NewProcessWithContext(ctx, entry.PID)
	if err != nil {
		return types.ProcessStat{}, fmt.Errorf("opening pid %d: %w", entry.PID, err)
	}
	times, err := p.TimesWithContext(ctx)
	if err != nil {
		return types.ProcessStat{}, fmt.Errorf("reading cpu times for pid %d: %w", entry.PID, err)
	}
	sampled := h.now()
	mi, err := p.MemoryInfoWithContext(ctx)
	if err != nil {
		return types.ProcessStat{}, fmt.Errorf("reading memory for pid %d: %w", entry.PID, err)
	}

	stat := types.ProcessStat{
		Times: types.CPUTimes{
			Kernel:  seconds(times.System),
			User:    seconds(times.User),
			Sampled: sampled,
		},
		RSSBytes: mi.RSS,
		Priority: types.PriorityNormal,
	}
	if nice, err := p.NiceWithContext(ctx); err == nil {
		stat.Priority = types.PriorityFromNice(int(nice))
	}

	attrs := processAttrs{pid: entry.PID, name: entry.Name}
	attrs.ppid, _ = p.PpidWithContext(ctx)
	attrs.uids, _ = p.UidsWithContext(ctx)
	attrs.status, _ = p.StatusWithContext(ctx)
	flags := classify(attrs)
	stat.IsSystem = flags.system
	stat.IsService = flags.service
	stat.IsElevated = flags.elevated
	stat.IsSuspended = flags.suspended
	return stat, nil
}

// SystemTimes returns the aggregate cpu line of /proc/stat.
func (h *Host) SystemTimes(ctx context.Context) (types.SystemTimes, error) {
	all, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return types.SystemTimes{}, fmt.Errorf("reading cpu times: %w", err)
	}
	if len(all) == 0 {
		return types.SystemTimes{}, fmt.Errorf("no aggregate cpu times reported")
	}
	t := all[0]
	return systemTimes(t.User, t.Nice, t.System, t.Idle, t.Iowait, t.Irq, t.Softirq, t.Steal), nil
}

// Memory returns host memory totals.
func (h *Host) Memory(ctx context.Context) (types.MemoryStat, error) {
	return memory.Stat(ctx)
}
