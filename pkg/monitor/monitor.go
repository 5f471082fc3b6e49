// Package monitor keeps the current process snapshot and answers queries
// against it. Update is the single writer; every other method may be called
// concurrently from other goroutines.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/srodi/proclens/pkg/alert"
	"github.com/srodi/proclens/pkg/collector/cpu"
	"github.com/srodi/proclens/pkg/collector/memory"
	"github.com/srodi/proclens/pkg/control"
	"github.com/srodi/proclens/pkg/group"
	"github.com/srodi/proclens/pkg/metrics"
	"github.com/srodi/proclens/pkg/source"
	"github.com/srodi/proclens/pkg/types"
)

// Options wires a Monitor. Only Source is required.
type Options struct {
	Source     source.Source
	Controller *control.Controller
	Alert      alert.Config
	Thresholds group.Thresholds
	Catalog    *group.Catalog
	Metrics    *metrics.Recorder
	Logger     *log.Logger
	// Verbose logs every process whose details could not be read.
	Verbose bool
	// Now is the clock used for alert bookkeeping; defaults to time.Now.
	Now func() time.Time
}

// Monitor is the process registry.
type Monitor struct {
	src     source.Source
	ctl     *control.Controller
	metrics *metrics.Recorder
	logger  *log.Logger
	verbose bool
	now     func() time.Time

	cycle   sync.Mutex // serializes Update
	tracker *cpu.Tracker

	mu         sync.RWMutex
	processes  []types.ProcessSample
	alerts     map[int32]alert.State
	totalCPU   float64
	memory     types.MemoryStat
	alertCfg   alert.Config
	classifier group.Classifier
}

// New builds a Monitor. Zero-valued alert settings and thresholds select the defaults.
func New(opts Options) (*Monitor, error) {
	if opts.Source == nil {
		return nil, errors.New("monitor requires a sample source")
	}
	if opts.Alert == (alert.Config{}) {
		opts.Alert = alert.DefaultConfig()
	}
	if opts.Thresholds == (group.Thresholds{}) {
		opts.Thresholds = group.DefaultThresholds()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Controller == nil {
		opts.Controller = control.New(control.Options{
			Logger:   opts.Logger,
			OnResult: opts.Metrics.CommandDone,
		})
	}
	return &Monitor{
		src:        opts.Source,
		ctl:        opts.Controller,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		verbose:    opts.Verbose,
		now:        opts.Now,
		tracker:    cpu.NewTracker(opts.Source.NumCPU()),
		alerts:     make(map[int32]alert.State),
		alertCfg:   opts.Alert,
		classifier: group.NewClassifier(opts.Catalog, opts.Thresholds),
	}, nil
}

// Update takes one sample of every process and replaces the snapshot. If the
// process list cannot be read, or ctx is cancelled, the previous snapshot is
// kept untouched and the error is returned.
func (m *Monitor) Update(ctx context.Context) error {
	m.cycle.Lock()
	defer m.cycle.Unlock()

	start := m.now()
	m.mu.RLock()
	alertCfg := m.alertCfg
	catalog := m.classifier.Catalog
	prevAlerts := m.alerts
	m.mu.RUnlock()

	entries, err := m.src.Enumerate(ctx)
	if err != nil {
		m.metrics.EnumerationFailed()
		return fmt.Errorf("enumerating processes: %w", err)
	}

	samples := make([]types.ProcessSample, 0, len(entries))
	alerts := make(map[int32]alert.State, len(entries))
	fired, inaccessible := 0, 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			m.tracker.Discard()
			return err
		}

		sample := types.ProcessSample{
			PID:      entry.PID,
			Name:     entry.Name,
			Priority: types.PriorityNormal,
			Company:  catalog.Company(entry.Name),
		}
		if stat, err := m.src.Inspect(ctx, entry); err != nil {
			inaccessible++
			if m.verbose {
				m.logger.Printf("pid %d (%s) details unavailable: %v", entry.PID, entry.Name, err)
			}
		} else {
			sample.CPUPercent = m.tracker.Observe(entry.PID, stat.Times)
			sample.MemoryMB = memory.BytesToMB(stat.RSSBytes)
			sample.Priority = stat.Priority
			sample.IsSystem = stat.IsSystem
			sample.IsService = stat.IsService
			sample.IsElevated = stat.IsElevated
			sample.IsSuspended = stat.IsSuspended
		}

		over := alertCfg.Over(sample.CPUPercent, sample.MemoryMB)
		state, justFired := alertCfg.Step(prevAlerts[entry.PID], over, start)
		if state != (alert.State{}) {
			alerts[entry.PID] = state
		}
		sample.HighUsageStreak = state.Streak
		sample.AlertActive = state.Active
		sample.LastAlertTime = state.LastAlert
		if justFired {
			fired++
			m.logger.Printf("[!] high usage: %s (pid %d) %.1f%% CPU, %.0f MB", sample.Name, sample.PID, sample.CPUPercent, sample.MemoryMB)
		}
		samples = append(samples, sample)
	}

	m.mu.RLock()
	totalCPU, mem := m.totalCPU, m.memory
	m.mu.RUnlock()
	if st, err := m.src.SystemTimes(ctx); err != nil {
		m.logger.Printf("system cpu times unavailable: %v", err)
	} else {
		totalCPU = m.tracker.ObserveSystem(st)
	}
	if ms, err := m.src.Memory(ctx); err != nil {
		m.logger.Printf("system memory unavailable: %v", err)
	} else {
		mem = ms
	}

	m.tracker.Commit()
	m.mu.Lock()
	m.processes = samples
	m.alerts = alerts
	m.totalCPU = totalCPU
	m.memory = mem
	m.mu.Unlock()

	m.metrics.ObserveTick(m.now().Sub(start), len(samples), inaccessible, totalCPU, fired)
	return nil
}

// Processes returns a copy of the current snapshot.
func (m *Monitor) Processes() []types.ProcessSample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]types.ProcessSample(nil), m.processes...)
}

// TotalCPUUsage returns machine-wide CPU% of the latest tick.
func (m *Monitor) TotalCPUUsage() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalCPU
}

// TotalMemoryUsage returns used physical memory in bytes.
func (m *Monitor) TotalMemoryUsage() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.memory.UsedBytes()
}

// TotalMemoryAvailable returns installed physical memory in bytes.
func (m *Monitor) TotalMemoryAvailable() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.memory.TotalBytes
}

// HighUsageProcesses returns processes whose alert is active and still inside
// its visibility window.
func (m *Monitor) HighUsageProcesses() []types.ProcessSample {
	now := m.now()
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []types.ProcessSample
	for _, p := range m.processes {
		if m.alertCfg.Visible(alert.State{Active: p.AlertActive, LastAlert: p.LastAlertTime}, now) {
			out = append(out, p)
		}
	}
	return out
}
