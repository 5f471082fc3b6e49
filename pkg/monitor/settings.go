package monitor

import (
	"time"

	"github.com/srodi/proclens/pkg/group"
)

// Settings take effect on the next Update; visibility changes apply to the next query.

// SetUsageThreshold sets the CPU% above which a process accumulates an alert streak.
func (m *Monitor) SetUsageThreshold(cpuPercent float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alertCfg.CPUThreshold = cpuPercent
}

// SetMemoryAlertThreshold sets the resident size in MB above which a process
// accumulates an alert streak.
func (m *Monitor) SetMemoryAlertThreshold(mb float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alertCfg.MemoryThreshold = mb
}

// SetAlertTimeout sets how long an active alert stays visible.
func (m *Monitor) SetAlertTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alertCfg.Timeout = d
}

// SetAlertTriggerCount sets how many consecutive ticks over threshold fire an alert.
func (m *Monitor) SetAlertTriggerCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alertCfg.TriggerCount = n
}

// SetHighUsageThresholds sets the bounds of the HighCpuUsage and HighMemoryUsage groups.
func (m *Monitor) SetHighUsageThresholds(cpuPercent, memoryMB float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classifier.Thresholds.HighCPU = cpuPercent
	m.classifier.Thresholds.HighMemoryMB = memoryMB
}

// SetCatalog replaces the name lists used by the name-based groups.
func (m *Monitor) SetCatalog(c *group.Catalog) {
	if c == nil {
		c = group.DefaultCatalog()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classifier.Catalog = c
}
