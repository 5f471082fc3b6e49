package types

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTopK controls how many top processes we display per resource category.
const DefaultTopK = 5

// PriorityClass is the scheduling class of a process, ordered from lowest to highest.
type PriorityClass int

const (
	PriorityIdle PriorityClass = iota
	PriorityBelowNormal
	PriorityNormal
	PriorityAboveNormal
	PriorityHigh
	PriorityRealTime
)

// PriorityClasses lists every class in ascending order.
var PriorityClasses = []PriorityClass{
	PriorityIdle,
	PriorityBelowNormal,
	PriorityNormal,
	PriorityAboveNormal,
	PriorityHigh,
	PriorityRealTime,
}

func (p PriorityClass) String() string {
	switch p {
	case PriorityIdle:
		return "Idle"
	case PriorityBelowNormal:
		return "BelowNormal"
	case PriorityNormal:
		return "Normal"
	case PriorityAboveNormal:
		return "AboveNormal"
	case PriorityHigh:
		return "High"
	case PriorityRealTime:
		return "RealTime"
	default:
		return fmt.Sprintf("PriorityClass(%d)", int(p))
	}
}

// ParsePriorityClass accepts the class name in any letter case, with or without
// separators ("below-normal", "BelowNormal", "realtime").
func ParsePriorityClass(s string) (PriorityClass, error) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	for _, p := range PriorityClasses {
		if strings.ToLower(p.String()) == key {
			return p, nil
		}
	}
	return PriorityNormal, fmt.Errorf("unknown priority class %q", s)
}

// PriorityFromNice maps a unix nice value onto a priority class.
func PriorityFromNice(nice int) PriorityClass {
	switch {
	case nice <= -20:
		return PriorityRealTime
	case nice <= -10:
		return PriorityHigh
	case nice < 0:
		return PriorityAboveNormal
	case nice == 0:
		return PriorityNormal
	case nice < 10:
		return PriorityBelowNormal
	default:
		return PriorityIdle
	}
}

// Nice returns the nice value written when a process is moved into this class.
func (p PriorityClass) Nice() int {
	switch p {
	case PriorityIdle:
		return 19
	case PriorityBelowNormal:
		return 5
	case PriorityAboveNormal:
		return -5
	case PriorityHigh:
		return -10
	case PriorityRealTime:
		return -20
	default:
		return 0
	}
}

// CPUTimes holds the cumulative CPU counters of one process at one instant.
type CPUTimes struct {
	Kernel  time.Duration
	User    time.Duration
	Sampled time.Time
}

// SystemTimes holds cumulative system-wide CPU counters. Kernel includes Idle.
type SystemTimes struct {
	Idle   time.Duration
	Kernel time.Duration
	User   time.Duration
}

// MemoryStat describes physical memory of the host in bytes.
type MemoryStat struct {
	TotalBytes     uint64
	AvailableBytes uint64
}

// UsedBytes is total minus available, floored at zero.
func (m MemoryStat) UsedBytes() uint64 {
	if m.AvailableBytes >= m.TotalBytes {
		return 0
	}
	return m.TotalBytes - m.AvailableBytes
}

// ProcessEntry is one row of a process enumeration.
type ProcessEntry struct {
	PID  int32
	Name string
}

// ProcessStat is the detail a sample source reports for a single process.
type ProcessStat struct {
	Times       CPUTimes
	RSSBytes    uint64
	Priority    PriorityClass
	IsSystem    bool
	IsService   bool
	IsElevated  bool
	IsSuspended bool
}

// ProcessSample is the per-tick view of one live process.
type ProcessSample struct {
	PID        int32
	Name       string
	CPUPercent float64
	MemoryMB   float64
	Priority   PriorityClass

	IsSystem    bool
	IsService   bool
	IsElevated  bool
	IsSuspended bool
	Company     string

	HighUsageStreak int
	AlertActive     bool
	LastAlertTime   time.Time
}
