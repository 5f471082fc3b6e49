// Package alert implements the debounced high-usage detector.
//
// A process accumulates a streak while it is over either threshold. Once the
// streak reaches the trigger count the alert fires exactly once and stays
// Active until the condition clears. An Active alert is only visible for the
// configured timeout after it fired; when that window has elapsed the episode is
// re-armed, so a condition that persists fires a fresh alert later.
package alert

import (
	"fmt"
	"time"
)

const (
	DefaultCPUThreshold = 90.0
	DefaultMemoryMB     = 1024.0
	DefaultTriggerCount = 5
	DefaultTimeout      = 300 * time.Second
)

// Phase is the coarse position of a process in the alert state machine.
type Phase int

const (
	Normal Phase = iota
	Accumulating
	Active
)

func (p Phase) String() string {
	switch p {
	case Normal:
		return "Normal"
	case Accumulating:
		return "Accumulating"
	case Active:
		return "Active"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// State is the per-process bookkeeping carried from one tick to the next.
type State struct {
	Streak    int
	Active    bool
	LastAlert time.Time
}

// Phase derives the state machine position from the bookkeeping.
func (s State) Phase() Phase {
	switch {
	case s.Active:
		return Active
	case s.Streak > 0:
		return Accumulating
	default:
		return Normal
	}
}

// Config holds the thresholds of the detector.
type Config struct {
	CPUThreshold    float64       // percent
	MemoryThreshold float64       // MB
	TriggerCount    int           // consecutive over-threshold ticks
	Timeout         time.Duration // visibility window of an Active alert
}

// DefaultConfig returns 90% CPU / 1024 MB, five ticks, five minutes.
func DefaultConfig() Config {
	return Config{
		CPUThreshold:    DefaultCPUThreshold,
		MemoryThreshold: DefaultMemoryMB,
		TriggerCount:    DefaultTriggerCount,
		Timeout:         DefaultTimeout,
	}
}

func (c Config) normalized() Config {
	if c.TriggerCount < 1 {
		c.TriggerCount = 1
	}
	if c.Timeout < 0 {
		c.Timeout = 0
	}
	return c
}

// Over reports whether a sample breaches either threshold.
func (c Config) Over(cpuPercent, memoryMB float64) bool {
	return cpuPercent > c.CPUThreshold || memoryMB > c.MemoryThreshold
}

// Step advances one process by one tick. fired is true only on the tick the
// alert becomes Active.
func (c Config) Step(prev State, over bool, now time.Time) (next State, fired bool) {
	c = c.normalized()
	if !over {
		return State{}, false
	}

	next = prev
	if next.Active && !c.visible(next, now) {
		next = State{}
	}
	next.Streak++
	if !next.Active && next.Streak >= c.TriggerCount {
		next.Active = true
		next.LastAlert = now
		fired = true
	}
	return next, fired
}

// Visible reports whether an Active alert is still inside its visibility window.
func (c Config) Visible(s State, now time.Time) bool {
	return c.normalized().visible(s, now)
}

func (c Config) visible(s State, now time.Time) bool {
	return s.Active && now.Before(s.LastAlert.Add(c.Timeout))
}
