// Package cpu turns cumulative CPU counters into utilization percentages.
package cpu

import "github.com/srodi/proclens/pkg/types"

// ProcessPercent returns the share of total machine capacity a process used
// between two counter snapshots. Both snapshots must come from the same process.
func ProcessPercent(prev, cur types.CPUTimes, numCPU int) float64 {
	if numCPU <= 0 {
		numCPU = 1
	}
	wall := cur.Sampled.Sub(prev.Sampled)
	if wall <= 0 {
		return 0
	}
	busy := (cur.Kernel - prev.Kernel) + (cur.User - prev.User)
	if busy <= 0 {
		return 0
	}
	capacity := float64(wall) * float64(numCPU)
	return clamp(100 * float64(busy) / capacity)
}

// SystemPercent returns machine-wide busy time between two snapshots.
// Kernel time includes idle time, so idle is subtracted from the busy share.
func SystemPercent(prev, cur types.SystemTimes) float64 {
	kernel := cur.Kernel - prev.Kernel
	user := cur.User - prev.User
	idle := cur.Idle - prev.Idle
	total := kernel + user
	if total <= 0 {
		return 0
	}
	return clamp(100 * float64(total-idle) / float64(total))
}

func clamp(pct float64) float64 {
	switch {
	case pct != pct: // NaN
		return 0
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}
