package cpu

import (
	"github.com/srodi/proclens/pkg/types"
)

// Tracker remembers the previous tick's counters so each tick can be turned into
// a percentage. It is not safe for concurrent use; the registry calls it from
// the single update cycle.
type Tracker struct {
	numCPU     int
	prev       map[int32]types.CPUTimes
	next       map[int32]types.CPUTimes
	prevSystem *types.SystemTimes
}

// NewTracker returns a tracker normalizing against numCPU logical processors.
func NewTracker(numCPU int) *Tracker {
	if numCPU <= 0 {
		numCPU = 1
	}
	return &Tracker{
		numCPU: numCPU,
		prev:   make(map[int32]types.CPUTimes),
		next:   make(map[int32]types.CPUTimes),
	}
}

// Observe records the counters for pid in the pending tick and returns its CPU%.
// A pid with no previous counters reports 0.
func (t *Tracker) Observe(pid int32, cur types.CPUTimes) float64 {
	t.next[pid] = cur
	prev, ok := t.prev[pid]
	if !ok {
		prev = cur
	}
	return ProcessPercent(prev, cur, t.numCPU)
}

// Commit makes the pending tick the baseline. Pids not observed during the tick
// are forgotten.
func (t *Tracker) Commit() {
	t.prev = t.next
	t.next = make(map[int32]types.CPUTimes, len(t.prev))
}

// Discard drops the pending tick, keeping the previous baseline.
func (t *Tracker) Discard() {
	t.next = make(map[int32]types.CPUTimes, len(t.prev))
}

// Len reports how many pids have a baseline.
func (t *Tracker) Len() int {
	return len(t.prev)
}

// ObserveSystem returns machine-wide CPU% against the previous system counters
// and stores cur as the new baseline. The first call reports 0.
func (t *Tracker) ObserveSystem(cur types.SystemTimes) float64 {
	prev := cur
	if t.prevSystem != nil {
		prev = *t.prevSystem
	}
	t.prevSystem = &cur
	return SystemPercent(prev, cur)
}
