// Package source provides the per-process and system-wide counters the monitor
// samples every tick.
package source

import (
	"context"
	"errors"

	"github.com/srodi/proclens/pkg/types"
)

// ErrUnsupported is returned when no sample source exists for the running OS.
var ErrUnsupported = errors.New("process sampling requires linux")

// Source is a snapshot provider for process and host counters.
type Source interface {
	// Enumerate lists every live process. An error aborts the sampling tick.
	Enumerate(ctx context.Context) ([]types.ProcessEntry, error)
	// Inspect reads the details of one enumerated process. Errors only degrade
	// that process's row.
	Inspect(ctx context.Context, entry types.ProcessEntry) (types.ProcessStat, error)
	// SystemTimes returns cumulative machine-wide CPU counters.
	SystemTimes(ctx context.Context) (types.SystemTimes, error)
	// Memory returns physical memory totals.
	Memory(ctx context.Context) (types.MemoryStat, error)
	// NumCPU is the number of logical processors used to normalize CPU%.
	NumCPU() int
}

var _ Source = (*Host)(nil)
