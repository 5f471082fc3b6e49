// Package memory reports physical memory totals for the host.
package memory

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"

	"github.com/srodi/proclens/pkg/types"
)

const bytesPerMB = 1024 * 1024

// virtualMemory allows tests to stub the host memory query.
var virtualMemory = mem.VirtualMemoryWithContext

// Stat returns total and available physical memory in bytes.
// TODO: future scenario, consider container memory limits
func Stat(ctx context.Context) (types.MemoryStat, error) {
	vm, err := virtualMemory(ctx)
	if err != nil {
		return types.MemoryStat{}, fmt.Errorf("reading virtual memory: %w", err)
	}
	if vm.Total == 0 {
		return types.MemoryStat{}, fmt.Errorf("host reported zero total memory")
	}
	available := vm.Available
	if available > vm.Total {
		available = vm.Total
	}
	return types.MemoryStat{TotalBytes: vm.Total, AvailableBytes: available}, nil
}

// BytesToMB converts a byte count to mebibytes.
func BytesToMB(b uint64) float64 {
	return float64(b) / bytesPerMB
}
