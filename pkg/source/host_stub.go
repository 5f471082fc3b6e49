//go:build !linux
// +build !linux

package source

import (
	"context"

	"github.com/srodi/proclens/pkg/types"
)

// Host is a placeholder on non-Linux platforms.
type Host struct{}

// NewHost returns an error because sampling is only implemented for Linux.
func NewHost(ctx context.Context) (*Host, error) {
	return nil, ErrUnsupported
}

// NumCPU reports a single processor.
func (h *Host) NumCPU() int {
	return 1
}

// Enumerate always fails on unsupported platforms.
func (h *Host) Enumerate(ctx context.Context) ([]types.ProcessEntry, error) {
	return nil, ErrUnsupported
}

// Inspect always fails on unsupported platforms.
func (h *Host) Inspect(ctx context.Context, entry types.ProcessEntry) (types.ProcessStat, error) {
	return types.ProcessStat{}, ErrUnsupported
}

// SystemTimes always fails on unsupported platforms.
func (h *Host) SystemTimes(ctx context.Context) (types.SystemTimes, error) {
	return types.SystemTimes{}, ErrUnsupported
}

// Memory always fails on unsupported platforms.
func (h *Host) Memory(ctx context.Context) (types.MemoryStat, error) {
	return types.MemoryStat{}, ErrUnsupported
}
