//go:build !linux
// +build !linux

package control

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/srodi/proclens/pkg/types"
)

type handlePrimitives struct{}

func defaultPrimitives() Primitives { return handlePrimitives{} }

func open(pid int32) (*process.Process, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return nil, fmt.Errorf("opening pid %d: %w", pid, err)
	}
	return p, nil
}

func (handlePrimitives) Terminate(pid int32) error {
	p, err := open(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}

func (handlePrimitives) SetPriority(pid int32, class types.PriorityClass) error {
	return ErrUnsupported
}

func (handlePrimitives) Probe(pid int32) error {
	_, err := open(pid)
	return err
}

// handleSuspender relies on the process handle API, which on some platforms
// wraps an undocumented kernel call.
type handleSuspender struct{}

func defaultSuspender() Suspender { return handleSuspender{} }

func (handleSuspender) Suspend(pid int32) error {
	p, err := open(pid)
	if err != nil {
		return err
	}
	return p.Suspend()
}

func (handleSuspender) Resume(pid int32) error {
	p, err := open(pid)
	if err != nil {
		return err
	}
	return p.Resume()
}

type noEscalator struct{}

func defaultEscalator() Escalator { return noEscalator{} }

func (noEscalator) Escalate() error { return ErrUnsupported }
