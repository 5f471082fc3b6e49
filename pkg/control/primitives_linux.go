//go:build linux
// +build linux

package control

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/srodi/proclens/pkg/types"
)

type unixPrimitives struct{}

func defaultPrimitives() Primitives { return unixPrimitives{} }

// Terminate sends SIGKILL; the process gets no chance to refuse.
func (unixPrimitives) Terminate(pid int32) error {
	return unix.Kill(int(pid), unix.SIGKILL)
}

func (unixPrimitives) SetPriority(pid int32, class types.PriorityClass) error {
	return unix.Setpriority(unix.PRIO_PROCESS, int(pid), class.Nice())
}

// Probe uses signal 0, which checks existence and permission only.
func (unixPrimitives) Probe(pid int32) error {
	return unix.Kill(int(pid), 0)
}

// signalSuspender uses job-control signals.
type signalSuspender struct{}

func defaultSuspender() Suspender { return signalSuspender{} }

func (signalSuspender) Suspend(pid int32) error {
	return unix.Kill(int(pid), unix.SIGSTOP)
}

func (signalSuspender) Resume(pid int32) error {
	return unix.Kill(int(pid), unix.SIGCONT)
}

// capEscalator raises process-control capabilities from the permitted set into
// the effective set of the calling thread.
type capEscalator struct{}

func defaultEscalator() Escalator { return capEscalator{} }

const controlCaps = 1<<unix.CAP_KILL | 1<<unix.CAP_SYS_NICE | 1<<unix.CAP_SYS_PTRACE

func (capEscalator) Escalate() error {
	hdr := unix.CapUserHeader{Version: unix.LINUX_CAPABILITY_VERSION_3}
	var data [2]unix.CapUserData
	if err := unix.Capget(&hdr, &data[0]); err != nil {
		return fmt.Errorf("capget: %w", err)
	}
	missing := raisable(data[0].Permitted, data[0].Effective)
	if missing == 0 {
		return ErrNoPrivilege
	}
	data[0].Effective |= missing
	if err := unix.Capset(&hdr, &data[0]); err != nil {
		return fmt.Errorf("capset: %w", err)
	}
	return nil
}

// raisable returns the control capabilities that are permitted but not yet effective.
func raisable(permitted, effective uint32) uint32 {
	return permitted & controlCaps &^ effective
}
