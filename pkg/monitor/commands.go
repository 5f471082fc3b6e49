package monitor

import "github.com/srodi/proclens/pkg/types"

// Commands never touch the snapshot; the next Update observes their effect.

// TerminateProcess kills pid.
func (m *Monitor) TerminateProcess(pid int32) bool {
	return m.ctl.Terminate(pid)
}

// SetPriority moves pid into class.
func (m *Monitor) SetPriority(pid int32, class types.PriorityClass) bool {
	return m.ctl.SetPriority(pid, class)
}

// SuspendProcess stops pid.
func (m *Monitor) SuspendProcess(pid int32) bool {
	return m.ctl.Suspend(pid)
}

// ResumeProcess continues a suspended pid.
func (m *Monitor) ResumeProcess(pid int32) bool {
	return m.ctl.Resume(pid)
}

// CanModifyProcess probes whether commands on pid are likely to succeed.
func (m *Monitor) CanModifyProcess(pid int32) bool {
	return m.ctl.CanModify(pid)
}
