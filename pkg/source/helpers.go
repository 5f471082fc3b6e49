package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/srodi/proclens/pkg/types"
)

// procReadFile allows tests to stub reading /proc/PID/comm.
var procReadFile = os.ReadFile

const (
	initPID         = 1
	kthreaddPID     = 2
	firstRegularUID = 1000
)

// Positions in the uid list returned for a process: real, effective, saved, fs.
const (
	realUID = iota
	effectiveUID
)

func commForPID(pid int32) string {
	if pid == 0 {
		return "idle"
	}
	path := filepath.Join("/proc", strconv.FormatInt(int64(pid), 10), "comm")
	data, err := procReadFile(path)
	if err != nil {
		return fmt.Sprintf("pid-%d", pid)
	}
	comm := strings.TrimSpace(string(data))
	if comm == "" {
		return fmt.Sprintf("pid-%d", pid)
	}
	return comm
}

func seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

// processAttrs is the raw identity of a process used to derive its flags.
type processAttrs struct {
	pid    int32
	ppid   int32
	name   string
	uids   []uint32
	status []string
}

type processFlags struct {
	system    bool
	service   bool
	elevated  bool
	suspended bool
}

func classify(a processAttrs) processFlags {
	var f processFlags
	f.system = a.pid == initPID || a.pid == kthreaddPID || a.ppid == kthreaddPID || isKernelThread(a.name)
	if len(a.uids) > effectiveUID {
		f.elevated = a.uids[effectiveUID] == 0
	}
	if !f.system && a.ppid == initPID && len(a.uids) > realUID {
		f.service = a.uids[realUID] < firstRegularUID
	}
	f.suspended = slices.Contains(a.status, process.Stop)
	return f
}

func isKernelThread(comm string) bool {
	name := strings.ToLower(comm)
	switch {
	case strings.HasPrefix(name, "kworker"), strings.HasPrefix(name, "ksoftirqd"), strings.HasPrefix(name, "kthreadd"),
		strings.HasPrefix(name, "migration"), strings.HasPrefix(name, "watchdog"), strings.HasPrefix(name, "rcu_"),
		strings.HasPrefix(name, "irq/"), strings.HasPrefix(name, "kswapd"):
		return true
	}
	return false
}

// systemTimes folds linux cpu counters into the kernel-includes-idle layout.
func systemTimes(user, nice, system, idle, iowait, irq, softirq, steal float64) types.SystemTimes {
	idleAll := seconds(idle) + seconds(iowait)
	return types.SystemTimes{
		Idle:   idleAll,
		Kernel: seconds(system) + seconds(irq) + seconds(softirq) + idleAll,
		User:   seconds(user) + seconds(nice) + seconds(steal),
	}
}
