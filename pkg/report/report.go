// Package report turns a process snapshot into the rows the CLI prints.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/srodi/proclens/pkg/group"
	"github.com/srodi/proclens/pkg/types"
)

// FilterConfig controls which processes appear in CLI tables.
type FilterConfig struct {
	HideSystem *bool // nil defaults to true so kernel threads stay hidden unless explicitly shown
	// Query keeps rows whose name contains it (case-insensitive) or whose pid equals it.
	Query string
}

func (cfg FilterConfig) hideSystemEnabled() bool {
	if cfg.HideSystem == nil {
		return true
	}
	return *cfg.HideSystem
}

// Filter applies HideSystem and Query before ranking tables.
func Filter(rows []types.ProcessSample, cfg FilterConfig) []types.ProcessSample {
	query := strings.ToLower(strings.TrimSpace(cfg.Query))
	pid, pidErr := strconv.ParseInt(query, 10, 32)
	filtered := make([]types.ProcessSample, 0, len(rows))
	for _, row := range rows {
		if cfg.hideSystemEnabled() && row.IsSystem {
			continue
		}
		if query != "" {
			byPID := pidErr == nil && int64(row.PID) == pid
			if !byPID && !strings.Contains(strings.ToLower(row.Name), query) {
				continue
			}
		}
		filtered = append(filtered, row)
	}
	return filtered
}

// SortKey names a column the process table can be ordered by.
type SortKey string

const (
	SortCPU      SortKey = "cpu"
	SortMemory   SortKey = "memory"
	SortPID      SortKey = "pid"
	SortName     SortKey = "name"
	SortPriority SortKey = "priority"
)

// ParseSortKey accepts the column names above.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(s)); k {
	case SortCPU, SortMemory, SortPID, SortName, SortPriority:
		return k, nil
	case "mem":
		return SortMemory, nil
	}
	return "", fmt.Errorf("unknown sort column %q", s)
}

// Sort orders rows in place. Numeric columns sort descending, pid and name
// ascending; ties fall back to pid.
func Sort(rows []types.ProcessSample, key SortKey) {
	less := func(a, b types.ProcessSample) bool {
		switch key {
		case SortCPU:
			if a.CPUPercent != b.CPUPercent {
				return a.CPUPercent > b.CPUPercent
			}
		case SortMemory:
			if a.MemoryMB != b.MemoryMB {
				return a.MemoryMB > b.MemoryMB
			}
		case SortPriority:
			if a.Priority != b.Priority {
				return a.Priority > b.Priority
			}
		case SortName:
			if a.Name != b.Name {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		}
		return a.PID < b.PID
	}
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}

// CPUUsageRows returns the busiest rows up to topK, skipping idle ones.
func CPUUsageRows(rows []types.ProcessSample, topK int) []types.ProcessSample {
	return top(rows, topK, SortCPU, func(r types.ProcessSample) bool { return r.CPUPercent > 0 })
}

// MemoryUsageRows returns the largest resident rows up to topK.
func MemoryUsageRows(rows []types.ProcessSample, topK int) []types.ProcessSample {
	return top(rows, topK, SortMemory, func(r types.ProcessSample) bool { return r.MemoryMB > 0 })
}

func top(rows []types.ProcessSample, topK int, key SortKey, keep func(types.ProcessSample) bool) []types.ProcessSample {
	candidates := make([]types.ProcessSample, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			candidates = append(candidates, row)
		}
	}
	Sort(candidates, key)
	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}

// GroupCount is one line of the group summary.
type GroupCount struct {
	Group group.Group
	Count int
}

// GroupCountRows lays counts out in declaration order, dropping empty groups
// unless keepEmpty is set.
func GroupCountRows(counts map[group.Group]int, keepEmpty bool) []GroupCount {
	rows := make([]GroupCount, 0, len(counts))
	for _, g := range group.All() {
		n := counts[g]
		if n == 0 && !keepEmpty {
			continue
		}
		rows = append(rows, GroupCount{Group: g, Count: n})
	}
	return rows
}

// Diagnosis labels.
const (
	DiagAlerted     = "Alerted"
	DiagMemoryHeavy = "Memory-heavy"
	DiagCPUBound    = "CPU-bound"
	DiagSuspended   = "Suspended"
	DiagOK          = "OK"
)

// Diagnose labels a row against the high-usage thresholds.
func Diagnose(row types.ProcessSample, t group.Thresholds) string {
	switch {
	case row.AlertActive:
		return DiagAlerted
	case row.MemoryMB > t.HighMemoryMB:
		return DiagMemoryHeavy
	case row.CPUPercent > t.HighCPU:
		return DiagCPUBound
	case row.IsSuspended:
		return DiagSuspended
	}
	return DiagOK
}

// SelectFocusCandidate picks the most interesting process to summarize for the operator.
func SelectFocusCandidate(rows []types.ProcessSample, t group.Thresholds) *types.ProcessSample {
	if len(rows) == 0 {
		return nil
	}
	var best *types.ProcessSample
	bestScore := -1.0
	for _, row := range rows {
		severity := diagnosisSeverity(Diagnose(row, t))
		if severity == 0 && row.CPUPercent < 1 {
			continue
		}
		score := float64(severity)*1000 + row.CPUPercent
		if best == nil || score > bestScore {
			copy := row
			best = &copy
			bestScore = score
		}
	}
	if best != nil {
		return best
	}
	maxIdx := 0
	for i := 1; i < len(rows); i++ {
		if rows[i].CPUPercent > rows[maxIdx].CPUPercent {
			maxIdx = i
		}
	}
	copy := rows[maxIdx]
	return &copy
}

// FocusSummary returns a short explanation string for the status line.
func FocusSummary(row types.ProcessSample, t group.Thresholds) string {
	switch Diagnose(row, t) {
	case DiagAlerted:
		return fmt.Sprintf("over threshold for %d ticks, %.1f%% CPU, %.0f MB",
			row.HighUsageStreak, row.CPUPercent, row.MemoryMB)
	case DiagMemoryHeavy:
		return fmt.Sprintf("%.1f GB resident, %.1f%% CPU", row.MemoryMB/1024.0, row.CPUPercent)
	case DiagCPUBound:
		return fmt.Sprintf("%.1f%% CPU at %s priority", row.CPUPercent, row.Priority)
	default:
		return fmt.Sprintf("%.1f%% CPU, %.0f MB", row.CPUPercent, row.MemoryMB)
	}
}

func diagnosisSeverity(label string) int {
	switch label {
	case DiagAlerted:
		return 3
	case DiagMemoryHeavy:
		return 2
	case DiagCPUBound:
		return 1
	default:
		return 0
	}
}
