package monitor

import (
	"github.com/srodi/proclens/pkg/group"
	"github.com/srodi/proclens/pkg/types"
)

// ProcessesByGroup returns the current processes belonging to g.
func (m *Monitor) ProcessesByGroup(g group.Group) []types.ProcessSample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.processesByGroup(g)
}

func (m *Monitor) processesByGroup(g group.Group) []types.ProcessSample {
	return m.classifier.Filter(g, m.processes)
}

// ProcessGroupCounts returns the size of every group, all taken from the same
// snapshot.
func (m *Monitor) ProcessGroupCounts() map[group.Group]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[group.Group]int, len(group.All()))
	for _, g := range group.All() {
		counts[g] = len(m.processesByGroup(g))
	}
	return counts
}
