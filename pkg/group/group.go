// Package group classifies process samples into named, overlapping groups.
package group

import (
	"fmt"
	"strings"

	"github.com/srodi/proclens/pkg/types"
)

// Group names a predicate over a process sample. Groups overlap freely.
type Group int

const (
	Default Group = iota

	// resource usage
	HighCPUUsage
	HighMemoryUsage
	LowResourceUsage
	NormalResourceUsage

	// priority class, mutually exclusive
	IdlePriority
	BelowNormalPriority
	NormalPriority
	AboveNormalPriority
	HighPriority
	RealTimePriority

	// state
	Running
	Suspended
	Elevated
	NonElevated
	Alerted

	// affiliation
	SystemProcesses
	Services
	UserProcesses

	// executable name
	VendorApplications
	ThirdPartyApplications
	DevelopmentTools
	SystemServices
	BackgroundTasks

	groupCount
)

var groupNames = [groupCount]string{
	Default:                "Default",
	HighCPUUsage:           "HighCpuUsage",
	HighMemoryUsage:        "HighMemoryUsage",
	LowResourceUsage:       "LowResourceUsage",
	NormalResourceUsage:    "NormalResourceUsage",
	IdlePriority:           "IdlePriority",
	BelowNormalPriority:    "BelowNormalPriority",
	NormalPriority:         "NormalPriority",
	AboveNormalPriority:    "AboveNormalPriority",
	HighPriority:           "HighPriority",
	RealTimePriority:       "RealTimePriority",
	Running:                "Running",
	Suspended:              "Suspended",
	Elevated:               "Elevated",
	NonElevated:            "NonElevated",
	Alerted:                "Alerted",
	SystemProcesses:        "SystemProcesses",
	Services:               "Services",
	UserProcesses:          "UserProcesses",
	VendorApplications:     "VendorApplications",
	ThirdPartyApplications: "ThirdPartyApplications",
	DevelopmentTools:       "DevelopmentTools",
	SystemServices:         "SystemServices",
	BackgroundTasks:        "BackgroundTasks",
}

// All returns every defined group in declaration order.
func All() []Group {
	out := make([]Group, 0, groupCount)
	for g := Default; g < groupCount; g++ {
		out = append(out, g)
	}
	return out
}

// PriorityGroups returns the mutually exclusive priority-class groups.
func PriorityGroups() []Group {
	return []Group{IdlePriority, BelowNormalPriority, NormalPriority, AboveNormalPriority, HighPriority, RealTimePriority}
}

func (g Group) String() string {
	if g >= 0 && g < groupCount {
		return groupNames[g]
	}
	return fmt.Sprintf("Group(%d)", int(g))
}

// Valid reports whether g is a defined group.
func (g Group) Valid() bool {
	return g >= 0 && g < groupCount
}

// Parse resolves a group name, ignoring letter case. "all" is an alias of Default.
func Parse(name string) (Group, error) {
	if strings.EqualFold(name, "all") {
		return Default, nil
	}
	for g, n := range groupNames {
		if strings.EqualFold(n, name) {
			return Group(g), nil
		}
	}
	return Default, fmt.Errorf("unknown group %q", name)
}

// Thresholds are the resource bounds of the usage groups.
type Thresholds struct {
	HighCPU      float64 // percent, strictly greater is high
	HighMemoryMB float64
	LowCPU       float64 // percent, strictly lower is low
	LowMemoryMB  float64
}

// DefaultThresholds: high is >50% or >1024 MB, low is <1% and <100 MB.
func DefaultThresholds() Thresholds {
	return Thresholds{HighCPU: 50, HighMemoryMB: 1024, LowCPU: 1, LowMemoryMB: 100}
}

// Classifier evaluates group predicates against a catalog and thresholds.
type Classifier struct {
	Catalog    *Catalog
	Thresholds Thresholds
}

// NewClassifier returns a classifier; a nil catalog selects the default one.
func NewClassifier(c *Catalog, t Thresholds) Classifier {
	if c == nil {
		c = DefaultCatalog()
	}
	return Classifier{Catalog: c, Thresholds: t}
}

// Member reports whether p belongs to g.
func (c Classifier) Member(g Group, p types.ProcessSample) bool {
	t := c.Thresholds
	switch g {
	case Default:
		return true
	case HighCPUUsage:
		return p.CPUPercent > t.HighCPU
	case HighMemoryUsage:
		return p.MemoryMB > t.HighMemoryMB
	case LowResourceUsage:
		return c.low(p)
	case NormalResourceUsage:
		return !c.low(p) && p.CPUPercent <= t.HighCPU && p.MemoryMB <= t.HighMemoryMB
	case IdlePriority:
		return p.Priority == types.PriorityIdle
	case BelowNormalPriority:
		return p.Priority == types.PriorityBelowNormal
	case NormalPriority:
		return p.Priority == types.PriorityNormal
	case AboveNormalPriority:
		return p.Priority == types.PriorityAboveNormal
	case HighPriority:
		return p.Priority == types.PriorityHigh
	case RealTimePriority:
		return p.Priority == types.PriorityRealTime
	case Running:
		return !p.IsSuspended
	case Suspended:
		return p.IsSuspended
	case Elevated:
		return p.IsElevated
	case NonElevated:
		return !p.IsElevated
	case Alerted:
		return p.AlertActive
	case SystemProcesses:
		return c.system(p)
	case Services:
		return p.IsService
	case UserProcesses:
		return !c.system(p) && !p.IsService
	case VendorApplications:
		return c.Catalog.IsVendor(p.Name)
	case ThirdPartyApplications:
		return !c.system(p) && !c.Catalog.IsVendor(p.Name)
	case DevelopmentTools:
		return c.Catalog.IsDevelopmentTool(p.Name)
	case SystemServices:
		return c.Catalog.IsSystemService(p.Name)
	case BackgroundTasks:
		return c.Catalog.IsBackgroundTask(p.Name)
	default:
		return false
	}
}

func (c Classifier) low(p types.ProcessSample) bool {
	return p.CPUPercent < c.Thresholds.LowCPU && p.MemoryMB < c.Thresholds.LowMemoryMB
}

func (c Classifier) system(p types.ProcessSample) bool {
	return p.IsSystem || c.Catalog.IsIdle(p.Name)
}

// Filter returns the samples that belong to g, preserving order.
func (c Classifier) Filter(g Group, samples []types.ProcessSample) []types.ProcessSample {
	if g == Default {
		return append([]types.ProcessSample(nil), samples...)
	}
	out := make([]types.ProcessSample, 0, len(samples))
	for _, p := range samples {
		if c.Member(g, p) {
			out = append(out, p)
		}
	}
	return out
}
