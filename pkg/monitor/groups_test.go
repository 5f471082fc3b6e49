package monitor

import (
	"reflect"
	"testing"

	"github.com/srodi/proclens/pkg/group"
	"github.com/srodi/proclens/pkg/types"
)

func populated(t *testing.T) *Monitor {
	t.Helper()
	src := newFakeSource(1)
	src.set(1, "systemd", types.ProcessStat{RSSBytes: 12 * mib, IsSystem: true, IsElevated: true})
	src.set(2, "kthreadd", types.ProcessStat{IsSystem: true, IsElevated: true})
	src.set(300, "sshd", types.ProcessStat{RSSBytes: 8 * mib, IsService: true, IsElevated: true, Priority: types.PriorityBelowNormal})
	src.set(1000, "chrome", types.ProcessStat{RSSBytes: 2048 * mib, Priority: types.PriorityHigh})
	src.set(1001, "gopls", types.ProcessStat{RSSBytes: 400 * mib, Priority: types.PriorityIdle, IsSuspended: true})
	src.set(1002, "tracker-miner-fs", types.ProcessStat{RSSBytes: 60 * mib, Priority: types.PriorityAboveNormal})
	src.set(1003, "jackd", types.ProcessStat{RSSBytes: 30 * mib, Priority: types.PriorityRealTime, IsElevated: true})
	m, _, _ := newTestMonitor(t, src, Options{})
	mustUpdate(t, m)
	return m
}

func pids(samples []types.ProcessSample) []int32 {
	out := make([]int32, 0, len(samples))
	for _, s := range samples {
		out = append(out, s.PID)
	}
	return out
}

func TestDefaultGroupIsWholeSnapshot(t *testing.T) {
	m := populated(t)
	if got, want := m.ProcessesByGroup(group.Default), m.Processes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Default = %v, want %v", pids(got), pids(want))
	}
}

func TestGroupCountsAgreeWithQueries(t *testing.T) {
	m := populated(t)
	counts := m.ProcessGroupCounts()
	if len(counts) != len(group.All()) {
		t.Fatalf("counts has %d groups, want %d", len(counts), len(group.All()))
	}
	for _, g := range group.All() {
		if got := len(m.ProcessesByGroup(g)); counts[g] != got {
			t.Errorf("%s: count %d, query %d", g, counts[g], got)
		}
	}
}

func TestPriorityGroupsPartitionSnapshot(t *testing.T) {
	m := populated(t)
	counts := m.ProcessGroupCounts()
	sum := 0
	for _, g := range group.PriorityGroups() {
		sum += counts[g]
	}
	if total := len(m.Processes()); sum != total {
		t.Fatalf("priority groups sum to %d, want %d", sum, total)
	}
	if counts[group.Running]+counts[group.Suspended] != counts[group.Default] {
		t.Fatalf("running and suspended do not cover the snapshot: %v", counts)
	}
	if counts[group.Elevated]+counts[group.NonElevated] != counts[group.Default] {
		t.Fatalf("elevated split does not cover the snapshot: %v", counts)
	}
}

func TestGroupsOverlap(t *testing.T) {
	m := populated(t)
	tests := []struct {
		group group.Group
		want  []int32
	}{
		{group.HighMemoryUsage, []int32{1000}},
		{group.ThirdPartyApplications, []int32{300, 1000, 1001, 1002, 1003}},
		{group.SystemProcesses, []int32{1, 2}},
		{group.Services, []int32{300}},
		{group.UserProcesses, []int32{1000, 1001, 1002, 1003}},
		{group.Elevated, []int32{1, 2, 300, 1003}},
		{group.Suspended, []int32{1001}},
		{group.DevelopmentTools, []int32{1001}},
		{group.SystemServices, []int32{300}},
		{group.BackgroundTasks, []int32{1002}},
		{group.VendorApplications, []int32{1}},
		{group.RealTimePriority, []int32{1003}},
	}
	for _, tt := range tests {
		t.Run(tt.group.String(), func(t *testing.T) {
			if got := pids(m.ProcessesByGroup(tt.group)); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetHighUsageThresholdsAppliesToQueries(t *testing.T) {
	m := populated(t)
	m.SetHighUsageThresholds(50, 100)
	if got := pids(m.ProcessesByGroup(group.HighMemoryUsage)); !reflect.DeepEqual(got, []int32{1000, 1001}) {
		t.Fatalf("high memory = %v", got)
	}
}

func TestSetCatalogAppliesToQueries(t *testing.T) {
	m := populated(t)
	c, err := group.ParseCatalog([]byte("version: 1\ndevelopmentTools: [jackd]\n"))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	m.SetCatalog(c)
	if got := pids(m.ProcessesByGroup(group.DevelopmentTools)); !reflect.DeepEqual(got, []int32{1003}) {
		t.Fatalf("dev tools = %v", got)
	}
	m.SetCatalog(nil)
	if got := pids(m.ProcessesByGroup(group.DevelopmentTools)); !reflect.DeepEqual(got, []int32{1001}) {
		t.Fatalf("dev tools after reset = %v", got)
	}
}
