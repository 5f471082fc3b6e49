package group

import (
	"slices"
	"testing"

	"github.com/srodi/proclens/pkg/types"
)

func sample(name string, cpu, mem float64) types.ProcessSample {
	return types.ProcessSample{PID: 100, Name: name, CPUPercent: cpu, MemoryMB: mem, Priority: types.PriorityNormal}
}

func groupsOf(c Classifier, p types.ProcessSample) []Group {
	var out []Group
	for _, g := range All() {
		if c.Member(g, p) {
			out = append(out, g)
		}
	}
	return out
}

func TestAllGroupsNamed(t *testing.T) {
	all := All()
	if len(all) != 24 {
		t.Fatalf("expected 24 groups, got %d", len(all))
	}
	seen := map[string]bool{}
	for _, g := range all {
		name := g.String()
		if name == "" || seen[name] {
			t.Fatalf("group %d has empty or duplicate name %q", int(g), name)
		}
		seen[name] = true
		parsed, err := Parse(name)
		if err != nil || parsed != g {
			t.Fatalf("parse %q: got %v err=%v", name, parsed, err)
		}
	}
	if g, err := Parse("ALL"); err != nil || g != Default {
		t.Fatalf("all should alias Default, got %v err=%v", g, err)
	}
	if _, err := Parse("nope"); err == nil {
		t.Fatalf("expected error for unknown group")
	}
	if Group(99).Valid() || Group(99).String() != "Group(99)" {
		t.Fatalf("out of range group should be invalid")
	}
}

func TestOverlappingMembership(t *testing.T) {
	c := NewClassifier(nil, DefaultThresholds())
	p := sample("blender", 95, 300)
	p.IsElevated = true

	got := groupsOf(c, p)
	for _, want := range []Group{Default, HighCPUUsage, Elevated, ThirdPartyApplications, UserProcesses, Running, NormalPriority} {
		if !slices.Contains(got, want) {
			t.Fatalf("expected %s in %v", want, got)
		}
	}
	for _, not := range []Group{LowResourceUsage, NormalResourceUsage, NonElevated, SystemProcesses, Suspended} {
		if slices.Contains(got, not) {
			t.Fatalf("did not expect %s in %v", not, got)
		}
	}
}

func TestResourceBands(t *testing.T) {
	c := NewClassifier(nil, DefaultThresholds())
	cases := []struct {
		name     string
		cpu, mem float64
		expected Group
	}{
		{"low", 0.5, 50, LowResourceUsage},
		{"lowCPUButBig", 0.5, 500, NormalResourceUsage},
		{"middle", 20, 400, NormalResourceUsage},
		{"atHighBoundary", 50, 1024, NormalResourceUsage},
		{"highCPU", 50.1, 10, HighCPUUsage},
		{"highMemory", 2, 4096, HighMemoryUsage},
	}
	bands := []Group{LowResourceUsage, NormalResourceUsage, HighCPUUsage, HighMemoryUsage}
	for _, tc := range cases {
		p := sample("x", tc.cpu, tc.mem)
		for _, b := range bands {
			if got := c.Member(b, p); got != (b == tc.expected) {
				t.Fatalf("%s: membership of %s = %v", tc.name, b, got)
			}
		}
	}
}

func TestPriorityGroupsAreExclusive(t *testing.T) {
	c := NewClassifier(nil, DefaultThresholds())
	for _, prio := range types.PriorityClasses {
		p := sample("x", 1, 1)
		p.Priority = prio
		matches := 0
		for _, g := range PriorityGroups() {
			if c.Member(g, p) {
				matches++
			}
		}
		if matches != 1 {
			t.Fatalf("priority %s matched %d priority groups", prio, matches)
		}
	}
}

func TestStateAndAffiliation(t *testing.T) {
	c := NewClassifier(nil, DefaultThresholds())

	stopped := sample("vim", 0, 10)
	stopped.IsSuspended = true
	if c.Member(Running, stopped) || !c.Member(Suspended, stopped) {
		t.Fatalf("suspended process should not be Running")
	}

	idle := sample("System Idle Process", 0, 0)
	if !c.Member(SystemProcesses, idle) || c.Member(ThirdPartyApplications, idle) {
		t.Fatalf("idle pseudo-process should be classified as system")
	}

	svc := sample("sshd", 0, 5)
	svc.IsService = true
	if !c.Member(Services, svc) || c.Member(UserProcesses, svc) || !c.Member(SystemServices, svc) {
		t.Fatalf("sshd should be a service and a system service")
	}

	alerted := sample("x", 99, 1)
	alerted.AlertActive = true
	if !c.Member(Alerted, alerted) {
		t.Fatalf("active alert should be in Alerted")
	}
}

func TestNameGroups(t *testing.T) {
	c := NewClassifier(nil, DefaultThresholds())
	if !c.Member(VendorApplications, sample("explorer.exe", 0, 0)) {
		t.Fatalf("explorer.exe should be a vendor application")
	}
	if c.Member(ThirdPartyApplications, sample("explorer.exe", 0, 0)) {
		t.Fatalf("vendor application is not third party")
	}
	if !c.Member(DevelopmentTools, sample("gopls", 0, 0)) {
		t.Fatalf("gopls should be a development tool")
	}
	if !c.Member(BackgroundTasks, sample("tracker-miner-fs-3", 0, 0)) {
		t.Fatalf("tracker-miner should be a background task")
	}
	// Matching is case-sensitive.
	if c.Member(VendorApplications, sample("EXPLORER.EXE", 0, 0)) {
		t.Fatalf("name matching should be case-sensitive")
	}
}

func TestFilterDefaultReturnsCopy(t *testing.T) {
	c := NewClassifier(nil, DefaultThresholds())
	in := []types.ProcessSample{sample("a", 0, 0), sample("b", 60, 0)}
	all := c.Filter(Default, in)
	if len(all) != 2 {
		t.Fatalf("expected both samples, got %d", len(all))
	}
	all[0].Name = "changed"
	if in[0].Name != "a" {
		t.Fatalf("filter must not alias the input")
	}
	high := c.Filter(HighCPUUsage, in)
	if len(high) != 1 || high[0].Name != "b" {
		t.Fatalf("expected only b, got %+v", high)
	}
}
