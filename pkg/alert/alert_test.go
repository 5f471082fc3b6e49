package alert

import (
	"testing"
	"time"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func tick(n int) time.Time {
	return t0.Add(time.Duration(n) * time.Second)
}

func TestStepFiresExactlyOncePerEpisode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TriggerCount = 3

	var s State
	var fired bool
	for i := 1; i <= 2; i++ {
		s, fired = cfg.Step(s, true, tick(i))
		if fired || s.Active {
			t.Fatalf("tick %d: alert should not be active yet: %+v", i, s)
		}
		if s.Phase() != Accumulating {
			t.Fatalf("tick %d: expected Accumulating, got %s", i, s.Phase())
		}
	}

	s, fired = cfg.Step(s, true, tick(3))
	if !fired || !s.Active {
		t.Fatalf("tick 3: expected alert to fire, got fired=%v state=%+v", fired, s)
	}
	if !s.LastAlert.Equal(tick(3)) {
		t.Fatalf("expected LastAlert at tick 3, got %v", s.LastAlert)
	}

	s, fired = cfg.Step(s, true, tick(4))
	if fired {
		t.Fatalf("tick 4: alert must not fire again while sustained")
	}
	if !s.Active || s.Streak != 4 || !s.LastAlert.Equal(tick(3)) {
		t.Fatalf("tick 4: unexpected state %+v", s)
	}
}

func TestStepResetsImmediately(t *testing.T) {
	cfg := DefaultConfig()
	var s State
	s, _ = cfg.Step(s, true, tick(1))
	s, _ = cfg.Step(s, true, tick(2))
	if s.Streak != 2 {
		t.Fatalf("expected streak 2, got %d", s.Streak)
	}

	s, fired := cfg.Step(s, false, tick(3))
	if fired || s.Streak != 0 || s.Active || s.Phase() != Normal {
		t.Fatalf("expected reset to Normal, got %+v fired=%v", s, fired)
	}
}

func TestStepResetsActiveAlert(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TriggerCount = 1
	s, fired := cfg.Step(State{}, true, tick(1))
	if !fired {
		t.Fatalf("trigger count 1 should fire on first over-threshold tick")
	}
	s, _ = cfg.Step(s, false, tick(2))
	if s.Active || !s.LastAlert.IsZero() {
		t.Fatalf("clearing the condition should leave Active, got %+v", s)
	}
}

func TestVisibilityExpires(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TriggerCount = 1
	cfg.Timeout = 10 * time.Second

	s, _ := cfg.Step(State{}, true, tick(0))
	if !cfg.Visible(s, tick(0)) || !cfg.Visible(s, tick(9)) {
		t.Fatalf("alert should be visible inside its window")
	}
	if cfg.Visible(s, tick(10)) || cfg.Visible(s, tick(60)) {
		t.Fatalf("alert should expire at LastAlert+Timeout")
	}
}

func TestExpiredEpisodeReaccumulates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TriggerCount = 2
	cfg.Timeout = 5 * time.Second

	var s State
	s, _ = cfg.Step(s, true, tick(0))
	s, fired := cfg.Step(s, true, tick(1))
	if !fired {
		t.Fatalf("expected first alert at tick 1")
	}
	for i := 2; i < 6; i++ {
		if s, fired = cfg.Step(s, true, tick(i)); fired {
			t.Fatalf("tick %d: no re-alert inside the window", i)
		}
	}

	s, fired = cfg.Step(s, true, tick(6))
	if fired || s.Active || s.Streak != 1 {
		t.Fatalf("expired episode should restart accumulating, got %+v fired=%v", s, fired)
	}
	s, fired = cfg.Step(s, true, tick(7))
	if !fired || !s.LastAlert.Equal(tick(7)) {
		t.Fatalf("expected fresh alert at tick 7, got %+v fired=%v", s, fired)
	}
}

func TestOver(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		name     string
		cpu      float64
		mem      float64
		expected bool
	}{
		{"idle", 5, 100, false},
		{"atCPUThreshold", 90, 100, false},
		{"cpuHigh", 90.5, 100, true},
		{"memoryHigh", 1, 2048, true},
	}
	for _, tc := range cases {
		if got := cfg.Over(tc.cpu, tc.mem); got != tc.expected {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.expected, got)
		}
	}
}

func TestPhaseString(t *testing.T) {
	if Active.String() != "Active" || Phase(9).String() != "Phase(9)" {
		t.Fatalf("unexpected phase names: %s %s", Active, Phase(9))
	}
}
