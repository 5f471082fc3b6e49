package cpu

import (
	"math"
	"testing"
	"time"

	"github.com/srodi/proclens/pkg/types"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func times(kernel, user time.Duration, at time.Duration) types.CPUTimes {
	return types.CPUTimes{Kernel: kernel, User: user, Sampled: epoch.Add(at)}
}

func TestProcessPercent(t *testing.T) {
	cases := []struct {
		name     string
		prev     types.CPUTimes
		cur      types.CPUTimes
		numCPU   int
		expected float64
	}{
		{"halfOfOneCore", times(0, 0, 0), times(250*time.Millisecond, 250*time.Millisecond, time.Second), 1, 50},
		{"normalizedByCores", times(0, 0, 0), times(time.Second, time.Second, time.Second), 4, 50},
		{"clampedHigh", times(0, 0, 0), times(3*time.Second, 0, time.Second), 2, 100},
		{"zeroWall", times(0, 0, time.Second), times(time.Second, time.Second, time.Second), 1, 0},
		{"clockBackwards", times(0, 0, 2*time.Second), times(time.Second, 0, time.Second), 1, 0},
		{"counterRegression", times(5*time.Second, 0, 0), times(time.Second, 0, time.Second), 1, 0},
		{"zeroCoresTreatedAsOne", times(0, 0, 0), times(100*time.Millisecond, 0, time.Second), 0, 10},
	}
	for _, tc := range cases {
		got := ProcessPercent(tc.prev, tc.cur, tc.numCPU)
		if math.Abs(got-tc.expected) > 1e-9 {
			t.Fatalf("%s: expected %.4f, got %.4f", tc.name, tc.expected, got)
		}
		if got < 0 || got > 100 {
			t.Fatalf("%s: percent out of range: %.4f", tc.name, got)
		}
	}
}

func TestSystemPercentSubtractsIdleFromKernel(t *testing.T) {
	prev := types.SystemTimes{Idle: 10 * time.Second, Kernel: 14 * time.Second, User: 6 * time.Second}
	// 4s kernel of which 3s idle, 4s user -> 5s busy of 8s total.
	cur := types.SystemTimes{Idle: 13 * time.Second, Kernel: 18 * time.Second, User: 10 * time.Second}

	got := SystemPercent(prev, cur)
	if math.Abs(got-62.5) > 1e-9 {
		t.Fatalf("expected 62.5%%, got %.4f", got)
	}
}

func TestSystemPercentZeroTotal(t *testing.T) {
	same := types.SystemTimes{Idle: time.Second, Kernel: 2 * time.Second, User: time.Second}
	if got := SystemPercent(same, same); got != 0 {
		t.Fatalf("expected 0 for identical snapshots, got %.4f", got)
	}
}
