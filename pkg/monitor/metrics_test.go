package monitor

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/srodi/proclens/pkg/metrics"
	"github.com/srodi/proclens/pkg/types"
)

func metricValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if !labelsMatch(m, labels) {
				continue
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}

func labelsMatch(m *dto.Metric, want map[string]string) bool {
	got := make(map[string]string, len(m.GetLabel()))
	for _, l := range m.GetLabel() {
		got[l.GetName()] = l.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

func TestMonitorRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := metrics.New(reg)
	if err != nil {
		t.Fatalf("metrics.New: %v", err)
	}

	src := newFakeSource(1)
	src.set(10, "leaky", types.ProcessStat{RSSBytes: 200 * mib})
	src.set(11, "locked", types.ProcessStat{})
	src.inspectErr[11] = errors.New("access denied")

	// The default controller reports command outcomes to the recorder.
	opts := alertOptions()
	opts.Alert.TriggerCount = 1
	opts.Source = src
	opts.Metrics = rec
	opts.Logger = log.New(io.Discard, "", 0)
	m, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	mustUpdate(t, m)
	src.mu.Lock()
	src.enumErr = errors.New("snapshot failed")
	src.mu.Unlock()
	if err := m.Update(context.Background()); err == nil {
		t.Fatalf("expected enumeration failure")
	}
	// pid 0 is rejected before any syscall.
	if m.TerminateProcess(0) {
		t.Fatalf("terminate of pid 0 succeeded")
	}

	checks := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"proclens_update_duration_seconds", nil, 1},
		{"proclens_processes", nil, 2},
		{"proclens_processes_inaccessible", nil, 1},
		{"proclens_alerts_fired_total", nil, 1},
		{"proclens_enumeration_failures_total", nil, 1},
		{"proclens_commands_total", map[string]string{"op": "terminate", "outcome": "failed"}, 1},
	}
	for _, c := range checks {
		if got := metricValue(t, reg, c.name, c.labels); got != c.want {
			t.Fatalf("%s = %v, want %v", c.name, got, c.want)
		}
	}
}
