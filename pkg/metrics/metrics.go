// Package metrics instruments the sampling engine with Prometheus collectors.
// Nothing here serves HTTP; the embedding program decides whether and how to
// expose the registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/srodi/proclens/pkg/control"
)

const namespace = "proclens"

// Recorder holds the engine's collectors. A nil *Recorder is valid and records nothing.
type Recorder struct {
	updateDuration      prometheus.Histogram
	enumerationFailures prometheus.Counter
	processes           prometheus.Gauge
	inaccessible        prometheus.Gauge
	totalCPU            prometheus.Gauge
	alertsFired         prometheus.Counter
	commands            *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		updateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "update_duration_seconds",
			Help:      "Wall time of one sampling tick.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
		enumerationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enumeration_failures_total",
			Help:      "Ticks aborted because the process list could not be read.",
		}),
		processes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "processes",
			Help:      "Processes in the latest snapshot.",
		}),
		inaccessible: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "processes_inaccessible",
			Help:      "Processes in the latest snapshot whose details could not be read.",
		}),
		totalCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cpu_usage_percent",
			Help:      "Machine-wide CPU utilization of the latest tick.",
		}),
		alertsFired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_fired_total",
			Help:      "High-usage alerts that became active.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Process control commands by operation and outcome.",
		}, []string{"op", "outcome"}),
	}
	for _, c := range []prometheus.Collector{
		r.updateDuration, r.enumerationFailures, r.processes, r.inaccessible,
		r.totalCPU, r.alertsFired, r.commands,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveTick records a completed tick.
func (r *Recorder) ObserveTick(d time.Duration, processes, inaccessible int, totalCPU float64, alerts int) {
	if r == nil {
		return
	}
	r.updateDuration.Observe(d.Seconds())
	r.processes.Set(float64(processes))
	r.inaccessible.Set(float64(inaccessible))
	r.totalCPU.Set(totalCPU)
	r.alertsFired.Add(float64(alerts))
}

// EnumerationFailed records an aborted tick.
func (r *Recorder) EnumerationFailed() {
	if r == nil {
		return
	}
	r.enumerationFailures.Inc()
}

// CommandDone matches control.Options.OnResult.
func (r *Recorder) CommandDone(op control.Op, outcome control.Outcome) {
	if r == nil {
		return
	}
	r.commands.WithLabelValues(string(op), string(outcome)).Inc()
}
