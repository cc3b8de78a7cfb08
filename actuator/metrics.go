package actuator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/keelframework/keel/core"
)

// Metrics exports lifecycle state: a per-module phase gauge, a histogram of
// hook durations, and a counter of hook failures. It plugs into the manager
// as a core.Observer.
type Metrics struct {
	phase    *prometheus.GaugeVec
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		phase: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "keel_module_phase",
			Help: "Current lifecycle phase per module, as the numeric phase value.",
		}, []string{"module"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "keel_module_hook_duration_seconds",
			Help:    "Duration of module lifecycle hooks.",
			Buckets: prometheus.DefBuckets,
		}, []string{"module", "hook"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "keel_module_hook_failures_total",
			Help: "Lifecycle hook failures per module and hook.",
		}, []string{"module", "hook"}),
	}
	reg.MustRegister(m.phase, m.duration, m.failures)
	return m
}

func (m *Metrics) ModulePhaseChanged(module string, phase core.Phase) {
	m.phase.WithLabelValues(module).Set(float64(phase))
}

func (m *Metrics) HookFinished(module, hook string, elapsed time.Duration, err error) {
	m.duration.WithLabelValues(module, hook).Observe(elapsed.Seconds())
	if err != nil {
		m.failures.WithLabelValues(module, hook).Inc()
	}
}
