package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exposes the tracker state to Prometheus. Each Recorder owns its
// registry so tests can create as many as they like.
type Recorder struct {
	Registry *prometheus.Registry

	threats     prometheus.Gauge
	riskPercent prometheus.Gauge
	loads       *prometheus.CounterVec
	skippedRows prometheus.Counter
	mitigations *prometheus.CounterVec
}

func New() *Recorder {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),
		threats: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "threat_tracker_threats",
			Help: "Number of threats currently loaded.",
		}),
		riskPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "threat_tracker_risk_percent",
			Help: "Aggregate risk percentage of the loaded threats.",
		}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "threat_tracker_loads_total",
			Help: "Load attempts by outcome.",
		}, []string{"outcome"}),
		skippedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "threat_tracker_skipped_rows_total",
			Help: "Input rows rejected by validation.",
		}),
		mitigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "threat_tracker_mitigations_total",
			Help: "Mitigation attempts by outcome.",
		}, []string{"outcome"}),
	}
	r.Registry.MustRegister(r.threats, r.riskPercent, r.loads, r.skippedRows, r.mitigations)
	return r
}

// State records the store size and aggregate after a successful change.
func (r *Recorder) State(threats int, percent float64) {
	r.threats.Set(float64(threats))
	r.riskPercent.Set(percent)
}

func (r *Recorder) Load(outcome string, skipped int) {
	r.loads.WithLabelValues(outcome).Inc()
	r.skippedRows.Add(float64(skipped))
}

func (r *Recorder) Mitigation(outcome string) {
	r.mitigations.WithLabelValues(outcome).Inc()
}
