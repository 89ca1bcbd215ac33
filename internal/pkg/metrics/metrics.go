package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Cycles        prometheus.Counter
	Forwarded     prometheus.Counter
	FetchFailures prometheus.Counter
	PushFailures  prometheus.Counter
	MissingMotion prometheus.Counter
	Bindings      prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bridge_cycles_total",
			Help: "Completed polling cycles.",
		}),
		Forwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bridge_readings_forwarded_total",
			Help: "Readings successfully pushed to Tandem.",
		}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bridge_fetch_failures_total",
			Help: "Failed reads from source endpoints.",
		}),
		PushFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bridge_push_failures_total",
			Help: "Failed pushes to Tandem endpoints.",
		}),
		MissingMotion: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bridge_missing_motion_total",
			Help: "Documents fetched without a motion reading.",
		}),
		Bindings: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bridge_bindings",
			Help: "Number of configured source to destination bindings.",
		}),
	}

	reg.MustRegister(m.Cycles, m.Forwarded, m.FetchFailures, m.PushFailures, m.MissingMotion, m.Bindings)

	return m
}
