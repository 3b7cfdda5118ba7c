package export

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts export outcomes
type Metrics struct {
	Exports *prometheus.CounterVec
	Bytes   *prometheus.CounterVec
}

// NewMetrics creates unregistered export collectors
func NewMetrics() *Metrics {
	return &Metrics{
		Exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "docscan", Name: "exports_total", Help: "Number of exports by format and result."},
			[]string{"format", "result"},
		),
		Bytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "docscan", Name: "export_bytes_total", Help: "Bytes delivered by format."},
			[]string{"format"},
		),
	}
}

// RegisterCollectors registers the collectors with reg
func (m *Metrics) RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(m.Exports)
	reg.MustRegister(m.Bytes)
}

func (m *Metrics) observe(format string, bytes int, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Exports.WithLabelValues(format, result).Inc()
	if err == nil {
		m.Bytes.WithLabelValues(format).Add(float64(bytes))
	}
}
