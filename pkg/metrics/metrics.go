package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// LatencyBuckets covers HTTP and business latencies in milliseconds. The
// simulated acquirer answers within 100ms..1s, so that range is the densest.
var LatencyBuckets = []float64{
	5, 10, 25, 50,
	100, 150, 200, 300, 400, 500, 600, 700, 800, 900, 1000,
	1250, 1500, 2000, 3000, 5000,
	10000, 30000,
}

// ClientHeader names the caller; its value becomes the "client" label of the HTTP metrics.
const ClientHeader = "X-Client-Id"

// Metric describes one collector. Type is one of counter, counter_vec,
// gauge_vec, histogram_vec or summary_vec.
type Metric struct {
	ID          string
	Name        string
	Description string
	Type        string
	Args        []string
	// Buckets applies to histograms, LatencyBuckets when empty.
	Buckets []float64
}

// NewMetric builds the prometheus.Collector described by m.
func NewMetric(m *Metric, subsystem string) (prometheus.Collector, error) {
	switch m.Type {
	case "counter":
		return prometheus.NewCounter(prometheus.CounterOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description}), nil
	case "counter_vec":
		return prometheus.NewCounterVec(prometheus.CounterOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description}, m.Args), nil
	case "gauge_vec":
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description}, m.Args), nil
	case "histogram_vec":
		buckets := m.Buckets
		if len(buckets) == 0 {
			buckets = LatencyBuckets
		}
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Subsystem: subsystem,
			Name:      m.Name,
			Help:      m.Description,
			Buckets:   buckets,
		}, m.Args), nil
	case "summary_vec":
		return prometheus.NewSummaryVec(prometheus.SummaryOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description}, m.Args), nil
	}
	return nil, fmt.Errorf("metric %s: unsupported type %q", m.ID, m.Type)
}

// registerAll builds and registers every definition, keyed by the definition itself.
func registerAll(reg prometheus.Registerer, subsystem string, defs []*Metric) (map[*Metric]prometheus.Collector, error) {
	out := make(map[*Metric]prometheus.Collector, len(defs))
	for _, def := range defs {
		c, err := NewMetric(def, subsystem)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register %s: %w", def.Name, err)
		}
		out[def] = c
	}
	return out, nil
}
