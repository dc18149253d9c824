package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"pdfvault/internal/model"
)

// Metrics exposes the last computed usage snapshot.
type Metrics struct {
	documents    prometheus.Gauge
	storageBytes prometheus.Gauge
}

// NewMetrics registers the store gauges on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		documents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pdfvault_documents",
			Help: "Number of stored documents at the last usage computation.",
		}),
		storageBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pdfvault_storage_bytes",
			Help: "Sum of stored document sizes at the last usage computation.",
		}),
	}
	for _, c := range []prometheus.Collector{m.documents, m.storageBytes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(u model.Usage) {
	if m == nil {
		return
	}
	m.documents.Set(float64(u.Documents))
	m.storageBytes.Set(float64(u.TotalBytes))
}
