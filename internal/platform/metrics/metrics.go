// Package metrics exposes record store instrumentation as prometheus
// collectors. A CLI process is short-lived, so the registry is written to a
// node_exporter textfile instead of being served.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hospital"

// Store implements the record store's Recorder on a private registry.
type Store struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	skipped    *prometheus.CounterVec
	records    *prometheus.GaugeVec
}

func NewStore() *Store {
	m := &Store{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Record store operations by outcome.",
		}, []string{"operation", "result"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "records_skipped_total",
			Help:      "Malformed persisted records skipped while loading.",
		}, []string{"bucket"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "records",
			Help:      "Records held per collection after the last load or save.",
		}, []string{"bucket"}),
	}
	m.registry.MustRegister(m.operations, m.skipped, m.records)
	return m
}

func (m *Store) Operation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(op, result).Inc()
}

func (m *Store) RecordSkipped(bucket string) {
	m.skipped.WithLabelValues(bucket).Inc()
}

func (m *Store) CollectionSize(bucket string, n int) {
	m.records.WithLabelValues(bucket).Set(float64(n))
}

// Registry returns the registry holding the store collectors.
func (m *Store) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes the registry in text exposition format to path. An
// empty path is a no-op.
func (m *Store) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
