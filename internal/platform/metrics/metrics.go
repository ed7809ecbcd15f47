// Package metrics exposes the prometheus collectors shared by the service
// facade and the persistence adapter.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "trackcore"

// Metrics bundles the collectors registered for one service instance.
type Metrics struct {
	opDuration  *prometheus.HistogramVec
	opTotal     *prometheus.CounterVec
	slotCorrupt *prometheus.CounterVec
	slotWrites  *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg uses a private registry so
// repeated construction in tests never collides.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of service operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"operation"}),
		opTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Service operations by outcome.",
		}, []string{"operation", "status"}),
		slotCorrupt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_corrupt_total",
			Help:      "Persisted slots that failed to decode and were reseeded.",
		}, []string{"collection"}),
		slotWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_writes_total",
			Help:      "Slot writes by outcome.",
		}, []string{"collection", "status"}),
	}
	reg.MustRegister(m.opDuration, m.opTotal, m.slotCorrupt, m.slotWrites)
	return m
}

func status(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

// Observe records a service operation outcome.
func (m *Metrics) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if m == nil || operation == "" {
		return
	}
	m.opDuration.WithLabelValues(operation).Observe(duration.Seconds())
	m.opTotal.WithLabelValues(operation, status(success)).Inc()
}

// SlotCorrupt counts a slot that could not be decoded.
func (m *Metrics) SlotCorrupt(collection string) {
	if m == nil {
		return
	}
	m.slotCorrupt.WithLabelValues(collection).Inc()
}

// SlotWrite counts a slot write.
func (m *Metrics) SlotWrite(collection string, err error) {
	if m == nil {
		return
	}
	m.slotWrites.WithLabelValues(collection, status(err == nil)).Inc()
}
