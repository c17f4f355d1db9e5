package keygen

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	ceremonies *prometheus.CounterVec
	stale      *prometheus.CounterVec
	halts      *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		ceremonies: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tkg",
			Subsystem: "keygen",
			Name:      "ceremonies_total",
			Help:      "Ceremony attempts by outcome.",
		}, []string{"network", "result"}),
		stale: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tkg",
			Subsystem: "keygen",
			Name:      "stale_messages_total",
			Help:      "Ignored duplicate, stale or out-of-order phase messages.",
		}, []string{"network", "phase"}),
		halts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tkg",
			Subsystem: "keygen",
			Name:      "network_halts_total",
			Help:      "Networks halted on a confirmation consistency violation.",
		}, []string{"network"}),
	}
}
