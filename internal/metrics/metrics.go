// Package metrics exposes Prometheus collectors for the layout engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Recalculations counts full layout passes per strategy.
	Recalculations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tessera",
			Name:      "layout_recalculations_total",
			Help:      "Number of layout recalculations by tiled strategy.",
		},
		[]string{"strategy"},
	)

	// LayoutMessages counts layoutmsg commands by strategy and result.
	LayoutMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tessera",
			Name:      "layout_messages_total",
			Help:      "Number of layout messages by strategy and result.",
		},
		[]string{"strategy", "result"},
	)

	// DragSessions counts finished drag sessions by mode and outcome.
	DragSessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tessera",
			Name:      "drag_sessions_total",
			Help:      "Number of interactive drag sessions by mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)

	// Targets tracks how many targets are tiled or floating.
	Targets = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tessera",
			Name:      "targets",
			Help:      "Number of targets by placement mode.",
		},
		[]string{"mode"},
	)
)

// Collectors returns every collector in this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{Recalculations, LayoutMessages, DragSessions, Targets}
}

// Register adds the collectors to reg, ignoring ones already registered.
func Register(reg prometheus.Registerer) error {
	for _, c := range Collectors() {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// Handler serves the metrics in reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		Registry:          reg,
	})
}

// Result maps an error to a label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
