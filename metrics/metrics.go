// Package metrics registers the prometheus instruments the agent updates
// while running:
//
//   - core_events_received_total{stream}        – inbound transport messages
//   - core_events_dropped_total{stream}         – messages dropped at decode
//   - core_commands_total{action,outcome}       – gateway commands by outcome
//   - core_reconciliation_resets_total{kind}    – sweeper force-resets
//   - core_live_orders                          – sides currently holding an order
//
// They are served by the admin server at /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	eventsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "core_events_received_total",
			Help: "Inbound transport messages by stream",
		},
		[]string{"stream"},
	)

	eventsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "core_events_dropped_total",
			Help: "Inbound messages dropped at the decode boundary",
		},
		[]string{"stream"},
	)

	commands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "core_commands_total",
			Help: "Commands submitted to the gateway by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	reconciliationResets = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "core_reconciliation_resets_total",
			Help: "Order sides force-reset by the reconciliation sweeper",
		},
		[]string{"kind"},
	)

	liveOrders = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "core_live_orders",
			Help: "Number of (symbol, side) pairs currently holding an order",
		},
	)
)

func init() {
	prometheus.MustRegister(
		eventsReceived,
		eventsDropped,
		commands,
		reconciliationResets,
		liveOrders,
	)
}

func EventReceived(stream string) {
	eventsReceived.WithLabelValues(stream).Inc()
}

func EventDropped(stream string) {
	eventsDropped.WithLabelValues(stream).Inc()
}

func CommandSubmitted(action, outcome string) {
	commands.WithLabelValues(action, outcome).Inc()
}

func ReconciliationReset(kind string) {
	reconciliationResets.WithLabelValues(kind).Inc()
}

func LiveOrdersInc() {
	liveOrders.Inc()
}

func LiveOrdersDec() {
	liveOrders.Dec()
}
