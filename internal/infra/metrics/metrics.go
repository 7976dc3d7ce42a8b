// Package metrics registers the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eishbot_orders_created_total",
		Help: "Orders opened, by order type.",
	}, []string{"type"})

	OrdersDecided = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eishbot_orders_decided_total",
		Help: "Orders moved to a terminal status.",
	}, []string{"status"})

	UpdatesHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eishbot_updates_handled_total",
		Help: "Telegram updates processed, by kind.",
	}, []string{"kind"})
)
