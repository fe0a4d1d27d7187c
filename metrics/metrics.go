package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dankdeals_orders_created_total",
		Help: "Orders accepted by the pricing guard and persisted.",
	})

	OrdersRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dankdeals_orders_rejected_total",
		Help: "Order submissions rejected by validation.",
	})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dankdeals_notifications_sent_total",
		Help: "Notifications dispatched, by channel.",
	}, []string{"channel"})

	NotificationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dankdeals_notifications_failed_total",
		Help: "Notification dispatch failures, by channel.",
	}, []string{"channel"})
)
