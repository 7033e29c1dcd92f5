// Package metrics содержит счётчики Prometheus для операций с билетами.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PurchasesTotal — количество успешно совершённых покупок.
	PurchasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tickets_purchases_total",
		Help: "Total number of committed ticket purchases.",
	})

	// OversellRejections — количество отказов из-за нехватки билетов.
	OversellRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tickets_oversell_rejections_total",
		Help: "Total number of purchases rejected due to insufficient capacity.",
	})

	// PurchaseConflicts — количество конфликтов транзакций при покупке,
	// приведших к повторной попытке.
	PurchaseConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tickets_purchase_conflicts_total",
		Help: "Total number of purchase transactions retried after a write conflict.",
	})
)
