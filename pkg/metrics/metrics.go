package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PurchasesTotal counts completed purchase transactions.
	PurchasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "registra",
		Name:      "purchases_total",
		Help:      "Total number of completed purchase transactions.",
	})

	// SaleAmountTotal accumulates finalized sale totals in yen.
	SaleAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "registra",
		Name:      "sale_amount_yen_total",
		Help:      "Accumulated finalized sale amount in yen.",
	})

	// ProductLookupMisses counts catalog lookups that found no product.
	ProductLookupMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "registra",
		Name:      "product_lookup_misses_total",
		Help:      "Total number of JAN code lookups with no catalog match.",
	})

	// ReconcileRepairs counts transactions repaired by the reconciliation job.
	ReconcileRepairs = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "registra",
		Name:      "reconcile_repairs_total",
		Help:      "Total number of transaction totals repaired by reconciliation.",
	})
)
