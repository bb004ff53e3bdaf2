package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "housesplit",
			Subsystem: "ledger",
			Name:      "records_written_total",
			Help:      "Ledger records persisted, by kind.",
		},
		[]string{"kind"},
	)

	planTransfers = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "housesplit",
			Subsystem: "ledger",
			Name:      "settlement_plan_transfers",
			Help:      "Number of transfers in computed settlement plans.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		},
	)
)
