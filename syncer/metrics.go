package syncer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tablesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rrcsync_tables_total",
		Help: "Tables processed, labelled by outcome.",
	}, []string{"result"})

	recordsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rrcsync_records_synced_total",
		Help: "Records accepted by the API server across all runs.",
	})
)
