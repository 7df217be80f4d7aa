package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus instruments for the ingestion pipeline
type Metrics struct {
	BatchesIngested *prometheus.CounterVec
	RowsRouted      prometheus.Counter
	QualityIssues   *prometheus.CounterVec
	RoutingFailures *prometheus.CounterVec
}

// NewMetrics creates and registers pipeline metrics on the given registerer
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		BatchesIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crystalball",
			Subsystem: "ingestion",
			Name:      "batches_total",
			Help:      "Number of batches ingested, by terminal status",
		}, []string{"status"}),
		RowsRouted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "crystalball",
			Subsystem: "ingestion",
			Name:      "rows_routed_total",
			Help:      "Number of cleaned rows handed to the router",
		}),
		QualityIssues: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crystalball",
			Subsystem: "quality",
			Name:      "issues_total",
			Help:      "Data quality issues found, by severity",
		}, []string{"severity"}),
		RoutingFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crystalball",
			Subsystem: "routing",
			Name:      "failures_total",
			Help:      "Routing destination failures, by destination kind",
		}, []string{"destination"}),
	}
}
