package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"reviewgate/internal/db"
)

var (
	claimsByStatusDesc = prometheus.NewDesc(
		"reviewgate_review_checks",
		"Review check claim count by status",
		[]string{"status"},
		nil,
	)

	processorRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reviewgate_processor_runs_total",
		Help: "Total verification processor invocations",
	})

	taskOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reviewgate_verification_tasks_total",
		Help: "Total verification task dispatches by outcome",
	}, []string{"outcome"})
)

// ClaimCollector is a custom Prometheus collector that reads claim counts
// from the database on each scrape.
type ClaimCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *ClaimCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- claimsByStatusDesc
}

// Collect queries the database for claim counts and emits them as gauges.
func (c *ClaimCollector) Collect(ch chan<- prometheus.Metric) {
	counts, err := c.db.CountReviewChecksByStatus(context.Background())
	if err != nil {
		slog.Error("failed to collect review check metrics", "error", err)
		return
	}
	for status, count := range counts {
		ch <- prometheus.MustNewConstMetric(
			claimsByStatusDesc,
			prometheus.GaugeValue,
			float64(count),
			status,
		)
	}
}

var initOnce sync.Once

// Init registers the collectors and counters. Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(&ClaimCollector{db: database})
		prometheus.MustRegister(processorRuns, taskOutcomes)
	})
}

// RecordProcessorRun counts one processor invocation.
func RecordProcessorRun() {
	processorRuns.Inc()
}

// RecordTaskOutcome counts one task dispatch outcome
// (succeeded, failed, skipped).
func RecordTaskOutcome(outcome string) {
	taskOutcomes.WithLabelValues(outcome).Inc()
}
