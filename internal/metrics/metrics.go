package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"dealspy/internal/db"
)

var (
	// PriceUpdates counts per-product update outcomes ("updated", "failed",
	// "skipped").
	PriceUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealspy_price_updates_total",
			Help: "Product price update attempts by outcome",
		},
		[]string{"outcome"},
	)

	// LadderAttempts counts prompt ladder steps by strategy and outcome
	// ("success", "no_price", "safety_block", "transport_error", "empty").
	LadderAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealspy_ladder_attempts_total",
			Help: "Prompt ladder attempts by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	// PushSends counts push notification deliveries by outcome.
	PushSends = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealspy_push_sends_total",
			Help: "Push notification sends by outcome",
		},
		[]string{"outcome"},
	)
)

var productStateDesc = prometheus.NewDesc(
	"dealspy_products",
	"Number of catalog products by price state",
	[]string{"state"},
	nil,
)

// ProductStateCollector is a custom Prometheus collector that reads product
// counts from the database on each scrape.
type ProductStateCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *ProductStateCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- productStateDesc
}

// Collect queries the database for product counts per price state.
func (c *ProductStateCollector) Collect(ch chan<- prometheus.Metric) {
	counts, err := c.db.CountProductsByState(context.Background())
	if err != nil {
		slog.Error("failed to collect product state metrics", "error", err)
		return
	}
	for _, row := range counts {
		ch <- prometheus.MustNewConstMetric(
			productStateDesc,
			prometheus.GaugeValue,
			float64(row.Count),
			row.State,
		)
	}
}

var initOnce sync.Once

// Init registers all collectors. Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(PriceUpdates, LadderAttempts, PushSends)
		prometheus.MustRegister(&ProductStateCollector{db: database})
	})
}
