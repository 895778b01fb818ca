// Package metrics collects Prometheus metrics for the inventory server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erazemk/freshrack/internal/expiry"
)

// Food mutation operations.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpImage  = "image"
)

// Collector records server metrics.
type Collector struct {
	httpStatus    *prometheus.CounterVec
	httpLatency   prometheus.Histogram
	foodMutations *prometheus.CounterVec
	notesCreated  prometheus.Counter
	logins        *prometheus.CounterVec
	foodsByExpiry *prometheus.GaugeVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "freshrack_http_status_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "freshrack_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		foodMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "freshrack_food_mutations_total",
			Help: "Food item writes by operation.",
		}, []string{"op"}),
		notesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "freshrack_notes_created_total",
			Help: "Notes added to food items.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "freshrack_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		foodsByExpiry: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "freshrack_foods",
			Help: "Food items by expiry category at the last stats computation.",
		}, []string{"category"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.httpLatency,
		c.foodMutations,
		c.notesCreated,
		c.logins,
		c.foodsByExpiry,
	)

	return c
}

// RecordHTTP records a finished request.
func (c *Collector) RecordHTTP(statusCode int, duration time.Duration) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

// RecordFoodMutation counts a food item write.
func (c *Collector) RecordFoodMutation(op string) {
	c.foodMutations.WithLabelValues(op).Inc()
}

// RecordNoteCreated counts a new note.
func (c *Collector) RecordNoteCreated() {
	c.notesCreated.Inc()
}

// RecordLogin counts a login attempt.
func (c *Collector) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.logins.WithLabelValues(result).Inc()
}

// ObserveStats publishes per-category item counts.
func (c *Collector) ObserveStats(s expiry.Summary) {
	c.foodsByExpiry.WithLabelValues(expiry.Expired.String()).Set(float64(s.Expired))
	c.foodsByExpiry.WithLabelValues(expiry.NearlyExpiring.String()).Set(float64(s.NearlyExpiring))
	c.foodsByExpiry.WithLabelValues(expiry.Safe.String()).Set(float64(s.Safe))
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
