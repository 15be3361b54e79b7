package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Booking outcomes reported on BookingsTotal.
const (
	OutcomeCreated   = "created"
	OutcomeRejected  = "rejected"
	OutcomeNoPricing = "no_pricing"
	OutcomeFailed    = "failed"
)

var (
	BookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nightcity_bookings_total",
		Help: "Booking attempts by outcome",
	}, []string{"outcome"})

	DistrictCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nightcity_district_cache_total",
		Help: "District cache lookups by result",
	}, []string{"result"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nightcity_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"method", "route", "status"})
)

// RecordBooking counts one booking attempt.
func RecordBooking(outcome string) {
	BookingsTotal.WithLabelValues(outcome).Inc()
}

// RecordCache counts a cache hit, miss or error.
func RecordCache(result string) {
	DistrictCacheTotal.WithLabelValues(result).Inc()
}

// HTTP observes latency per matched route. Unmatched paths share one label.
func HTTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
