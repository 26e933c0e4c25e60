// Package metrics holds every Prometheus collector exposed on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// HTTP
var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Count of HTTP requests",
	}, []string{"path", "method", "status"})
	HTTPLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method"})
	HTTPInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Requests being served",
	})
	HTTPRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_rejected_total",
		Help: "Requests refused by a guard before reaching a handler",
	}, []string{"reason"})
)

// Business
var (
	BookingsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "salon_bookings_created_total",
		Help: "Bookings created by users",
	})
	BookingStatusChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "salon_booking_status_changes_total",
		Help: "Booking status transitions by target status and actor kind",
	}, []string{"status", "actor"})
	UploadsStored = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "salon_uploads_total",
		Help: "Images stored by folder",
	}, []string{"folder"})
	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "salon_catalog_cache_requests_total",
		Help: "Catalog list reads through the cache by result",
	}, []string{"resource", "result"})
)

func init() {
	prometheus.MustRegister(
		HTTPRequests, HTTPLatency, HTTPInFlight, HTTPRejected,
		BookingsCreated, BookingStatusChanges, UploadsStored, CacheLookups,
	)
}

// CacheResult labels a lookup for CacheLookups.
func CacheResult(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
