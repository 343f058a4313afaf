package metrics

import (
    "strconv"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    // HTTP request counter
    HTTPRequestsTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "http_requests_total",
            Help: "Total number of HTTP requests",
        },
        []string{"method", "endpoint", "status"},
    )

    // HTTP request duration histogram
    HTTPRequestDuration = promauto.NewHistogramVec(
        prometheus.HistogramOpts{
            Name:    "http_request_duration_seconds",
            Help:    "Duration of HTTP requests in seconds",
            Buckets: prometheus.DefBuckets,
        },
        []string{"method", "endpoint", "status"},
    )

    // Booking outcome counters
    BookingsTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "bookings_total",
            Help: "Total number of booking attempts",
        },
        []string{"kind", "result"}, // kind: "appointment", "lab_test"; result: "success", "conflict", "invalid_slot", "error"
    )

    CancellationsTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "cancellations_total",
            Help: "Total number of cancellation attempts",
        },
        []string{"kind", "result"},
    )

    PaymentsRecordedTotal = promauto.NewCounter(
        prometheus.CounterOpts{
            Name: "payments_recorded_total",
            Help: "Total number of payment ledger rows written",
        },
    )
)

// RecordHTTPRequest records metrics for an HTTP request
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
    status := strconv.Itoa(statusCode)

    HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
    HTTPRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// RecordBooking records the outcome of a booking attempt
func RecordBooking(kind, result string) {
    BookingsTotal.WithLabelValues(kind, result).Inc()
}

// RecordCancellation records the outcome of a cancellation attempt
func RecordCancellation(kind, result string) {
    CancellationsTotal.WithLabelValues(kind, result).Inc()
}
