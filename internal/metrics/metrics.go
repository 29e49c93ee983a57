package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "staffcal",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	availabilityChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "staffcal",
			Name:      "availability_checks_total",
			Help:      "Availability checks by query mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "staffcal",
			Name:      "bookings_created_total",
			Help:      "Bookings created by timing mode.",
		},
		[]string{"timing_mode"},
	)

	bookingConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "staffcal",
			Name:      "booking_conflicts_total",
			Help:      "Booking submissions rejected due to conflicts.",
		},
		[]string{"timing_mode"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, availabilityChecks, bookingsCreated, bookingConflicts)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncAvailabilityCheck records one availability probe. mode is date, range
// or slot; outcome is booked or free.
func IncAvailabilityCheck(mode string, booked bool) {
	outcome := "free"
	if booked {
		outcome = "booked"
	}
	availabilityChecks.WithLabelValues(mode, outcome).Inc()
}

// IncBookingCreated records a successful booking by timing mode.
func IncBookingCreated(timingMode string) {
	bookingsCreated.WithLabelValues(timingMode).Inc()
}

// IncBookingConflict records a submission rejected as conflicting.
func IncBookingConflict(timingMode string) {
	bookingConflicts.WithLabelValues(timingMode).Inc()
}
