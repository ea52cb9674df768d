package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_messages_total",
			Help: "Chat messages handled, by classified intent",
		},
		[]string{"intent"},
	)

	BookingsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_bookings_issued_total",
			Help: "Bookings recorded after successful payment",
		},
	)

	BookingsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_bookings_cancelled_total",
			Help: "Bookings transitioned to cancelled",
		},
	)

	ChargedAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assistant_charged_amount_dollars",
			Help:    "Amounts charged by the simulated processor",
			Buckets: prometheus.ExponentialBuckets(5, 2, 8),
		},
	)
)
