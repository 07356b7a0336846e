package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	purchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchases_total",
			Help: "Total purchase attempts by outcome",
		},
		[]string{"status"},
	)

	purchaseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "purchase_duration_seconds",
			Help:    "Duration of the purchase workflow including side effects",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_notifications_total",
			Help: "Booking confirmation notifications by outcome",
		},
		[]string{"status"},
	)

	qrGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qr_generations_total",
			Help: "QR code generation attempts by outcome",
		},
		[]string{"status"},
	)
)

func RecordPurchase(status string, duration time.Duration) {
	purchasesTotal.WithLabelValues(status).Inc()
	purchaseDuration.Observe(duration.Seconds())
}

func RecordNotification(ok bool) {
	notificationsTotal.WithLabelValues(outcome(ok)).Inc()
}

func RecordQRGeneration(ok bool) {
	qrGenerationsTotal.WithLabelValues(outcome(ok)).Inc()
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
