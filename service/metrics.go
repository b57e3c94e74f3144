package service

import "github.com/prometheus/client_golang/prometheus"

var (
	pointsEarnedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ninety_points_earned_total",
			Help: "Points credited to wallets",
		},
		[]string{"source"}, // qr / approve
	)

	pointsRedeemedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ninety_points_redeemed_total",
			Help: "Points debited by redemptions",
		},
	)

	redemptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ninety_redemptions_total",
			Help: "Redemption state transitions",
		},
		[]string{"status"}, // pending / success / refunded / auto_refunded
	)

	notifyFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ninety_notify_failures_total",
			Help: "Best effort LINE notifications that failed",
		},
	)
)

func init() {
	prometheus.MustRegister(pointsEarnedTotal)
	prometheus.MustRegister(pointsRedeemedTotal)
	prometheus.MustRegister(redemptionsTotal)
	prometheus.MustRegister(notifyFailuresTotal)
}
