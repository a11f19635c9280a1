package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
	PackPurchases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_pack_purchases_total",
			Help: "Pack purchases by pack id and outcome",
		},
		[]string{"pack_id", "outcome"},
	)
	PackRefunds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_pack_refunds_total",
			Help: "Compensating refunds written after failed purchases",
		},
		[]string{"pack_id"},
	)
	CardsSold = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "store_cards_sold_total",
			Help: "Cards discarded through the sell flow",
		},
	)
)

func init() {
	prometheus.MustRegister(RLRequests)
	prometheus.MustRegister(RLBlocked)
	prometheus.MustRegister(PackPurchases)
	prometheus.MustRegister(PackRefunds)
	prometheus.MustRegister(CardsSold)
}
