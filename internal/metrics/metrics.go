// Package metrics registers the storefront's Prometheus collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CartCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopfront_cart_commands_total",
			Help: "Cart commands applied, by command type",
		},
		[]string{"command"},
	)

	OrdersPlaced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shopfront_orders_placed_total",
			Help: "Orders successfully placed",
		},
	)

	PaymentsAuthorized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shopfront_payments_authorized_total",
			Help: "Payment authorizations issued",
		},
	)
)

func init() {
	prometheus.MustRegister(CartCommands, OrdersPlaced, PaymentsAuthorized)
}
