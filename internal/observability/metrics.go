// Package observability holds the Prometheus metrics exported by the service.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TrackingRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricewatch_tracking_runs_total",
		Help: "Number of tracking passes started.",
	})
	ProductsUpdatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricewatch_products_updated_total",
		Help: "Number of products successfully updated by tracking passes.",
	})
	SnapshotFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricewatch_snapshot_failures_total",
		Help: "Number of per-product snapshot fetches that failed and were skipped.",
	})
	NotificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricewatch_notifications_total",
		Help: "Number of notification deliveries attempted, by kind.",
	}, []string{"kind"})
	DeliveryFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricewatch_delivery_failures_total",
		Help: "Number of notification deliveries that failed.",
	})
)

// MustRegister registers all service metrics with the default registry.
// Call once at startup.
func MustRegister() {
	prometheus.MustRegister(
		TrackingRunsTotal,
		ProductsUpdatedTotal,
		SnapshotFailuresTotal,
		NotificationsTotal,
		DeliveryFailuresTotal,
	)
}

// Handler exposes the default registry for mounting on the HTTP router.
func Handler() http.Handler {
	return promhttp.Handler()
}
