package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_http_requests_total",
		Help: "HTTP requests handled by the portal, by method and path pattern.",
	}, []string{"method", "path"})

	degradedFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_degraded_fetches_total",
		Help: "Member-area fetches that fell back to local mock data.",
	}, []string{"resource"})

	checkoutSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_checkout_submissions_total",
		Help: "Checkout submissions by outcome.",
	}, []string{"outcome"})
)

func (s *Server) MetricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestsTotal.WithLabelValues(r.Method, r.URL.Path).Inc()
		next(w, r)
	}
}
