package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Router(h *Handler, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/stats", h.TrackerHandler.GetStats)
	mux.HandleFunc("GET /api/v1/health", h.TrackerHandler.GetHealth)
	mux.HandleFunc("GET /api/v1/orders", h.TrackerHandler.GetRecentOrders)
	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}
