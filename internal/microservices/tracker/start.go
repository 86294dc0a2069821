package tracker

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"walkup-counter/internal/common/httpx"
	"walkup-counter/internal/microservices/tracker/handler"
	"walkup-counter/internal/microservices/tracker/service"
)

// Start serves the statistics API on addr until ctx is done.
func Start(ctx context.Context, addr string, svc service.TrackerServiceInterface, gatherer prometheus.Gatherer) error {
	h := handler.New(svc)
	srv := httpx.New(addr, handler.Router(h, gatherer))
	return srv.Run(ctx)
}
