// Package kitchen wires the shared work queue, the process-wide counters
// and the worker pool into one explicitly constructed Core.
package kitchen

import (
	"context"

	"walkup-counter/internal/common/logger"
	"walkup-counter/internal/common/metrics"
	"walkup-counter/internal/domain"
	"walkup-counter/internal/microservices/kitchen/coordinator"
	"walkup-counter/internal/microservices/kitchen/queue"
	"walkup-counter/internal/microservices/kitchen/service"
)

type Core struct {
	Queue   *queue.Queue[*coordinator.Ticket]
	Stats   *service.Stats
	Kitchen service.KitchenServiceInterface

	metrics *metrics.Metrics
	lg      *logger.Logger
}

func New(cfg service.Config, lg *logger.Logger, m *metrics.Metrics) *Core {
	if lg == nil {
		lg = logger.Nop()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	q := queue.New[*coordinator.Ticket]()
	stats := service.NewStats()
	return &Core{
		Queue:   q,
		Stats:   stats,
		Kitchen: service.NewKitchenService(q, stats, m, lg, cfg),
		metrics: m,
		lg:      lg,
	}
}

// Start launches the worker pool. Cancelling ctx moves the workers to
// draining.
func (c *Core) Start(ctx context.Context) { c.Kitchen.Start(ctx) }

// Submit queues one ticket per item for the customer.
func (c *Core) Submit(customerID int64, items []domain.Item) (*coordinator.Coordinator, error) {
	co, _, err := coordinator.Submit(c.Queue, customerID, items)
	if err != nil {
		return nil, err
	}
	c.metrics.QueueDepth.Set(float64(c.Queue.Len()))
	return co, nil
}

// Shutdown stops intake, lets the workers drain the queue and waits for
// them to exit.
func (c *Core) Shutdown() service.StatsSnapshot {
	c.Queue.Close()
	c.Kitchen.Wait()
	snap := c.Stats.Snapshot()
	c.lg.Info("kitchen_stopped", map[string]any{"items_prepared": snap.TotalItems()})
	return snap
}
