package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"walkup-counter/internal/common/logger"
	"walkup-counter/internal/common/metrics"
	"walkup-counter/internal/domain"
	"walkup-counter/internal/microservices/kitchen/coordinator"
	"walkup-counter/internal/microservices/order/domain/dao"
	"walkup-counter/internal/microservices/order/repository"
)

var ErrTimeout = errors.New("order not ready in time")

// Submitter queues an order with the kitchen.
type Submitter interface {
	Submit(customerID int64, items []domain.Item) (*coordinator.Coordinator, error)
}

// CustomerCounter is the part of the kitchen stats a session updates.
type CustomerCounter interface {
	CustomerServed()
}

type OrderServiceInterface interface {
	Serve(ctx context.Context, customerID int64, items []domain.Item) (domain.Receipt, error)
}

type OrderService struct {
	kitchen     Submitter
	stats       CustomerCounter
	db          repository.OrderRepositoryInterface
	notifier    Notifier
	metrics     *metrics.Metrics
	lg          *logger.Logger
	waitTimeout time.Duration
}

type Deps struct {
	Kitchen     Submitter
	Stats       CustomerCounter
	Repo        repository.OrderRepositoryInterface
	Notifier    Notifier
	Metrics     *metrics.Metrics
	Logger      *logger.Logger
	WaitTimeout time.Duration
}

func NewOrderService(d Deps) *OrderService {
	if d.Repo == nil {
		d.Repo = repository.NopOrderRepository{}
	}
	if d.Notifier == nil {
		d.Notifier = NopNotifier{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New(nil)
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	if d.WaitTimeout <= 0 {
		d.WaitTimeout = 2 * time.Minute
	}
	return &OrderService{
		kitchen:     d.Kitchen,
		stats:       d.Stats,
		db:          d.Repo,
		notifier:    d.Notifier,
		metrics:     d.Metrics,
		lg:          d.Logger,
		waitTimeout: d.WaitTimeout,
	}
}

// Serve submits the order, waits for the kitchen to finish every item and
// returns the receipt. Failures stay local to this session.
func (or *OrderService) Serve(ctx context.Context, customerID int64, items []domain.Item) (domain.Receipt, error) {
	start := time.Now()

	co, err := or.kitchen.Submit(customerID, items)
	if err != nil {
		or.metrics.SessionErrors.WithLabelValues("submit").Inc()
		return domain.Receipt{}, fmt.Errorf("submit order: %w", err)
	}

	wctx, cancel := context.WithTimeout(ctx, or.waitTimeout)
	defer cancel()
	result, err := co.AwaitCompletion(wctx)
	if err != nil {
		or.metrics.OrdersAbandoned.Inc()
		or.metrics.SessionErrors.WithLabelValues("wait").Inc()
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return domain.Receipt{}, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return domain.Receipt{}, fmt.Errorf("await order: %w", err)
	}

	if or.stats != nil {
		or.stats.CustomerServed()
	}
	or.metrics.OrdersCompleted.Inc()
	or.metrics.OrderWait.Observe(time.Since(start).Seconds())

	receipt := domain.Receipt{
		CustomerID: customerID,
		Items:      items,
		Result:     result,
		PreparedAt: time.Now().UTC(),
	}
	or.afterServe(ctx, receipt)

	or.lg.Debug("order_served", map[string]any{
		"customer_id": customerID, "items": len(items), "wait_ms": time.Since(start).Milliseconds(),
	})
	return receipt, nil
}

// afterServe records and announces the receipt. Neither step can fail the
// session.
func (or *OrderService) afterServe(ctx context.Context, r domain.Receipt) {
	if err := or.db.AddOrder(ctx, dao.ServedOrder{
		CustomerID: r.CustomerID,
		Items:      r.ItemNames(),
		Result:     r.Result,
		PreparedAt: r.PreparedAt,
	}); err != nil {
		or.lg.Error("order_log_failed", err, map[string]any{"customer_id": r.CustomerID})
	}

	nctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := or.notifier.OrderReady(nctx, r); err != nil {
		or.lg.Error("notify_failed", err, map[string]any{"customer_id": r.CustomerID})
	}
}
