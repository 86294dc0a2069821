package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"walkup-counter/internal/common/logger"
	"walkup-counter/internal/common/metrics"
	"walkup-counter/internal/domain"
	"walkup-counter/internal/microservices/kitchen/coordinator"
)

// TicketSource is the queue the workers drain.
type TicketSource interface {
	Dequeue(ctx context.Context) (*coordinator.Ticket, error)
	TryDequeue() (*coordinator.Ticket, bool)
	Len() int
}

type WorkerState int32

const (
	StateIdle WorkerState = iota
	StateRunning
	StateDraining
	StateTerminated
)

func (s WorkerState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateTerminated:
		return "terminated"
	default:
		return "idle"
	}
}

type Config struct {
	Workers         int
	DefaultCookTime time.Duration
	CookTimes       map[domain.Item]time.Duration
}

type KitchenServiceInterface interface {
	Start(ctx context.Context)
	Wait()
	States() []WorkerState
}

// KitchenService is the fixed pool of preparation workers.
type KitchenService struct {
	src     TicketSource
	stats   *Stats
	metrics *metrics.Metrics
	lg      *logger.Logger

	workers     int
	defaultCook time.Duration
	cookTimes   map[domain.Item]time.Duration
	sleep       func(time.Duration)

	states    []atomic.Int32
	startOnce sync.Once
	wg        sync.WaitGroup
}

func NewKitchenService(src TicketSource, stats *Stats, m *metrics.Metrics, lg *logger.Logger, cfg Config) *KitchenService {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.DefaultCookTime < 0 {
		cfg.DefaultCookTime = 0
	}
	if m == nil {
		m = metrics.New(nil)
	}
	if lg == nil {
		lg = logger.Nop()
	}
	cook := make(map[domain.Item]time.Duration, len(cfg.CookTimes))
	for it, d := range cfg.CookTimes {
		cook[it] = d
	}
	return &KitchenService{
		src:         src,
		stats:       stats,
		metrics:     m,
		lg:          lg,
		workers:     cfg.Workers,
		defaultCook: cfg.DefaultCookTime,
		cookTimes:   cook,
		sleep:       time.Sleep,
		states:      make([]atomic.Int32, cfg.Workers),
	}
}

// Start launches the workers once. They run until ctx is done or the queue
// is closed, then drain what is left and exit.
func (ks *KitchenService) Start(ctx context.Context) {
	ks.startOnce.Do(func() {
		for i := 0; i < ks.workers; i++ {
			ks.states[i].Store(int32(StateRunning))
			ks.wg.Add(1)
			go ks.worker(ctx, i)
		}
		ks.lg.Info("kitchen_started", map[string]any{"workers": ks.workers})
	})
}

// Wait blocks until every worker has terminated.
func (ks *KitchenService) Wait() { ks.wg.Wait() }

func (ks *KitchenService) States() []WorkerState {
	out := make([]WorkerState, len(ks.states))
	for i := range ks.states {
		out[i] = WorkerState(ks.states[i].Load())
	}
	return out
}

func (ks *KitchenService) worker(ctx context.Context, id int) {
	defer ks.wg.Done()

	for {
		t, err := ks.src.Dequeue(ctx)
		if err != nil {
			break
		}
		ks.prepare(id, t)
	}

	ks.states[id].Store(int32(StateDraining))
	ks.lg.Debug("worker_draining", map[string]any{"worker": id, "queued": ks.src.Len()})
	for {
		t, ok := ks.src.TryDequeue()
		if !ok {
			break
		}
		ks.prepare(id, t)
	}

	ks.states[id].Store(int32(StateTerminated))
	ks.lg.Debug("worker_terminated", map[string]any{"worker": id})
}

func (ks *KitchenService) prepare(id int, t *coordinator.Ticket) {
	ks.metrics.QueueDepth.Set(float64(ks.src.Len()))
	ks.metrics.WorkersBusy.Inc()
	defer ks.metrics.WorkersBusy.Dec()

	name := t.Item.String()
	start := time.Now()
	ks.sleep(ks.cookDelayFor(t.Item))

	if err := t.Coordinator.RecordCompletion(name); err != nil {
		ks.lg.Error("record_completion_failed", err, map[string]any{
			"worker": id, "customer_id": t.CustomerID, "item": name,
		})
	}
	if err := ks.stats.RecordItem(t.Item); err != nil {
		ks.lg.Error("record_item_failed", err, map[string]any{
			"worker": id, "customer_id": t.CustomerID, "item": name,
		})
	}
	ks.metrics.ItemsPrepared.WithLabelValues(name).Inc()
	ks.metrics.PrepDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	ks.lg.Debug("item_prepared", map[string]any{
		"worker": id, "customer_id": t.CustomerID, "item": name, "seq": t.Seq,
	})
}

func (ks *KitchenService) cookDelayFor(it domain.Item) time.Duration {
	if d, ok := ks.cookTimes[it]; ok {
		return d
	}
	return ks.defaultCook
}
