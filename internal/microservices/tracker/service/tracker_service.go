package service

import (
	"context"

	"walkup-counter/internal/common/logger"
	kservice "walkup-counter/internal/microservices/kitchen/service"
	"walkup-counter/internal/microservices/order/domain/dao"
	orepo "walkup-counter/internal/microservices/order/repository"
	"walkup-counter/internal/microservices/tracker/models"
	"walkup-counter/internal/microservices/tracker/repository"
)

type StatsSource interface {
	Snapshot() kservice.StatsSnapshot
}

type QueueSource interface {
	Len() int
}

type WorkerSource interface {
	States() []kservice.WorkerState
}

type AdmissionSource interface {
	Capacity() int64
	Active() int64
	Rejected() int64
}

type TrackerServiceInterface interface {
	Stats() models.StatsView
	Health() models.Health
	RecentOrders(ctx context.Context, limit int) ([]dao.ServedOrder, error)
}

type Deps struct {
	Stats     StatsSource
	Queue     QueueSource
	Workers   WorkerSource
	Admission AdmissionSource
	Orders    orepo.OrderRepositoryInterface
	Repo      repository.TrackerRepoInterface
	Logger    *logger.Logger
}

type TrackerService struct {
	d Deps
}

func NewTrackerService(d Deps) *TrackerService {
	if d.Orders == nil {
		d.Orders = orepo.NopOrderRepository{}
	}
	if d.Repo == nil {
		d.Repo = repository.NopTrackerRepo{}
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	return &TrackerService{d: d}
}

func (s *TrackerService) Stats() models.StatsView {
	snap := s.d.Stats.Snapshot()
	v := models.StatsView{
		Items:           snap.Items,
		TotalItems:      snap.TotalItems(),
		CustomersServed: snap.Customers,
		ActiveSessions:  snap.ActiveSessions,
		TakenAt:         snap.TakenAt,
	}
	if s.d.Queue != nil {
		v.QueueDepth = s.d.Queue.Len()
	}
	if s.d.Workers != nil {
		for _, st := range s.d.Workers.States() {
			v.Workers = append(v.Workers, st.String())
		}
	}
	if s.d.Admission != nil {
		v.Admission = models.AdmissionView{
			Capacity: s.d.Admission.Capacity(),
			Active:   s.d.Admission.Active(),
			Rejected: s.d.Admission.Rejected(),
		}
	}
	return v
}

func (s *TrackerService) Health() models.Health {
	h := models.Health{Status: "ok"}
	if s.d.Workers == nil {
		return h
	}
	for _, st := range s.d.Workers.States() {
		if st == kservice.StateRunning {
			h.Workers++
		}
	}
	if h.Workers == 0 {
		h.Status = "degraded"
	}
	return h
}

func (s *TrackerService) RecentOrders(ctx context.Context, limit int) ([]dao.ServedOrder, error) {
	return s.d.Orders.RecentOrders(ctx, limit)
}

// Report logs the final statistics and stores them when a database is
// configured. It is meant to run once at shutdown.
func (s *TrackerService) Report(ctx context.Context, snap kservice.StatsSnapshot) error {
	fields := map[string]any{
		"customers_served": snap.Customers,
		"total_items":      snap.TotalItems(),
	}
	for item, n := range snap.Items {
		fields["items_"+item] = n
	}
	s.d.Logger.Info("final_statistics", fields)

	if err := s.d.Repo.SaveSnapshot(ctx, snap); err != nil {
		s.d.Logger.Error("stats_persist_failed", err, nil)
		return err
	}
	return nil
}
