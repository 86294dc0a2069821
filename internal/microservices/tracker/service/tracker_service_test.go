package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walkup-counter/internal/domain"
	kservice "walkup-counter/internal/microservices/kitchen/service"
	"walkup-counter/internal/microservices/order/admission"
)

type fakeWorkers []kservice.WorkerState

func (f fakeWorkers) States() []kservice.WorkerState { return f }

type fakeQueue int

func (f fakeQueue) Len() int { return int(f) }

type fakeRepo struct {
	saved []kservice.StatsSnapshot
	err   error
}

func (f *fakeRepo) SaveSnapshot(_ context.Context, s kservice.StatsSnapshot) error {
	f.saved = append(f.saved, s)
	return f.err
}

func TestTrackerService_Stats(t *testing.T) {
	stats := kservice.NewStats()
	stats.RecordItem(domain.BigMac)
	stats.RecordItem(domain.BigMac)
	stats.CustomerServed()
	gate := admission.New(3)
	require.True(t, gate.TryAdmit())

	svc := NewTrackerService(Deps{
		Stats:     stats,
		Queue:     fakeQueue(4),
		Workers:   fakeWorkers{kservice.StateRunning, kservice.StateDraining},
		Admission: gate,
	})

	v := svc.Stats()
	assert.Equal(t, int64(2), v.Items["bigmac"])
	assert.Equal(t, int64(2), v.TotalItems)
	assert.Equal(t, int64(1), v.CustomersServed)
	assert.Equal(t, 4, v.QueueDepth)
	assert.Equal(t, []string{"running", "draining"}, v.Workers)
	assert.Equal(t, int64(3), v.Admission.Capacity)
	assert.Equal(t, int64(1), v.Admission.Active)
}

func TestTrackerService_Health(t *testing.T) {
	ok := NewTrackerService(Deps{Stats: kservice.NewStats(), Workers: fakeWorkers{kservice.StateRunning}})
	assert.Equal(t, "ok", ok.Health().Status)
	assert.Equal(t, 1, ok.Health().Workers)

	down := NewTrackerService(Deps{Stats: kservice.NewStats(), Workers: fakeWorkers{kservice.StateTerminated}})
	assert.Equal(t, "degraded", down.Health().Status)
}

func TestTrackerService_Report(t *testing.T) {
	repo := &fakeRepo{}
	stats := kservice.NewStats()
	stats.RecordItem(domain.Chicken)
	svc := NewTrackerService(Deps{Stats: stats, Repo: repo})

	snap := stats.Snapshot()
	require.NoError(t, svc.Report(context.Background(), snap))
	require.Len(t, repo.saved, 1)
	assert.Equal(t, int64(1), repo.saved[0].Items["chicken"])

	repo.err = errors.New("db gone")
	assert.ErrorIs(t, svc.Report(context.Background(), snap), repo.err)
}
