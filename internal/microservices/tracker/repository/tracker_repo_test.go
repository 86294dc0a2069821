package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	kservice "walkup-counter/internal/microservices/kitchen/service"
)

type refusingDB struct{ err error }

func (r refusingDB) Begin(context.Context) (pgx.Tx, error) { return nil, r.err }

func TestSaveSnapshot_BeginFails(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewTrackerRepo(refusingDB{err: cause}).SaveSnapshot(context.Background(), kservice.StatsSnapshot{})
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "save stats snapshot")
}

func TestNopTrackerRepo(t *testing.T) {
	var r TrackerRepoInterface = NopTrackerRepo{}
	assert.NoError(t, r.SaveSnapshot(context.Background(), kservice.StatsSnapshot{}))
}
