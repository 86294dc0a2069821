package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	kservice "walkup-counter/internal/microservices/kitchen/service"
)

// TxStarter is satisfied by *pgxpool.Pool.
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type TrackerRepoInterface interface {
	SaveSnapshot(ctx context.Context, snap kservice.StatsSnapshot) error
}

type TrackerRepo struct {
	db TxStarter
}

func NewTrackerRepo(db TxStarter) *TrackerRepo { return &TrackerRepo{db: db} }

// SaveSnapshot writes the snapshot header and one row per item in a single
// transaction.
func (r *TrackerRepo) SaveSnapshot(ctx context.Context, snap kservice.StatsSnapshot) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var id int64
		if err := tx.QueryRow(ctx, `
INSERT INTO stats_snapshots (taken_at, customers_served)
VALUES ($1, $2)
RETURNING id
`, snap.TakenAt, snap.Customers).Scan(&id); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for item, n := range snap.Items {
			batch.Queue(`
INSERT INTO stats_snapshot_items (snapshot_id, item, prepared)
VALUES ($1, $2, $3)
`, id, item, n)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("save stats snapshot: %w", err)
	}
	return nil
}

type NopTrackerRepo struct{}

func (NopTrackerRepo) SaveSnapshot(context.Context, kservice.StatsSnapshot) error { return nil }
