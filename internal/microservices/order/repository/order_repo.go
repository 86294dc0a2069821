package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"walkup-counter/internal/microservices/order/domain/dao"
)

// DB is the slice of pgxpool.Pool the repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type OrderRepositoryInterface interface {
	AddOrder(ctx context.Context, order dao.ServedOrder) error
	RecentOrders(ctx context.Context, limit int) ([]dao.ServedOrder, error)
}

type OrderRepository struct {
	db DB
}

func NewOrderRepository(db DB) OrderRepositoryInterface {
	return &OrderRepository{db: db}
}

func (or *OrderRepository) AddOrder(ctx context.Context, order dao.ServedOrder) error {
	_, err := or.db.Exec(ctx, `
		INSERT INTO served_orders (customer_id, items, result, prepared_at)
		VALUES ($1, $2, $3, $4)
	`, order.CustomerID, order.Items, order.Result, order.PreparedAt)
	if err != nil {
		return fmt.Errorf("failed to insert served order: %w", err)
	}
	return nil
}

func (or *OrderRepository) RecentOrders(ctx context.Context, limit int) ([]dao.ServedOrder, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := or.db.Query(ctx, `
		SELECT id, customer_id, items, result, prepared_at
		FROM served_orders
		ORDER BY prepared_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query served orders: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByPos[dao.ServedOrder])
	if err != nil {
		return nil, fmt.Errorf("failed to scan served orders: %w", err)
	}
	return out, nil
}

// NopOrderRepository is used when no database is configured.
type NopOrderRepository struct{}

func (NopOrderRepository) AddOrder(context.Context, dao.ServedOrder) error { return nil }
func (NopOrderRepository) RecentOrders(context.Context, int) ([]dao.ServedOrder, error) {
	return nil, nil
}
