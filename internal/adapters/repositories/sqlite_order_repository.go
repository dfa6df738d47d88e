package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"production-scheduler-service/internal/domain"
	"production-scheduler-service/internal/ports"
)

// SQLite-backed implementation of the OrderRepository port.
type SqliteOrderRepository struct{ DB *sql.DB }

func NewSqliteOrderRepository(db *sql.DB) *SqliteOrderRepository {
	return &SqliteOrderRepository{DB: db}
}

func (s *SqliteOrderRepository) CreateOrder(ctx context.Context, o *domain.Order) error {
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO orders (tenant_id, order_number, product_id, quantity, deadline_date)
		VALUES (?, ?, ?, ?, ?);`,
		o.TenantID, o.OrderNumber, o.ProductID, o.Quantity, o.DeadlineDate,
	)
	if err != nil {
		return fmt.Errorf("create order: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create order: last insert id: %w", err)
	}
	o.ID = id
	return nil
}

func (s *SqliteOrderRepository) ListOrders(ctx context.Context, tenantID string) ([]*domain.Order, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, order_number, product_id, quantity, deadline_date
		FROM orders WHERE tenant_id = ? ORDER BY id;`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: query: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0, 16)
	for rows.Next() {
		o := &domain.Order{TenantID: tenantID}
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.ProductID, &o.Quantity, &o.DeadlineDate); err != nil {
			return nil, fmt.Errorf("list orders: scan row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: row iteration: %w", err)
	}
	return orders, nil
}

func (s *SqliteOrderRepository) GetOrder(ctx context.Context, tenantID string, id int64) (*domain.Order, error) {
	o := &domain.Order{ID: id, TenantID: tenantID}
	err := s.DB.QueryRowContext(ctx,
		`SELECT order_number, product_id, quantity, deadline_date
		FROM orders WHERE tenant_id = ? AND id = ?;`,
		tenantID, id,
	).Scan(&o.OrderNumber, &o.ProductID, &o.Quantity, &o.DeadlineDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order %d: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return o, nil
}

func (s *SqliteOrderRepository) UpdateOrder(ctx context.Context, tenantID string, id int64, upd ports.OrderUpdate) (*domain.Order, error) {
	o, err := s.GetOrder(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if upd.OrderNumber != nil {
		o.OrderNumber = *upd.OrderNumber
	}
	if upd.ProductID != nil {
		o.ProductID = *upd.ProductID
	}
	if upd.Quantity != nil {
		o.Quantity = *upd.Quantity
	}
	if upd.DeadlineDate != nil {
		o.DeadlineDate = *upd.DeadlineDate
	}

	if _, err := s.DB.ExecContext(ctx,
		`UPDATE orders SET order_number = ?, product_id = ?, quantity = ?, deadline_date = ?
		WHERE tenant_id = ? AND id = ?;`,
		o.OrderNumber, o.ProductID, o.Quantity, o.DeadlineDate, tenantID, id,
	); err != nil {
		return nil, fmt.Errorf("update order %d: %w", id, err)
	}
	return o, nil
}

func (s *SqliteOrderRepository) DeleteOrder(ctx context.Context, tenantID string, id int64) error {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM orders WHERE tenant_id = ? AND id = ?;`, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order %d: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete order %d: %w", id, ports.ErrNotFound)
	}
	return nil
}
