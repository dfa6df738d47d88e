package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"production-scheduler-service/internal/domain"
	"production-scheduler-service/internal/ports"
)

// SQLite-backed implementation of the ProductRepository port (products plus
// their routing steps, which makes it the scheduler's RoutingProvider).
type SqliteProductRepository struct{ DB *sql.DB }

func NewSqliteProductRepository(db *sql.DB) *SqliteProductRepository {
	return &SqliteProductRepository{DB: db}
}

func (s *SqliteProductRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO products (tenant_id, name, code, type) VALUES (?, ?, ?, ?);`,
		p.TenantID, p.Name, p.Code, p.Type,
	)
	if err != nil {
		return fmt.Errorf("create product: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create product: last insert id: %w", err)
	}
	p.ID = id
	return nil
}

func (s *SqliteProductRepository) ListProducts(ctx context.Context, tenantID string) ([]*domain.Product, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name, code, type FROM products WHERE tenant_id = ? ORDER BY id;`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: query: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0, 16)
	for rows.Next() {
		p := &domain.Product{TenantID: tenantID}
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.Type); err != nil {
			return nil, fmt.Errorf("list products: scan row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: row iteration: %w", err)
	}
	return products, nil
}

func (s *SqliteProductRepository) GetProduct(ctx context.Context, tenantID string, id int64) (*domain.Product, error) {
	p := &domain.Product{ID: id, TenantID: tenantID}
	err := s.DB.QueryRowContext(ctx,
		`SELECT name, code, type FROM products WHERE tenant_id = ? AND id = ?;`,
		tenantID, id,
	).Scan(&p.Name, &p.Code, &p.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product %d: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (s *SqliteProductRepository) UpdateProduct(ctx context.Context, tenantID string, id int64, upd ports.ProductUpdate) (*domain.Product, error) {
	p, err := s.GetProduct(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Code != nil {
		p.Code = *upd.Code
	}
	if upd.Type != nil {
		p.Type = *upd.Type
	}

	if _, err := s.DB.ExecContext(ctx,
		`UPDATE products SET name = ?, code = ?, type = ? WHERE tenant_id = ? AND id = ?;`,
		p.Name, p.Code, p.Type, tenantID, id,
	); err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	return p, nil
}

func (s *SqliteProductRepository) DeleteProduct(ctx context.Context, tenantID string, id int64) error {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM products WHERE tenant_id = ? AND id = ?;`, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product %d: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete product %d: %w", id, ports.ErrNotFound)
	}
	return nil
}

func (s *SqliteProductRepository) CreateRoutingStep(ctx context.Context, step *domain.RoutingStep) error {
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO process_routings (
			tenant_id, product_id, sequence_order, process_name,
			equipment_group_id, setup_time_seconds, unit_time_seconds
		) VALUES (?, ?, ?, ?, ?, ?, ?);`,
		step.TenantID, step.ProductID, step.SequenceOrder, step.ProcessName,
		step.EquipmentGroupID, step.SetupTimeSeconds, step.UnitTimeSeconds,
	)
	if err != nil {
		return fmt.Errorf("create routing step: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create routing step: last insert id: %w", err)
	}
	step.ID = id
	return nil
}

func (s *SqliteProductRepository) DeleteRoutingStep(ctx context.Context, tenantID string, id int64) error {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM process_routings WHERE tenant_id = ? AND id = ?;`, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("delete routing step %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete routing step %d: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete routing step %d: %w", id, ports.ErrNotFound)
	}
	return nil
}

// Return the product's routing steps sorted by ascending sequence order.
func (s *SqliteProductRepository) StepsForProduct(ctx context.Context, tenantID string, productID int64) ([]domain.RoutingStep, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, sequence_order, process_name, equipment_group_id, setup_time_seconds, unit_time_seconds
		FROM process_routings
		WHERE tenant_id = ? AND product_id = ?
		ORDER BY sequence_order;`,
		tenantID, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("steps for product %d: query: %w", productID, err)
	}
	defer rows.Close()

	steps := make([]domain.RoutingStep, 0, 8)
	for rows.Next() {
		step := domain.RoutingStep{TenantID: tenantID, ProductID: productID}
		if err := rows.Scan(
			&step.ID, &step.SequenceOrder, &step.ProcessName,
			&step.EquipmentGroupID, &step.SetupTimeSeconds, &step.UnitTimeSeconds,
		); err != nil {
			return nil, fmt.Errorf("steps for product %d: scan row: %w", productID, err)
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("steps for product %d: row iteration: %w", productID, err)
	}
	return steps, nil
}
