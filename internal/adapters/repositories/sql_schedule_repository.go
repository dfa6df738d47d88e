package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"production-scheduler-service/internal/domain"
	"production-scheduler-service/internal/platform/obs"
)

// Postgres-backed implementation of the ScheduleRepository port, for
// deployments where schedules outlive a single host. Uses timestamptz
// columns, so ordering can be pushed into the query.
type SQLScheduleRepository struct{ DB *sql.DB }

func NewSQLScheduleRepository(db *sql.DB) *SQLScheduleRepository {
	return &SQLScheduleRepository{DB: db}
}

func (s *SQLScheduleRepository) LastEndTime(ctx context.Context, tenantID string, equipmentID int64) (_ *time.Time, err error) {
	defer obs.Time(ctx, "schedule.store.LastEndTime")(&err)

	if s.DB == nil {
		return nil, errors.New("schedule store: db is nil")
	}

	var end time.Time
	err = s.DB.QueryRowContext(ctx,
		`SELECT end_datetime FROM production_schedules
		WHERE tenant_id = $1 AND equipment_id = $2
		ORDER BY end_datetime DESC
		LIMIT 1;`,
		tenantID, equipmentID,
	).Scan(&end)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last end time: query equipment %d: %w", equipmentID, err)
	}
	return &end, nil
}

func (s *SQLScheduleRepository) CreateEntry(ctx context.Context, entry *domain.ScheduleEntry) (err error) {
	defer obs.Time(ctx, "schedule.store.CreateEntry")(&err)

	if s.DB == nil {
		return errors.New("schedule store: db is nil")
	}
	if entry == nil {
		return errors.New("create schedule entry: entry is nil")
	}

	err = s.DB.QueryRowContext(ctx,
		`INSERT INTO production_schedules (
			tenant_id, order_id, process_routing_id, equipment_id, start_datetime, end_datetime
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;`,
		entry.TenantID, entry.OrderID, entry.RoutingStepID, entry.EquipmentID,
		entry.StartDatetime, entry.EndDatetime,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("create schedule entry: insert: %w", err)
	}
	return nil
}

func (s *SQLScheduleRepository) ListByOrder(ctx context.Context, tenantID string, orderID int64) (_ []*domain.ScheduleEntry, err error) {
	defer obs.Time(ctx, "schedule.store.ListByOrder")(&err)

	if s.DB == nil {
		return nil, errors.New("schedule store: db is nil")
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, process_routing_id, equipment_id, start_datetime, end_datetime
		FROM production_schedules
		WHERE tenant_id = $1 AND order_id = $2
		ORDER BY start_datetime, id;`,
		tenantID, orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("list schedules: query order %d: %w", orderID, err)
	}
	defer rows.Close()

	entries := make([]*domain.ScheduleEntry, 0, 8)
	for rows.Next() {
		e := &domain.ScheduleEntry{TenantID: tenantID, OrderID: orderID}
		if err := rows.Scan(&e.ID, &e.RoutingStepID, &e.EquipmentID, &e.StartDatetime, &e.EndDatetime); err != nil {
			return nil, fmt.Errorf("list schedules: scan row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list schedules: row iteration: %w", err)
	}
	return entries, nil
}
