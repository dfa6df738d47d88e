package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"production-scheduler-service/internal/domain"
)

// SQLite-backed implementation of the ScheduleRepository port. Timestamps
// are stored as RFC3339 text with nanosecond precision so fractional-minute
// durations survive the round trip.
type SqliteScheduleRepository struct{ DB *sql.DB }

func NewSqliteScheduleRepository(db *sql.DB) *SqliteScheduleRepository {
	return &SqliteScheduleRepository{DB: db}
}

// Return the latest end time among the machine's committed entries, or nil
// when it has none. RFC3339 text compares lexicographically in timestamp
// order only within one UTC offset, so the max is computed after parsing.
func (s *SqliteScheduleRepository) LastEndTime(ctx context.Context, tenantID string, equipmentID int64) (*time.Time, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT end_datetime FROM production_schedules
		WHERE tenant_id = ? AND equipment_id = ?;`,
		tenantID, equipmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("last end time: query equipment %d: %w", equipmentID, err)
	}
	defer rows.Close()

	var last *time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("last end time: scan row: %w", err)
		}
		end, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("last end time: parse %q: %w", raw, err)
		}
		if last == nil || end.After(*last) {
			last = &end
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("last end time: row iteration: %w", err)
	}
	return last, nil
}

func (s *SqliteScheduleRepository) CreateEntry(ctx context.Context, entry *domain.ScheduleEntry) error {
	if entry == nil {
		return errors.New("create schedule entry: entry is nil")
	}

	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO production_schedules (
			tenant_id, order_id, process_routing_id, equipment_id, start_datetime, end_datetime
		) VALUES (?, ?, ?, ?, ?, ?);`,
		entry.TenantID, entry.OrderID, entry.RoutingStepID, entry.EquipmentID,
		entry.StartDatetime.Format(time.RFC3339Nano),
		entry.EndDatetime.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("create schedule entry: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create schedule entry: last insert id: %w", err)
	}
	entry.ID = id
	return nil
}

func (s *SqliteScheduleRepository) ListByOrder(ctx context.Context, tenantID string, orderID int64) ([]*domain.ScheduleEntry, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, process_routing_id, equipment_id, start_datetime, end_datetime
		FROM production_schedules
		WHERE tenant_id = ? AND order_id = ?
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
		var start, end string
		if err := rows.Scan(&e.ID, &e.RoutingStepID, &e.EquipmentID, &start, &end); err != nil {
			return nil, fmt.Errorf("list schedules: scan row: %w", err)
		}
		if e.StartDatetime, err = time.Parse(time.RFC3339Nano, start); err != nil {
			return nil, fmt.Errorf("list schedules: parse start %q: %w", start, err)
		}
		if e.EndDatetime, err = time.Parse(time.RFC3339Nano, end); err != nil {
			return nil, fmt.Errorf("list schedules: parse end %q: %w", end, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list schedules: row iteration: %w", err)
	}
	return entries, nil
}
