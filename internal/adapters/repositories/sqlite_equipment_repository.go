package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"production-scheduler-service/internal/domain"
	"production-scheduler-service/internal/ports"
)

// SQLite-backed implementation of the EquipmentRepository port (machines,
// groups, and the membership join table, which makes it the scheduler's
// EquipmentMembership provider).
type SqliteEquipmentRepository struct{ DB *sql.DB }

func NewSqliteEquipmentRepository(db *sql.DB) *SqliteEquipmentRepository {
	return &SqliteEquipmentRepository{DB: db}
}

func (s *SqliteEquipmentRepository) CreateEquipment(ctx context.Context, e *domain.Equipment) error {
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO equipments (tenant_id, name, code) VALUES (?, ?, ?);`,
		e.TenantID, e.Name, e.Code,
	)
	if err != nil {
		return fmt.Errorf("create equipment: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create equipment: last insert id: %w", err)
	}
	e.ID = id
	return nil
}

func (s *SqliteEquipmentRepository) ListEquipment(ctx context.Context, tenantID string) ([]*domain.Equipment, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name, code FROM equipments WHERE tenant_id = ? ORDER BY id;`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list equipment: query: %w", err)
	}
	defer rows.Close()

	machines := make([]*domain.Equipment, 0, 16)
	for rows.Next() {
		e := &domain.Equipment{TenantID: tenantID}
		if err := rows.Scan(&e.ID, &e.Name, &e.Code); err != nil {
			return nil, fmt.Errorf("list equipment: scan row: %w", err)
		}
		machines = append(machines, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list equipment: row iteration: %w", err)
	}
	return machines, nil
}

func (s *SqliteEquipmentRepository) GetEquipment(ctx context.Context, tenantID string, id int64) (*domain.Equipment, error) {
	e := &domain.Equipment{ID: id, TenantID: tenantID}
	err := s.DB.QueryRowContext(ctx,
		`SELECT name, code FROM equipments WHERE tenant_id = ? AND id = ?;`,
		tenantID, id,
	).Scan(&e.Name, &e.Code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get equipment %d: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get equipment %d: %w", id, err)
	}
	return e, nil
}

func (s *SqliteEquipmentRepository) UpdateEquipment(ctx context.Context, tenantID string, id int64, upd ports.EquipmentUpdate) (*domain.Equipment, error) {
	e, err := s.GetEquipment(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		e.Name = *upd.Name
	}
	if upd.Code != nil {
		e.Code = *upd.Code
	}

	if _, err := s.DB.ExecContext(ctx,
		`UPDATE equipments SET name = ?, code = ? WHERE tenant_id = ? AND id = ?;`,
		e.Name, e.Code, tenantID, id,
	); err != nil {
		return nil, fmt.Errorf("update equipment %d: %w", id, err)
	}
	return e, nil
}

func (s *SqliteEquipmentRepository) DeleteEquipment(ctx context.Context, tenantID string, id int64) error {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM equipments WHERE tenant_id = ? AND id = ?;`, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("delete equipment %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete equipment %d: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete equipment %d: %w", id, ports.ErrNotFound)
	}
	return nil
}

func (s *SqliteEquipmentRepository) CreateGroup(ctx context.Context, g *domain.EquipmentGroup) error {
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO equipment_groups (tenant_id, name) VALUES (?, ?);`,
		g.TenantID, g.Name,
	)
	if err != nil {
		return fmt.Errorf("create equipment group: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create equipment group: last insert id: %w", err)
	}
	g.ID = id
	return nil
}

func (s *SqliteEquipmentRepository) ListGroups(ctx context.Context, tenantID string) ([]*domain.EquipmentGroup, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name FROM equipment_groups WHERE tenant_id = ? ORDER BY id;`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list equipment groups: query: %w", err)
	}
	defer rows.Close()

	groups := make([]*domain.EquipmentGroup, 0, 8)
	for rows.Next() {
		g := &domain.EquipmentGroup{TenantID: tenantID}
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("list equipment groups: scan row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list equipment groups: row iteration: %w", err)
	}
	return groups, nil
}

func (s *SqliteEquipmentRepository) GetGroup(ctx context.Context, tenantID string, id int64) (*domain.EquipmentGroup, error) {
	g := &domain.EquipmentGroup{ID: id, TenantID: tenantID}
	err := s.DB.QueryRowContext(ctx,
		`SELECT name FROM equipment_groups WHERE tenant_id = ? AND id = ?;`,
		tenantID, id,
	).Scan(&g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get equipment group %d: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get equipment group %d: %w", id, err)
	}
	return g, nil
}

func (s *SqliteEquipmentRepository) DeleteGroup(ctx context.Context, tenantID string, id int64) error {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM equipment_groups WHERE tenant_id = ? AND id = ?;`, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("delete equipment group %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete equipment group %d: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete equipment group %d: %w", id, ports.ErrNotFound)
	}
	if _, err := s.DB.ExecContext(ctx,
		`DELETE FROM equipment_group_members WHERE equipment_group_id = ?;`, id,
	); err != nil {
		return fmt.Errorf("delete equipment group %d: clear members: %w", id, err)
	}
	return nil
}

func (s *SqliteEquipmentRepository) AddGroupMember(ctx context.Context, tenantID string, groupID, equipmentID int64) error {
	// Both ends must exist within the tenant before touching the join table.
	if _, err := s.GetGroup(ctx, tenantID, groupID); err != nil {
		return fmt.Errorf("add group member: %w", err)
	}
	if _, err := s.GetEquipment(ctx, tenantID, equipmentID); err != nil {
		return fmt.Errorf("add group member: %w", err)
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO equipment_group_members (equipment_group_id, equipment_id) VALUES (?, ?);`,
		groupID, equipmentID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("add group member: group=%d equipment=%d: %w", groupID, equipmentID, ports.ErrDuplicateMember)
		}
		return fmt.Errorf("add group member: insert: %w", err)
	}
	return nil
}

// Return the equipment ids belonging to the group, sorted ascending. The
// ordering backs the scheduler's deterministic first-seen-wins tie-break.
func (s *SqliteEquipmentRepository) MembersOfGroup(ctx context.Context, tenantID string, groupID int64) ([]int64, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT m.equipment_id
		FROM equipment_group_members m
		JOIN equipments e ON e.id = m.equipment_id
		WHERE m.equipment_group_id = ? AND e.tenant_id = ?
		ORDER BY m.equipment_id;`,
		groupID, tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("members of group %d: query: %w", groupID, err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 8)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("members of group %d: scan row: %w", groupID, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("members of group %d: row iteration: %w", groupID, err)
	}
	return ids, nil
}
