package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tenant_id TEXT NOT NULL,
			name TEXT NOT NULL,
			code TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS process_routings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tenant_id TEXT NOT NULL,
			product_id INTEGER NOT NULL,
			sequence_order INTEGER NOT NULL,
			process_name TEXT NOT NULL DEFAULT '',
			equipment_group_id INTEGER NOT NULL,
			setup_time_seconds INTEGER NOT NULL DEFAULT 0,
			unit_time_seconds REAL NOT NULL DEFAULT 0,
			UNIQUE (product_id, sequence_order)
		);`,
		`CREATE TABLE IF NOT EXISTS equipments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tenant_id TEXT NOT NULL,
			name TEXT NOT NULL,
			code TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS equipment_groups (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tenant_id TEXT NOT NULL,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS equipment_group_members (
			equipment_group_id INTEGER NOT NULL,
			equipment_id INTEGER NOT NULL,
			PRIMARY KEY (equipment_group_id, equipment_id)
		);`,
		`CREATE TABLE IF NOT EXISTS orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tenant_id TEXT NOT NULL,
			order_number TEXT NOT NULL,
			product_id INTEGER NOT NULL,
			quantity INTEGER NOT NULL,
			deadline_date TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS production_schedules (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tenant_id TEXT NOT NULL,
			order_id INTEGER NOT NULL,
			process_routing_id INTEGER NOT NULL,
			equipment_id INTEGER NOT NULL,
			start_datetime TEXT NOT NULL,
			end_datetime TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_production_schedules_equipment_end
		ON production_schedules(equipment_id, end_datetime);`,
		`CREATE INDEX IF NOT EXISTS idx_process_routings_product
		ON process_routings(product_id, sequence_order);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Scenario seed format: named machine groups plus products whose routing
// steps reference groups by name.
type ScenarioSeed struct {
	TenantID string         `json:"tenant_id"`
	Groups   []GroupSeed    `json:"groups"`
	Products []ProductSeed  `json:"products"`
	Orders   []OrderSeed    `json:"orders"`
}

type GroupSeed struct {
	Name     string   `json:"name"`
	Machines []string `json:"machines"`
}

type ProductSeed struct {
	Name     string        `json:"name"`
	Code     string        `json:"code"`
	Type     string        `json:"type"`
	Routings []RoutingSeed `json:"routings"`
}

type RoutingSeed struct {
	SequenceOrder    int     `json:"sequence_order"`
	ProcessName      string  `json:"process_name"`
	EquipmentGroup   string  `json:"equipment_group"`
	SetupTimeSeconds int     `json:"setup_time_seconds"`
	UnitTimeSeconds  float64 `json:"unit_time_seconds"`
}

type OrderSeed struct {
	OrderNumber string `json:"order_number"`
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
}

// Populate the database with a demo scenario from a JSON file. Seeding is
// idempotent per tenant: an already-seeded tenant is left untouched.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed scenario: read %q: %w", jsonPath, err)
	}

	var seed ScenarioSeed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return fmt.Errorf("seed scenario: parse json: %w", err)
	}

	tenant := strings.TrimSpace(seed.TenantID)
	if tenant == "" {
		return errors.New("seed scenario: tenant_id is required")
	}

	var existing int
	if err := db.QueryRow(`SELECT COUNT(*) FROM equipment_groups WHERE tenant_id = ?;`, tenant).Scan(&existing); err != nil {
		return fmt.Errorf("seed scenario: check existing data: %w", err)
	}
	if existing > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed scenario: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	groupIDs := make(map[string]int64, len(seed.Groups))
	for _, g := range seed.Groups {
		res, err := tx.Exec(`INSERT INTO equipment_groups (tenant_id, name) VALUES (?, ?);`, tenant, g.Name)
		if err != nil {
			return fmt.Errorf("seed scenario: insert group %q: %w", g.Name, err)
		}
		groupID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("seed scenario: group id for %q: %w", g.Name, err)
		}
		groupIDs[g.Name] = groupID

		for _, machine := range g.Machines {
			res, err := tx.Exec(`INSERT INTO equipments (tenant_id, name) VALUES (?, ?);`, tenant, machine)
			if err != nil {
				return fmt.Errorf("seed scenario: insert machine %q: %w", machine, err)
			}
			machineID, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("seed scenario: machine id for %q: %w", machine, err)
			}
			if _, err := tx.Exec(
				`INSERT INTO equipment_group_members (equipment_group_id, equipment_id) VALUES (?, ?);`,
				groupID, machineID,
			); err != nil {
				return fmt.Errorf("seed scenario: add %q to group %q: %w", machine, g.Name, err)
			}
		}
	}

	productIDs := make(map[string]int64, len(seed.Products))
	for _, p := range seed.Products {
		res, err := tx.Exec(
			`INSERT INTO products (tenant_id, name, code, type) VALUES (?, ?, ?, ?);`,
			tenant, p.Name, p.Code, p.Type,
		)
		if err != nil {
			return fmt.Errorf("seed scenario: insert product %q: %w", p.Name, err)
		}
		productID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("seed scenario: product id for %q: %w", p.Name, err)
		}
		productIDs[p.Code] = productID

		for _, r := range p.Routings {
			groupID, ok := groupIDs[r.EquipmentGroup]
			if !ok {
				return fmt.Errorf("seed scenario: product %q step %d references unknown group %q", p.Name, r.SequenceOrder, r.EquipmentGroup)
			}
			if _, err := tx.Exec(
				`INSERT INTO process_routings (
					tenant_id, product_id, sequence_order, process_name,
					equipment_group_id, setup_time_seconds, unit_time_seconds
				) VALUES (?, ?, ?, ?, ?, ?, ?);`,
				tenant, productID, r.SequenceOrder, r.ProcessName, groupID, r.SetupTimeSeconds, r.UnitTimeSeconds,
			); err != nil {
				return fmt.Errorf("seed scenario: insert routing step %d for %q: %w", r.SequenceOrder, p.Name, err)
			}
		}
	}

	for _, o := range seed.Orders {
		productID, ok := productIDs[o.ProductCode]
		if !ok {
			return fmt.Errorf("seed scenario: order %q references unknown product code %q", o.OrderNumber, o.ProductCode)
		}
		if _, err := tx.Exec(
			`INSERT INTO orders (tenant_id, order_number, product_id, quantity) VALUES (?, ?, ?, ?);`,
			tenant, o.OrderNumber, productID, o.Quantity,
		); err != nil {
			return fmt.Errorf("seed scenario: insert order %q: %w", o.OrderNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed scenario: commit tx: %w", err)
	}

	return nil
}
