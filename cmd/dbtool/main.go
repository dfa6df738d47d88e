package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"production-scheduler-service/internal/platform/db"
)

// dbtool prepares the Postgres schedule store used by deployments that
// share schedules across hosts (local runs stay on SQLite).
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	log.Println("Initializing schedule store schema...")
	if err := initScheduleSchema(pool); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}

func initScheduleSchema(pool *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS production_schedules (
			id BIGSERIAL PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			order_id BIGINT NOT NULL,
			process_routing_id BIGINT NOT NULL,
			equipment_id BIGINT NOT NULL,
			start_datetime TIMESTAMPTZ NOT NULL,
			end_datetime TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_production_schedules_equipment_end
		ON production_schedules (tenant_id, equipment_id, end_datetime DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_production_schedules_order
		ON production_schedules (tenant_id, order_id, start_datetime);`,
	}

	for i, stmt := range statements {
		if _, err := pool.Exec(stmt); err != nil {
			return fmt.Errorf("init schedule schema: exec statement #%d: %w", i+1, err)
		}
	}
	return nil
}
