package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"production-scheduler-service/internal/adapters/cache"
	"production-scheduler-service/internal/adapters/repositories"
	"production-scheduler-service/internal/api"
	"production-scheduler-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, optionally Redis) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := getEnv("DB_PATH", "data/app.db")
	seedPath := getEnv("SEED_PATH", "data/scenarios/standard_demo.json")
	port := getEnv("PORT", "8080")

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}

	productRepo := repositories.NewSqliteProductRepository(db)
	equipmentRepo := repositories.NewSqliteEquipmentRepository(db)
	orderRepo := repositories.NewSqliteOrderRepository(db)
	scheduleRepo := repositories.NewSqliteScheduleRepository(db)

	// The scheduler re-reads routing steps and group membership on every
	// run; with Redis configured those reads go through a read-through
	// cache that master-data writes invalidate.
	var (
		routings    ports.RoutingProvider     = productRepo
		membership  ports.EquipmentMembership = equipmentRepo
		invalidator ports.MasterCacheInvalidator
	)
	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		masterCache := cache.NewRedisMasterCache(client, productRepo, equipmentRepo, 5*time.Minute)
		routings = masterCache
		membership = masterCache
		invalidator = masterCache
		log.Printf("master-data cache enabled addr=%s", addr)
	}

	router := api.NewRouter(api.Deps{
		Products:   productRepo,
		Equipment:  equipmentRepo,
		Orders:     orderRepo,
		Schedules:  scheduleRepo,
		Routings:   routings,
		Membership: membership,
		Cache:      invalidator,
	})

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	// A missing scenario file just means an empty database.
	if _, err := os.Stat(seedPath); os.IsNotExist(err) {
		log.Printf("no seed scenario at %s, starting empty", seedPath)
		return nil
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
