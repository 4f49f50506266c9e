package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
	"vrptw-route-service/internal/adapters/cache"
	"vrptw-route-service/internal/adapters/generator"
	"vrptw-route-service/internal/adapters/repositories"
	"vrptw-route-service/internal/config"
	"vrptw-route-service/internal/platform/db"

	"github.com/joho/godotenv"
)

// dbtool prepares local storage: it writes a generated seed file when none
// exists, loads it into SQLite and, with DATABASE_URL set, creates the
// Postgres tables.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal(err)
	}

	if err := ensureSeedFile(cfg); err != nil {
		log.Fatal(err)
	}

	sqlite, err := db.OpenSqlite(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlite.Close()

	if err := initAndSeed(sqlite, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL not set, skipping postgres schema")
		return
	}

	pg, err := db.OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("Initializing postgres schema...")
	if err := repositories.NewSQLRunStore(pg).InitSchema(ctx); err != nil {
		log.Fatalf("run store schema failed: %v", err)
	}
	if err := cache.NewSQLMatrixCache(pg).InitSchema(ctx); err != nil {
		log.Fatalf("matrix cache schema failed: %v", err)
	}
	log.Println("Postgres schema ready.")
}

func ensureSeedFile(cfg config.Config) error {
	if _, err := os.Stat(cfg.SeedPath); err == nil {
		return nil
	}

	opts := generator.DefaultOptions()
	opts.Customers = cfg.NodeCount
	opts.Seed = cfg.RandomSeed
	nodes, err := generator.Generate(opts)
	if err != nil {
		return fmt.Errorf("ensure seed file: %w", err)
	}

	seeds := make([]repositories.NodeSeed, 0, len(nodes))
	for _, n := range nodes {
		seeds = append(seeds, repositories.NodeSeedFrom(n))
	}
	b, err := json.MarshalIndent(seeds, "", "  ")
	if err != nil {
		return fmt.Errorf("ensure seed file: encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SeedPath), 0o755); err != nil {
		return fmt.Errorf("ensure seed file: %w", err)
	}
	if err := os.WriteFile(cfg.SeedPath, b, 0o644); err != nil {
		return fmt.Errorf("ensure seed file: %w", err)
	}
	log.Printf("wrote generated seed path=%s customers=%d seed=%d", cfg.SeedPath, opts.Customers, opts.Seed)
	return nil
}

func initAndSeed(sqlite *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(sqlite); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	if err := repositories.SeedFromJSON(sqlite, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Println("Seeding complete.")

	return nil
}
