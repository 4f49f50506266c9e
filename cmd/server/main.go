package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"vrptw-route-service/internal/adapters/cache"
	"vrptw-route-service/internal/adapters/cluster"
	"vrptw-route-service/internal/adapters/distance"
	"vrptw-route-service/internal/adapters/generator"
	"vrptw-route-service/internal/adapters/repositories"
	"vrptw-route-service/internal/api"
	"vrptw-route-service/internal/config"
	"vrptw-route-service/internal/metrics"
	"vrptw-route-service/internal/platform/db"
	"vrptw-route-service/internal/ports"
	"vrptw-route-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

const matrixCacheTTL = 24 * time.Hour

// main is the application composition root.
// It wires concrete adapters (SQLite, Postgres, Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal(err)
	}

	sqlite, err := db.OpenSqlite(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlite.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(sqlite, cfg); err != nil {
		log.Fatal(err)
	}

	var (
		matrixCache ports.MatrixCache = cache.NewSqliteMatrixCache(sqlite)
		runs        ports.RunStore
	)

	if cfg.DatabaseURL != "" {
		pg, err := db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()

		store := repositories.NewSQLRunStore(pg)
		pgCache := cache.NewSQLMatrixCache(pg)
		if err := initPostgres(store, pgCache); err != nil {
			log.Fatal(err)
		}
		runs = store
		matrixCache = pgCache
		log.Println("postgres enabled: run history and matrix cache")
	}

	// Redis takes precedence as the matrix cache when configured.
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("redis ping addr=%s: %v", cfg.RedisAddr, err)
		}
		matrixCache = cache.NewRedisMatrixCache(rdb, matrixCacheTTL)
		log.Printf("redis matrix cache enabled addr=%s", cfg.RedisAddr)
	}

	provider, err := distance.NewCachedProvider(distance.NewEuclideanProvider(), matrixCache)
	if err != nil {
		log.Fatal(err)
	}

	metrics.RegisterDefault()

	router := api.NewRouter(api.Deps{
		Nodes:        repositories.NewSqliteNodeRepository(sqlite),
		Provider:     provider,
		Partitioner:  newPartitioner(cfg, provider),
		Runs:         runs,
		DefaultK:     cfg.ClusterCount,
		Workers:      cfg.Workers,
		RateLimitRPS: cfg.RateLimitRPS,
		SolveTimeout: 60 * time.Second,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server listening addr=:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// initAndSeed creates the SQLite schema and loads the seed file, falling back
// to a generated dataset when the file does not exist.
func initAndSeed(sqlite *sql.DB, cfg config.Config) error {
	if err := repositories.InitSchema(sqlite); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(cfg.SeedPath); err == nil {
		if err := repositories.SeedFromJSON(sqlite, cfg.SeedPath); err != nil {
			return fmt.Errorf("init and seed: %w", err)
		}
		return nil
	}

	opts := generator.DefaultOptions()
	opts.Customers = cfg.NodeCount
	opts.Seed = cfg.RandomSeed
	nodes, err := generator.Generate(opts)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	log.Printf("seed file missing path=%s, generated customers=%d seed=%d", cfg.SeedPath, opts.Customers, opts.Seed)

	if err := repositories.SeedNodes(sqlite, nodes); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	return nil
}

func newPartitioner(cfg config.Config, provider ports.MatrixProvider) ports.Partitioner {
	if cfg.Partitioner == "distance" {
		return services.NewBandPartitioner(provider)
	}
	return cluster.NewKMeans(cfg.RandomSeed)
}

func initPostgres(store *repositories.SQLRunStore, pgCache *cache.SQLMatrixCache) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := store.InitSchema(ctx); err != nil {
		return err
	}
	return pgCache.InitSchema(ctx)
}
