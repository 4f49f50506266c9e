package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Runtime configuration shared by the cmd binaries.
type Config struct {
	Port         string  `yaml:"port"`
	DBPath       string  `yaml:"db_path"`
	DatabaseURL  string  `yaml:"database_url"`
	RedisAddr    string  `yaml:"redis_addr"`
	SeedPath     string  `yaml:"seed_path"`
	ClusterCount int     `yaml:"cluster_count"`
	RandomSeed   int64   `yaml:"random_seed"`
	NodeCount    int     `yaml:"node_count"`
	RateLimitRPS float64 `yaml:"rate_limit_rps"`
	Workers      int     `yaml:"workers"`
	// Partitioner selects the clustering strategy: "kmeans" or "distance".
	Partitioner string `yaml:"partitioner"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:         "8080",
		DBPath:       "data/app.db",
		SeedPath:     "data/seeds/nodes.json",
		ClusterCount: 3,
		RandomSeed:   42,
		NodeCount:    50,
		RateLimitRPS: 20,
		Partitioner:  "kmeans",
	}
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads the optional YAML file at path over the defaults and then
// applies environment overrides. An empty path or a missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.ClusterCount <= 0 {
		return Config{}, fmt.Errorf("load config: cluster_count must be positive, got %d", cfg.ClusterCount)
	}
	switch cfg.Partitioner {
	case "kmeans", "distance":
	default:
		return Config{}, fmt.Errorf("load config: unknown partitioner %q", cfg.Partitioner)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = Get("PORT", cfg.Port)
	cfg.DBPath = Get("DB_PATH", cfg.DBPath)
	cfg.DatabaseURL = Get("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisAddr = Get("REDIS_ADDR", cfg.RedisAddr)
	cfg.SeedPath = Get("SEED_PATH", cfg.SeedPath)
	cfg.Partitioner = Get("PARTITIONER", cfg.Partitioner)

	ints := []struct {
		key string
		dst *int
	}{
		{"CLUSTER_COUNT", &cfg.ClusterCount},
		{"NODE_COUNT", &cfg.NodeCount},
		{"WORKERS", &cfg.Workers},
	}
	for _, e := range ints {
		v := Get(e.key, "")
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", e.key, v, err)
		}
		*e.dst = n
	}

	if v := Get("RANDOM_SEED", ""); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("RANDOM_SEED=%q: %w", v, err)
		}
		cfg.RandomSeed = n
	}

	if v := Get("RATE_LIMIT_RPS", ""); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS=%q: %w", v, err)
		}
		cfg.RateLimitRPS = f
	}

	return nil
}
