// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	BackendPostgres = "postgres"
	BackendJSON     = "json"
)

// Config contains runtime configuration required by the service.
type Config struct {
	Port    string
	BaseURL string // external base of tracking URLs, e.g. https://qr.example.com
	Backend string // "postgres" or "json"
	DataDir string // document backend storage directory
	DBURL   string // postgres DSN
	AMQPURL string // optional; enables the durable scan-write backlog
}

// Load reads configuration from environment variables. DATABASE_URL wins
// when set; otherwise the DSN is assembled from the DB_* parts.
func Load() (Config, error) {
	cfg := Config{
		Port:    getenv("PORT", "8080"),
		BaseURL: strings.TrimRight(getenv("BASE_URL", "http://localhost:8080"), "/"),
		Backend: getenv("STORAGE_BACKEND", BackendPostgres),
		DataDir: getenv("DATA_DIR", "data"),
		DBURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AMQPURL: strings.TrimSpace(os.Getenv("AMQP_URL")),
	}

	if cfg.Backend != BackendPostgres && cfg.Backend != BackendJSON {
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q",
			BackendPostgres, BackendJSON, cfg.Backend)
	}

	if cfg.Backend == BackendPostgres && cfg.DBURL == "" {
		user := os.Getenv("DB_USER")
		pass := os.Getenv("DB_PASSWORD")
		host := getenv("DB_HOST", "localhost")
		port := getenv("DB_PORT", "5432")
		name := os.Getenv("DB_NAME")
		if user == "" || name == "" {
			return Config{}, errors.New("DATABASE_URL or DB_USER/DB_NAME required for postgres backend")
		}
		cfg.DBURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			user, pass, host, port, name)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
