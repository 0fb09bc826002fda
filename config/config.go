package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for DB_DRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is everything both subcommands read from the environment.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Web    WebConfig
	Log    LogConfig
}

// ServerConfig holds the API listener options.
type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

// DBConfig describes how to reach the record store.
type DBConfig struct {
	Driver       string
	Host         string
	User         string
	Password     string
	Name         string
	Port         string
	MaxOpenConns int
}

// WebConfig holds the frontend listener and its view of the API.
type WebConfig struct {
	Port       string
	APIBaseURL string
	APITimeout time.Duration
}

type LogConfig struct {
	Level string
}

// LoadEnv loads the optional .env file into the process environment.
func LoadEnv(envFile string) error {
	if envFile == "" {
		// missing .env is fine, config then comes from the environment
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading env file %s: %w", envFile, err)
	}
	return nil
}

// Load reads the environment (after LoadEnv) and returns a validated Config.
func Load(envFile string) (*Config, error) {
	if err := LoadEnv(envFile); err != nil {
		return nil, err
	}

	maxConns, err := strconv.Atoi(get("DB_MAX_CONNS", "10"))
	if err != nil {
		return nil, fmt.Errorf("DB_MAX_CONNS: %w", err)
	}
	timeout, err := time.ParseDuration(get("API_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("API_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        get("PORT", "3000"),
			CORSOrigins: splitCSV(os.Getenv("CORS_ORIGINS")),
		},
		DB: DBConfig{
			Driver:       strings.ToLower(get("DB_DRIVER", DriverMySQL)),
			Host:         get("DB_HOST", "db"),
			User:         get("DB_USER", "root"),
			Password:     get("DB_PASSWORD", "password"),
			Name:         get("DB_NAME", "yarn_inventory_db"),
			Port:         get("DB_PORT", "3306"),
			MaxOpenConns: maxConns,
		},
		Web: WebConfig{
			Port:       get("WEB_PORT", "5173"),
			APIBaseURL: strings.TrimSuffix(get("API_URL", "http://localhost:3000"), "/"),
			APITimeout: timeout,
		},
		Log: LogConfig{
			Level: get("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	switch c.DB.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be one of mysql, postgres, sqlite; got %q", c.DB.Driver)
	}
	if c.DB.MaxOpenConns <= 0 {
		return errors.New("DB_MAX_CONNS must be positive")
	}
	if c.Server.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.Web.APIBaseURL == "" {
		return errors.New("API_URL must not be empty")
	}
	if c.Web.APITimeout <= 0 {
		return errors.New("API_TIMEOUT must be positive")
	}
	return nil
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func splitCSV(csv string) []string {
	var out []string
	for _, s := range strings.Split(csv, ",") {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
