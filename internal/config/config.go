// Package config loads the server and client configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultAPIToken = "dev-token"
	defaultAPIUser  = "johndoe"
)

// Config holds the server configuration
type Config struct {
	Name     string        `yaml:"name"`
	LogLevel string        `yaml:"log_level"`
	HTTP     HTTPConfig    `yaml:"http"`
	GRPC     GRPCConfig    `yaml:"grpc"`
	Storage  StorageConfig `yaml:"storage"`
	Auth     AuthConfig    `yaml:"auth"`
	Catalog  CatalogConfig `yaml:"catalog"`
	Plans    PlansConfig   `yaml:"plans"`
}

// HTTPConfig configures the REST API used by the browser front-end
type HTTPConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// GRPCConfig configures the gRPC API
type GRPCConfig struct {
	Port int `yaml:"port"`
}

// StorageConfig selects and configures the persistence driver
type StorageConfig struct {
	Driver           string `yaml:"driver"`            // "postgres" or "sqlite"
	ConnectionString string `yaml:"connection_string"` // Postgres DSN, built from the fields below when empty
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	User             string `yaml:"user"`
	Password         string `yaml:"password"`
	DBName           string `yaml:"dbname"`
	SQLitePath       string `yaml:"sqlite_path"`
	ConnectRetries   int    `yaml:"connect_retries"`
}

// AuthConfig maps bearer tokens to user names
type AuthConfig struct {
	Tokens map[string]string `yaml:"tokens"`
}

// CatalogConfig configures the stock catalog
type CatalogConfig struct {
	Seed     bool `yaml:"seed"`
	PageSize int  `yaml:"page_size"`
}

// PlansConfig configures plan listing and projections
type PlansConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
	DefaultMonths   int `yaml:"default_months"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Name:     "stockplan",
		LogLevel: "INFO",
		HTTP: HTTPConfig{
			Host:           "0.0.0.0",
			Port:           8081,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		GRPC: GRPCConfig{Port: 8080},
		Storage: StorageConfig{
			Driver:         DriverSQLite,
			Host:           "localhost",
			Port:           5432,
			User:           "postgres",
			Password:       "postgres",
			DBName:         "stockplan",
			SQLitePath:     "stockplan.db",
			ConnectRetries: 5,
		},
		Auth: AuthConfig{
			Tokens: map[string]string{defaultAPIToken: defaultAPIUser},
		},
		Catalog: CatalogConfig{Seed: true, PageSize: 10},
		Plans: PlansConfig{
			DefaultPageSize: 10,
			MaxPageSize:     100,
			DefaultMonths:   6,
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies environment overrides
// A missing file is not an error
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// keep defaults
		case err != nil:
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		default:
			// Tokens from the file replace the development default instead of merging with it
			defaults := cfg.Auth.Tokens
			cfg.Auth.Tokens = nil
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
			}
			if cfg.Auth.Tokens == nil {
				cfg.Auth.Tokens = defaults
			}
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overlays environment variables on the configuration
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	if err := envInt(getenv, "HTTP_PORT", &c.HTTP.Port); err != nil {
		return err
	}
	if err := envInt(getenv, "GRPC_PORT", &c.GRPC.Port); err != nil {
		return err
	}

	// An explicit connection string implies Postgres unless told otherwise
	if v := getenv("DB_CONN_STR"); v != "" {
		c.Storage.ConnectionString = v
		c.Storage.Driver = DriverPostgres
	}
	if v := getenv("STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v := getenv("DB_HOST"); v != "" {
		c.Storage.Host = v
	}
	if err := envInt(getenv, "DB_PORT", &c.Storage.Port); err != nil {
		return err
	}
	if v := getenv("DB_USER"); v != "" {
		c.Storage.User = v
	}
	if v := getenv("DB_PASSWORD"); v != "" {
		c.Storage.Password = v
	}
	if v := getenv("DB_NAME"); v != "" {
		c.Storage.DBName = v
	}
	if v := getenv("SQLITE_PATH"); v != "" {
		c.Storage.SQLitePath = v
	}

	if token := getenv("API_TOKEN"); token != "" {
		user := getenv("API_USER")
		if user == "" {
			user = defaultAPIUser
		}
		if c.Auth.Tokens == nil {
			c.Auth.Tokens = make(map[string]string)
		}
		c.Auth.Tokens[token] = user
	}

	return nil
}

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.New("application name cannot be empty")
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port number: %d", c.HTTP.Port)
	}
	if c.GRPC.Port <= 0 || c.GRPC.Port > 65535 {
		return fmt.Errorf("invalid grpc port number: %d", c.GRPC.Port)
	}
	if c.HTTP.Port == c.GRPC.Port {
		return fmt.Errorf("http and grpc cannot share port %d", c.HTTP.Port)
	}

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Storage.ConnectionString == "" && c.Storage.Host == "" {
			return errors.New("postgres requires a connection string or a host")
		}
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("sqlite path cannot be empty")
		}
	default:
		return fmt.Errorf("unknown storage driver %q (must be postgres or sqlite)", c.Storage.Driver)
	}
	if c.Storage.ConnectRetries < 0 {
		return errors.New("connect retries cannot be negative")
	}

	if len(c.Auth.Tokens) == 0 {
		return errors.New("at least one auth token must be configured")
	}
	for token, user := range c.Auth.Tokens {
		if token == "" || user == "" {
			return errors.New("auth tokens and user names cannot be empty")
		}
	}

	if c.Catalog.PageSize <= 0 {
		return errors.New("catalog page size must be greater than 0")
	}
	if c.Plans.DefaultPageSize <= 0 || c.Plans.MaxPageSize < c.Plans.DefaultPageSize {
		return errors.New("plan page sizes must be positive and max >= default")
	}
	if c.Plans.DefaultMonths < 1 || c.Plans.DefaultMonths > 60 {
		return fmt.Errorf("default months must be between 1 and 60, got %d", c.Plans.DefaultMonths)
	}

	return nil
}

// PostgresDSN returns the Postgres connection string
// Format: "host=localhost port=5432 user=postgres password=postgres dbname=stockplan sslmode=disable"
func (s StorageConfig) PostgresDSN() string {
	if s.ConnectionString != "" {
		return s.ConnectionString
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		s.Host, s.Port, s.User, s.Password, s.DBName)
}

func envInt(getenv func(string) string, key string, dst *int) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}
