package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "johndoe", cfg.Auth.Tokens["dev-token"])
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Plans.DefaultMonths)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
name: stockplan-test
log_level: DEBUG
http:
  port: 9001
grpc:
  port: 9002
storage:
  driver: postgres
  connection_string: "host=db user=app dbname=plans sslmode=disable"
auth:
  tokens:
    secret: alice
plans:
  default_months: 12
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "stockplan-test", cfg.Name)
	assert.Equal(t, 9001, cfg.HTTP.Port)
	assert.Equal(t, 9002, cfg.GRPC.Port)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "host=db user=app dbname=plans sslmode=disable", cfg.Storage.PostgresDSN())
	assert.Equal(t, map[string]string{"secret": "alice"}, cfg.Auth.Tokens, "file tokens replace the development token")
	assert.Equal(t, 12, cfg.Plans.DefaultMonths)
	// Untouched sections keep their defaults
	assert.Equal(t, 100, cfg.Plans.MaxPageSize)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config from YAML")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"DB_HOST":   "postgres",
		"DB_PORT":   "6543",
		"DB_NAME":   "plans",
		"API_TOKEN": "ci-token",
		"API_USER":  "ci",
		"GRPC_PORT": "7070",
		"LOG_LEVEL": "ERROR",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver, "DB_HOST alone does not switch the driver")
	assert.Equal(t, "host=postgres port=6543 user=postgres password=postgres dbname=plans sslmode=disable", cfg.Storage.PostgresDSN())
	assert.Equal(t, "ci", cfg.Auth.Tokens["ci-token"])
	assert.Equal(t, "johndoe", cfg.Auth.Tokens["dev-token"])
	assert.Equal(t, 7070, cfg.GRPC.Port)
	assert.Equal(t, "ERROR", cfg.LogLevel)
}

func TestApplyEnv_ConnStringSelectsPostgres(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{"DB_CONN_STR": "postgres://x"})))
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)

	cfg = Default()
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{"DB_CONN_STR": "postgres://x", "STORAGE_DRIVER": "SQLITE"})))
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
}

func TestApplyEnv_InvalidNumber(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{"HTTP_PORT": "eighty"}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP_PORT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"Unknown driver", func(c *Config) { c.Storage.Driver = "mysql" }, "unknown storage driver"},
		{"Shared port", func(c *Config) { c.GRPC.Port = c.HTTP.Port }, "cannot share port"},
		{"No tokens", func(c *Config) { c.Auth.Tokens = nil }, "at least one auth token"},
		{"Empty user", func(c *Config) { c.Auth.Tokens = map[string]string{"t": ""} }, "cannot be empty"},
		{"Horizon too long", func(c *Config) { c.Plans.DefaultMonths = 61 }, "default months must be between 1 and 60"},
		{"Max below default", func(c *Config) { c.Plans.MaxPageSize = 1 }, "max >= default"},
		{"Empty sqlite path", func(c *Config) { c.Storage.SQLitePath = "" }, "sqlite path cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestClientConfig_SaveAndLoad(t *testing.T) {
	t.Setenv("STOCKPLAN_URL", "")
	t.Setenv("STOCKPLAN_TOKEN", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultClientConfig()
	cfg.Server.URL = "http://plans.example:8081"
	cfg.Display.Currency = "EUR"
	require.NoError(t, SaveClient(path, cfg))

	loaded, err := LoadClient(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadClient_EnvOverrides(t *testing.T) {
	t.Setenv("STOCKPLAN_URL", "http://override")
	t.Setenv("STOCKPLAN_TOKEN", "tok")

	cfg, err := LoadClient(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "http://override", cfg.Server.URL)
	assert.Equal(t, "tok", cfg.Server.Token)
	assert.Equal(t, "USD", cfg.Display.Currency)
}

func TestLoadClient_RejectsBadHorizon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[display]\ndefault_months = 0\n"), 0o600))

	_, err := LoadClient(path)
	assert.Error(t, err)
}
