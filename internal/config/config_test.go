package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.JWT.AccessTokenExpiration != "24h" {
		t.Errorf("access token expiration = %q", cfg.JWT.AccessTokenExpiration)
	}
	if cfg.Redis.Enabled {
		t.Error("redis should be disabled by default")
	}
	if cfg.Analytics.DefaultMonths != 12 || cfg.Analytics.DefaultReasons != 10 || cfg.Analytics.AnomalyThreshold != 2.0 {
		t.Errorf("unexpected analytics defaults: %+v", cfg.Analytics)
	}
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
jwt:
  secret: from-file
redis:
  enabled: true
  addr: cache:6379
analytics:
  anomaly_threshold: 1.5
`)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ANALYTICS_CACHE_TTL", "30s")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "9100" {
		t.Errorf("port = %q, want env override 9100", cfg.Server.Port)
	}
	if cfg.JWT.Secret != "from-file" {
		t.Errorf("secret = %q", cfg.JWT.Secret)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "cache:6379" || cfg.Redis.DB != 3 {
		t.Errorf("unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.Analytics.AnomalyThreshold != 1.5 {
		t.Errorf("threshold = %v", cfg.Analytics.AnomalyThreshold)
	}
	if cfg.Analytics.CacheTTL != "30s" {
		t.Errorf("cache ttl = %q", cfg.Analytics.CacheTTL)
	}

	got := make(map[string]bool)
	for _, k := range cfg.EnvOverrides {
		got[k] = true
	}
	for _, k := range []string{"server.port", "redis.db", "analytics.cache_ttl"} {
		if !got[k] {
			t.Errorf("override %q not reported in %v", k, cfg.EnvOverrides)
		}
	}
	if got["jwt.secret"] {
		t.Error("jwt.secret came from the file, not the environment")
	}
}

func TestEnvOverrideTypes(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REDIS_ENABLED", " true ")
	t.Setenv("ANALYTICS_ANOMALY_THRESHOLD", "2.5")
	t.Setenv("DB_MAX_OPEN_CONNS", "40")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.Redis.Enabled {
		t.Error("REDIS_ENABLED with surrounding spaces should parse")
	}
	if cfg.Analytics.AnomalyThreshold != 2.5 {
		t.Errorf("threshold = %v", cfg.Analytics.AnomalyThreshold)
	}
	if cfg.Database.MaxOpenConns != 40 {
		t.Errorf("max open conns = %d", cfg.Database.MaxOpenConns)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
		want string
	}{
		{name: "missing secret", yaml: "server:\n  port: \"1\"\n", want: "JWT secret"},
		{name: "bad expiration", yaml: "jwt:\n  secret: x\n  access_token_expiration: soon\n", want: "access token expiration"},
		{name: "bad cache ttl", yaml: "jwt:\n  secret: x\nanalytics:\n  cache_ttl: forever\n", want: "cache TTL"},
		{name: "non-positive threshold", yaml: "jwt:\n  secret: x\nanalytics:\n  anomaly_threshold: -1\n", want: "threshold"},
		{name: "bad env int", yaml: "jwt:\n  secret: x\n", env: map[string]string{"REDIS_DB": "one"}, want: "redis.db (REDIS_DB)"},
		{name: "bad env bool", yaml: "jwt:\n  secret: x\n", env: map[string]string{"REDIS_ENABLED": "maybe"}, want: "redis.enabled (REDIS_ENABLED)"},
		{name: "bad env float", yaml: "jwt:\n  secret: x\n", env: map[string]string{"ANALYTICS_ANOMALY_THRESHOLD": "high"}, want: "analytics.anomaly_threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(writeConfig(t, tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestGetPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	cfg.Database.User = "u"
	cfg.Database.Password = "p"
	cfg.Database.Host = "db"
	cfg.Database.Port = "5433"
	cfg.Database.DBName = "leaves"

	want := "postgres://u:p@db:5433/leaves?sslmode=disable"
	if got := cfg.GetPostgresConnectionString(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
