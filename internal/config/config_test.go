package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.Port)
	}
	if cfg.StorageDriver != DriverFile {
		t.Fatalf("storageDriver = %q, want file", cfg.StorageDriver)
	}
	if cfg.DataDir != "." {
		t.Fatalf("dataDir = %q, want .", cfg.DataDir)
	}
}

func TestLoadYAMLAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
port: "9000"
logLevel: "debug"
storageDriver: "redis"
redisAddr: "localhost:6379"
writeRateLimitPerMinute: 30
`)
	t.Setenv("FORUM_PORT", "9100")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("FORUM_WRITE_RATE_LIMIT_PER_MINUTE", "12")
	t.Setenv("FORUM_METRICS_ENABLED", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != "9100" {
		t.Fatalf("port = %q, want 9100", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("logLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.RedisAddr != "cache:6380" {
		t.Fatalf("redisAddr = %q, want cache:6380", cfg.RedisAddr)
	}
	if cfg.WriteRateLimitPerMinute != 12 {
		t.Fatalf("writeRateLimitPerMinute = %d, want 12", cfg.WriteRateLimitPerMinute)
	}
	if !cfg.MetricsEnabled {
		t.Fatalf("metricsEnabled = false, want true")
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown driver", `storageDriver: "sqlite"`, "unknown storageDriver"},
		{"postgres without dsn", `storageDriver: "postgres"`, "databaseURL is required"},
		{"minio without bucket", "storageDriver: minio\nminioEndpoint: localhost:9000", "minioBucket"},
		{"rate limit without redis", `writeRateLimitPerMinute: 5`, "redisAddr is required"},
		{"negative rate limit", `writeRateLimitPerMinute: -1`, ">= 0"},
		{"non numeric port", `port: "http"`, "port must be numeric"},
		{"bad yaml", "port: [", "parse config"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestPathHonorsEnv(t *testing.T) {
	t.Setenv("FORUM_CONFIG", "/etc/forum/config.yaml")
	if got := Path(); got != "/etc/forum/config.yaml" {
		t.Fatalf("Path() = %q", got)
	}
}
