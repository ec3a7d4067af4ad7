package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TEACHTEAM_AUTH_JWT_SECRET", "env-secret-for-tests-2026")
	t.Setenv("TEACHTEAM_STORE_DRIVER", "memory")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Store.Driver != StoreDriverMemory {
		t.Errorf("expected env to select memory store, got %q", cfg.Store.Driver)
	}
	if cfg.Auth.AccessTokenTTL != 2*time.Hour {
		t.Errorf("expected default ttl 2h, got %v", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Lookup.RefreshTimeout != 10*time.Second {
		t.Errorf("expected refresh timeout 10s, got %v", cfg.Lookup.RefreshTimeout)
	}
}

func TestLoad_File(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: 9090
  rate_limit:
    limit: 5
    window: 30s
store:
  driver: badger
  badger_path: /tmp/teachteam
auth:
  jwt_secret: file-secret-for-tests-2026
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Server.RateLimit.Limit != 5 || cfg.Server.RateLimit.Window != 30*time.Second {
		t.Errorf("file values not applied: %+v", cfg.Server)
	}
	if cfg.Store.Driver != StoreDriverBadger || cfg.Store.BadgerPath != "/tmp/teachteam" {
		t.Errorf("unexpected store config %+v", cfg.Store)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080},
			Store:  StoreConfig{Driver: StoreDriverRedis},
			Auth:   AuthConfig{JWTSecret: "a-long-enough-secret"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, true},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"unknown driver", func(c *Config) { c.Store.Driver = "sqlite" }, true},
		{"badger without path", func(c *Config) { c.Store.Driver = StoreDriverBadger }, true},
		{"memory", func(c *Config) { c.Store.Driver = StoreDriverMemory }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
