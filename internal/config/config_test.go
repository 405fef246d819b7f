package config

import (
	"testing"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cuidartek")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("default port: got %s", cfg.Port)
	}
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 5 {
		t.Errorf("default pool sizes: got %d/%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.JWTTTLMinutes != 60 {
		t.Errorf("default jwt ttl: got %d", cfg.JWTTTLMinutes)
	}
	if !cfg.IsDev() {
		t.Error("default env should be development")
	}
}

func TestValidate_RequiresSecretOutsideDev(t *testing.T) {
	cfg := &Config{Env: "production", JWTTTLMinutes: 60, DBMaxConns: 10, DBMinConns: 2}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET in production")
	}
	cfg.JWTSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_DevAllowsMissingSecret(t *testing.T) {
	cfg := &Config{Env: "development", JWTTTLMinutes: 60, DBMaxConns: 10, DBMinConns: 2}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_PoolBounds(t *testing.T) {
	cfg := &Config{Env: "development", JWTTTLMinutes: 60, DBMaxConns: 1, DBMinConns: 5}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when max < min conns")
	}
}
