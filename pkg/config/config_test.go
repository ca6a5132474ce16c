package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("REDIS_HOST", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("unexpected port %q", cfg.Server.Port)
	}
	if cfg.Minutes.IdentifierPrefix != "MOM" || cfg.Minutes.ScanLimit != 100 {
		t.Errorf("unexpected minutes config %#v", cfg.Minutes)
	}
	if cfg.Minutes.GenerateCooldown != 5*time.Second {
		t.Errorf("unexpected cooldown %s", cfg.Minutes.GenerateCooldown)
	}
	if cfg.RedisEnabled() {
		t.Errorf("redis should be disabled without a host")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MOM_ID_PREFIX", "MIN")
	t.Setenv("GROQ_TIMEOUT", "5s")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Minutes.IdentifierPrefix != "MIN" {
		t.Errorf("prefix override ignored: %q", cfg.Minutes.IdentifierPrefix)
	}
	if cfg.Groq.Timeout != 5*time.Second {
		t.Errorf("timeout override ignored: %s", cfg.Groq.Timeout)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("expected 2 origins, got %v", cfg.Server.AllowedOrigins)
	}
}

func TestValidateProductionRequiresSecrets(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_ACCESS_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected production config without secrets to fail")
	}
}
