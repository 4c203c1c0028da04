package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GIN_MODE", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.MongoURI != "mongodb://localhost:27017" {
		t.Fatalf("unexpected MongoURI: %s", cfg.MongoURI)
	}
	if cfg.MongoDatabase != "todo" {
		t.Fatalf("unexpected MongoDatabase: %s", cfg.MongoDatabase)
	}
	if cfg.SessionRedisURL != "redis://127.0.0.1:6379/0" {
		t.Fatalf("unexpected SessionRedisURL: %s", cfg.SessionRedisURL)
	}
	if cfg.SessionTTLMinutes != 720 {
		t.Fatalf("unexpected SessionTTLMinutes: %d", cfg.SessionTTLMinutes)
	}
	if cfg.Port != "3000" {
		t.Fatalf("unexpected Port: %s", cfg.Port)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GIN_MODE", "test")
	t.Setenv("PORT", "8080")
	t.Setenv("SESSION_TTL_MINUTES", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("unexpected Port: %s", cfg.Port)
	}
	if cfg.SessionTTLMinutes != 60 {
		t.Fatalf("unexpected SessionTTLMinutes: %d", cfg.SessionTTLMinutes)
	}
}

func TestValidateReleaseModeRequiresSecret(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("SESSION_REDIS_URL", "redis://cache:6379/0")
	t.Setenv("SESSION_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("release mode without SESSION_SECRET must fail")
	}

	t.Setenv("SESSION_SECRET", "s3cret")
	if _, err := Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
}

func TestValidateRejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("GIN_MODE", "test")
	t.Setenv("SESSION_TTL_MINUTES", "-5")

	if _, err := Load(); err == nil {
		t.Fatal("negative TTL must fail validation")
	}
}
