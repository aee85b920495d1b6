package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"family-hub-go/pkg/logger"
)

func TestLoadRequiresSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("AUTH_SECRET", "  ")

	_, err := Load(logger.Discard())
	if !errors.Is(err, ErrAuthSecretRequired) {
		t.Fatalf("expected ErrAuthSecretRequired, got %v", err)
	}
}

func TestLoadDevelopmentFallsBackToDevSecret(t *testing.T) {
	t.Setenv("ENV", "Development")
	t.Setenv("AUTH_SECRET", "")

	cfg, err := Load(logger.Discard())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Auth.Secret != developmentAuthSecret {
		t.Fatalf("expected development secret, got %q", cfg.Auth.Secret)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env, got %q", cfg.Env)
	}
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("ENV", "staging")
	t.Setenv("AUTH_SECRET", "s3cret")
	t.Setenv("AUTH_TOKEN_TTL", "2h")
	t.Setenv("FAMILY_CACHE_TTL", "1m")
	t.Setenv("DB_DRIVER", " SQLite ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load(logger.Discard())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Auth.Secret != "s3cret" {
		t.Fatalf("expected secret from env, got %q", cfg.Auth.Secret)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Fatalf("expected ttl 2h, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.FamilyCacheTTL != time.Minute {
		t.Fatalf("expected cache ttl 1m, got %s", cfg.FamilyCacheTTL)
	}
	if cfg.DB.Driver != "sqlite" {
		t.Fatalf("expected driver sqlite, got %q", cfg.DB.Driver)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("expected two trimmed origins, got %#v", cfg.AllowedOrigins)
	}
}

func TestGetDSNPrefersExplicitDSN(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://x", Host: "ignored"}
	if cfg.GetDSN() != "postgres://x" {
		t.Fatalf("expected explicit dsn, got %q", cfg.GetDSN())
	}

	cfg = DBConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", TimeZone: "UTC"}
	want := "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC"
	if cfg.GetDSN() != want {
		t.Fatalf("expected %q, got %q", want, cfg.GetDSN())
	}
}

func TestLoadReadsExplicitEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.env")
	if err := os.WriteFile(path, []byte("AUTH_ISSUER=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("ENV", "development")
	t.Setenv("ENV_FILE", path)

	cfg, err := Load(logger.Discard())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Auth.Issuer != "from-file" {
		t.Fatalf("expected issuer from env file, got %q", cfg.Auth.Issuer)
	}
}

func TestFindUpwardStopsAtModuleRoot(t *testing.T) {
	outer := t.TempDir()
	root := filepath.Join(outer, "project")
	nested := filepath.Join(root, "internal", "pkg")
	for _, dir := range []string{nested, filepath.Join(root, "migrations")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	for _, file := range []string{filepath.Join(root, "go.mod"), filepath.Join(outer, ".env")} {
		if err := os.WriteFile(file, nil, 0o600); err != nil {
			t.Fatalf("write %s: %v", file, err)
		}
	}
	t.Chdir(nested)

	dir, err := FindUpward("migrations", true)
	if err != nil {
		t.Fatalf("expected migrations dir, got %v", err)
	}
	if filepath.Base(filepath.Dir(dir)) != "project" {
		t.Fatalf("unexpected migrations dir %q", dir)
	}

	if _, err := FindUpward(".env", false); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected .env outside the module to be ignored, got %v", err)
	}
	if _, err := FindUpward("migrations", false); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected a directory not to match a file lookup, got %v", err)
	}
}
