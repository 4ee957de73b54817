package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sample = `
app:
  name: foodgram-test
  port: 9000
database:
  host: db
  port: 5432
  user: u
  password: p
  dbname: foodgram
kafka:
  brokers: ["k1:9092", "k2:9092"]
jwt:
  secret: s
  expire_hours: 2
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Port != 9000 || cfg.App.Mode != "debug" {
		t.Errorf("app = %+v", cfg.App)
	}
	if got := cfg.Database.DSN(); got != "host=db port=5432 user=u password=p dbname=foodgram sslmode=disable" {
		t.Errorf("DSN = %q", got)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.RecipeEventsTopic() != "recipe-events" {
		t.Errorf("kafka = %+v", cfg.Kafka)
	}
	if cfg.Elasticsearch.RecipesIndex() != "recipes" {
		t.Errorf("index = %q", cfg.Elasticsearch.RecipesIndex())
	}
	if cfg.JWT.ExpireDuration() != 2*time.Hour {
		t.Errorf("jwt ttl = %v", cfg.JWT.ExpireDuration())
	}
	if cfg.ShortLink.Length != 6 || cfg.ShortLink.MaxAttempts != 10 {
		t.Errorf("shortlink = %+v", cfg.ShortLink)
	}
	if cfg.RateLimit.LoginPerMinute != 10 {
		t.Errorf("ratelimit = %+v", cfg.RateLimit)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("SHORTLINK_MAX_ATTEMPTS", "3")

	cfg, err := Load(writeConfig(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("host = %q", cfg.Database.Host)
	}
	if cfg.ShortLink.MaxAttempts != 3 {
		t.Errorf("max attempts = %d", cfg.ShortLink.MaxAttempts)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
