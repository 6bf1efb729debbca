package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(databaseDSNEnv, "")
	t.Setenv(gnewsAPIKeyEnv, "")

	cfg := Load()

	if cfg.Moderation.MinCommentLength != 10 || cfg.Moderation.MaxLinks != 2 || cfg.Moderation.MaxCommentsPerHour != 5 {
		t.Fatalf("unexpected moderation defaults: %+v", cfg.Moderation)
	}

	if cfg.Scheduler.PrimaryFetchInterval() != 2*time.Hour {
		t.Fatalf("unexpected primary fetch interval: %v", cfg.Scheduler.PrimaryFetchInterval())
	}
	if cfg.Scheduler.KeywordSweepInterval() != 4*time.Hour {
		t.Fatalf("unexpected keyword sweep interval: %v", cfg.Scheduler.KeywordSweepInterval())
	}
	if cfg.Scheduler.CleanupInterval() != 24*time.Hour {
		t.Fatalf("unexpected cleanup interval: %v", cfg.Scheduler.CleanupInterval())
	}

	if cfg.Ingest.RetentionDays != 7 {
		t.Fatalf("unexpected retention: %d", cfg.Ingest.RetentionDays)
	}
	if cfg.Ingest.SweepPause() != 200*time.Millisecond {
		t.Fatalf("unexpected sweep pause: %v", cfg.Ingest.SweepPause())
	}
	if len(cfg.Ingest.SweepKeywords) == 0 {
		t.Fatal("expected default sweep keywords")
	}

	if cfg.GNews.BaseURL != "https://gnews.io/api/v4" {
		t.Fatalf("unexpected gnews base url: %s", cfg.GNews.BaseURL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(databaseDSNEnv, "postgres://env:env@db:5432/override")
	t.Setenv(gnewsAPIKeyEnv, "env-key")

	cfg := Load()

	if cfg.Database.DSN != "postgres://env:env@db:5432/override" {
		t.Fatalf("env DSN not applied: %s", cfg.Database.DSN)
	}
	if cfg.GNews.APIKey != "env-key" {
		t.Fatalf("env API key not applied: %s", cfg.GNews.APIKey)
	}
}

func TestLoadMergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
logging:
  level: debug
scheduler:
  primaryFetchMinutes: 15
moderation:
  maxLinks: 4
ingest:
  sweepKeywords:
    - Rust Tokio
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(databaseDSNEnv, "")
	t.Setenv(gnewsAPIKeyEnv, "")

	cfg := Load()

	if cfg.Logging.Level != "debug" {
		t.Fatalf("file level not applied: %s", cfg.Logging.Level)
	}
	if cfg.Scheduler.PrimaryFetchInterval() != 15*time.Minute {
		t.Fatalf("file interval not applied: %v", cfg.Scheduler.PrimaryFetchInterval())
	}
	if cfg.Moderation.MaxLinks != 4 {
		t.Fatalf("file max links not applied: %d", cfg.Moderation.MaxLinks)
	}
	if len(cfg.Ingest.SweepKeywords) != 1 || cfg.Ingest.SweepKeywords[0] != "Rust Tokio" {
		t.Fatalf("file keywords not applied: %v", cfg.Ingest.SweepKeywords)
	}

	// Fields the file leaves out keep their defaults.
	if cfg.Moderation.MinCommentLength != 10 {
		t.Fatalf("default lost in merge: %d", cfg.Moderation.MinCommentLength)
	}
	if cfg.Scheduler.KeywordSweepInterval() != 4*time.Hour {
		t.Fatalf("default lost in merge: %v", cfg.Scheduler.KeywordSweepInterval())
	}
}

func TestLoadIgnoresUnreadableFile(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv(databaseDSNEnv, "")
	t.Setenv(gnewsAPIKeyEnv, "")

	cfg := Load()
	if cfg.Moderation.MinCommentLength != 10 {
		t.Fatalf("defaults not kept: %+v", cfg.Moderation)
	}
}
