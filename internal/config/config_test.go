package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/planttracker")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("port: got %q", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level: got %q", cfg.LogLevel)
	}
	if cfg.QueryTimeout != 5*time.Second {
		t.Errorf("query timeout: got %v", cfg.QueryTimeout)
	}
	if cfg.AWSBucket != "" {
		t.Errorf("bucket should default to empty, got %q", cfg.AWSBucket)
	}
	if cfg.AWSRegion != "us-east-1" {
		t.Errorf("region: got %q", cfg.AWSRegion)
	}
	if cfg.ReminderInterval != time.Hour {
		t.Errorf("reminder interval: got %v", cfg.ReminderInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/x")
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("QUERY_TIMEOUT", "250ms")
	t.Setenv("REMINDER_INTERVAL", "10m")
	t.Setenv("AWS_BUCKET", "plant-photos")
	t.Setenv("S3_PATH_STYLE", "true")

	cfg := Load()

	if cfg.Port != "9000" || cfg.LogLevel != "debug" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.QueryTimeout != 250*time.Millisecond {
		t.Errorf("query timeout: got %v", cfg.QueryTimeout)
	}
	if cfg.ReminderInterval != 10*time.Minute {
		t.Errorf("reminder interval: got %v", cfg.ReminderInterval)
	}
	if cfg.AWSBucket != "plant-photos" || !cfg.S3PathStyle {
		t.Errorf("s3 settings: %+v", cfg)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/x")
	t.Setenv("QUERY_TIMEOUT", "soon")
	t.Setenv("S3_PATH_STYLE", "sometimes")

	cfg := Load()

	if cfg.QueryTimeout != 5*time.Second {
		t.Errorf("query timeout: got %v", cfg.QueryTimeout)
	}
	if cfg.S3PathStyle {
		t.Error("path style should fall back to false")
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for missing DATABASE_URL")
		}
	}()
	Load()
}
