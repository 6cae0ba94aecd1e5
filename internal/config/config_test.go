package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PATH", "")
	t.Setenv("DEFAULT_ALERT_THRESHOLD", "")
	t.Setenv("SMTP_USERNAME", "")
	t.Setenv("SMTP_PASSWORD", "")
	t.Setenv("EMAIL_FROM", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "./data/expenses.db" {
		t.Errorf("DBPath = %s, want default", cfg.DBPath)
	}
	if cfg.DefaultAlertThreshold != 10 {
		t.Errorf("DefaultAlertThreshold = %d, want 10", cfg.DefaultAlertThreshold)
	}
	if cfg.EmailConfigured() {
		t.Error("EmailConfigured() = true without SMTP credentials")
	}
}

func TestLoadThreshold(t *testing.T) {
	t.Setenv("DEFAULT_ALERT_THRESHOLD", "25")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DefaultAlertThreshold != 25 {
		t.Errorf("DefaultAlertThreshold = %d, want 25", cfg.DefaultAlertThreshold)
	}
}

func TestLoadThresholdInvalid(t *testing.T) {
	for _, raw := range []string{"abc", "-1", "101"} {
		t.Setenv("DEFAULT_ALERT_THRESHOLD", raw)
		if _, err := Load(); err == nil {
			t.Errorf("Load() with threshold %q: expected error", raw)
		}
	}
}

func TestEmailConfigured(t *testing.T) {
	t.Setenv("SMTP_USERNAME", "alerts@example.com")
	t.Setenv("SMTP_PASSWORD", "hunter2")
	t.Setenv("EMAIL_FROM", "alerts@example.com")
	t.Setenv("DEFAULT_ALERT_THRESHOLD", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.EmailConfigured() {
		t.Error("EmailConfigured() = false with full SMTP credentials")
	}
}
