package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gridiron-trends/trend"
)

var envKeys = []string{
	"PORT", "REDIS_ADDR", "REDIS_PASSWORD", "REPORT_TTL", "ANALYTICS_WORKERS",
	"ANALYTICS_QUEUE_SIZE", "SERIES_RETENTION", "TREND_WINDOW_SIZE",
	"TREND_SENSITIVITY", "TREND_MIN_CHANGE", "NARRATIVE_SYNONYMS_FILE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("unexpected redis addr: %s", cfg.RedisAddr)
	}
	if cfg.ReportTTL != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %v", cfg.ReportTTL)
	}
	if cfg.SeriesRetention != 30 {
		t.Errorf("expected retention 30, got %d", cfg.SeriesRetention)
	}
	if cfg.Workers < minWorkers || cfg.Workers > maxWorkers {
		t.Errorf("workers %d outside [%d, %d]", cfg.Workers, minWorkers, maxWorkers)
	}
	if cfg.Trend != trend.DefaultConfig() {
		t.Errorf("expected default trend config, got %+v", cfg.Trend)
	}
	if cfg.SynonymsFile != "" {
		t.Errorf("unexpected synonyms file %q", cfg.SynonymsFile)
	}
}

func TestLoad_CustomEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REPORT_TTL", "2h")
	t.Setenv("ANALYTICS_WORKERS", "6")
	t.Setenv("SERIES_RETENTION", "12")
	t.Setenv("TREND_WINDOW_SIZE", "4")
	t.Setenv("TREND_SENSITIVITY", "1.5")
	t.Setenv("TREND_MIN_CHANGE", "0.5")

	cfg := Load()

	if cfg.Port != "9090" || cfg.RedisAddr != "redis:6379" {
		t.Errorf("unexpected addresses: %s %s", cfg.Port, cfg.RedisAddr)
	}
	if cfg.ReportTTL != 2*time.Hour {
		t.Errorf("expected 2h TTL, got %v", cfg.ReportTTL)
	}
	if cfg.Workers != 6 || cfg.SeriesRetention != 12 {
		t.Errorf("workers %d retention %d", cfg.Workers, cfg.SeriesRetention)
	}
	want := trend.Config{WindowSize: 4, Sensitivity: 1.5, MinChangeMagnitude: 0.5}
	if cfg.Trend != want {
		t.Errorf("trend config = %+v, want %+v", cfg.Trend, want)
	}
}

func TestWorkers_Clamped(t *testing.T) {
	if got := workers("1"); got != minWorkers {
		t.Errorf("workers(1) = %d, want %d", got, minWorkers)
	}
	if got := workers("64"); got != maxWorkers {
		t.Errorf("workers(64) = %d, want %d", got, maxWorkers)
	}
}

func TestParseHelpers_Fallbacks(t *testing.T) {
	if got := parseInt("abc", 7); got != 7 {
		t.Errorf("parseInt fallback = %d", got)
	}
	if got := parseInt("-3", 7); got != 7 {
		t.Errorf("parseInt negative = %d", got)
	}
	if got := parseFloat("", 2.0); got != 2.0 {
		t.Errorf("parseFloat fallback = %v", got)
	}
	if got := parseDuration("soon", time.Minute); got != time.Minute {
		t.Errorf("parseDuration fallback = %v", got)
	}
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("TEST_KEY_EMPTY", "")
	if v := envOrDefault("TEST_KEY_EMPTY", "fallback"); v != "fallback" {
		t.Errorf("expected fallback, got %s", v)
	}

	t.Setenv("TEST_KEY_EXISTS", "custom")
	if v := envOrDefault("TEST_KEY_EXISTS", "fallback"); v != "custom" {
		t.Errorf("expected custom, got %s", v)
	}
}

func TestLoadSynonyms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synonyms.yaml")
	content := "synonyms:\n  designed runs: rushing\n  air yards: passing\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := LoadSynonyms(path)
	if err != nil {
		t.Fatalf("LoadSynonyms: %v", err)
	}
	if got["designed runs"] != "rushing" || got["air yards"] != "passing" {
		t.Errorf("synonyms = %v", got)
	}
}

func TestLoadSynonyms_EmptyPathAndErrors(t *testing.T) {
	if got, err := LoadSynonyms(""); err != nil || got != nil {
		t.Errorf("empty path: %v, %v", got, err)
	}
	if _, err := LoadSynonyms(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("synonyms: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSynonyms(bad); err == nil {
		t.Error("expected a parse error")
	}
}
