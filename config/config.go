package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"gridiron-trends/trend"
)

const (
	minWorkers = 4
	maxWorkers = 16
)

type Config struct {
	Port            string
	RedisAddr       string
	RedisPassword   string
	ReportTTL       time.Duration
	Workers         int
	QueueSize       int
	SeriesRetention int
	Trend           trend.Config
	SynonymsFile    string
}

func Load() Config {
	return Config{
		Port:            envOrDefault("PORT", "8080"),
		RedisAddr:       envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		ReportTTL:       parseDuration(envOrDefault("REPORT_TTL", "30m"), 30*time.Minute),
		Workers:         workers(os.Getenv("ANALYTICS_WORKERS")),
		QueueSize:       parseInt(envOrDefault("ANALYTICS_QUEUE_SIZE", "10000"), 10000),
		SeriesRetention: parseInt(envOrDefault("SERIES_RETENTION", "30"), 30),
		Trend: trend.Config{
			WindowSize:         parseInt(os.Getenv("TREND_WINDOW_SIZE"), trend.DefaultWindowSize),
			Sensitivity:        parseFloat(os.Getenv("TREND_SENSITIVITY"), trend.DefaultSensitivity),
			MinChangeMagnitude: parseFloat(os.Getenv("TREND_MIN_CHANGE"), trend.DefaultMinChangeMagnitude),
		},
		SynonymsFile: os.Getenv("NARRATIVE_SYNONYMS_FILE"),
	}
}

type synonymsFile struct {
	Synonyms map[string]string `yaml:"synonyms"`
}

// LoadSynonyms reads extra stat-name aliases for the narrator. An empty path
// means no extras.
func LoadSynonyms(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read synonyms file: %w", err)
	}
	var f synonymsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse synonyms file %s: %w", path, err)
	}
	return f.Synonyms, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func parseFloat(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func workers(s string) int {
	n := runtime.NumCPU() * 2
	if w, err := strconv.Atoi(s); err == nil && w > 0 {
		n = w
	}
	if n < minWorkers {
		n = minWorkers
	}
	if n > maxWorkers {
		n = maxWorkers
	}
	return n
}
