// Package config loads process configuration from the environment with
// koanf so main stays lean.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "TALENTFLOW_"

// Config is the full process configuration.
type Config struct {
	Addr     string `koanf:"addr"`
	LogLevel string `koanf:"log_level"`

	PostgresDSN string `koanf:"postgres_dsn"`
	RedisURL    string `koanf:"redis_url"`
	// KafkaBrokers is a comma-separated seed broker list.
	KafkaBrokers string `koanf:"kafka_brokers"`
	KafkaTopic   string `koanf:"kafka_topic"`

	Scheduler SchedulerConfig `koanf:"scheduler"`

	RetryMaxAttempts int           `koanf:"retry_max_attempts"`
	StoreTimeout     time.Duration `koanf:"store_timeout"`
	AuditBuffer      int           `koanf:"audit_buffer"`
	CacheTTL         time.Duration `koanf:"cache_ttl"`
}

// SchedulerConfig carries the interview scheduler tunables.
type SchedulerConfig struct {
	SlotStepMinutes        int    `koanf:"slot_step_minutes"`
	VisibleHourStart       int    `koanf:"visible_hour_start"`
	VisibleHourEnd         int    `koanf:"visible_hour_end"`
	DefaultDurationMinutes int    `koanf:"default_duration_minutes"`
	CompletionTargetStage  string `koanf:"completion_target_stage"`
}

// Load reads TALENTFLOW_* environment variables over built-in defaults.
// TALENTFLOW_SCHEDULER_SLOT_STEP_MINUTES maps to scheduler.slot_step_minutes;
// everything else is a flat key.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		if field, ok := strings.CutPrefix(key, "scheduler_"); ok {
			return "scheduler." + field
		}
		return key
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// Brokers splits the comma-separated broker list, empty when unset.
func (c Config) Brokers() []string {
	if strings.TrimSpace(c.KafkaBrokers) == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	brokers := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}

func applyDefaults(cfg *Config) {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = "talentflow.notifications"
	}
	if cfg.Scheduler.SlotStepMinutes <= 0 {
		cfg.Scheduler.SlotStepMinutes = 30
	}
	if cfg.Scheduler.VisibleHourStart <= 0 {
		cfg.Scheduler.VisibleHourStart = 9
	}
	if cfg.Scheduler.VisibleHourEnd <= 0 {
		cfg.Scheduler.VisibleHourEnd = 18
	}
	if cfg.Scheduler.DefaultDurationMinutes <= 0 {
		cfg.Scheduler.DefaultDurationMinutes = 60
	}
	if cfg.Scheduler.CompletionTargetStage == "" {
		cfg.Scheduler.CompletionTargetStage = "interview-passed"
	}
	if cfg.RetryMaxAttempts <= 0 {
		cfg.RetryMaxAttempts = 3
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 2 * time.Second
	}
	if cfg.AuditBuffer <= 0 {
		cfg.AuditBuffer = 256
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
}
