package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from TASK_TRACKER_* environment variables
// and records the source of every value it sets.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("TASK_TRACKER_FILE"); v != "" {
		cfg.TaskFile = v
		set("task_file")
	}
	if v := os.Getenv("TASK_TRACKER_SCHEMA"); v != "" {
		cfg.SchemaFile = v
		set("schema_file")
	}
	if v := os.Getenv("TASK_TRACKER_ID_STRATEGY"); v != "" {
		cfg.IDStrategy = v
		set("id_strategy")
	}
	if v := os.Getenv("TASK_TRACKER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		set("log_level")
	}
	if v := os.Getenv("TASK_TRACKER_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		set("log_format")
	}
	if v := os.Getenv("TASK_TRACKER_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
	if v := os.Getenv("TASK_TRACKER_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		set("log_caller")
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
