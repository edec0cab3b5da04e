package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	Files   []string // config files that were read, lowest priority first
}

// Default values.
const (
	DefaultTaskFile   = "tasks.json"
	DefaultIDStrategy = "count"
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
)

// Config holds the full configuration for task-tracker.
type Config struct {
	// Paths
	TaskFile   string `toml:"task_file"`
	SchemaFile string `toml:"schema_file"` // empty uses the embedded schema

	// ID assignment: "count" (len+1) or "max" (max id + 1)
	IDStrategy string `toml:"id_strategy"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"task_file",
		"schema_file",
		"id_strategy",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}
