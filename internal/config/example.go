package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# task-tracker configuration file
# Values can be overridden by TASK_TRACKER_* environment variables or CLI flags

# Task file (relative to the working directory, supports ~ expansion)
task_file = "tasks.json"

# JSON Schema used by "task-tracker doctor" instead of the built-in one
# schema_file = "tasks.schema.json"

# ID assignment for new tasks:
#   count - number of tasks + 1 (IDs can repeat after a delete)
#   max   - largest existing ID + 1
id_strategy = "count"

# Diagnostics on stderr
log_level = "warn"       # debug, info, warn, error
log_format = "text"      # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
