package task

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var embeddedSchema []byte

const embeddedSchemaURL = "https://github.com/nibzard/task-tracker/tasks.schema.json"

var (
	defaultSchemaOnce sync.Once
	defaultSchema     *jsonschema.Schema
	defaultSchemaErr  error
)

// SchemaJSON returns the embedded task file schema.
func SchemaJSON() []byte {
	return bytes.Clone(embeddedSchema)
}

func compiledDefaultSchema() (*jsonschema.Schema, error) {
	defaultSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(embeddedSchemaURL, bytes.NewReader(embeddedSchema)); err != nil {
			defaultSchemaErr = fmt.Errorf("load embedded schema: %w", err)
			return
		}
		defaultSchema, defaultSchemaErr = compiler.Compile(embeddedSchemaURL)
	})
	return defaultSchema, defaultSchemaErr
}

// CheckDocument validates a raw task file against the embedded schema and
// returns the first violation, if any.
func CheckDocument(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	schema, err := compiledDefaultSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		errs := schemaErrors(err)
		if len(errs) > 0 {
			return errs[0]
		}
		return err
	}
	return nil
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is the path to a JSON Schema file that replaces the
	// embedded schema. If it cannot be loaded the embedded schema is used
	// and a warning is recorded.
	SchemaPath string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid    bool
	Errors   []error
	Warnings []string
	Schema   string // path of the schema used, or "embedded"
	Tasks    int
}

// Validate checks a raw task file and reports every problem found.
func Validate(data []byte, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
		Schema:   "embedded",
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Errorf("invalid JSON: %w", err))
		return result
	}

	schema := loadSchemaFile(opts.SchemaPath, result)
	if schema == nil {
		var err error
		schema, err = compiledDefaultSchema()
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err)
			return result
		}
	}

	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, schemaErrors(err)...)
		return result
	}

	var list List
	if err := json.Unmarshal(data, &list); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err)
		return result
	}
	result.Tasks = len(list)
	for _, id := range list.DuplicateIDs() {
		result.Warnings = append(result.Warnings, fmt.Sprintf("duplicate task id %d", id))
	}
	for i, t := range list {
		if t.UpdatedAt.Before(t.CreatedAt.Time) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("[%d].updatedAt is before createdAt", i))
		}
	}

	return result
}

func loadSchemaFile(path string, result *ValidationResult) *jsonschema.Schema {
	if path == "" {
		return nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema path: %v", err))
		return nil
	}

	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("schema file not found: %s, using embedded schema", absPath))
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to read schema file: %v", err))
		}
		return nil
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	schema, err := compiler.Compile(absPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema file: %v", err))
		return nil
	}
	result.Schema = absPath
	return schema
}

// SchemaError is a single schema violation at a document location.
type SchemaError struct {
	Path    string // e.g. "[0].status"
	Message string
}

func (e *SchemaError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

func schemaErrors(err error) []error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []error{err}
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	return errs
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*errs = append(*errs, &SchemaError{
			Path:    jsonPointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
