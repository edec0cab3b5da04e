package task

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validDocument = `[
    {
        "id": 1,
        "description": "buy milk",
        "status": "todo",
        "createdAt": "2024-05-01T09:30:12.482913",
        "updatedAt": "2024-05-01T09:30:12.482913"
    }
]`

func TestCheckDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "empty list", doc: `[]`},
		{name: "valid task", doc: validDocument},
		{name: "not an array", doc: `{"tasks": []}`, wantErr: "expected array"},
		{name: "invalid JSON", doc: `[{`, wantErr: "unexpected end"},
		{name: "unknown status", doc: strings.Replace(validDocument, `"todo"`, `"blocked"`, 1), wantErr: "[0].status"},
		{name: "string id", doc: strings.Replace(validDocument, `"id": 1`, `"id": "1"`, 1), wantErr: "[0].id"},
		{name: "zero id", doc: strings.Replace(validDocument, `"id": 1`, `"id": 0`, 1), wantErr: "[0].id"},
		{name: "missing description", doc: strings.Replace(validDocument, `"description": "buy milk",`, "", 1), wantErr: "description"},
		{name: "offset timestamp", doc: strings.Replace(validDocument, `"createdAt": "2024-05-01T09:30:12.482913"`, `"createdAt": "2024-05-01T09:30:12Z"`, 1), wantErr: "[0].createdAt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDocument([]byte(tt.doc))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("CheckDocument failed: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("CheckDocument expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateWarnsOnDuplicateIDs(t *testing.T) {
	doc := `[
        {"id": 2, "description": "a", "status": "todo", "createdAt": "2024-05-01T09:00:00", "updatedAt": "2024-05-01T09:00:00"},
        {"id": 2, "description": "b", "status": "done", "createdAt": "2024-05-01T09:00:00", "updatedAt": "2024-05-01T08:00:00"}
    ]`

	result := Validate([]byte(doc), ValidationOptions{})
	if !result.Valid {
		t.Fatalf("expected valid result, got errors %v", result.Errors)
	}
	if result.Tasks != 2 {
		t.Errorf("Tasks: got %d, want 2", result.Tasks)
	}
	if result.Schema != "embedded" {
		t.Errorf("Schema: got %q, want embedded", result.Schema)
	}
	joined := strings.Join(result.Warnings, "\n")
	if !strings.Contains(joined, "duplicate task id 2") {
		t.Errorf("missing duplicate warning: %v", result.Warnings)
	}
	if !strings.Contains(joined, "[1].updatedAt is before createdAt") {
		t.Errorf("missing timestamp warning: %v", result.Warnings)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	doc := `[
        {"id": 0, "description": "a", "status": "todo", "createdAt": "2024-05-01T09:00:00", "updatedAt": "2024-05-01T09:00:00"},
        {"id": 2, "description": "b", "status": "later", "createdAt": "2024-05-01T09:00:00", "updatedAt": "2024-05-01T09:00:00"}
    ]`

	result := Validate([]byte(doc), ValidationOptions{})
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Errors) < 2 {
		t.Errorf("expected at least 2 errors, got %v", result.Errors)
	}
}

func TestValidateWithCustomSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "strict.schema.json")
	schema := `{
        "$schema": "https://json-schema.org/draft/2020-12/schema",
        "type": "array",
        "maxItems": 0
    }`
	if err := os.WriteFile(schemaPath, []byte(schema), 0644); err != nil {
		t.Fatal(err)
	}

	result := Validate([]byte(validDocument), ValidationOptions{SchemaPath: schemaPath})
	if result.Valid {
		t.Error("custom schema should reject a non-empty list")
	}
	if result.Schema != schemaPath {
		t.Errorf("Schema: got %q, want %q", result.Schema, schemaPath)
	}
}

func TestValidateWithMissingSchema(t *testing.T) {
	result := Validate([]byte(validDocument), ValidationOptions{SchemaPath: filepath.Join(t.TempDir(), "missing.json")})
	if !result.Valid {
		t.Errorf("fallback to embedded schema should pass, got %v", result.Errors)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "schema file not found") {
		t.Errorf("expected missing schema warning, got %v", result.Warnings)
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := map[string]string{
		"":            "",
		"/":           "",
		"/0":          "[0]",
		"/0/status":   "[0].status",
		"#/3/id":      "[3].id",
		"/1/a~1b/~0c": "[1].a/b.~c",
	}
	for in, want := range tests {
		if got := jsonPointerToPath(in); got != want {
			t.Errorf("jsonPointerToPath(%q): got %q, want %q", in, got, want)
		}
	}
}
