package todo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateData(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantErr  bool
		wantWarn bool
	}{
		{
			name:    "empty list",
			content: `[]`,
		},
		{
			name:    "valid entry",
			content: `[{"id": "1", "text": "buy milk", "date": "2024-01-15", "done": false}]`,
		},
		{
			name:    "done is a string",
			content: `[{"id": "1", "text": "buy milk", "date": "2024-01-15", "done": "yes"}]`,
			wantErr: true,
		},
		{
			name:    "missing date",
			content: `[{"id": "1", "text": "buy milk", "done": false}]`,
			wantErr: true,
		},
		{
			name:    "bad date",
			content: `[{"id": "1", "text": "buy milk", "date": "15/01/2024", "done": false}]`,
			wantErr: true,
		},
		{
			name:    "not a list",
			content: `{"tasks": []}`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			content: `{not json`,
			wantErr: true,
		},
		{
			name: "duplicate id",
			content: `[{"id": "1", "text": "a", "date": "2024-01-15", "done": false},
			           {"id": "1", "text": "b", "date": "2024-01-15", "done": false}]`,
			wantErr: true,
		},
		{
			name: "duplicate text",
			content: `[{"id": "1", "text": "Buy milk", "date": "2024-01-15", "done": false},
			           {"id": "2", "text": "buy MILK", "date": "2024-01-15", "done": false}]`,
			wantWarn: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateData([]byte(tt.content), ValidationOptions{}, nil)
			if result.Valid == tt.wantErr {
				t.Errorf("Valid = %v, want error %v (errors: %v)", result.Valid, tt.wantErr, result.Errors)
			}
			if tt.wantWarn && len(result.Warnings) == 0 {
				t.Error("expected warnings")
			}
		})
	}
}

func TestValidateDataErrorPath(t *testing.T) {
	content := `[
  {"id": "1", "text": "a", "date": "2024-01-15", "done": false},
  {"id": "2", "text": "b", "date": "2024-01-15", "done": 1}
]`
	result := ValidateData([]byte(content), ValidationOptions{}, nil)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	found := false
	for _, err := range result.Errors {
		if strings.HasPrefix(err.Error(), "[1].done") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an error at [1].done, got %v", result.Errors)
	}
}

func TestValidateFileSavedByManager(t *testing.T) {
	m := newTestManager(t)
	mustAdd(t, m, "buy milk")
	mustAdd(t, m, "walk dog")
	if err := m.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	result := ValidateFile(m.Path(), ValidationOptions{})
	if !result.Valid {
		t.Errorf("saved file should validate, errors: %v", result.Errors)
	}
	if result.Schema != "built-in" {
		t.Errorf("Schema: got %q, want built-in", result.Schema)
	}
}

func TestValidateFileMissing(t *testing.T) {
	result := ValidateFile(filepath.Join(t.TempDir(), "absent.json"), ValidationOptions{})
	if result.Valid {
		t.Error("missing file should not validate")
	}
}

func TestValidateWithExternalSchema(t *testing.T) {
	tmpDir := t.TempDir()
	schemaPath := filepath.Join(tmpDir, "strict.schema.json")
	schema := `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "maxItems": 1
}`
	if err := os.WriteFile(schemaPath, []byte(schema), 0644); err != nil {
		t.Fatalf("Failed to write schema: %v", err)
	}

	content := []byte(`[
  {"id": "1", "text": "a", "date": "2024-01-15", "done": false},
  {"id": "2", "text": "b", "date": "2024-01-15", "done": false}
]`)
	result := ValidateData(content, ValidationOptions{SchemaPath: schemaPath}, nil)
	if result.Valid {
		t.Error("expected maxItems violation")
	}
	if result.Schema != schemaPath {
		t.Errorf("Schema: got %q, want %q", result.Schema, schemaPath)
	}
}

func TestValidateWithMissingSchemaFallsBack(t *testing.T) {
	content := []byte(`[{"id": "1", "text": "a", "date": "2024-01-15", "done": false}]`)
	result := ValidateData(content, ValidationOptions{SchemaPath: "/non/existent/schema.json"}, nil)
	if !result.Valid {
		t.Errorf("expected valid result, errors: %v", result.Errors)
	}
	if result.Schema != "built-in" {
		t.Errorf("Schema: got %q, want built-in", result.Schema)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning about the missing schema")
	}
}
