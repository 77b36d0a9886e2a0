package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/taskman/internal/utils"
)

//go:embed schema/taskfile.schema.json
var defaultSchema []byte

const defaultSchemaURL = "https://github.com/nibzard/taskman/taskfile.schema.json"

// DefaultSchema returns the built-in task file schema.
func DefaultSchema() []byte {
	return bytes.Clone(defaultSchema)
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // location in the file, e.g. [2].done
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is an external JSON Schema file. If empty or unusable the
	// built-in schema is used.
	SchemaPath string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid    bool
	Errors   []error
	Warnings []string
	Schema   string // schema location that was applied
}

// ValidateFile checks the task file at path against the schema and for
// duplicate ids and texts.
func ValidateFile(path string, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Errorf("read task file: %w", err))
		return result
	}
	return ValidateData(data, opts, result)
}

// ValidateData validates raw task file contents. If result is nil a new
// one is allocated.
func ValidateData(data []byte, opts ValidationOptions, result *ValidationResult) *ValidationResult {
	if result == nil {
		result = &ValidationResult{Valid: true}
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)})
		return result
	}

	schema, location, warning := compileSchema(opts.SchemaPath)
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}
	result.Schema = location
	if schema != nil {
		if err := schema.Validate(doc); err != nil {
			result.Valid = false
			appendSchemaErrors(result, err)
		}
	}

	validateEntries(doc, result)
	return result
}

// compileSchema compiles the external schema when given, falling back to
// the built-in one. The returned warning explains a fallback.
func compileSchema(schemaPath string) (*jsonschema.Schema, string, string) {
	var warning string
	if schemaPath != "" {
		schema, err := compileSchemaFile(schemaPath)
		if err == nil {
			return schema, schemaPath, ""
		}
		warning = fmt.Sprintf("%v, using built-in schema", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(defaultSchemaURL, bytes.NewReader(defaultSchema)); err != nil {
		return nil, "", fmt.Sprintf("built-in schema: %v", err)
	}
	schema, err := compiler.Compile(defaultSchemaURL)
	if err != nil {
		return nil, "", fmt.Sprintf("built-in schema: %v", err)
	}
	return schema, "built-in", warning
}

func compileSchemaFile(schemaPath string) (*jsonschema.Schema, error) {
	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("invalid schema path: %v", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("schema file not found: %s", absPath)
		}
		return nil, fmt.Errorf("failed to read schema file: %v", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile(absPath)
	if err != nil {
		return nil, fmt.Errorf("invalid schema file: %v", err)
	}
	return schema, nil
}

// validateEntries reports duplicate ids as errors and duplicate texts as
// warnings. Entries the schema already rejected are skipped.
func validateEntries(doc interface{}, result *ValidationResult) {
	entries, ok := doc.([]interface{})
	if !ok {
		return
	}

	ids := make(map[string]int)
	texts := make(map[string]int)
	for i, raw := range entries {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if id, ok := entry["id"].(string); ok && id != "" {
			if first, seen := ids[id]; seen {
				result.Valid = false
				result.Errors = append(result.Errors, &ValidationError{
					Path: fmt.Sprintf("[%d].id", i),
					Err:  fmt.Errorf("duplicate id %q (first at [%d])", id, first),
				})
			} else {
				ids[id] = i
			}
		}
		if text, ok := entry["text"].(string); ok {
			key := strings.ToLower(text)
			if first, seen := texts[key]; seen {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("[%d].text: duplicate text %q (first at [%d])", i, text, first))
			} else {
				texts[key] = i
			}
		}
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
