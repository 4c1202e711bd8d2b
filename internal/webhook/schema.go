package webhook

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const checklistSchemaURL = "security-tasks.schema.json"

const checklistSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["categories"],
  "properties": {
    "categories": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "color": {"type": ["string", "null"]},
          "completed_tasks": {"type": ["integer", "null"]},
          "total_tasks": {"type": ["integer", "null"]},
          "progress": {"type": ["number", "null"]},
          "tasks": {
            "type": ["array", "null"],
            "items": {
              "type": "object",
              "required": ["id", "name"],
              "properties": {
                "id": {"type": ["integer", "string"]},
                "name": {"type": "string"},
                "description": {"type": ["string", "null"]},
                "priority": {"type": ["string", "null"]},
                "completed": {"type": ["boolean", "null"]},
                "notes": {"type": ["string", "null"]},
                "automation_method": {"type": ["string", "null"]}
              }
            }
          }
        }
      }
    },
    "overall_progress": {"type": ["number", "null"]},
    "completed_tasks": {"type": ["integer", "null"]},
    "total_tasks": {"type": ["integer", "null"]}
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadChecklistSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(checklistSchemaURL, strings.NewReader(checklistSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(checklistSchemaURL)
	})
	return compiledSchema, schemaErr
}

// ValidateChecklist checks a raw security-tasks payload against the
// embedded schema before it is decoded into a snapshot.
func ValidateChecklist(data []byte) error {
	schema, err := loadChecklistSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return schemaError(err)
	}
	return nil
}

func schemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	var msgs []string
	collectSchemaErrors(ve, &msgs)
	if len(msgs) == 0 {
		return fmt.Errorf("invalid checklist payload: %s", ve.Message)
	}
	return fmt.Errorf("invalid checklist payload: %s", strings.Join(msgs, "; "))
}

func collectSchemaErrors(err *jsonschema.ValidationError, msgs *[]string) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*msgs = append(*msgs, loc+": "+err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, msgs)
	}
}
