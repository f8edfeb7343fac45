package rules

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.yaml
var schemaFS embed.FS

// registry holds pre-compiled schemas for the known rule tables.
var registry = make(map[string]*gojsonschema.Schema)

func init() {
	known := map[string]string{
		"props-global": "schemas/props-global-v1.0.0.yaml",
		"scheduler":    "schemas/scheduler-v1.0.0.yaml",
	}
	for name, path := range known {
		schemaBytes, err := schemaFS.ReadFile(path)
		if err != nil {
			panic(fmt.Sprintf("embedded schema %s missing: %v", path, err))
		}

		// Convert YAML to JSON for gojsonschema
		var schemaData interface{}
		if err := yaml.Unmarshal(schemaBytes, &schemaData); err != nil {
			panic(fmt.Sprintf("embedded schema %s is not valid YAML: %v", path, err))
		}
		jsonBytes, err := json.Marshal(schemaData)
		if err != nil {
			panic(fmt.Sprintf("embedded schema %s did not convert to JSON: %v", path, err))
		}

		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(jsonBytes))
		if err != nil {
			panic(fmt.Sprintf("embedded schema %s did not compile: %v", path, err))
		}
		registry[name] = schema
	}
}

// validate checks parsed table data against the named embedded schema.
func validate(data interface{}, schemaName string) error {
	schema, ok := registry[schemaName]
	if !ok {
		return fmt.Errorf("schema %s not found in registry", schemaName)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, verr := range result.Errors() {
			field := verr.Field()
			if field == "" {
				field = "root"
			}
			msgs = append(msgs, fmt.Sprintf("%s: %s", field, verr.Description()))
		}
		return fmt.Errorf("table does not match %s schema:\n%s", schemaName, strings.Join(msgs, "\n"))
	}
	return nil
}
