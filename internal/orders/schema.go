package orders

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed orders.schema.json
var ordersSchemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("orders.schema.json", strings.NewReader(ordersSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile("orders.schema.json")
	})
	return schema, schemaErr
}

// CheckSchema validates a YAML submission against the orders schema before the
// command-level parser runs. Text-format submissions skip this check.
func CheckSchema(content []byte) error {
	var v any
	if err := yaml.Unmarshal(content, &v); err != nil {
		return fmt.Errorf("yaml parse error: %w", err)
	}
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile orders schema: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("orders schema: %w", err)
	}
	return nil
}
