// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// ValidateSchemas checks that the activity's input and output schemas are
// compilable JSON Schemas. An empty schema is allowed.
func (a *Activity) ValidateSchemas() error {
	for name, schema := range map[string]map[string]interface{}{
		"inputSchema":  a.InputSchema,
		"outputSchema": a.OutputSchema,
	} {
		if len(schema) == 0 {
			continue
		}
		if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
			return fmt.Errorf("activity %s has invalid %s: %w", a.ID, name, err)
		}
	}
	return nil
}
