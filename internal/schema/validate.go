package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/papers-tracker/internal/common"
)

// Validate validates "data" against "schemaMap".
func Validate(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return common.NewAppError("INVALID_JSON", "unmarshal data", fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}
	if err := schema.Validate(v); err != nil {
		return common.NewAppError("SCHEMA_MISMATCH", "json does not match schema", fmt.Errorf("%w: %v", common.ErrValidation, err))
	}
	return nil
}
