package tools

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// ToolDefinition binds a tool name and description to its JSON input schema
// and handler. Handlers receive the raw JSON input the model produced and
// return the result text or an error; errors are surfaced to the model as
// is_error tool results, never raised past the loop.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema anthropic.ToolInputSchemaParam
	Function    func(input json.RawMessage) (string, error)
}

// GenerateSchema derives the tool input schema from a Go struct type.
// DoNotReference keeps the schema inline; additionalProperties is disallowed
// so the model cannot smuggle extra arguments past validation.
func GenerateSchema[T any]() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
	}
}
