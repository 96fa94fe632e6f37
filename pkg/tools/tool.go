package tools

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// Tool represents a named operation exposed to an MCP client.
//
// Arguments reach Execute only after they have been validated against
// Schema and had the schema's defaults applied, so implementations can
// unmarshal them straight into their input struct.
type Tool interface {
	// Name returns the unique identifier for this tool (e.g., "search_memo")
	Name() string

	// Description returns a human-readable description of what this tool does
	Description() string

	// Schema returns the JSON schema for this tool's input parameters.
	// It must describe a JSON object.
	Schema() *jsonschema.Schema

	// ErrorPrefix names the operation in caller-facing errors that did not
	// originate from the Memos client, e.g. "Error searching memos".
	ErrorPrefix() string

	// Execute runs the tool with validated JSON arguments.
	// Returns: (result string, metadata map, error)
	// Metadata is optional and can be nil; it is only used for logging.
	Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error)
}

// ToolResult represents the result of a tool execution with optional metadata.
type ToolResult struct {
	Output   string                 // The main output/result message
	Metadata map[string]interface{} // Optional metadata about the execution
}

// BaseToolSchema creates a common JSON schema structure for a tool
// with the given properties and required fields
func BaseToolSchema(properties map[string]*jsonschema.Schema, required []string) *jsonschema.Schema {
	if properties == nil {
		properties = map[string]*jsonschema.Schema{}
	}
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
	}
	if len(required) > 0 {
		schema.Required = required
	}
	return schema
}

// StringProperty describes a free-form string parameter.
func StringProperty(description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: description,
	}
}

// StringWithDefault describes an optional string parameter with a default value.
func StringWithDefault(description, def string) *jsonschema.Schema {
	s := StringProperty(description)
	s.Default = mustJSON(def)
	return s
}

// EnumProperty describes a string parameter restricted to values.
// An empty def leaves the parameter without a default.
func EnumProperty(description, def string, values ...string) *jsonschema.Schema {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	s := &jsonschema.Schema{
		Type:        "string",
		Description: description,
		Enum:        enum,
	}
	if def != "" {
		s.Default = mustJSON(def)
	}
	return s
}

// StringArrayProperty describes a list of strings.
func StringArrayProperty(description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "array",
		Description: description,
		Items:       &jsonschema.Schema{Type: "string"},
	}
}

// IntegerProperty describes a bounded integer parameter with a default value.
func IntegerProperty(description string, minimum, maximum, def int) *jsonschema.Schema {
	lo, hi := float64(minimum), float64(maximum)
	return &jsonschema.Schema{
		Type:        "integer",
		Description: description,
		Minimum:     &lo,
		Maximum:     &hi,
		Default:     mustJSON(def),
	}
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
