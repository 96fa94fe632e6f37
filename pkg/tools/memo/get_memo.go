package memo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/entrhq/memos-mcp/pkg/tools"
)

// GetMemoTool fetches a single memo.
type GetMemoTool struct {
	client Client
}

// NewGetMemoTool creates a new GetMemoTool.
func NewGetMemoTool(client Client) *GetMemoTool {
	return &GetMemoTool{client: client}
}

// Name returns the tool name.
func (t *GetMemoTool) Name() string {
	return "get_memo"
}

// Description returns the tool description.
func (t *GetMemoTool) Description() string {
	return "Get a memo"
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *GetMemoTool) Schema() *jsonschema.Schema {
	name := tools.StringProperty("The name of the memo.")
	name.MinLength = jsonschema.Ptr(1)
	return tools.BaseToolSchema(
		map[string]*jsonschema.Schema{
			"name": name,
		},
		[]string{"name"},
	)
}

// ErrorPrefix names the operation in caller-facing errors.
func (t *GetMemoTool) ErrorPrefix() string {
	return "Error getting memo"
}

// Execute fetches the memo.
func (t *GetMemoTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	m, err := t.client.GetMemo(ctx, input.Name)
	if err != nil {
		return "", nil, err
	}

	rendered, err := renderJSON(m)
	if err != nil {
		return "", nil, err
	}
	return "Memo: " + rendered, map[string]interface{}{"memo": m.Name}, nil
}
