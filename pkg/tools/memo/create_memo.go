package memo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/entrhq/memos-mcp/pkg/memos"
	"github.com/entrhq/memos-mcp/pkg/tools"
)

// CreateMemoTool creates new memos.
type CreateMemoTool struct {
	client Client
}

// NewCreateMemoTool creates a new CreateMemoTool.
func NewCreateMemoTool(client Client) *CreateMemoTool {
	return &CreateMemoTool{client: client}
}

// Name returns the tool name.
func (t *CreateMemoTool) Name() string {
	return "create_memo"
}

// Description returns the tool description.
func (t *CreateMemoTool) Description() string {
	return "Create a new memo"
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *CreateMemoTool) Schema() *jsonschema.Schema {
	return tools.BaseToolSchema(
		map[string]*jsonschema.Schema{
			"content": tools.StringProperty("The content of the memo."),
			"visibility": tools.EnumProperty("The visibility of the memo.",
				string(memos.VisibilityPrivate), visibilityValues()...),
			"tags": tools.StringArrayProperty("List of tags for the memo"),
		},
		[]string{"content"},
	)
}

// ErrorPrefix names the operation in caller-facing errors.
func (t *CreateMemoTool) ErrorPrefix() string {
	return "Error creating memo"
}

// Execute creates the memo.
func (t *CreateMemoTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		Content    string   `json:"content"`
		Visibility string   `json:"visibility"`
		Tags       []string `json:"tags"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	visibility, err := memos.ParseVisibility(input.Visibility)
	if err != nil {
		return "", nil, err
	}

	created, err := t.client.CreateMemo(ctx, input.Content, input.Tags, visibility)
	if err != nil {
		return "", nil, err
	}

	id := created.ID
	if id == "" {
		id = created.Name
	}

	metadata := map[string]interface{}{
		"memo":       created.Name,
		"visibility": string(visibility),
		"tag_count":  len(input.Tags),
	}
	return "Memo created: " + id, metadata, nil
}
