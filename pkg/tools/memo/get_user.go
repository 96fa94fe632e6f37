package memo

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/entrhq/memos-mcp/pkg/tools"
)

// GetUserTool reports the user behind the configured API key.
type GetUserTool struct {
	client Client
}

// NewGetUserTool creates a new GetUserTool.
func NewGetUserTool(client Client) *GetUserTool {
	return &GetUserTool{client: client}
}

// Name returns the tool name.
func (t *GetUserTool) Name() string {
	return "get_user"
}

// Description returns the tool description.
func (t *GetUserTool) Description() string {
	return "Get user information"
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *GetUserTool) Schema() *jsonschema.Schema {
	return tools.BaseToolSchema(nil, nil)
}

// ErrorPrefix names the operation in caller-facing errors.
func (t *GetUserTool) ErrorPrefix() string {
	return "Error retrieving user details"
}

// Execute fetches the user.
func (t *GetUserTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	user, err := t.client.GetUser(ctx)
	if err != nil {
		return "", nil, err
	}

	rendered, err := renderJSON(user)
	if err != nil {
		return "", nil, err
	}

	return "User: " + rendered, map[string]interface{}{"user": user.Name}, nil
}
