package memo

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/entrhq/memos-mcp/pkg/memos"
	"github.com/entrhq/memos-mcp/pkg/tools"
)

// ListMemoTagsTool lists the tags in use across memos.
type ListMemoTagsTool struct {
	client Client
}

// NewListMemoTagsTool creates a new ListMemoTagsTool.
func NewListMemoTagsTool(client Client) *ListMemoTagsTool {
	return &ListMemoTagsTool{client: client}
}

// Name returns the tool name.
func (t *ListMemoTagsTool) Name() string {
	return "list_memo_tags"
}

// Description returns the tool description.
func (t *ListMemoTagsTool) Description() string {
	return "List all existing memo tags"
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *ListMemoTagsTool) Schema() *jsonschema.Schema {
	return tools.BaseToolSchema(
		map[string]*jsonschema.Schema{
			"parent": tools.StringWithDefault(
				`The parent resource whose memos are counted. "memos/-" means all memos.`,
				memos.AllMemosParent),
			"visibility": tools.EnumProperty("Only count memos with this visibility.",
				string(memos.VisibilityPrivate), visibilityValues()...),
		},
		nil,
	)
}

// ErrorPrefix names the operation in caller-facing errors.
func (t *ListMemoTagsTool) ErrorPrefix() string {
	return "Error listing memo tags"
}

// Execute lists the tags. Usage counts are not part of the output.
func (t *ListMemoTagsTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		Parent     string `json:"parent"`
		Visibility string `json:"visibility"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	visibility, err := memos.ParseVisibility(input.Visibility)
	if err != nil {
		return "", nil, err
	}

	amounts, err := t.client.ListMemoTags(ctx, input.Parent, visibility)
	if err != nil {
		return "", nil, err
	}

	tags := slices.Sorted(maps.Keys(amounts))
	metadata := map[string]interface{}{
		"tag_count":  len(tags),
		"parent":     input.Parent,
		"visibility": string(visibility),
	}
	if len(tags) == 0 {
		return "No tags found.", metadata, nil
	}
	return strings.Join(tags, ", "), metadata, nil
}
