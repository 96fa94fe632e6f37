package memo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/entrhq/memos-mcp/pkg/memos"
	"github.com/entrhq/memos-mcp/pkg/tools"
)

const maxListPageSize = 1000

// ListMemoTool lists memos one page at a time.
type ListMemoTool struct {
	client Client
}

// NewListMemoTool creates a new ListMemoTool.
func NewListMemoTool(client Client) *ListMemoTool {
	return &ListMemoTool{client: client}
}

// Name returns the tool name.
func (t *ListMemoTool) Name() string {
	return "list_memo"
}

// Description returns the tool description.
func (t *ListMemoTool) Description() string {
	return "List memos page by page. Pass the returned nextPageToken as page_token to fetch the next page; an empty token means there are no more pages."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *ListMemoTool) Schema() *jsonschema.Schema {
	return tools.BaseToolSchema(
		map[string]*jsonschema.Schema{
			"page_size": tools.IntegerProperty("The number of memos to return.",
				1, maxListPageSize, memos.DefaultListPageSize),
			"page_token": tools.StringProperty("The nextPageToken of the previous page."),
		},
		nil,
	)
}

// ErrorPrefix names the operation in caller-facing errors.
func (t *ListMemoTool) ErrorPrefix() string {
	return "Error listing memos"
}

// Execute lists one page of memos.
func (t *ListMemoTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		PageSize  int    `json:"page_size"`
		PageToken string `json:"page_token"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	page, err := t.client.ListMemos(ctx, input.PageSize, input.PageToken)
	if err != nil {
		return "", nil, err
	}

	rendered, err := renderJSON(struct {
		Memos         []memoSummary `json:"memos"`
		NextPageToken string        `json:"nextPageToken"`
	}{
		Memos:         summarizeAll(page.Memos),
		NextPageToken: page.NextPageToken,
	})
	if err != nil {
		return "", nil, err
	}

	metadata := map[string]interface{}{
		"result_count": len(page.Memos),
		"has_more":     page.NextPageToken != "",
	}
	return "Memos: " + rendered, metadata, nil
}
