package memo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/entrhq/memos-mcp/pkg/memos"
	"github.com/entrhq/memos-mcp/pkg/tools"
)

// SearchMemoTool searches the user's memos by content keyword.
type SearchMemoTool struct {
	client Client
}

// NewSearchMemoTool creates a new SearchMemoTool.
func NewSearchMemoTool(client Client) *SearchMemoTool {
	return &SearchMemoTool{client: client}
}

// Name returns the tool name.
func (t *SearchMemoTool) Name() string {
	return "search_memo"
}

// Description returns the tool description.
func (t *SearchMemoTool) Description() string {
	return "Search for memos. By default, no state selection is required unless specified by the user."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *SearchMemoTool) Schema() *jsonschema.Schema {
	return tools.BaseToolSchema(
		map[string]*jsonschema.Schema{
			"key_word": tools.StringProperty("The key words to search for in the memo content."),
			"state": tools.EnumProperty("The state of the memos to list.",
				string(memos.StateNormal), stateValues()...),
		},
		[]string{"key_word"},
	)
}

// ErrorPrefix names the operation in caller-facing errors.
func (t *SearchMemoTool) ErrorPrefix() string {
	return "Error searching memos"
}

// Execute searches for memos.
func (t *SearchMemoTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input struct {
		KeyWord string `json:"key_word"`
		State   string `json:"state"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	state, err := memos.ParseState(input.State)
	if err != nil {
		return "", nil, err
	}

	results, err := t.client.SearchMemos(ctx, input.KeyWord, state)
	if err != nil {
		return "", nil, err
	}

	rendered, err := renderJSON(summarizeAll(results))
	if err != nil {
		return "", nil, err
	}

	metadata := map[string]interface{}{
		"result_count": len(results),
		"key_word":     input.KeyWord,
		"state":        string(state),
	}
	return "Search results: " + rendered, metadata, nil
}
