package memo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/entrhq/memos-mcp/pkg/memos"
	"github.com/entrhq/memos-mcp/pkg/tools"
)

// Client is the subset of *memos.Client the tools depend on.
type Client interface {
	GetUser(ctx context.Context) (*memos.User, error)
	SearchMemos(ctx context.Context, keyword string, state memos.State) ([]memos.Memo, error)
	CreateMemo(ctx context.Context, content string, tags []string, visibility memos.Visibility) (*memos.Memo, error)
	GetMemo(ctx context.Context, id string) (*memos.Memo, error)
	ListMemos(ctx context.Context, pageSize int, pageToken string) (*memos.MemoPage, error)
	ListMemoTags(ctx context.Context, parent string, visibility memos.Visibility) (memos.TagAmounts, error)
}

// All returns every memo tool backed by client.
func All(client Client) []tools.Tool {
	return []tools.Tool{
		NewGetUserTool(client),
		NewSearchMemoTool(client),
		NewCreateMemoTool(client),
		NewGetMemoTool(client),
		NewListMemoTagsTool(client),
		NewListMemoTool(client),
	}
}

// memoSummary is the projection of a memo returned by listing tools.
type memoSummary struct {
	Name        string           `json:"name"`
	State       memos.State      `json:"state"`
	Creator     string           `json:"creator"`
	DisplayTime string           `json:"displayTime"`
	Visibility  memos.Visibility `json:"visibility"`
	Tags        []string         `json:"tags"`
	Pinned      bool             `json:"pinned"`
	Content     string           `json:"content"`
}

func summarize(m memos.Memo) memoSummary {
	s := memoSummary{
		Name:       m.Name,
		State:      m.State,
		Creator:    m.Creator,
		Visibility: m.Visibility,
		Tags:       m.Tags,
		Pinned:     m.Pinned,
		Content:    m.Content,
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if !m.DisplayTime.IsZero() {
		s.DisplayTime = m.DisplayTime.Format(time.RFC3339Nano)
	}
	return s
}

func summarizeAll(list []memos.Memo) []memoSummary {
	out := make([]memoSummary, 0, len(list))
	for _, m := range list {
		out = append(out, summarize(m))
	}
	return out
}

func visibilityValues() []string {
	values := make([]string, 0, 3)
	for _, v := range memos.Visibilities() {
		values = append(values, string(v))
	}
	return values
}

func stateValues() []string {
	values := make([]string, 0, 2)
	for _, s := range memos.States() {
		values = append(values, string(s))
	}
	return values
}

func renderJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
