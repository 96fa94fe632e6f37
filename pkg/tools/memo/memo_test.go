package memo

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/memos-mcp/pkg/memos"
	"github.com/entrhq/memos-mcp/pkg/tools"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) GetUser(ctx context.Context) (*memos.User, error) {
	args := m.Called(ctx)
	user, _ := args.Get(0).(*memos.User)
	return user, args.Error(1)
}

func (m *mockClient) SearchMemos(ctx context.Context, keyword string, state memos.State) ([]memos.Memo, error) {
	args := m.Called(ctx, keyword, state)
	list, _ := args.Get(0).([]memos.Memo)
	return list, args.Error(1)
}

func (m *mockClient) CreateMemo(ctx context.Context, content string, tags []string, visibility memos.Visibility) (*memos.Memo, error) {
	args := m.Called(ctx, content, tags, visibility)
	memo, _ := args.Get(0).(*memos.Memo)
	return memo, args.Error(1)
}

func (m *mockClient) GetMemo(ctx context.Context, id string) (*memos.Memo, error) {
	args := m.Called(ctx, id)
	memo, _ := args.Get(0).(*memos.Memo)
	return memo, args.Error(1)
}

func (m *mockClient) ListMemos(ctx context.Context, pageSize int, pageToken string) (*memos.MemoPage, error) {
	args := m.Called(ctx, pageSize, pageToken)
	page, _ := args.Get(0).(*memos.MemoPage)
	return page, args.Error(1)
}

func (m *mockClient) ListMemoTags(ctx context.Context, parent string, visibility memos.Visibility) (memos.TagAmounts, error) {
	args := m.Called(ctx, parent, visibility)
	tags, _ := args.Get(0).(memos.TagAmounts)
	return tags, args.Error(1)
}

func newRegistry(t *testing.T, client Client) *tools.Registry {
	t.Helper()
	registry, err := tools.NewRegistry()
	require.NoError(t, err)
	for _, tool := range All(client) {
		require.NoError(t, registry.Register(tool))
	}
	return registry
}

func invoke(t *testing.T, registry *tools.Registry, name, args string) (*tools.ToolResult, error) {
	t.Helper()
	return registry.Invoke(context.Background(), name, json.RawMessage(args))
}

func TestAll_Names(t *testing.T) {
	var names []string
	for _, tool := range All(&mockClient{}) {
		names = append(names, tool.Name())
		assert.NotEmpty(t, tool.Description())
		assert.NotEmpty(t, tool.ErrorPrefix())
		assert.Equal(t, "object", tool.Schema().Type)
	}
	assert.Equal(t, []string{"get_user", "search_memo", "create_memo", "get_memo", "list_memo_tags", "list_memo"}, names)
}

func TestGetUserTool(t *testing.T) {
	client := &mockClient{}
	client.On("GetUser", mock.Anything).Return(&memos.User{Name: "users/1", ID: "1", Username: "ada"}, nil)
	registry := newRegistry(t, client)

	result, err := invoke(t, registry, "get_user", `{}`)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Output, "User: "))

	var user memos.User
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(result.Output, "User: ")), &user))
	assert.Equal(t, "users/1", user.Name)
	assert.Equal(t, "ada", user.Username)
	client.AssertExpectations(t)
}

func TestSearchMemoTool(t *testing.T) {
	client := &mockClient{}
	client.On("SearchMemos", mock.Anything, "milk", memos.StateNormal).Return([]memos.Memo{
		{
			Name:        "memos/1",
			State:       memos.StateNormal,
			Creator:     "users/1",
			DisplayTime: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			Visibility:  memos.VisibilityPrivate,
			Pinned:      true,
			Content:     "buy milk",
		},
	}, nil)
	registry := newRegistry(t, client)

	result, err := invoke(t, registry, "search_memo", `{"key_word":"milk"}`)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(result.Output, "Search results: "))

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(result.Output, "Search results: ")), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "memos/1", got[0]["name"])
	assert.Equal(t, "NORMAL", got[0]["state"])
	assert.Equal(t, "users/1", got[0]["creator"])
	assert.Equal(t, "2024-05-01T10:00:00Z", got[0]["displayTime"])
	assert.Equal(t, "PRIVATE", got[0]["visibility"])
	assert.Equal(t, []any{}, got[0]["tags"])
	assert.Equal(t, true, got[0]["pinned"])
	assert.Equal(t, "buy milk", got[0]["content"])
	assert.Equal(t, 1, result.Metadata["result_count"])
	client.AssertExpectations(t)
}

func TestSearchMemoTool_Archived(t *testing.T) {
	client := &mockClient{}
	client.On("SearchMemos", mock.Anything, "old", memos.StateArchived).Return([]memos.Memo{}, nil)
	registry := newRegistry(t, client)

	result, err := invoke(t, registry, "search_memo", `{"key_word":"old","state":"ARCHIVED"}`)
	require.NoError(t, err)
	assert.Equal(t, "Search results: []", result.Output)
	client.AssertExpectations(t)
}

func TestSearchMemoTool_MissingKeyword(t *testing.T) {
	client := &mockClient{}
	registry := newRegistry(t, client)

	_, err := invoke(t, registry, "search_memo", `{"state":"NORMAL"}`)
	require.Error(t, err)

	var validationErr *tools.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "Error searching memos: ")
	client.AssertNotCalled(t, "SearchMemos", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, client.Calls)
}

func TestSearchMemoTool_InvalidState(t *testing.T) {
	client := &mockClient{}
	registry := newRegistry(t, client)

	_, err := invoke(t, registry, "search_memo", `{"key_word":"x","state":"DELETED"}`)
	require.Error(t, err)
	assert.Empty(t, client.Calls)
}

func TestSearchMemoTool_ClientErrorVerbatim(t *testing.T) {
	client := &mockClient{}
	domainErr := &memos.Error{Message: "Error searching memos: request failed with status code 500"}
	client.On("SearchMemos", mock.Anything, "x", memos.StateNormal).Return(nil, domainErr)
	registry := newRegistry(t, client)

	_, err := invoke(t, registry, "search_memo", `{"key_word":"x"}`)
	require.Error(t, err)
	assert.Equal(t, domainErr.Message, err.Error())
}

func TestCreateMemoTool(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMemo", mock.Anything, "hello", []string{"#a", "#b"}, memos.VisibilityPublic).
		Return(&memos.Memo{Name: "memos/abc", ID: "abc"}, nil)
	registry := newRegistry(t, client)

	result, err := invoke(t, registry, "create_memo", `{"content":"hello","tags":["#a","#b"],"visibility":"PUBLIC"}`)
	require.NoError(t, err)
	assert.Equal(t, "Memo created: abc", result.Output)
	assert.Equal(t, "memos/abc", result.Metadata["memo"])
	client.AssertExpectations(t)
}

func TestCreateMemoTool_Defaults(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMemo", mock.Anything, "hello", []string(nil), memos.VisibilityPrivate).
		Return(&memos.Memo{Name: "memos/abc"}, nil)
	registry := newRegistry(t, client)

	result, err := invoke(t, registry, "create_memo", `{"content":"hello"}`)
	require.NoError(t, err)
	assert.Equal(t, "Memo created: memos/abc", result.Output)
	client.AssertExpectations(t)
}

func TestCreateMemoTool_Validation(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{name: "missing content", args: `{"visibility":"PRIVATE"}`},
		{name: "bad visibility", args: `{"content":"x","visibility":"WORKSPACE"}`},
		{name: "tags not strings", args: `{"content":"x","tags":[1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockClient{}
			registry := newRegistry(t, client)

			_, err := invoke(t, registry, "create_memo", tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Error creating memo: invalid arguments")
			assert.Empty(t, client.Calls)
		})
	}
}

func TestGetMemoTool(t *testing.T) {
	client := &mockClient{}
	client.On("GetMemo", mock.Anything, "42").Return(&memos.Memo{
		Name:       "memos/42",
		ID:         "42",
		Content:    "answer",
		Visibility: memos.VisibilityProtected,
	}, nil)
	registry := newRegistry(t, client)

	result, err := invoke(t, registry, "get_memo", `{"name":"42"}`)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(result.Output, "Memo: "))

	var got memos.Memo
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(result.Output, "Memo: ")), &got))
	assert.Equal(t, "answer", got.Content)
	assert.Equal(t, memos.VisibilityProtected, got.Visibility)
}

func TestGetMemoTool_EmptyName(t *testing.T) {
	client := &mockClient{}
	registry := newRegistry(t, client)

	for _, args := range []string{`{"name":""}`, `{}`} {
		_, err := invoke(t, registry, "get_memo", args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Error getting memo: invalid arguments")
	}
	assert.Empty(t, client.Calls)
}

func TestGetMemoTool_NotFound(t *testing.T) {
	client := &mockClient{}
	domainErr := &memos.Error{Message: "Error getting memo: request failed with status code 404"}
	client.On("GetMemo", mock.Anything, "missing").Return(nil, domainErr)
	registry := newRegistry(t, client)

	_, err := invoke(t, registry, "get_memo", `{"name":"missing"}`)
	require.Error(t, err)
	assert.Equal(t, domainErr.Message, err.Error())
}

func TestListMemoTagsTool(t *testing.T) {
	client := &mockClient{}
	client.On("ListMemoTags", mock.Anything, memos.AllMemosParent, memos.VisibilityPrivate).
		Return(memos.TagAmounts{"work": 3, "home": 1, "ideas": 7}, nil)
	registry := newRegistry(t, client)

	result, err := invoke(t, registry, "list_memo_tags", `{}`)
	require.NoError(t, err)
	assert.Equal(t, "home, ideas, work", result.Output)
	assert.Equal(t, 3, result.Metadata["tag_count"])
	client.AssertExpectations(t)
}

func TestListMemoTagsTool_Empty(t *testing.T) {
	client := &mockClient{}
	client.On("ListMemoTags", mock.Anything, "users/1", memos.VisibilityPublic).Return(memos.TagAmounts{}, nil)
	registry := newRegistry(t, client)

	result, err := invoke(t, registry, "list_memo_tags", `{"parent":"users/1","visibility":"PUBLIC"}`)
	require.NoError(t, err)
	assert.Equal(t, "No tags found.", result.Output)
}

func TestListMemoTool(t *testing.T) {
	client := &mockClient{}
	client.On("ListMemos", mock.Anything, memos.DefaultListPageSize, "").Return(&memos.MemoPage{
		Memos:         []memos.Memo{{Name: "memos/1", Content: "first"}},
		NextPageToken: "next",
	}, nil)
	client.On("ListMemos", mock.Anything, 5, "next").Return(&memos.MemoPage{
		Memos: []memos.Memo{{Name: "memos/2", Content: "second"}},
	}, nil)
	registry := newRegistry(t, client)

	result, err := invoke(t, registry, "list_memo", `{}`)
	require.NoError(t, err)
	var first struct {
		Memos         []memoSummary `json:"memos"`
		NextPageToken string        `json:"nextPageToken"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(result.Output, "Memos: ")), &first))
	require.Len(t, first.Memos, 1)
	assert.Equal(t, "memos/1", first.Memos[0].Name)
	assert.Equal(t, "next", first.NextPageToken)
	assert.Equal(t, true, result.Metadata["has_more"])

	result, err = invoke(t, registry, "list_memo", `{"page_size":5,"page_token":"next"}`)
	require.NoError(t, err)
	assert.Contains(t, result.Output, `"nextPageToken":""`)
	assert.Equal(t, false, result.Metadata["has_more"])
	client.AssertExpectations(t)
}

func TestListMemoTool_PageSizeBounds(t *testing.T) {
	client := &mockClient{}
	registry := newRegistry(t, client)

	_, err := invoke(t, registry, "list_memo", `{"page_size":0}`)
	require.Error(t, err)
	_, err = invoke(t, registry, "list_memo", `{"page_size":5000}`)
	require.Error(t, err)
	assert.Empty(t, client.Calls)
}

func TestSummarize(t *testing.T) {
	s := summarize(memos.Memo{Name: "memos/1", Tags: []string{"a"}})
	assert.Equal(t, []string{"a"}, s.Tags)
	assert.Equal(t, "", s.DisplayTime)

	s = summarize(memos.Memo{Name: "memos/2"})
	assert.NotNil(t, s.Tags)
}

func TestSummarize_KeepsSubSecondDisplayTime(t *testing.T) {
	s := summarize(memos.Memo{
		Name:        "memos/3",
		DisplayTime: time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC),
	})
	assert.Equal(t, "2024-05-01T10:00:00.123456Z", s.DisplayTime)
}
