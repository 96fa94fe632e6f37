package memos

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	// SearchPageSize is the number of memos a search returns.
	SearchPageSize = 20
	// DefaultListPageSize is used when ListMemos is called with a non-positive size.
	DefaultListPageSize = 10
)

// GetUser returns the user the API key authenticates as.
func (c *Client) GetUser(ctx context.Context) (_ *User, err error) {
	ctx, span := c.startSpan(ctx, "GetUser", http.MethodPost, "/auth/status")
	defer func() { endSpan(span, err) }()

	raw, err := c.do(ctx, http.MethodPost, "/auth/status", nil, nil)
	if err != nil {
		return nil, wrapError("getting user details", err)
	}
	if isEmptyPayload(raw) {
		return nil, wrapError("getting user details", errors.New("could not retrieve user details from auth status"))
	}

	var u apiUser
	if err := decodeJSON(raw, &u); err != nil {
		return nil, wrapError("getting user details", err)
	}
	user := u.toUser()
	return &user, nil
}

// GetUserID returns the resource name ("users/<id>") of the authenticated user.
func (c *Client) GetUserID(ctx context.Context) (string, error) {
	user, err := c.GetUser(ctx)
	if err != nil {
		return "", wrapError("getting user ID", err)
	}
	if user.Name == "" {
		return "", wrapError("getting user ID", errors.New("could not retrieve user ID from user details"))
	}
	return user.Name, nil
}

// SearchMemos returns up to SearchPageSize of the authenticated user's memos
// whose content contains keyword. An empty state searches without a state
// filter. The result is never nil.
func (c *Client) SearchMemos(ctx context.Context, keyword string, state State) (_ []Memo, err error) {
	ctx, span := c.startSpan(ctx, "SearchMemos", http.MethodGet, "/{user}/memos")
	defer func() { endSpan(span, err) }()

	userID, err := c.GetUserID(ctx)
	if err != nil {
		return nil, wrapError("searching memos", err)
	}

	query := url.Values{}
	query.Set("filter", ContentContains(keyword))
	query.Set("pageSize", strconv.Itoa(SearchPageSize))
	switch state {
	case StateNormal, StateArchived:
		query.Set("state", string(state))
	case "":
	default:
		return nil, wrapError("searching memos", errors.New("invalid state "+strconv.Quote(string(state))))
	}

	raw, err := c.do(ctx, http.MethodGet, "/"+userID+"/memos", query, nil)
	if err != nil {
		return nil, wrapError("searching memos", err)
	}

	var resp listMemosResponse
	if err := decodeJSON(raw, &resp); err != nil {
		return nil, wrapError("searching memos", err)
	}
	return toMemos(resp.Memos), nil
}

// CreateMemo creates a memo. Tags are appended to the content as a trailing
// line separated by a blank line; the service extracts them from the text.
// An empty visibility defaults to VisibilityPrivate.
func (c *Client) CreateMemo(ctx context.Context, content string, tags []string, visibility Visibility) (_ *Memo, err error) {
	ctx, span := c.startSpan(ctx, "CreateMemo", http.MethodPost, "/memos")
	defer func() { endSpan(span, err) }()

	switch visibility {
	case VisibilityPublic, VisibilityProtected, VisibilityPrivate:
	case "":
		visibility = VisibilityPrivate
	default:
		return nil, wrapError("creating memo", errors.New("invalid visibility "+strconv.Quote(string(visibility))))
	}

	raw, err := c.do(ctx, http.MethodPost, "/memos", nil, createMemoRequest{
		Content:    FormatContent(content, tags),
		Visibility: visibility,
	})
	if err != nil {
		return nil, wrapError("creating memo", err)
	}

	var m apiMemo
	if err := decodeJSON(raw, &m); err != nil {
		return nil, wrapError("creating memo", err)
	}
	memo := m.toMemo()
	return &memo, nil
}

// FormatContent returns the memo body sent for content with tags appended.
func FormatContent(content string, tags []string) string {
	if len(tags) == 0 {
		return content
	}
	return content + "\n\n" + strings.Join(tags, " ")
}

// GetMemo fetches a memo by bare id or by resource name.
func (c *Client) GetMemo(ctx context.Context, id string) (_ *Memo, err error) {
	ctx, span := c.startSpan(ctx, "GetMemo", http.MethodGet, "/memos/{id}")
	defer func() { endSpan(span, err) }()

	bare := strings.TrimSpace(strings.TrimPrefix(id, MemoNamePrefix))
	if bare == "" {
		return nil, wrapError("getting memo", errors.New("memo id is required"))
	}

	raw, err := c.do(ctx, http.MethodGet, "/"+MemoNamePrefix+url.PathEscape(bare), nil, nil)
	if err != nil {
		return nil, wrapError("getting memo", err)
	}

	var m apiMemo
	if err := decodeJSON(raw, &m); err != nil {
		return nil, wrapError("getting memo", err)
	}
	if m.Name == "" {
		return nil, wrapError("getting memo", errors.New("could not retrieve memo"))
	}
	memo := m.toMemo()
	return &memo, nil
}

// ListMemos returns one page of memos. pageToken is the NextPageToken of the
// previous page, or empty for the first page.
func (c *Client) ListMemos(ctx context.Context, pageSize int, pageToken string) (_ *MemoPage, err error) {
	ctx, span := c.startSpan(ctx, "ListMemos", http.MethodGet, "/memos")
	defer func() { endSpan(span, err) }()

	page, err := c.listMemos(ctx, pageSize, pageToken)
	if err != nil {
		return nil, wrapError("listing memos", err)
	}
	return page, nil
}

func (c *Client) listMemos(ctx context.Context, pageSize int, pageToken string) (*MemoPage, error) {
	if pageSize <= 0 {
		pageSize = DefaultListPageSize
	}
	query := url.Values{}
	query.Set("pageSize", strconv.Itoa(pageSize))
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	raw, err := c.do(ctx, http.MethodGet, "/memos", query, nil)
	if err != nil {
		return nil, err
	}

	var resp listMemosResponse
	if err := decodeJSON(raw, &resp); err != nil {
		return nil, err
	}
	return &MemoPage{
		Memos:         toMemos(resp.Memos),
		NextPageToken: resp.NextPageToken,
	}, nil
}

// ListMemoTags returns tag usage counts under parent for memos with the given
// visibility. Empty arguments default to AllMemosParent and
// VisibilityPrivate. The result is never nil.
func (c *Client) ListMemoTags(ctx context.Context, parent string, visibility Visibility) (_ TagAmounts, err error) {
	ctx, span := c.startSpan(ctx, "ListMemoTags", http.MethodGet, "/{parent}/tags")
	defer func() { endSpan(span, err) }()

	if parent == "" {
		parent = AllMemosParent
	}
	switch visibility {
	case VisibilityPublic, VisibilityProtected, VisibilityPrivate:
	case "":
		visibility = VisibilityPrivate
	default:
		return nil, wrapError("listing memo tags", errors.New("invalid visibility "+strconv.Quote(string(visibility))))
	}

	query := url.Values{}
	query.Set("filter", VisibilityIn(visibility))

	raw, err := c.do(ctx, http.MethodGet, "/"+strings.TrimPrefix(parent, "/")+"/tags", query, nil)
	if err != nil {
		return nil, wrapError("listing memo tags", err)
	}

	var resp listMemoTagsResponse
	if err := decodeJSON(raw, &resp); err != nil {
		return nil, wrapError("listing memo tags", err)
	}
	if resp.TagAmounts == nil {
		return TagAmounts{}, nil
	}
	return TagAmounts(resp.TagAmounts), nil
}

// CheckConnection verifies the service is reachable and the API key is
// accepted by fetching a single memo and discarding it.
func (c *Client) CheckConnection(ctx context.Context) (err error) {
	ctx, span := c.startSpan(ctx, "CheckConnection", http.MethodGet, "/memos")
	defer func() { endSpan(span, err) }()

	if _, err := c.listMemos(ctx, 1, ""); err != nil {
		return wrapError("checking connection", err)
	}
	return nil
}
