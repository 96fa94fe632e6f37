package memos

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// MemoNamePrefix is the resource-type segment of a memo resource name.
	MemoNamePrefix = "memos/"
	// UserNamePrefix is the resource-type segment of a user resource name.
	UserNamePrefix = "users/"
	// AllMemosParent addresses the tag aggregation over every memo.
	AllMemosParent = "memos/-"
)

// Visibility is the access scope of a memo.
type Visibility string

const (
	VisibilityPublic    Visibility = "PUBLIC"
	VisibilityProtected Visibility = "PROTECTED"
	VisibilityPrivate   Visibility = "PRIVATE"
)

// Visibilities lists every visibility in the order the service documents them.
func Visibilities() []Visibility {
	return []Visibility{VisibilityPublic, VisibilityProtected, VisibilityPrivate}
}

// ParseVisibility converts s into a Visibility. Matching is case-insensitive.
func ParseVisibility(s string) (Visibility, error) {
	switch v := Visibility(strings.ToUpper(strings.TrimSpace(s))); v {
	case VisibilityPublic, VisibilityProtected, VisibilityPrivate:
		return v, nil
	default:
		return "", fmt.Errorf("invalid visibility %q (must be one of PUBLIC, PROTECTED, PRIVATE)", s)
	}
}

// State is the lifecycle state of a memo.
type State string

const (
	StateNormal   State = "NORMAL"
	StateArchived State = "ARCHIVED"
)

// States lists every lifecycle state.
func States() []State {
	return []State{StateNormal, StateArchived}
}

// ParseState converts s into a State. Matching is case-insensitive.
func ParseState(s string) (State, error) {
	switch st := State(strings.ToUpper(strings.TrimSpace(s))); st {
	case StateNormal, StateArchived:
		return st, nil
	default:
		return "", fmt.Errorf("invalid state %q (must be one of NORMAL, ARCHIVED)", s)
	}
}

// Memo is a note as returned by the service.
type Memo struct {
	Name        string     `json:"name"`
	ID          string     `json:"id"`
	Creator     string     `json:"creator,omitempty"`
	CreateTime  time.Time  `json:"createTime,omitzero"`
	UpdateTime  time.Time  `json:"updateTime,omitzero"`
	DisplayTime time.Time  `json:"displayTime,omitzero"`
	Content     string     `json:"content"`
	Visibility  Visibility `json:"visibility"`
	Pinned      bool       `json:"pinned"`
	Resources   []string   `json:"resources,omitempty"`
	Relations   []Relation `json:"relations,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	State       State      `json:"state,omitempty"`
}

// Relation links a memo to another memo.
type Relation struct {
	Memo        string `json:"memo"`
	RelatedMemo string `json:"relatedMemo"`
	Type        string `json:"type"`
}

// User is the identity behind the API key.
type User struct {
	Name     string `json:"name"`
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// MemoPage is one page of a memo listing.
// NextPageToken is empty when there are no further pages.
type MemoPage struct {
	Memos         []Memo `json:"memos"`
	NextPageToken string `json:"nextPageToken"`
}

// TagAmounts maps a tag to the number of memos using it.
type TagAmounts map[string]int

// MemoName normalizes a bare memo id or a full resource name to "memos/<id>".
func MemoName(id string) string {
	if strings.HasPrefix(id, MemoNamePrefix) {
		return id
	}
	return MemoNamePrefix + id
}

// apiMemo is the service's memo representation. Fields this package does not
// consume are kept in Extra.
type apiMemo struct {
	Name        string        `json:"name"`
	UID         string        `json:"uid"`
	ID          flexID        `json:"id"`
	Creator     string        `json:"creator"`
	CreateTime  string        `json:"createTime"`
	UpdateTime  string        `json:"updateTime"`
	DisplayTime string        `json:"displayTime"`
	Content     string        `json:"content"`
	Visibility  string        `json:"visibility"`
	Pinned      bool          `json:"pinned"`
	Resources   []apiResource `json:"resources"`
	Relations   []apiRelation `json:"relations"`
	Tags        []string      `json:"tags"`
	State       string        `json:"state"`

	Extra map[string]json.RawMessage `json:"-"`
}

type apiResource struct {
	Name string `json:"name"`
}

type apiRelation struct {
	Memo        apiMemoRef `json:"memo"`
	RelatedMemo apiMemoRef `json:"relatedMemo"`
	Type        string     `json:"type"`
}

type apiMemoRef struct {
	Name string `json:"name"`
}

var apiMemoFields = []string{
	"name", "uid", "id", "creator", "createTime", "updateTime", "displayTime",
	"content", "visibility", "pinned", "resources", "relations", "tags", "state",
}

func (m *apiMemo) UnmarshalJSON(data []byte) error {
	type plain apiMemo
	if err := json.Unmarshal(data, (*plain)(m)); err != nil {
		return err
	}
	extra, err := extraFields(data, apiMemoFields)
	if err != nil {
		return err
	}
	m.Extra = extra
	return nil
}

func (m apiMemo) toMemo() Memo {
	memo := Memo{
		Name:        m.Name,
		ID:          m.UID,
		Creator:     m.Creator,
		CreateTime:  parseTime(m.CreateTime),
		UpdateTime:  parseTime(m.UpdateTime),
		DisplayTime: parseTime(m.DisplayTime),
		Content:     m.Content,
		Visibility:  Visibility(m.Visibility),
		Pinned:      m.Pinned,
		Tags:        m.Tags,
		State:       State(m.State),
	}
	if memo.ID == "" {
		memo.ID = string(m.ID)
	}
	if memo.ID == "" {
		memo.ID = strings.TrimPrefix(m.Name, MemoNamePrefix)
	}
	for _, r := range m.Resources {
		memo.Resources = append(memo.Resources, r.Name)
	}
	for _, r := range m.Relations {
		memo.Relations = append(memo.Relations, Relation{
			Memo:        r.Memo.Name,
			RelatedMemo: r.RelatedMemo.Name,
			Type:        r.Type,
		})
	}
	return memo
}

// apiUser is the service's user representation.
type apiUser struct {
	Name     string `json:"name"`
	ID       flexID `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Role     string `json:"role"`

	Extra map[string]json.RawMessage `json:"-"`
}

var apiUserFields = []string{"name", "id", "username", "nickname", "email", "role"}

func (u *apiUser) UnmarshalJSON(data []byte) error {
	type plain apiUser
	if err := json.Unmarshal(data, (*plain)(u)); err != nil {
		return err
	}
	extra, err := extraFields(data, apiUserFields)
	if err != nil {
		return err
	}
	u.Extra = extra
	return nil
}

func (u apiUser) toUser() User {
	user := User{
		Name:     u.Name,
		ID:       string(u.ID),
		Username: u.Username,
		Nickname: u.Nickname,
		Email:    u.Email,
		Role:     u.Role,
	}
	if user.ID == "" {
		user.ID = strings.TrimPrefix(u.Name, UserNamePrefix)
	}
	return user
}

type listMemosResponse struct {
	Memos         []apiMemo `json:"memos"`
	NextPageToken string    `json:"nextPageToken"`
}

type listMemoTagsResponse struct {
	TagAmounts map[string]int `json:"tagAmounts"`
}

type createMemoRequest struct {
	Content    string     `json:"content"`
	Visibility Visibility `json:"visibility"`
}

// flexID accepts an identifier encoded as either a JSON string or number.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	if string(data) == "null" {
		return nil
	}
	*id = flexID(data)
	return nil
}

func toMemos(in []apiMemo) []Memo {
	out := make([]Memo, 0, len(in))
	for _, m := range in {
		out = append(out, m.toMemo())
	}
	return out
}

// extraFields returns the members of the JSON object data not listed in known.
func extraFields(data []byte, known []string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
